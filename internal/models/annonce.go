package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TypeBien string

const (
	BienAppartement     TypeBien = "APPARTEMENT"
	BienVilla           TypeBien = "VILLA"
	BienStudio          TypeBien = "STUDIO"
	BienDuplex          TypeBien = "DUPLEX"
	BienPenthouse       TypeBien = "PENTHOUSE"
	BienMaison          TypeBien = "MAISON"
	BienTerrain         TypeBien = "TERRAIN"
	BienLocalCommercial TypeBien = "LOCAL_COMMERCIAL"
	BienBureau          TypeBien = "BUREAU"
	BienEntrepot        TypeBien = "ENTREPOT"
)

// TypesBien lists every property type, used by the public /annonces/types endpoint.
var TypesBien = []TypeBien{
	BienAppartement, BienVilla, BienStudio, BienDuplex, BienPenthouse,
	BienMaison, BienTerrain, BienLocalCommercial, BienBureau, BienEntrepot,
}

type TypeTransaction string

const (
	TransactionVente    TypeTransaction = "VENTE"
	TransactionLocation TypeTransaction = "LOCATION"
)

type StatusAnnonce string

const (
	AnnonceActive    StatusAnnonce = "ACTIVE"
	AnnonceInactive  StatusAnnonce = "INACTIVE"
	AnnonceVendu     StatusAnnonce = "VENDU"
	AnnonceLoue      StatusAnnonce = "LOUE"
	AnnonceExpire    StatusAnnonce = "EXPIRE"
	AnnonceBrouillon StatusAnnonce = "BROUILLON"
)

// Annonce is a real-estate listing.
type Annonce struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Titre            string          `gorm:"size:200;not null" json:"titre"`
	Description      string          `gorm:"type:text;not null" json:"description"`
	Prix             float64         `gorm:"not null" json:"prix"`
	TypeBien         TypeBien        `gorm:"size:30;not null;index" json:"typeBien"`
	TypeTransaction  TypeTransaction `gorm:"size:20;not null;index" json:"typeTransaction"`
	Adresse          string          `gorm:"size:500;not null" json:"adresse"`
	Ville            string          `gorm:"size:100;not null;index" json:"ville"`
	CodePostal       string          `gorm:"size:4;not null" json:"codePostal"`
	Surface          *int            `json:"surface"`
	NombreChambres   *int            `json:"nombreChambres"`
	NombreSallesBain *int            `json:"nombreSallesBain"`
	Etage            *int            `json:"etage"`
	Garage           *bool           `json:"garage"`
	Jardin           *bool           `json:"jardin"`
	Piscine          *bool           `json:"piscine"`
	Climatisation    *bool           `json:"climatisation"`
	Ascenseur        *bool           `json:"ascenseur"`
	Status           StatusAnnonce   `gorm:"size:20;not null;default:'ACTIVE';index" json:"status"`
	Images           datatypes.JSON  `json:"images"`
	CreateurID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"createurId"`
	Createur         *User           `gorm:"foreignKey:CreateurID" json:"-"`
	NomContact       string          `gorm:"size:100;not null" json:"nomContact"`
	TelephoneContact string          `gorm:"size:8;not null" json:"telephoneContact"`
	EmailContact     string          `gorm:"size:150" json:"emailContact"`
	Vues             int             `gorm:"not null;default:0" json:"vues"`
	Favoris          int             `gorm:"not null;default:0" json:"favoris"`
	DateCreation     time.Time       `gorm:"autoCreateTime;index" json:"dateCreation"`
	DateMiseAJour    time.Time       `gorm:"autoUpdateTime" json:"dateMiseAJour"`
	DateExpiration   *time.Time      `json:"dateExpiration"`
}

func (a *Annonce) BeforeCreate(_ *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// IsExpired reports whether the expiration timestamp has passed. The status
// transition itself is applied by the periodic sweep, not here.
func (a *Annonce) IsExpired() bool {
	return a.DateExpiration != nil && time.Now().After(*a.DateExpiration)
}
