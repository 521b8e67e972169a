package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/itssafa/immoplatform/internal/models"
)

type AnnonceCreateRequest struct {
	Titre            string                 `json:"titre" validate:"required,min=10,max=200"`
	Description      string                 `json:"description" validate:"required,min=50,max=2000"`
	Prix             float64                `json:"prix" validate:"required,gt=0"`
	TypeBien         models.TypeBien        `json:"typeBien" validate:"required"`
	TypeTransaction  models.TypeTransaction `json:"typeTransaction" validate:"required,oneof=VENTE LOCATION"`
	Adresse          string                 `json:"adresse" validate:"required,max=500"`
	Ville            string                 `json:"ville" validate:"required,max=100"`
	CodePostal       string                 `json:"codePostal" validate:"required,len=4,numeric"`
	Surface          *int                   `json:"surface" validate:"omitempty,min=0"`
	NombreChambres   *int                   `json:"nombreChambres" validate:"omitempty,min=0"`
	NombreSallesBain *int                   `json:"nombreSallesBain" validate:"omitempty,min=0"`
	Etage            *int                   `json:"etage"`
	Garage           *bool                  `json:"garage"`
	Jardin           *bool                  `json:"jardin"`
	Piscine          *bool                  `json:"piscine"`
	Climatisation    *bool                  `json:"climatisation"`
	Ascenseur        *bool                  `json:"ascenseur"`
	Images           []string               `json:"images"`
	NomContact       string                 `json:"nomContact" validate:"required,max=100"`
	TelephoneContact string                 `json:"telephoneContact" validate:"required,len=8,numeric"`
	EmailContact     string                 `json:"emailContact" validate:"omitempty,email"`
	DateExpiration   *time.Time             `json:"dateExpiration"`
}

// AnnonceUpdateRequest is a partial update: nil fields keep their current value.
type AnnonceUpdateRequest struct {
	Titre            *string                 `json:"titre" validate:"omitempty,min=10,max=200"`
	Description      *string                 `json:"description" validate:"omitempty,min=50,max=2000"`
	Prix             *float64                `json:"prix" validate:"omitempty,gt=0"`
	TypeBien         *models.TypeBien        `json:"typeBien"`
	TypeTransaction  *models.TypeTransaction `json:"typeTransaction" validate:"omitempty,oneof=VENTE LOCATION"`
	Adresse          *string                 `json:"adresse"`
	Ville            *string                 `json:"ville"`
	CodePostal       *string                 `json:"codePostal" validate:"omitempty,len=4,numeric"`
	Surface          *int                    `json:"surface"`
	NombreChambres   *int                    `json:"nombreChambres"`
	NombreSallesBain *int                    `json:"nombreSallesBain"`
	Etage            *int                    `json:"etage"`
	Garage           *bool                   `json:"garage"`
	Jardin           *bool                   `json:"jardin"`
	Piscine          *bool                   `json:"piscine"`
	Climatisation    *bool                   `json:"climatisation"`
	Ascenseur        *bool                   `json:"ascenseur"`
	Status           *models.StatusAnnonce   `json:"status"`
	Images           []string                `json:"images"`
	NomContact       *string                 `json:"nomContact"`
	TelephoneContact *string                 `json:"telephoneContact"`
	EmailContact     *string                 `json:"emailContact"`
	DateExpiration   *time.Time              `json:"dateExpiration"`
}

// AnnonceSearchRequest carries the optional search filters; nil means "ignore".
// Field names match the query-string parameters the frontend sends.
type AnnonceSearchRequest struct {
	Titre            *string                 `query:"titre"`
	Ville            *string                 `query:"ville"`
	TypeBien         *models.TypeBien        `query:"typeBien"`
	TypeTransaction  *models.TypeTransaction `query:"typeTransaction"`
	PrixMin          *float64                `query:"prixMin"`
	PrixMax          *float64                `query:"prixMax"`
	SurfaceMin       *int                    `query:"surfaceMin"`
	SurfaceMax       *int                    `query:"surfaceMax"`
	NombreChambres   *int                    `query:"nombreChambres"`
	NombreSallesBain *int                    `query:"nombreSallesBain"`
	Garage           *bool                   `query:"garage"`
	Jardin           *bool                   `query:"jardin"`
	Piscine          *bool                   `query:"piscine"`
	Climatisation    *bool                   `query:"climatisation"`
	Ascenseur        *bool                   `query:"ascenseur"`
	Status           *models.StatusAnnonce   `query:"status"`
	SortBy           string                  `query:"sortBy"`
	SortDirection    string                  `query:"sortDirection"`
	Page             int                     `query:"page"`
	Size             int                     `query:"size"`
}

// AnnonceSummary is the compact listing card used by search results.
type AnnonceSummary struct {
	ID              uuid.UUID              `json:"id"`
	Titre           string                 `json:"titre"`
	Prix            float64                `json:"prix"`
	TypeBien        models.TypeBien        `json:"typeBien"`
	TypeTransaction models.TypeTransaction `json:"typeTransaction"`
	Ville           string                 `json:"ville"`
	Surface         *int                   `json:"surface"`
	NombreChambres  *int                   `json:"nombreChambres"`
	PremiereImage   *string                `json:"premiereImage"`
	Vues            int                    `json:"vues"`
	Favoris         int                    `json:"favoris"`
	DateCreation    time.Time              `json:"dateCreation"`
	Status          models.StatusAnnonce   `json:"status"`
	CreateurNom     string                 `json:"createurNom"`
	CreateurType    string                 `json:"createurType"`
}

// CreateurInfo is the listing owner block embedded in a full response.
type CreateurInfo struct {
	ID       uuid.UUID       `json:"id"`
	Nom      string          `json:"nom"`
	Prenom   string          `json:"prenom"`
	UserType models.UserRole `json:"userType"`
}

type AnnonceResponse struct {
	models.Annonce
	Createur *CreateurInfo `json:"createur,omitempty"`
}

type AnnonceStats struct {
	TotalAnnonces     int64   `json:"totalAnnonces"`
	AnnoncesActives   int64   `json:"annoncesActives"`
	AnnoncesInactives int64   `json:"annoncesInactives"`
	AnnoncesVendues   int64   `json:"annoncesVendues"`
	AnnoncesLouees    int64   `json:"annoncesLouees"`
	TotalVues         int64   `json:"totalVues"`
	TotalFavoris      int64   `json:"totalFavoris"`
	PrixMoyen         float64 `json:"prixMoyen"`
	SurfaceMoyenne    float64 `json:"surfaceMoyenne"`
}
