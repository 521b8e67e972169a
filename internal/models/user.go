package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleUtilisateur    UserRole = "UTILISATEUR"
	RoleClientAbonne   UserRole = "CLIENT_ABONNE"
	RoleAgence         UserRole = "AGENCE_IMMOBILIERE"
	RoleAdministrateur UserRole = "ADMINISTRATEUR"
)

type UserStatus string

const (
	StatusPending UserStatus = "PENDING"
	StatusActive  UserStatus = "ACTIVE"
	StatusDeleted UserStatus = "DELETED"
)

// User is the shared account record. Role-specific data lives in the
// has-one profile tables below, selected by the Role tag.
type User struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Nom               string     `gorm:"size:100;not null" json:"nom"`
	Prenom            string     `gorm:"size:100;not null" json:"prenom"`
	Email             string     `gorm:"size:150;not null;uniqueIndex" json:"email"`
	MotDePasse        string     `gorm:"not null" json:"-"`
	Telephone         string     `gorm:"size:20" json:"telephone"`
	Adresse           string     `gorm:"size:255" json:"adresse"`
	Role              UserRole   `gorm:"size:30;not null;index" json:"userType"`
	Status            UserStatus `gorm:"size:20;not null;default:'PENDING';index" json:"status"`
	EmailVerified     bool       `gorm:"not null;default:false" json:"emailVerified"`
	VerificationToken *string    `gorm:"size:36;index" json:"-"`
	LastLogin         *time.Time `json:"lastLogin"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"-"`

	AgencyProfile     *AgencyProfile     `gorm:"foreignKey:UserID" json:"agencyProfile,omitempty"`
	SubscriberProfile *SubscriberProfile `gorm:"foreignKey:UserID" json:"subscriberProfile,omitempty"`
	AdminProfile      *AdminProfile      `gorm:"foreignKey:UserID" json:"adminProfile,omitempty"`
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// IsEnabled reports whether the account may act on the platform.
func (u *User) IsEnabled() bool {
	return u.Status == StatusActive && u.EmailVerified
}

// AgencyProfile extends an AGENCE_IMMOBILIERE account. The published-listing
// quota is derived by counting annonces, never stored as a counter.
type AgencyProfile struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"-"`
	NomAgence       string    `gorm:"size:150" json:"nomAgence"`
	NumeroLicence   *string   `gorm:"size:20;uniqueIndex" json:"numeroLicence"`
	SiteWeb         string    `gorm:"size:255" json:"siteWeb"`
	NombreEmployes  *int      `json:"nombreEmployes"`
	ZonesCouverture string    `gorm:"size:500" json:"zonesCouverture"`
	Verified        bool      `gorm:"not null;default:false" json:"verified"`
	MaxAnnonces     int       `gorm:"not null;default:100" json:"maxAnnonces"`
	CreatedAt       time.Time `json:"-"`
	UpdatedAt       time.Time `json:"-"`
}

func (p *AgencyProfile) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type SubscriptionType string

const (
	SubscriptionBasic      SubscriptionType = "BASIC"
	SubscriptionPremium    SubscriptionType = "PREMIUM"
	SubscriptionEnterprise SubscriptionType = "ENTERPRISE"
)

// SearchesPerDay returns the daily search allowance of a tier.
// Zero means unlimited.
func (t SubscriptionType) SearchesPerDay() int {
	switch t {
	case SubscriptionPremium:
		return 50
	case SubscriptionEnterprise:
		return 0
	default:
		return 10
	}
}

// DurationDays returns the subscription length of a tier.
func (t SubscriptionType) DurationDays() int {
	switch t {
	case SubscriptionPremium:
		return 90
	case SubscriptionEnterprise:
		return 365
	default:
		return 30
	}
}

// SubscriberProfile extends a CLIENT_ABONNE account. The daily search count
// is derived from search_events rows, so there is no reset logic here.
type SubscriberProfile struct {
	ID                    uuid.UUID        `gorm:"type:uuid;primaryKey" json:"-"`
	UserID                uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex" json:"-"`
	SubscriptionType      SubscriptionType `gorm:"size:20;not null;default:'BASIC'" json:"subscriptionType"`
	SubscriptionStartDate time.Time        `json:"subscriptionStartDate"`
	SubscriptionEndDate   *time.Time       `json:"subscriptionEndDate"`
	CreatedAt             time.Time        `json:"-"`
	UpdatedAt             time.Time        `json:"-"`
}

func (p *SubscriberProfile) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// AdminProfile extends an ADMINISTRATEUR account.
type AdminProfile struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"-"`
	UserID          uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"-"`
	AdminLevel      string         `gorm:"size:20;not null;default:'STANDARD'" json:"adminLevel"`
	Department      string         `gorm:"size:100" json:"department"`
	Permissions     datatypes.JSON `json:"permissions"`
	LastAdminAction *time.Time     `json:"lastAdminAction"`
	CreatedAt       time.Time      `json:"-"`
	UpdatedAt       time.Time      `json:"-"`
}

func (p *AdminProfile) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
