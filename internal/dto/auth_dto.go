package dto

import "github.com/itssafa/immoplatform/internal/models"

type RegisterRequest struct {
	Nom        string          `json:"nom" validate:"required,max=100"`
	Prenom     string          `json:"prenom" validate:"required,max=100"`
	Email      string          `json:"email" validate:"required,email,max=150"`
	MotDePasse string          `json:"motDePasse" validate:"required,min=8"`
	Telephone  string          `json:"telephone" validate:"omitempty,len=8,numeric"`
	Adresse    string          `json:"adresse" validate:"omitempty,max=255"`
	UserType   models.UserRole `json:"userType" validate:"required,oneof=UTILISATEUR CLIENT_ABONNE AGENCE_IMMOBILIERE ADMINISTRATEUR"`

	// Agency fields
	NomAgence       string `json:"nomAgence"`
	NumeroLicence   string `json:"numeroLicence" validate:"omitempty,len=8,numeric"`
	SiteWeb         string `json:"siteWeb"`
	NombreEmployes  *int   `json:"nombreEmployes"`
	ZonesCouverture string `json:"zonesCouverture"`

	// Subscriber fields
	SubscriptionType string `json:"subscriptionType" validate:"omitempty,oneof=BASIC PREMIUM ENTERPRISE"`

	// Admin fields
	AdminLevel string `json:"adminLevel"`
	Department string `json:"department"`
}

type LoginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	MotDePasse string `json:"motDePasse" validate:"required"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}
