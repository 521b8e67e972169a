package dto

// UserUpdateRequest is a partial update: nil fields keep their current value.
type UserUpdateRequest struct {
	Nom       *string `json:"nom"`
	Prenom    *string `json:"prenom"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Telephone *string `json:"telephone"`
	Adresse   *string `json:"adresse"`

	// Agency fields
	NomAgence       *string `json:"nomAgence"`
	NumeroLicence   *string `json:"numeroLicence"`
	SiteWeb         *string `json:"siteWeb"`
	NombreEmployes  *int    `json:"nombreEmployes"`
	ZonesCouverture *string `json:"zonesCouverture"`

	// Subscriber fields
	SubscriptionType *string `json:"subscriptionType" validate:"omitempty,oneof=BASIC PREMIUM ENTERPRISE"`

	// Admin fields
	AdminLevel *string `json:"adminLevel"`
	Department *string `json:"department"`
}

type PasswordChangeRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

// UserStats is the account breakdown served to administrators.
type UserStats struct {
	TotalUsers int64            `json:"totalUsers"`
	ByRole     map[string]int64 `json:"byRole"`
	ByStatus   map[string]int64 `json:"byStatus"`
}
