package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/itssafa/immoplatform/internal/config"
	"github.com/itssafa/immoplatform/internal/dto"
	"github.com/itssafa/immoplatform/internal/mailer"
	"github.com/itssafa/immoplatform/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	db     *gorm.DB
	cfg    *config.Config
	mailer mailer.Mailer
	outbox *mailer.Outbox
}

func NewUserService(db *gorm.DB, cfg *config.Config, m mailer.Mailer, outbox *mailer.Outbox) *UserService {
	return &UserService{db: db, cfg: cfg, mailer: m, outbox: outbox}
}

// Register creates the account, its role profile and the verification token
// in one transaction. The verification email is sent inside the transaction
// so a mailer failure rolls the whole registration back.
func (s *UserService) Register(req *dto.RegisterRequest) (*models.User, error) {
	var count int64
	s.db.Model(&models.User{}).Where("email = ?", req.Email).Count(&count)
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.MotDePasse), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Nom:        req.Nom,
		Prenom:     req.Prenom,
		Email:      req.Email,
		MotDePasse: string(hash),
		Telephone:  req.Telephone,
		Adresse:    req.Adresse,
		Role:       req.UserType,
		Status:     models.StatusPending,
	}

	if s.cfg.EmailVerificationEnabled {
		token := uuid.NewString()
		user.VerificationToken = &token
	} else {
		user.Status = models.StatusActive
		user.EmailVerified = true
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		if err := s.createProfile(tx, &user, req); err != nil {
			return err
		}

		if s.cfg.EmailVerificationEnabled {
			email := verificationEmail(&user, s.cfg.BaseURL)
			if err := s.mailer.Send(tx.Statement.Context, email); err != nil {
				slog.Error("verification email failed, rolling back registration", "email", user.Email, "error", err)
				return ErrVerificationEmail
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("user registered", "userId", user.ID, "role", user.Role)
	return &user, nil
}

func (s *UserService) createProfile(tx *gorm.DB, user *models.User, req *dto.RegisterRequest) error {
	switch user.Role {
	case models.RoleAgence:
		profile := models.AgencyProfile{
			UserID:          user.ID,
			NomAgence:       req.NomAgence,
			SiteWeb:         req.SiteWeb,
			NombreEmployes:  req.NombreEmployes,
			ZonesCouverture: req.ZonesCouverture,
		}
		if req.NumeroLicence != "" {
			var count int64
			tx.Model(&models.AgencyProfile{}).Where("numero_licence = ?", req.NumeroLicence).Count(&count)
			if count > 0 {
				return ErrLicenceTaken
			}
			licence := req.NumeroLicence
			profile.NumeroLicence = &licence
		}
		if err := tx.Create(&profile).Error; err != nil {
			return fmt.Errorf("failed to create agency profile: %w", err)
		}
		user.AgencyProfile = &profile

	case models.RoleClientAbonne:
		sub := models.SubscriptionType(req.SubscriptionType)
		if sub == "" {
			sub = models.SubscriptionBasic
		}
		start := time.Now()
		end := start.AddDate(0, 0, sub.DurationDays())
		profile := models.SubscriberProfile{
			UserID:                user.ID,
			SubscriptionType:      sub,
			SubscriptionStartDate: start,
			SubscriptionEndDate:   &end,
		}
		if err := tx.Create(&profile).Error; err != nil {
			return fmt.Errorf("failed to create subscriber profile: %w", err)
		}
		user.SubscriberProfile = &profile

	case models.RoleAdministrateur:
		level := req.AdminLevel
		if level == "" {
			level = "STANDARD"
		}
		profile := models.AdminProfile{
			UserID:     user.ID,
			AdminLevel: level,
			Department: req.Department,
		}
		if err := tx.Create(&profile).Error; err != nil {
			return fmt.Errorf("failed to create admin profile: %w", err)
		}
		user.AdminProfile = &profile
	}
	return nil
}

// VerifyEmail activates the account matching the token. A second call with
// the same token reports failure because the token is cleared on success.
func (s *UserService) VerifyEmail(token string) (bool, error) {
	if token == "" {
		return false, nil
	}

	var user models.User
	err := s.db.Where("verification_token = ?", token).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up verification token: %w", err)
	}

	updates := map[string]any{
		"email_verified":     true,
		"status":             models.StatusActive,
		"verification_token": nil,
	}
	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		return false, fmt.Errorf("failed to activate user: %w", err)
	}

	if s.outbox != nil {
		s.outbox.Enqueue(welcomeEmail(&user, s.cfg.BaseURL))
	}

	slog.Info("email verified", "userId", user.ID)
	return true, nil
}

// GetByID loads a user with its role profile.
func (s *UserService) GetByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.
		Preload("AgencyProfile").
		Preload("SubscriberProfile").
		Preload("AdminProfile").
		First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail loads a user with its role profile.
func (s *UserService) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.db.
		Preload("AgencyProfile").
		Preload("SubscriberProfile").
		Preload("AdminProfile").
		Where("email = ?", email).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update applies a partial update to the base account and its role profile.
func (s *UserService) Update(id uuid.UUID, req *dto.UserUpdateRequest) (*models.User, error) {
	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Nom != nil {
		updates["nom"] = *req.Nom
	}
	if req.Prenom != nil {
		updates["prenom"] = *req.Prenom
	}
	if req.Email != nil && *req.Email != user.Email {
		var count int64
		s.db.Model(&models.User{}).Where("email = ? AND id <> ?", *req.Email, id).Count(&count)
		if count > 0 {
			return nil, ErrEmailTaken
		}
		updates["email"] = *req.Email
	}
	if req.Telephone != nil {
		updates["telephone"] = *req.Telephone
	}
	if req.Adresse != nil {
		updates["adresse"] = *req.Adresse
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(user).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update user: %w", err)
			}
		}
		return s.updateProfile(tx, user, req)
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(id)
}

func (s *UserService) updateProfile(tx *gorm.DB, user *models.User, req *dto.UserUpdateRequest) error {
	switch user.Role {
	case models.RoleAgence:
		if user.AgencyProfile == nil {
			return nil
		}
		updates := map[string]any{}
		if req.NomAgence != nil {
			updates["nom_agence"] = *req.NomAgence
		}
		if req.NumeroLicence != nil {
			var count int64
			tx.Model(&models.AgencyProfile{}).
				Where("numero_licence = ? AND user_id <> ?", *req.NumeroLicence, user.ID).
				Count(&count)
			if count > 0 {
				return ErrLicenceTaken
			}
			updates["numero_licence"] = *req.NumeroLicence
		}
		if req.SiteWeb != nil {
			updates["site_web"] = *req.SiteWeb
		}
		if req.NombreEmployes != nil {
			updates["nombre_employes"] = *req.NombreEmployes
		}
		if req.ZonesCouverture != nil {
			updates["zones_couverture"] = *req.ZonesCouverture
		}
		if len(updates) > 0 {
			return tx.Model(user.AgencyProfile).Updates(updates).Error
		}

	case models.RoleClientAbonne:
		if user.SubscriberProfile == nil || req.SubscriptionType == nil {
			return nil
		}
		sub := models.SubscriptionType(*req.SubscriptionType)
		start := time.Now()
		end := start.AddDate(0, 0, sub.DurationDays())
		return tx.Model(user.SubscriberProfile).Updates(map[string]any{
			"subscription_type":       sub,
			"subscription_start_date": start,
			"subscription_end_date":   end,
		}).Error

	case models.RoleAdministrateur:
		if user.AdminProfile == nil {
			return nil
		}
		updates := map[string]any{}
		if req.AdminLevel != nil {
			updates["admin_level"] = *req.AdminLevel
		}
		if req.Department != nil {
			updates["department"] = *req.Department
		}
		if len(updates) > 0 {
			return tx.Model(user.AdminProfile).Updates(updates).Error
		}
	}
	return nil
}

// ChangePassword verifies the current password and stores the new hash.
// The new password must differ from the current one.
func (s *UserService) ChangePassword(id uuid.UUID, req *dto.PasswordChangeRequest) error {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.MotDePasse), []byte(req.CurrentPassword)); err != nil {
		return ErrPasswordMismatch
	}
	if req.CurrentPassword == req.NewPassword {
		return ErrPasswordUnchanged
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.db.Model(&user).UpdateColumn("mot_de_passe", string(hash)).Error
}

// List returns every non-deleted account with profiles preloaded.
func (s *UserService) List() ([]models.User, error) {
	var users []models.User
	err := s.db.
		Preload("AgencyProfile").
		Preload("SubscriberProfile").
		Preload("AdminProfile").
		Where("status <> ?", models.StatusDeleted).
		Order("created_at DESC").
		Find(&users).Error
	return users, err
}

// ListPaginated returns one page of non-deleted accounts.
func (s *UserService) ListPaginated(page, size int) (dto.Page[models.User], error) {
	page, size = normalizePage(page, size)

	base := s.db.Model(&models.User{}).Where("status <> ?", models.StatusDeleted)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return dto.Page[models.User]{}, err
	}

	var users []models.User
	err := s.db.
		Preload("AgencyProfile").
		Preload("SubscriberProfile").
		Preload("AdminProfile").
		Where("status <> ?", models.StatusDeleted).
		Order("created_at DESC").
		Offset(page * size).
		Limit(size).
		Find(&users).Error
	if err != nil {
		return dto.Page[models.User]{}, err
	}

	return dto.NewPage(users, total, page, size), nil
}

// Search matches nom, prenom or email, case-insensitively.
func (s *UserService) Search(query string) ([]models.User, error) {
	var users []models.User
	pattern := "%" + query + "%"
	err := s.db.
		Preload("AgencyProfile").
		Preload("SubscriberProfile").
		Preload("AdminProfile").
		Where("status <> ?", models.StatusDeleted).
		Where("LOWER(nom) LIKE LOWER(?) OR LOWER(prenom) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?)",
			pattern, pattern, pattern).
		Order("created_at DESC").
		Find(&users).Error
	return users, err
}

// ListByRole returns non-deleted accounts of one role.
func (s *UserService) ListByRole(role models.UserRole) ([]models.User, error) {
	var users []models.User
	err := s.db.
		Preload("AgencyProfile").
		Preload("SubscriberProfile").
		Preload("AdminProfile").
		Where("role = ? AND status <> ?", role, models.StatusDeleted).
		Order("created_at DESC").
		Find(&users).Error
	return users, err
}

// ListByStatus returns accounts of one status, deleted ones included when asked.
func (s *UserService) ListByStatus(status models.UserStatus) ([]models.User, error) {
	var users []models.User
	err := s.db.
		Preload("AgencyProfile").
		Preload("SubscriberProfile").
		Preload("AdminProfile").
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&users).Error
	return users, err
}

// Delete soft-deletes the account by flipping its status. The row stays so
// listings and comments keep a resolvable author.
func (s *UserService) Delete(id uuid.UUID) error {
	res := s.db.Model(&models.User{}).
		Where("id = ? AND status <> ?", id, models.StatusDeleted).
		Update("status", models.StatusDeleted)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	slog.Info("user soft-deleted", "userId", id)
	return nil
}

// VerifyAgency marks an agency as verified by an administrator.
func (s *UserService) VerifyAgency(id uuid.UUID) (*models.User, error) {
	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleAgence || user.AgencyProfile == nil {
		return nil, ErrForbidden
	}
	if err := s.db.Model(user.AgencyProfile).Update("verified", true).Error; err != nil {
		return nil, fmt.Errorf("failed to verify agency: %w", err)
	}
	user.AgencyProfile.Verified = true
	slog.Info("agency verified", "userId", id)
	return user, nil
}

// Stats breaks the accounts down by role and status. Deleted accounts show up
// in the status breakdown but not in the role counts or the total.
func (s *UserService) Stats() (*dto.UserStats, error) {
	stats := &dto.UserStats{
		ByRole:   map[string]int64{},
		ByStatus: map[string]int64{},
	}

	err := s.db.Model(&models.User{}).
		Where("status <> ?", models.StatusDeleted).
		Count(&stats.TotalUsers).Error
	if err != nil {
		return nil, err
	}

	type bucket struct {
		Key   string
		Count int64
	}
	var roles []bucket
	err = s.db.Model(&models.User{}).
		Select("role AS key, COUNT(*) AS count").
		Where("status <> ?", models.StatusDeleted).
		Group("role").
		Scan(&roles).Error
	if err != nil {
		return nil, err
	}
	for _, b := range roles {
		stats.ByRole[b.Key] = b.Count
	}

	var statuses []bucket
	err = s.db.Model(&models.User{}).
		Select("status AS key, COUNT(*) AS count").
		Group("status").
		Scan(&statuses).Error
	if err != nil {
		return nil, err
	}
	for _, b := range statuses {
		stats.ByStatus[b.Key] = b.Count
	}
	return stats, nil
}

func normalizePage(page, size int) (int, int) {
	if page < 0 {
		page = 0
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	return page, size
}
