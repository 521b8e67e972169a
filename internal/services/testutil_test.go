package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/itssafa/immoplatform/internal/config"
	"github.com/itssafa/immoplatform/internal/database"
	"github.com/itssafa/immoplatform/internal/mailer"
	"github.com/itssafa/immoplatform/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	// A second connection would see a different empty :memory: database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:                "test-secret",
		JWTExpiry:                time.Hour,
		EmailVerificationEnabled: true,
		EmailFrom:                "noreply@example.com",
		BaseURL:                  "http://localhost:8080",
	}
}

// recordMailer captures sends and optionally fails them.
type recordMailer struct {
	sent    []mailer.Email
	failErr error
}

func (m *recordMailer) Send(_ context.Context, email mailer.Email) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.sent = append(m.sent, email)
	return nil
}

var errMailerDown = errors.New("smtp relay unavailable")

func hashPassword(t *testing.T, plain string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return string(hash)
}

func createUser(t *testing.T, db *gorm.DB, role models.UserRole, email string) *models.User {
	t.Helper()

	user := &models.User{
		Nom:           "Trabelsi",
		Prenom:        "Sami",
		Email:         email,
		MotDePasse:    hashPassword(t, "motdepasse1"),
		Role:          role,
		Status:        models.StatusActive,
		EmailVerified: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	switch role {
	case models.RoleAgence:
		user.AgencyProfile = &models.AgencyProfile{
			UserID:      user.ID,
			NomAgence:   "Agence du Lac",
			MaxAnnonces: 100,
		}
		if err := db.Create(user.AgencyProfile).Error; err != nil {
			t.Fatalf("failed to create agency profile: %v", err)
		}
	case models.RoleClientAbonne:
		user.SubscriberProfile = &models.SubscriberProfile{
			UserID:                user.ID,
			SubscriptionType:      models.SubscriptionBasic,
			SubscriptionStartDate: time.Now(),
		}
		if err := db.Create(user.SubscriberProfile).Error; err != nil {
			t.Fatalf("failed to create subscriber profile: %v", err)
		}
	case models.RoleAdministrateur:
		user.AdminProfile = &models.AdminProfile{
			UserID:     user.ID,
			AdminLevel: "STANDARD",
		}
		if err := db.Create(user.AdminProfile).Error; err != nil {
			t.Fatalf("failed to create admin profile: %v", err)
		}
	}
	return user
}

func createAnnonce(t *testing.T, db *gorm.DB, createurID uuid.UUID, mutate func(*models.Annonce)) *models.Annonce {
	t.Helper()

	annonce := &models.Annonce{
		Titre:            "Appartement S+2 au centre ville",
		Description:      "Bel appartement lumineux avec deux chambres, proche de toutes commodités et des transports.",
		Prix:             250000,
		TypeBien:         models.BienAppartement,
		TypeTransaction:  models.TransactionVente,
		Adresse:          "12 avenue Habib Bourguiba",
		Ville:            "Tunis",
		CodePostal:       "1000",
		Status:           models.AnnonceActive,
		CreateurID:       createurID,
		NomContact:       "Sami Trabelsi",
		TelephoneContact: "22334455",
	}
	if mutate != nil {
		mutate(annonce)
	}
	if err := db.Create(annonce).Error; err != nil {
		t.Fatalf("failed to create annonce: %v", err)
	}
	return annonce
}
