package services

import (
	"testing"

	"github.com/itssafa/immoplatform/internal/dto"
	"github.com/itssafa/immoplatform/internal/models"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func registerRequest(role models.UserRole, email string) *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Nom:        "Ben Ali",
		Prenom:     "Leila",
		Email:      email,
		MotDePasse: "motdepasse1",
		UserType:   role,
	}
}

func TestRegisterCreatesPendingUserWithToken(t *testing.T) {
	db := openTestDB(t)
	mail := &recordMailer{}
	svc := NewUserService(db, testConfig(), mail, nil)

	user, err := svc.Register(registerRequest(models.RoleUtilisateur, "leila@example.com"))

	assert.NoError(t, err)
	assert.Equal(t, models.StatusPending, user.Status)
	assert.False(t, user.EmailVerified)
	assert.NotNil(t, user.VerificationToken)
	assert.Len(t, mail.sent, 1)
	assert.Equal(t, "leila@example.com", mail.sent[0].To)
}

func TestRegisterCreatesAgencyProfile(t *testing.T) {
	db := openTestDB(t)
	svc := NewUserService(db, testConfig(), &recordMailer{}, nil)

	req := registerRequest(models.RoleAgence, "agence@example.com")
	req.NomAgence = "Agence du Sahel"
	req.NumeroLicence = "12345678"

	user, err := svc.Register(req)

	assert.NoError(t, err)
	assert.NotNil(t, user.AgencyProfile)
	assert.Equal(t, "Agence du Sahel", user.AgencyProfile.NomAgence)
	assert.False(t, user.AgencyProfile.Verified)
	assert.Equal(t, 100, user.AgencyProfile.MaxAnnonces)
}

func TestRegisterSubscriberGetsBasicTier(t *testing.T) {
	db := openTestDB(t)
	svc := NewUserService(db, testConfig(), &recordMailer{}, nil)

	user, err := svc.Register(registerRequest(models.RoleClientAbonne, "client@example.com"))

	assert.NoError(t, err)
	assert.NotNil(t, user.SubscriberProfile)
	assert.Equal(t, models.SubscriptionBasic, user.SubscriberProfile.SubscriptionType)
	assert.NotNil(t, user.SubscriberProfile.SubscriptionEndDate)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	db := openTestDB(t)
	svc := NewUserService(db, testConfig(), &recordMailer{}, nil)

	_, err := svc.Register(registerRequest(models.RoleUtilisateur, "dup@example.com"))
	assert.NoError(t, err)

	_, err = svc.Register(registerRequest(models.RoleClientAbonne, "dup@example.com"))
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterRejectsDuplicateLicence(t *testing.T) {
	db := openTestDB(t)
	svc := NewUserService(db, testConfig(), &recordMailer{}, nil)

	first := registerRequest(models.RoleAgence, "a1@example.com")
	first.NumeroLicence = "11112222"
	_, err := svc.Register(first)
	assert.NoError(t, err)

	second := registerRequest(models.RoleAgence, "a2@example.com")
	second.NumeroLicence = "11112222"
	_, err = svc.Register(second)
	assert.ErrorIs(t, err, ErrLicenceTaken)
}

func TestRegisterRollsBackWhenVerificationEmailFails(t *testing.T) {
	db := openTestDB(t)
	mail := &recordMailer{failErr: errMailerDown}
	svc := NewUserService(db, testConfig(), mail, nil)

	_, err := svc.Register(registerRequest(models.RoleUtilisateur, "leila@example.com"))
	assert.ErrorIs(t, err, ErrVerificationEmail)

	var count int64
	db.Model(&models.User{}).Where("email = ?", "leila@example.com").Count(&count)
	assert.Zero(t, count)
}

func TestRegisterSkipsVerificationWhenDisabled(t *testing.T) {
	db := openTestDB(t)
	cfg := testConfig()
	cfg.EmailVerificationEnabled = false
	mail := &recordMailer{}
	svc := NewUserService(db, cfg, mail, nil)

	user, err := svc.Register(registerRequest(models.RoleUtilisateur, "leila@example.com"))

	assert.NoError(t, err)
	assert.Equal(t, models.StatusActive, user.Status)
	assert.True(t, user.EmailVerified)
	assert.Empty(t, mail.sent)
}

func TestVerifyEmailActivatesOnce(t *testing.T) {
	db := openTestDB(t)
	svc := NewUserService(db, testConfig(), &recordMailer{}, nil)

	user, err := svc.Register(registerRequest(models.RoleUtilisateur, "leila@example.com"))
	assert.NoError(t, err)
	token := *user.VerificationToken

	ok, err := svc.VerifyEmail(token)
	assert.NoError(t, err)
	assert.True(t, ok)

	verified, err := svc.GetByID(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusActive, verified.Status)
	assert.True(t, verified.EmailVerified)

	// Token is single use.
	ok, err = svc.VerifyEmail(token)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyEmailUnknownToken(t *testing.T) {
	db := openTestDB(t)
	svc := NewUserService(db, testConfig(), &recordMailer{}, nil)

	ok, err := svc.VerifyEmail("no-such-token")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestChangePasswordRules(t *testing.T) {
	db := openTestDB(t)
	svc := NewUserService(db, testConfig(), &recordMailer{}, nil)
	user := createUser(t, db, models.RoleUtilisateur, "sami@example.com")

	err := svc.ChangePassword(user.ID, &dto.PasswordChangeRequest{
		CurrentPassword: "wrong",
		NewPassword:     "nouveaumdp1",
	})
	assert.ErrorIs(t, err, ErrPasswordMismatch)

	err = svc.ChangePassword(user.ID, &dto.PasswordChangeRequest{
		CurrentPassword: "motdepasse1",
		NewPassword:     "motdepasse1",
	})
	assert.ErrorIs(t, err, ErrPasswordUnchanged)

	err = svc.ChangePassword(user.ID, &dto.PasswordChangeRequest{
		CurrentPassword: "motdepasse1",
		NewPassword:     "nouveaumdp1",
	})
	assert.NoError(t, err)

	var reloaded models.User
	db.First(&reloaded, "id = ?", user.ID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(reloaded.MotDePasse), []byte("nouveaumdp1")))
}

func TestUpdateRejectsTakenEmail(t *testing.T) {
	db := openTestDB(t)
	svc := NewUserService(db, testConfig(), &recordMailer{}, nil)
	createUser(t, db, models.RoleUtilisateur, "taken@example.com")
	user := createUser(t, db, models.RoleUtilisateur, "sami@example.com")

	taken := "taken@example.com"
	_, err := svc.Update(user.ID, &dto.UserUpdateRequest{Email: &taken})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestDeleteIsSoft(t *testing.T) {
	db := openTestDB(t)
	svc := NewUserService(db, testConfig(), &recordMailer{}, nil)
	user := createUser(t, db, models.RoleUtilisateur, "sami@example.com")

	assert.NoError(t, svc.Delete(user.ID))

	var reloaded models.User
	assert.NoError(t, db.First(&reloaded, "id = ?", user.ID).Error)
	assert.Equal(t, models.StatusDeleted, reloaded.Status)

	// Deleted accounts disappear from listings.
	users, err := svc.List()
	assert.NoError(t, err)
	assert.Empty(t, users)

	// A second delete reports not found.
	assert.ErrorIs(t, svc.Delete(user.ID), ErrNotFound)
}

func TestUserStatsBreakdown(t *testing.T) {
	db := openTestDB(t)
	svc := NewUserService(db, testConfig(), &recordMailer{}, nil)

	createUser(t, db, models.RoleClientAbonne, "c1@example.com")
	createUser(t, db, models.RoleAgence, "a1@example.com")
	deleted := createUser(t, db, models.RoleUtilisateur, "gone@example.com")
	db.Model(deleted).Update("status", models.StatusDeleted)

	stats, err := svc.Stats()

	assert.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalUsers)
	assert.EqualValues(t, 1, stats.ByRole[string(models.RoleClientAbonne)])
	assert.EqualValues(t, 1, stats.ByRole[string(models.RoleAgence)])
	assert.Zero(t, stats.ByRole[string(models.RoleUtilisateur)])
	assert.EqualValues(t, 1, stats.ByStatus[string(models.StatusDeleted)])
}

func TestVerifyAgency(t *testing.T) {
	db := openTestDB(t)
	svc := NewUserService(db, testConfig(), &recordMailer{}, nil)
	agence := createUser(t, db, models.RoleAgence, "agence@example.com")
	client := createUser(t, db, models.RoleUtilisateur, "client@example.com")

	verified, err := svc.VerifyAgency(agence.ID)
	assert.NoError(t, err)
	assert.True(t, verified.AgencyProfile.Verified)

	_, err = svc.VerifyAgency(client.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}
