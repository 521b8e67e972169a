package services

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/itssafa/immoplatform/internal/config"
	"github.com/itssafa/immoplatform/internal/dto"
	"github.com/itssafa/immoplatform/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

// Login authenticates by email and password and returns a signed JWT.
// Unverified and deleted accounts cannot log in.
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	var user models.User
	err := s.db.
		Preload("AgencyProfile").
		Preload("SubscriberProfile").
		Preload("AdminProfile").
		Where("email = ?", req.Email).
		First(&user).Error
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.MotDePasse), []byte(req.MotDePasse)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsEnabled() {
		return nil, ErrAccountDisabled
	}

	token, err := s.generateToken(&user)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	s.db.Model(&user).UpdateColumn("last_login", now)
	user.LastLogin = &now

	return &dto.LoginResponse{Token: token, User: &user}, nil
}

func (s *AuthService) generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"role":  string(user.Role),
		"exp":   time.Now().Add(s.cfg.JWTExpiry).Unix(),
		"iat":   time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
