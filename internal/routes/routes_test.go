package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/itssafa/immoplatform/internal/config"
	"github.com/itssafa/immoplatform/internal/database"
	"github.com/itssafa/immoplatform/internal/handlers"
	"github.com/itssafa/immoplatform/internal/mailer"
	"github.com/itssafa/immoplatform/internal/models"
	"github.com/itssafa/immoplatform/internal/services"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB, *config.Config) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	cfg := &config.Config{
		JWTSecret: "test-secret",
		JWTExpiry: time.Hour,
	}

	outbox := mailer.NewOutbox(mailer.LogMailer{}, db)
	t.Cleanup(outbox.Stop)

	authService := services.NewAuthService(db, cfg)
	userService := services.NewUserService(db, cfg, mailer.LogMailer{}, outbox)
	annonceService := services.NewAnnonceService(db)
	commentService := services.NewCommentService(db, outbox)
	statsService := services.NewStatisticsService(db)
	visitService := services.NewVisitService(db)

	app := fiber.New()
	Setup(app, cfg,
		handlers.NewAuthHandler(authService, userService),
		handlers.NewUserHandler(userService),
		handlers.NewAnnonceHandler(annonceService, userService),
		handlers.NewCommentHandler(commentService, userService),
		handlers.NewStatisticsHandler(statsService),
		handlers.NewVisitHandler(visitService),
		handlers.NewHealthHandler(),
	)
	return app, db, cfg
}

func seedUser(t *testing.T, db *gorm.DB, role models.UserRole, email string) *models.User {
	t.Helper()
	user := &models.User{
		Nom:           "Trabelsi",
		Prenom:        "Sami",
		Email:         email,
		MotDePasse:    "not-used-here",
		Role:          role,
		Status:        models.StatusActive,
		EmailVerified: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func tokenFor(t *testing.T, cfg *config.Config, user *models.User) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"role":  string(user.Role),
		"exp":   time.Now().Add(cfg.JWTExpiry).Unix(),
		"iat":   time.Now().Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func doGet(t *testing.T, app *fiber.App, path, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request %s failed: %v", path, err)
	}
	return resp
}

func TestUserAccountAccessOwnerOrAdmin(t *testing.T) {
	app, db, cfg := newTestApp(t)

	owner := seedUser(t, db, models.RoleClientAbonne, "owner@example.com")
	other := seedUser(t, db, models.RoleClientAbonne, "other@example.com")
	admin := seedUser(t, db, models.RoleAdministrateur, "admin@example.com")

	path := "/api/users/" + owner.ID.String()

	resp := doGet(t, app, path, tokenFor(t, cfg, owner))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doGet(t, app, path, tokenFor(t, cfg, admin))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doGet(t, app, path, tokenFor(t, cfg, other))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// Updates follow the same rule, rejected before the body is read.
	req := httptest.NewRequest(fiber.MethodPut, path, nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, cfg, other))
	putResp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, putResp.StatusCode)

	// Listing all accounts stays admin only.
	resp = doGet(t, app, "/api/users/", tokenFor(t, cfg, owner))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	resp = doGet(t, app, "/api/users/", tokenFor(t, cfg, admin))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestStatisticsRouteRoles(t *testing.T) {
	app, db, cfg := newTestApp(t)

	client := seedUser(t, db, models.RoleClientAbonne, "client@example.com")
	agence := seedUser(t, db, models.RoleAgence, "agence@example.com")
	admin := seedUser(t, db, models.RoleAdministrateur, "admin@example.com")

	// Full report is admin only.
	resp := doGet(t, app, "/api/statistics", tokenFor(t, cfg, admin))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = doGet(t, app, "/api/statistics", tokenFor(t, cfg, agence))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	resp = doGet(t, app, "/api/statistics", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// The dashboard summary is shared with agencies.
	resp = doGet(t, app, "/api/statistics/dashboard", tokenFor(t, cfg, agence))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = doGet(t, app, "/api/statistics/dashboard", tokenFor(t, cfg, admin))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = doGet(t, app, "/api/statistics/dashboard", tokenFor(t, cfg, client))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
