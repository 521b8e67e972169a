package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/itssafa/immoplatform/internal/config"
	"github.com/itssafa/immoplatform/internal/handlers"
	"github.com/itssafa/immoplatform/internal/middleware"
	"github.com/itssafa/immoplatform/internal/models"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	annonceHandler *handlers.AnnonceHandler,
	commentHandler *handlers.CommentHandler,
	statsHandler *handlers.StatisticsHandler,
	visitHandler *handlers.VisitHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth — public, with a stricter rate limit
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/verify", authHandler.Verify)

	// Own account
	api.Get("/auth/profile", middleware.JWTProtected(cfg), authHandler.Profile)
	api.Put("/auth/profile", middleware.JWTProtected(cfg), authHandler.UpdateProfile)
	api.Put("/auth/password", middleware.JWTProtected(cfg), authHandler.ChangePassword)

	// Annonces — static paths before the :id wildcard
	annonces := api.Group("/annonces")
	annonces.Get("/types", annonceHandler.Types)
	annonces.Get("/popular", annonceHandler.Popular)
	annonces.Get("/recent", annonceHandler.Recent)
	annonces.Get("/mine", middleware.JWTProtected(cfg), annonceHandler.Mine)
	annonces.Get("/stats/mine", middleware.JWTProtected(cfg), annonceHandler.MyStats)
	annonces.Get("/stats/global", middleware.JWTProtected(cfg), middleware.AdminRequired(), annonceHandler.GlobalStats)
	annonces.Get("/", middleware.JWTOptional(cfg), annonceHandler.Search)
	annonces.Post("/", middleware.JWTProtected(cfg), annonceHandler.Create)
	annonces.Get("/:id/similar", annonceHandler.Similar)
	annonces.Get("/:id", middleware.JWTOptional(cfg), annonceHandler.Get)
	annonces.Put("/:id", middleware.JWTProtected(cfg), annonceHandler.Update)
	annonces.Delete("/:id", middleware.JWTProtected(cfg), annonceHandler.Delete)

	// Comments
	annonces.Get("/:annonceId/comments", commentHandler.ListByAnnonce)
	annonces.Get("/:annonceId/comments/stats", commentHandler.Stats)
	annonces.Post("/:annonceId/comments", middleware.JWTProtected(cfg), commentHandler.Create)
	api.Post("/comments/:commentId/replies", middleware.JWTProtected(cfg), commentHandler.Reply)
	api.Delete("/comments/:commentId", middleware.JWTProtected(cfg), commentHandler.Delete)
	api.Get("/comments/received", middleware.JWTProtected(cfg), commentHandler.Received)

	// Visit duration beacon, sent on page unload without auth
	api.Post("/visits/duration", visitHandler.UpdateDuration)

	// User administration. Reading or updating a single account is allowed to
	// the account owner as well, checked in the handler.
	users := api.Group("/users", middleware.JWTProtected(cfg))
	users.Get("/", middleware.AdminRequired(), userHandler.List)
	users.Get("/stats", middleware.AdminRequired(), userHandler.Stats)
	users.Get("/paginated", middleware.AdminRequired(), userHandler.ListPaginated)
	users.Get("/search", middleware.AdminRequired(), userHandler.Search)
	users.Get("/type/:role", middleware.AdminRequired(), userHandler.ListByRole)
	users.Get("/status/:status", middleware.AdminRequired(), userHandler.ListByStatus)
	users.Get("/:id", userHandler.Get)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", middleware.AdminRequired(), userHandler.Delete)
	users.Put("/:id/verify-agency", middleware.AdminRequired(), userHandler.VerifyAgency)

	// Statistics: the dashboard summary is shared by admins and agencies, the
	// full report and the rest are admin only
	api.Get("/statistics",
		middleware.JWTProtected(cfg), middleware.AdminRequired(), statsHandler.Statistics)
	api.Get("/statistics/dashboard",
		middleware.JWTProtected(cfg),
		middleware.RoleRequired(models.RoleAdministrateur, models.RoleAgence),
		statsHandler.Dashboard)
	api.Get("/statistics/weekly",
		middleware.JWTProtected(cfg), middleware.AdminRequired(), statsHandler.Weekly)
	api.Get("/statistics/annonces",
		middleware.JWTProtected(cfg), middleware.AdminRequired(), annonceHandler.GlobalStats)
}
