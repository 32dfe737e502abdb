package routes

import (
	"time"

	"github.com/veyra-social/moderation-backend/internal/config"
	"github.com/veyra-social/moderation-backend/internal/handlers"
	"github.com/veyra-social/moderation-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	healthHandler *handlers.HealthHandler,
	reportHandler *handlers.ReportHandler,
	moderationHandler *handlers.ModerationHandler,
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

	// Report submission gets its own stricter limit: 10 req/min per IP, so
	// a report-bombing client cannot flood the triage queue.
	submit := api.Group("/reports")
	submit.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	submit.Post("/", middleware.JWTProtected(cfg), reportHandler.Submit)
	submit.Get("/mine", middleware.JWTProtected(cfg), reportHandler.Mine)

	// Moderation panel (JWT + moderator role or admin token)
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(db, cfg))
	admin.Get("/moderation/reports", moderationHandler.ListReports)
	admin.Get("/moderation/reports/:id", moderationHandler.GetReport)
	admin.Get("/moderation/reports/:id/audit", moderationHandler.AuditTrail)
	admin.Put("/moderation/reports/:id/assign", moderationHandler.Assign)
	admin.Put("/moderation/reports/:id/status", moderationHandler.Transition)
	admin.Put("/moderation/reports/:id/classification", moderationHandler.Reclassify)
	admin.Post("/moderation/reports/:id/actions", moderationHandler.TakeAction)
}
