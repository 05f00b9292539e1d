package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lostfound-service/internal/api/http/handlers"
	"github.com/spec-kit/lostfound-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Items          *handlers.ItemsHandler
	Admin          *handlers.AdminHandler
	Leaderboard    *handlers.LeaderboardHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. The catch-all item detail route is
// registered last so concrete paths keep precedence.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Get("/", cfg.AuthMiddleware.Optional, cfg.Items.Feed)
	app.Get("/dashboard", cfg.AuthMiddleware.Optional, cfg.Items.Feed)
	app.Get("/leaderboard", cfg.AuthMiddleware.Optional, cfg.Leaderboard.Top)

	app.Post("/signup", cfg.Auth.Signup)
	app.Post("/login", cfg.Auth.Login)
	app.Get("/logout", cfg.AuthMiddleware.Optional, cfg.Auth.Logout)

	app.Post("/admin/login", cfg.Admin.Login)
	app.Get("/admin/logout", cfg.AuthMiddleware.Optional, cfg.Admin.Logout)

	requireUser := auth.RequireUser()
	app.Post("/report-lost", cfg.AuthMiddleware.Handle, requireUser, cfg.Items.ReportLost)
	app.Post("/report-found", cfg.AuthMiddleware.Handle, requireUser, cfg.Items.ReportFound)
	app.Get("/me", cfg.AuthMiddleware.Handle, requireUser, cfg.Auth.Me)

	adminGroup := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	adminGroup.Get("/dashboard", cfg.Admin.Dashboard)
	adminGroup.Post("/:kind/:id/status", cfg.Admin.Decide)

	app.Get("/:kind/:id", cfg.AuthMiddleware.Handle, cfg.Items.GetItem)
}
