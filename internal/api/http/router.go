package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/whistleblow-portal/internal/api/http/handlers"
	"github.com/spec-kit/whistleblow-portal/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Public         *handlers.PublicHandler
	Whistleblower  *handlers.WhistleblowerHandler
	Admin          *handlers.AdminHandler
	Users          *handlers.UsersHandler
	Settings       *handlers.SettingsHandler
	Attachments    *handlers.AttachmentsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	// Public intake surface.
	api.Post("/reports", cfg.Public.SubmitReport)
	api.Get("/categories", cfg.Public.Categories)
	api.Get("/settings", cfg.Public.Settings)
	api.Put("/settings", cfg.AuthMiddleware.RequireAdmin, auth.RequireSuperAdmin(), cfg.Settings.Update)

	// Reporter case surface, scoped to the token's own report.
	wb := api.Group("/whistleblower")
	wb.Post("/login", cfg.Whistleblower.Login)
	wb.Get("/messages", cfg.AuthMiddleware.RequireReport, cfg.Whistleblower.Thread)
	wb.Post("/messages", cfg.AuthMiddleware.RequireReport, cfg.Whistleblower.AddMessage)

	// Case-handler surface.
	admin := api.Group("/admin")
	admin.Post("/login", cfg.Admin.Login)

	reports := admin.Group("/reports", cfg.AuthMiddleware.RequireAdmin)
	reports.Get("/", cfg.Admin.ListReports)
	reports.Get("/:id", cfg.Admin.GetReport)
	reports.Post("/:id/messages", cfg.Admin.AddMessage)
	reports.Patch("/:id/status", cfg.Admin.UpdateStatus)
	reports.Post("/:id/confirmation", cfg.Admin.ConfirmReceipt)
	reports.Get("/:id/export", cfg.Admin.ExportProtocol)

	super := admin.Group("", cfg.AuthMiddleware.RequireAdmin, auth.RequireSuperAdmin())
	super.Get("/users", cfg.Users.List)
	super.Post("/users", cfg.Users.Create)
	super.Delete("/users/:id", cfg.Users.Delete)

	// Downloads accept either token kind; access is decided per attachment.
	api.Get("/attachments/:id", cfg.AuthMiddleware.RequireAny, cfg.Attachments.Download)
}
