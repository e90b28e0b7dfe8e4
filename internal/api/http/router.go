package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wajir-county/ict-helpdesk/internal/api/http/handlers"
	"github.com/wajir-county/ict-helpdesk/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Users          *handlers.UsersHandler
	Settings       *handlers.SettingsHandler
	Dashboard      *handlers.DashboardHandler
	Info           *handlers.InfoHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	authGroup := app.Group("/auth")
	authGroup.Post("/sign-up", cfg.Auth.SignUp)
	authGroup.Post("/verify-email", cfg.Auth.VerifyEmail)
	authGroup.Post("/sign-in", cfg.Auth.SignIn)
	authGroup.Post("/password/reset/request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)

	authn := cfg.AuthMiddleware.Handle
	authGroup.Post("/sign-out", authn, cfg.Auth.SignOut)
	authGroup.Get("/session", authn, cfg.Auth.Session)
	authGroup.Post("/password/change", authn, cfg.Auth.ChangePassword)

	app.Get("/navigation", authn, cfg.Info.Navigation)
	app.Get("/departments", authn, cfg.Info.Departments)
	app.Get("/knowledge-base", authn, cfg.Info.KnowledgeBase)
	app.Post("/assistant/chat", authn, cfg.Info.Chat)

	tickets := app.Group("/tickets", authn, auth.RequireAnyRole())
	tickets.Post("/assist", auth.RequirePermission(auth.PermCreateTicket), cfg.Tickets.Assess)
	tickets.Post("", auth.RequirePermission(auth.PermCreateTicket), cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/mine", cfg.Tickets.ListMyTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Patch("/:id", cfg.Tickets.UpdateTicket)
	tickets.Get("/:id/history", cfg.Tickets.ListHistory)

	app.Get("/dashboard", authn, cfg.Dashboard.Summary)
	app.Get("/reports", authn, auth.RequirePermission(auth.PermViewReports), cfg.Dashboard.Reports)

	users := app.Group("/users", authn, auth.RequirePermission(auth.PermViewUsers))
	users.Get("", cfg.Users.ListUsers)
	users.Patch("/:id/role", auth.RequirePermission(auth.PermManageUserRoles), cfg.Users.UpdateRole)

	settings := app.Group("/settings", authn, auth.RequirePermission(auth.PermManageSettings))
	settings.Get("", cfg.Settings.Get)
	settings.Put("", cfg.Settings.Update)
}
