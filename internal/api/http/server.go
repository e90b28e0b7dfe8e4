package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/wajir-county/ict-helpdesk/internal/api/http/handlers"
	"github.com/wajir-county/ict-helpdesk/internal/auth"
	"github.com/wajir-county/ict-helpdesk/internal/observability"
	"github.com/wajir-county/ict-helpdesk/internal/persistence"
	"github.com/wajir-county/ict-helpdesk/internal/service"
)

// ServerConfig collects everything the HTTP app is built from.
type ServerConfig struct {
	AppName        string
	Version        string
	RequestTimeout time.Duration
	Logger         *zap.Logger
	Metrics        *observability.Metrics
	Postgres       *persistence.Postgres
	Redis          *persistence.Redis
	Auth           *service.AuthService
	Tickets        *service.TicketService
	Users          *service.UserService
	Settings       *service.SettingsService
	Dashboard      *service.DashboardService
}

// NewServer builds the fiber app with middlewares and routes registered.
func NewServer(cfg ServerConfig) *fiber.App {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		DisableStartupMessage: true,
		ErrorHandler:          ErrorHandler(logger),
	})
	RegisterMiddlewares(app, logger, cfg.Metrics, cfg.RequestTimeout)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.AppName, cfg.Version, cfg.Postgres, cfg.Redis, cfg.Metrics),
		Auth:           handlers.NewAuthHandler(cfg.Auth),
		Tickets:        handlers.NewTicketsHandler(cfg.Tickets),
		Users:          handlers.NewUsersHandler(cfg.Users),
		Settings:       handlers.NewSettingsHandler(cfg.Settings),
		Dashboard:      handlers.NewDashboardHandler(cfg.Dashboard),
		Info:           handlers.NewInfoHandler(),
		AuthMiddleware: auth.NewAuthMiddleware(cfg.Auth),
	})
	return app
}
