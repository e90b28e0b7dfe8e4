package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/wajir-county/ict-helpdesk/internal/cache"
	"github.com/wajir-county/ict-helpdesk/internal/config"
	"github.com/wajir-county/ict-helpdesk/internal/dashboard"
	"github.com/wajir-county/ict-helpdesk/internal/events"
	"github.com/wajir-county/ict-helpdesk/internal/persistence"
	"github.com/wajir-county/ict-helpdesk/internal/repository"
	"github.com/wajir-county/ict-helpdesk/internal/repository/memstore"
	"github.com/wajir-county/ict-helpdesk/internal/service"
)

// application holds the backends and services shared by the commands.
type application struct {
	postgres  *persistence.Postgres
	redis     *persistence.Redis
	auth      *service.AuthService
	tickets   *service.TicketService
	users     *service.UserService
	settings  *service.SettingsService
	dashboard *service.DashboardService
}

type repositories struct {
	users    repository.UserRepository
	accounts repository.AccountRepository
	tokens   repository.AuthTokenRepository
	tickets  repository.TicketRepository
	history  repository.TicketHistoryRepository
	settings repository.SettingsRepository
	sessions repository.SessionRepository
}

// newApplication connects the configured backends. Without a Postgres DSN the
// data lives in memory; without Redis sessions do too and the list cache is off.
func newApplication(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*application, error) {
	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, err
	}
	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			pg.Close()
			return nil, err
		}
	}

	rdb, err := persistence.NewRedis(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unreachable; sessions kept in memory", zap.Error(err))
		rdb = &persistence.Redis{}
	}

	repos, err := buildRepositories(pg, rdb)
	if err != nil {
		pg.Close()
		rdb.Close()
		return nil, err
	}

	dispatcher := events.NewInMemoryDispatcher()
	service.NewNotificationService(dispatcher, logger, cfg.Notification).RegisterHandlers()

	settings := service.NewSettingsService(repos.settings, dispatcher)
	app := &application{
		postgres: pg,
		redis:    rdb,
		settings: settings,
		auth: service.NewAuthService(cfg.Auth, service.AuthDependencies{
			AccountRepo:   repos.accounts,
			UserRepo:      repos.users,
			AuthTokenRepo: repos.tokens,
			SessionRepo:   repos.sessions,
			Dispatcher:    dispatcher,
			Logger:        logger,
		}),
		tickets: service.NewTicketService(service.TicketDependencies{
			TicketRepo:  repos.tickets,
			HistoryRepo: repos.history,
			Settings:    settings,
			Cache:       cache.NewTicketListCache(rdb.Client, cfg.Cache.TicketListTTL(), logger),
			Dispatcher:  dispatcher,
			Logger:      logger,
		}),
		users:     service.NewUserService(repos.users, dispatcher, logger),
		dashboard: service.NewDashboardService(repos.tickets, dashboard.PolicyFromConfig(cfg.SLA), nil),
	}
	return app, nil
}

func buildRepositories(pg *persistence.Postgres, rdb *persistence.Redis) (repositories, error) {
	var repos repositories
	var store *memstore.Store
	if !pg.Enabled() || !rdb.Enabled() {
		var err error
		if store, err = memstore.New(); err != nil {
			return repos, err
		}
	}

	if pg.Enabled() {
		pool := pg.PoolHandle()
		repos.users = repository.NewUserRepository(pool)
		repos.accounts = repository.NewAccountRepository(pool)
		repos.tokens = repository.NewAuthTokenRepository(pool)
		repos.tickets = repository.NewTicketRepository(pool)
		repos.history = repository.NewTicketHistoryRepository(pool)
		repos.settings = repository.NewSettingsRepository(pool)
	} else {
		repos.users = store.Users()
		repos.accounts = store.Accounts()
		repos.tokens = store.AuthTokens()
		repos.tickets = store.Tickets()
		repos.history = store.TicketHistory()
		repos.settings = store.Settings()
	}

	if rdb.Enabled() {
		repos.sessions = repository.NewRedisSessionRepository(rdb.Client)
	} else {
		repos.sessions = store.Sessions()
	}
	return repos, nil
}

func (a *application) close() {
	a.redis.Close()
	a.postgres.Close()
}
