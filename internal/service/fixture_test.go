package service_test

import (
	"context"
	"time"

	"github.com/alicebob/miniredis/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/wajir-county/ict-helpdesk/internal/auth"
	"github.com/wajir-county/ict-helpdesk/internal/cache"
	"github.com/wajir-county/ict-helpdesk/internal/config"
	"github.com/wajir-county/ict-helpdesk/internal/dashboard"
	"github.com/wajir-county/ict-helpdesk/internal/domain"
	"github.com/wajir-county/ict-helpdesk/internal/events"
	"github.com/wajir-county/ict-helpdesk/internal/repository"
	"github.com/wajir-county/ict-helpdesk/internal/repository/memstore"
	"github.com/wajir-county/ict-helpdesk/internal/service"
)

type fixture struct {
	ctx        context.Context
	now        time.Time
	store      *memstore.Store
	dispatcher events.Dispatcher
	settings   *service.SettingsService
	tickets    *service.TicketService
	auth       *service.AuthService
	users      *service.UserService
	dashboard  *service.DashboardService
	authCfg    config.AuthConfig
	tokens     *auth.TokenManager
}

func newFixture(requireVerification bool) *fixture {
	f := &fixture{
		ctx:        context.Background(),
		now:        time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC),
		dispatcher: events.NewInMemoryDispatcher(),
	}
	clock := func() time.Time { return f.now }

	store, err := memstore.New(memstore.WithClock(clock))
	Expect(err).NotTo(HaveOccurred())
	f.store = store

	f.settings = service.NewSettingsService(store.Settings(), f.dispatcher)
	f.tickets = service.NewTicketService(service.TicketDependencies{
		TicketRepo:  store.Tickets(),
		HistoryRepo: store.TicketHistory(),
		Settings:    f.settings,
		Cache:       cache.NewTicketListCache(nil, 0, zap.NewNop()),
		Dispatcher:  f.dispatcher,
		Clock:       clock,
	})
	f.authCfg = config.AuthConfig{
		JWTSecret:                   "test-secret",
		AccessTokenTTLMinutes:       60,
		PasswordResetTTLMinutes:     30,
		EmailVerificationTTLMinutes: 60,
		BcryptCost:                  bcrypt.MinCost,
		RequireEmailVerification:    requireVerification,
	}
	f.tokens = auth.NewTokenManager(f.authCfg.JWTSecret, f.authCfg.AccessTokenTTLMinutes).WithClock(clock)
	f.auth = f.authService(store.Sessions(), zap.NewNop())
	f.users = service.NewUserService(store.Users(), f.dispatcher, nil)
	f.dashboard = service.NewDashboardService(store.Tickets(), dashboard.DefaultSLAPolicy(), clock)
	return f
}

func (f *fixture) authService(sessions repository.SessionRepository, logger *zap.Logger) *service.AuthService {
	return service.NewAuthService(f.authCfg, service.AuthDependencies{
		AccountRepo:   f.store.Accounts(),
		UserRepo:      f.store.Users(),
		AuthTokenRepo: f.store.AuthTokens(),
		SessionRepo:   sessions,
		TokenManager:  f.tokens,
		Dispatcher:    f.dispatcher,
		Logger:        logger,
		Clock:         func() time.Time { return f.now },
	})
}

// withListCache rebuilds the ticket service over a redis-backed list cache.
func (f *fixture) withListCache() *miniredis.Miniredis {
	mr := miniredis.RunT(GinkgoT())
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	DeferCleanup(client.Close)
	f.tickets = service.NewTicketService(service.TicketDependencies{
		TicketRepo:  f.store.Tickets(),
		HistoryRepo: f.store.TicketHistory(),
		Settings:    f.settings,
		Cache:       cache.NewTicketListCache(client, time.Minute, zap.NewNop()),
		Dispatcher:  f.dispatcher,
		Clock:       func() time.Time { return f.now },
	})
	return mr
}

// principal stores a profile and returns a caller for it.
func (f *fixture) principal(email, name string, role domain.Role) *auth.Principal {
	profile := &domain.UserProfile{Email: email, Name: name, Department: "Health Services", Role: role}
	Expect(f.store.Users().Create(f.ctx, profile)).To(Succeed())
	return &auth.Principal{
		Session: &domain.Session{ID: "session-" + profile.ID, UserID: profile.ID, Email: profile.Email},
		Profile: profile,
	}
}

func (f *fixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func (f *fixture) submit(caller *auth.Principal, title, description string, category domain.TicketCategory) *domain.Ticket {
	ticket, err := f.tickets.CreateTicket(f.ctx, caller, service.TicketCreateInput{
		Title:       title,
		Description: description,
		Category:    category,
	})
	Expect(err).NotTo(HaveOccurred())
	return ticket
}

// capture records the payload of every event of the given type.
func capture[T any](dispatcher events.Dispatcher, eventType events.EventType) *[]T {
	seen := &[]T{}
	dispatcher.Subscribe(eventType, func(_ context.Context, event events.Event) error {
		if payload, ok := event.Payload.(T); ok {
			*seen = append(*seen, payload)
		}
		return nil
	})
	return seen
}
