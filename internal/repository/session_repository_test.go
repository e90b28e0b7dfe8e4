package repository_test

import (
	"context"
	"time"

	"github.com/alicebob/miniredis/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"

	"github.com/wajir-county/ict-helpdesk/internal/domain"
	"github.com/wajir-county/ict-helpdesk/internal/repository"
)

var _ = Describe("RedisSessionRepository", func() {
	var (
		ctx      context.Context
		mr       *miniredis.Miniredis
		sessions repository.SessionRepository
		session  *domain.Session
	)

	BeforeEach(func() {
		ctx = context.Background()
		mr = miniredis.RunT(GinkgoT())
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		DeferCleanup(client.Close)
		sessions = repository.NewRedisSessionRepository(client)

		now := time.Now().UTC().Truncate(time.Second)
		session = &domain.Session{
			ID:        "3f1c2a9e-5b7d-4e8a-9c0f-1a2b3c4d5e6f",
			UserID:    "user-1",
			Email:     "amina@wajir.go.ke",
			CreatedAt: now,
			ExpiresAt: now.Add(time.Hour),
		}
	})

	It("stores and loads a session", func() {
		Expect(sessions.Create(ctx, session)).To(Succeed())

		loaded, err := sessions.Get(ctx, session.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.UserID).To(Equal("user-1"))
		Expect(loaded.Email).To(Equal("amina@wajir.go.ke"))
		Expect(loaded.ExpiresAt.Equal(session.ExpiresAt)).To(BeTrue())

		Expect(mr.Exists("session:" + session.ID)).To(BeTrue())
		Expect(mr.TTL("session:" + session.ID)).To(BeNumerically(">", 59*time.Minute))
	})

	It("refuses a duplicate session id", func() {
		Expect(sessions.Create(ctx, session)).To(Succeed())
		Expect(sessions.Create(ctx, session)).To(MatchError(repository.ErrConflict))
	})

	It("refuses a session that has already expired", func() {
		session.ExpiresAt = time.Now().Add(-time.Minute)
		Expect(sessions.Create(ctx, session)).NotTo(Succeed())
		Expect(mr.Keys()).To(BeEmpty())
	})

	It("reports a missing session as not found", func() {
		_, err := sessions.Get(ctx, "unknown")
		Expect(err).To(MatchError(repository.ErrNotFound))
	})

	It("forgets a deleted session", func() {
		Expect(sessions.Create(ctx, session)).To(Succeed())
		Expect(sessions.Delete(ctx, session.ID)).To(Succeed())

		_, err := sessions.Get(ctx, session.ID)
		Expect(err).To(MatchError(repository.ErrNotFound))
		Expect(sessions.Delete(ctx, session.ID)).To(Succeed())
	})

	It("lets redis expire the session with its lifetime", func() {
		Expect(sessions.Create(ctx, session)).To(Succeed())

		mr.FastForward(61 * time.Minute)

		_, err := sessions.Get(ctx, session.ID)
		Expect(err).To(MatchError(repository.ErrNotFound))
	})
})
