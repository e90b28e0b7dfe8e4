package auth_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/wajir-county/ict-helpdesk/internal/auth"
)

var _ = Describe("TokenManager", func() {
	var tokens *auth.TokenManager

	BeforeEach(func() {
		tokens = auth.NewTokenManager("test-secret", 30)
	})

	It("round-trips the session and subject", func() {
		signed, err := tokens.GenerateToken("session-1", "user-1", "jane@wajir.go.ke", time.Now().Add(time.Hour))
		Expect(err).NotTo(HaveOccurred())

		claims, err := tokens.ParseToken(signed)
		Expect(err).NotTo(HaveOccurred())
		Expect(claims.SessionID()).To(Equal("session-1"))
		Expect(claims.Subject).To(Equal("user-1"))
		Expect(claims.Email).To(Equal("jane@wajir.go.ke"))
	})

	It("rejects expired tokens", func() {
		signed, err := tokens.GenerateToken("session-1", "user-1", "jane@wajir.go.ke", time.Now().Add(-time.Minute))
		Expect(err).NotTo(HaveOccurred())
		_, err = tokens.ParseToken(signed)
		Expect(err).To(HaveOccurred())
	})

	It("rejects tokens signed with another secret", func() {
		other := auth.NewTokenManager("other-secret", 30)
		signed, err := other.GenerateToken("session-1", "user-1", "jane@wajir.go.ke", time.Now().Add(time.Hour))
		Expect(err).NotTo(HaveOccurred())
		_, err = tokens.ParseToken(signed)
		Expect(err).To(HaveOccurred())
	})

	It("defaults the ttl when none is configured", func() {
		Expect(auth.NewTokenManager("s", 0).TTL()).To(Equal(time.Hour))
	})
})

var _ = Describe("Passwords", func() {
	It("hashes and compares", func() {
		hash, err := auth.HashPassword("Demo123!", 4)
		Expect(err).NotTo(HaveOccurred())
		Expect(auth.ComparePassword(hash, "Demo123!")).To(Succeed())
		Expect(auth.ComparePassword(hash, "wrong")).NotTo(Succeed())
	})
})
