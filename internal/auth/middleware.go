package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/wajir-county/ict-helpdesk/internal/domain"
	"github.com/wajir-county/ict-helpdesk/pkg/errorutil"
)

const (
	principalKey = "auth_principal"
	tokenKey     = "auth_token"
)

// Principal represents the authenticated caller.
type Principal struct {
	Session *domain.Session
	Profile *domain.UserProfile
}

// UserID returns the caller's profile ID.
func (p *Principal) UserID() string {
	if p == nil || p.Profile == nil {
		return ""
	}
	return p.Profile.ID
}

// Role returns the caller's role.
func (p *Principal) Role() domain.Role {
	if p == nil || p.Profile == nil {
		return ""
	}
	return p.Profile.Role
}

// SessionResolver restores a session and its profile from a bearer token.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*Principal, error)
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	sessions SessionResolver
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(sessions SessionResolver) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return errorutil.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return errorutil.NewUnauthorized("invalid authorization header")
	}
	token := strings.TrimSpace(parts[1])

	principal, err := m.sessions.ResolveSession(c.UserContext(), token)
	if err != nil {
		return err
	}

	c.Locals(principalKey, principal)
	c.Locals(tokenKey, token)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	principal, ok := c.Locals(principalKey).(*Principal)
	return principal, ok && principal != nil
}

// MustPrincipal returns the principal or an UNAUTHORIZED error.
func MustPrincipal(c *fiber.Ctx) (*Principal, error) {
	principal, ok := PrincipalFromContext(c)
	if !ok || principal.Profile == nil {
		return nil, errorutil.NewUnauthorized("authentication required")
	}
	return principal, nil
}
