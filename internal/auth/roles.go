package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wajir-county/ict-helpdesk/pkg/errorutil"
)

// RequirePermission rejects callers whose role lacks permission before the handler runs.
func RequirePermission(permission Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, err := MustPrincipal(c)
		if err != nil {
			return err
		}
		if !Can(principal.Role(), permission) {
			return errorutil.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequireAnyRole ensures the caller is authenticated.
func RequireAnyRole() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := MustPrincipal(c); err != nil {
			return err
		}
		return c.Next()
	}
}
