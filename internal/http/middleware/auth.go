package middleware

import (
	"github.com/gofiber/fiber/v2"

	"payrollportal/internal/model"
	"payrollportal/internal/session"
)

// AccountLocalKey is the key the authenticated account is stored under in
// Fiber's context locals.
const AccountLocalKey = "current_account"

// AccountFromCtx returns the account resolved by RequireSession, or nil when
// the request carries no valid session.
func AccountFromCtx(c *fiber.Ctx) *model.Account {
	if acc, ok := c.Locals(AccountLocalKey).(*model.Account); ok {
		return acc
	}
	return nil
}

// RequireSession resolves the session cookie to an account and stores it in
// context locals. Requests without a valid session get 401.
func RequireSession(sessions *session.Manager, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(cookieName)
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}
		acc, ok := sessions.Get(token)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}
		c.Locals(AccountLocalKey, &acc)
		return c.Next()
	}
}

// RequireAdmin gates a route to administrator sessions. Must run after
// RequireSession.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		acc := AccountFromCtx(c)
		if acc == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}
		if !acc.IsAdmin() {
			return fiber.NewError(fiber.StatusForbidden, "administrator role required")
		}
		return c.Next()
	}
}
