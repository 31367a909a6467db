package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"payrollportal/internal/config"
	"payrollportal/internal/http/middleware"
	"payrollportal/internal/service"
	"payrollportal/internal/session"
)

type registerRequest struct {
	OwnerID     string `json:"owner_id"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type loginRequest struct {
	OwnerID  string `json:"owner_id"`
	Password string `json:"password"`
}

// Register creates an employee account.
func Register(accounts service.AccountService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req registerRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		acc, err := accounts.Register(c.UserContext(), req.OwnerID, req.Password, req.DisplayName)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrFieldsRequired):
				return writeError(c, fiber.StatusBadRequest, "FIELDS_REQUIRED", "owner id and password are required")
			case errors.Is(err, service.ErrDuplicateOwner):
				return writeError(c, fiber.StatusConflict, "DUPLICATE_OWNER", "owner id already registered")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.Status(fiber.StatusCreated).JSON(acc)
	}
}

// Login authenticates and opens a session delivered as an HTTP-only cookie.
// The rejection is identical whether the owner id is unknown or the password
// is wrong.
func Login(accounts service.AccountService, sessions *session.Manager, cfg config.SessionConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		acc, err := accounts.Authenticate(c.UserContext(), req.OwnerID, req.Password)
		if err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) {
				return writeError(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid owner id or password")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		token := sessions.Create(*acc)
		c.Cookie(&fiber.Cookie{
			Name:     cfg.CookieName,
			Value:    token,
			Expires:  time.Now().Add(time.Duration(cfg.TTLMinutes) * time.Minute),
			HTTPOnly: true,
			Secure:   cfg.Secure,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		return c.JSON(acc)
	}
}

// Logout destroys the current session and expires the cookie.
func Logout(sessions *session.Manager, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := c.Cookies(cookieName); token != "" {
			sessions.Destroy(token)
		}
		c.Cookie(&fiber.Cookie{
			Name:     cookieName,
			Value:    "",
			Expires:  time.Now().Add(-time.Hour),
			HTTPOnly: true,
		})
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// Me returns the account behind the current session.
func Me() fiber.Handler {
	return func(c *fiber.Ctx) error {
		acc := middleware.AccountFromCtx(c)
		if acc == nil {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		}
		return c.JSON(acc)
	}
}
