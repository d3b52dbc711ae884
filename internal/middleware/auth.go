package middleware

import (
	"event-registration-backend/internal/apperrors"
	"event-registration-backend/internal/config"
	"event-registration-backend/internal/models"
	"event-registration-backend/internal/services"
	"event-registration-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
)

const currentUserKey = "current_user"

// TelegramAuth resolves the caller from the X-Telegram-Init-Data header and
// stores the user in the request locals. A missing header is a request
// validation failure (422), an unverifiable one is an authentication failure.
func TelegramAuth(authSvc *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		initData := c.Get("X-Telegram-Init-Data")
		if initData == "" {
			return utils.ErrorWithCode(c, string(apperrors.CodeValidation),
				"X-Telegram-Init-Data header is required", fiber.StatusUnprocessableEntity)
		}

		user, err := authSvc.Authenticate(initData)
		if err != nil {
			return err
		}

		c.Locals(currentUserKey, user)
		return c.Next()
	}
}

// AdminOnly gates a route group to the configured admin telegram ids.
// Must run after TelegramAuth.
func AdminOnly(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return apperrors.New(apperrors.CodeUnauthenticated, "Authentication required")
		}
		if !cfg.IsAdmin(user.TelegramID) {
			return apperrors.New(apperrors.CodeForbidden,
				"Access denied. Administrator privileges required.")
		}
		return c.Next()
	}
}

// CurrentUser returns the authenticated user stored by TelegramAuth, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(currentUserKey).(*models.User)
	return user
}
