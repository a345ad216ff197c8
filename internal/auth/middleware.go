package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Julz681/KanMind-Backend/internal/apperr"
)

const localsUserID = "user_id"

// Middleware enforces a Bearer access token on protected routes and stores
// the resolved user id in the request locals.
func Middleware(tokens *TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return apperr.Unauthorized("missing token")
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return apperr.Unauthorized("invalid token")
		}

		userID, err := tokens.Resolve(strings.TrimSpace(parts[1]))
		if err != nil {
			return err
		}

		c.Locals(localsUserID, userID)
		return c.Next()
	}
}

// UserID extracts the authenticated user id set by Middleware.
func UserID(c *fiber.Ctx) (string, error) {
	if uid, ok := c.Locals(localsUserID).(string); ok && uid != "" {
		return uid, nil
	}
	return "", apperr.Unauthorized("unauthorized")
}
