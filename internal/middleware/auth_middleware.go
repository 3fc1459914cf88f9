package middleware

import (
	"fmt"
	"strings"

	"github.com/arzan03/DoctorsPortal/internal/services"
	"github.com/gofiber/fiber/v2"
)

// EmailKey is the Locals key holding the verified caller email.
const EmailKey = "email"

type TokenParser interface {
	ParseToken(raw string) (*services.Claims, error)
}

// AuthMiddleware validates the bearer token and stores the caller email.
// A missing header is 401, anything wrong with the token is 403.
func AuthMiddleware(tokens TokenParser) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return services.ErrUnauthorized
		}

		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(tokenString) == "" {
			return fmt.Errorf("%w: malformed authorization header", services.ErrForbidden)
		}

		claims, err := tokens.ParseToken(strings.TrimSpace(tokenString))
		if err != nil {
			return err
		}

		c.Locals(EmailKey, claims.Email)
		return c.Next()
	}
}

// Identity returns the email stored by AuthMiddleware, or "".
func Identity(c *fiber.Ctx) string {
	email, _ := c.Locals(EmailKey).(string)
	return email
}
