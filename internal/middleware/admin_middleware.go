package middleware

import (
	"context"
	"fmt"

	"github.com/arzan03/DoctorsPortal/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AdminChecker interface {
	RequireAdmin(ctx context.Context, email string) error
}

// AdminMiddleware ensures the caller's stored user has the admin role.
// Mount it after AuthMiddleware.
func AdminMiddleware(admins AdminChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		email := Identity(c)
		if email == "" {
			return fmt.Errorf("%w: no verified identity", services.ErrForbidden)
		}

		if err := admins.RequireAdmin(c.UserContext(), email); err != nil {
			return err
		}
		return c.Next()
	}
}
