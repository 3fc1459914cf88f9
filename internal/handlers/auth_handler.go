package handlers

import (
	"errors"

	"github.com/arzan03/DoctorsPortal/internal/services"
	"github.com/gofiber/fiber/v2"
)

// IssueToken answers GET /jwt?email=. Unknown emails get 403 with an
// empty token rather than the generic error body.
func (h *Handler) IssueToken(c *fiber.Ctx) error {
	token, err := h.auth.IssueToken(c.UserContext(), c.Query("email"))
	if errors.Is(err, services.ErrForbidden) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"accessToken": ""})
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"accessToken": token})
}
