package handlers

import (
	"fmt"

	"github.com/arzan03/DoctorsPortal/internal/services"
	"github.com/gofiber/fiber/v2"
)

// Handler serves the portal routes on top of the service layer.
type Handler struct {
	auth         *services.AuthService
	availability *services.AvailabilityService
	bookings     *services.BookingService
	payments     *services.PaymentService
	directory    *services.DirectoryService
}

func New(auth *services.AuthService, availability *services.AvailabilityService, bookings *services.BookingService,
	payments *services.PaymentService, directory *services.DirectoryService) *Handler {
	return &Handler{
		auth:         auth,
		availability: availability,
		bookings:     bookings,
		payments:     payments,
		directory:    directory,
	}
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", services.ErrInvalidInput, err)
	}
	return nil
}
