package handlers

import (
	"github.com/arzan03/DoctorsPortal/internal/middleware"
	"github.com/arzan03/DoctorsPortal/internal/models"
	"github.com/gofiber/fiber/v2"
)

func (h *Handler) CreateBooking(c *fiber.Ctx) error {
	var booking models.Booking
	if err := parseBody(c, &booking); err != nil {
		return err
	}

	res, err := h.bookings.Create(c.UserContext(), booking)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// ListBookings only returns the bookings of the authenticated caller.
func (h *Handler) ListBookings(c *fiber.Ctx) error {
	bookings, err := h.bookings.ListForIdentity(c.UserContext(), c.Query("email"), middleware.Identity(c))
	if err != nil {
		return err
	}
	return c.JSON(bookings)
}

// GetBooking writes null when the id is unknown.
func (h *Handler) GetBooking(c *fiber.Ctx) error {
	booking, err := h.bookings.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(booking)
}
