package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// ListAvailableOptions answers GET /appoinmentOption?date=.
func (h *Handler) ListAvailableOptions(c *fiber.Ctx) error {
	options, err := h.availability.AvailableSlots(c.UserContext(), c.Query("date"))
	if err != nil {
		return err
	}
	return c.JSON(options)
}

// ListAvailableOptionsV2 computes the same answer with the aggregation pipeline.
func (h *Handler) ListAvailableOptionsV2(c *fiber.Ctx) error {
	options, err := h.availability.AvailableSlotsAggregated(c.UserContext(), c.Query("date"))
	if err != nil {
		return err
	}
	return c.JSON(options)
}

func (h *Handler) ListSpecialties(c *fiber.Ctx) error {
	specialties, err := h.availability.Specialties(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(specialties)
}
