package handlers

import (
	"github.com/arzan03/DoctorsPortal/internal/models"
	"github.com/gofiber/fiber/v2"
)

func (h *Handler) CreatePaymentIntent(c *fiber.Ctx) error {
	var req models.PaymentIntentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	secret, err := h.payments.CreateIntent(c.UserContext(), req.Price)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"clientSecret": secret})
}

func (h *Handler) RecordPayment(c *fiber.Ctx) error {
	var payment models.Payment
	if err := parseBody(c, &payment); err != nil {
		return err
	}

	res, err := h.payments.Record(c.UserContext(), payment)
	if err != nil {
		return err
	}
	return c.JSON(res)
}
