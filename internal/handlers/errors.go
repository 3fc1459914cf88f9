package handlers

import (
	"errors"

	"github.com/arzan03/DoctorsPortal/internal/services"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandler turns errors returned by handlers into {"message": ...}
// responses. Anything not recognised is hidden behind a 500; the request
// logger records the underlying error.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code, msg := statusFor(err)
		return c.Status(code).JSON(fiber.Map{"message": msg})
	}
}

func statusFor(err error) (int, string) {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code, fe.Message
	case errors.Is(err, services.ErrUnauthorized):
		return fiber.StatusUnauthorized, services.ErrUnauthorized.Error()
	case errors.Is(err, services.ErrForbidden):
		return fiber.StatusForbidden, services.ErrForbidden.Error()
	case errors.Is(err, services.ErrInvalidInput):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrPaymentProvider):
		return fiber.StatusBadGateway, services.ErrPaymentProvider.Error()
	default:
		return fiber.StatusInternalServerError, "internal server error"
	}
}
