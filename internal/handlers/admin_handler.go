package handlers

import (
	"github.com/arzan03/DoctorsPortal/internal/models"
	"github.com/gofiber/fiber/v2"
)

func (h *Handler) ListUsers(c *fiber.Ctx) error {
	users, err := h.directory.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(users)
}

func (h *Handler) CreateUser(c *fiber.Ctx) error {
	var user models.User
	if err := parseBody(c, &user); err != nil {
		return err
	}

	res, err := h.directory.CreateUser(c.UserContext(), user)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func (h *Handler) IsAdmin(c *fiber.Ctx) error {
	isAdmin, err := h.directory.IsAdmin(c.UserContext(), c.Params("email"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"isAdmin": isAdmin})
}

// PromoteToAdmin is mounted behind the admin middleware.
func (h *Handler) PromoteToAdmin(c *fiber.Ctx) error {
	res, err := h.directory.PromoteToAdmin(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(res)
}
