package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/daybook/internal/services"
)

func (handler *Handler) StaffOnly(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "could not validate credentials")
	}
	if !services.IsStaffUser(user) {
		return apiError(c, fiber.StatusForbidden, "not enough permissions")
	}
	return c.Next()
}
