package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/daybook/internal/services"
)

func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	user, err := handler.authenticateRequest(c)
	if err != nil {
		if errors.Is(err, services.ErrUserInactive) {
			return apiError(c, fiber.StatusBadRequest, "inactive user")
		}
		c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		return apiError(c, fiber.StatusUnauthorized, "could not validate credentials")
	}

	c.Locals(contextUserKey, user)
	return c.Next()
}
