package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/daybook/internal/models"
)

const contextUserKey = "current_user"

func currentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(contextUserKey).(*models.User)
	return user, ok && user != nil
}
