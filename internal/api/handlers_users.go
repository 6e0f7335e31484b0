package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/daybook/internal/services"
)

func (handler *Handler) RegisterUser(c *fiber.Ctx) error {
	input := registerRequest{}
	if err := c.BodyParser(&input); err != nil {
		return invalidInput(c)
	}

	handler.ensureDependencies()
	user, err := handler.userService.Register(services.RegisterInput{
		Email:     input.Email,
		Password:  input.Password,
		FirstName: input.FirstName,
		LastName:  input.LastName,
	})
	if err != nil {
		return respondServiceError(c, err, "failed to create user")
	}

	slog.Info("user registered", "user_id", user.ID)
	return c.Status(fiber.StatusCreated).JSON(user)
}

func (handler *Handler) ListUsers(c *fiber.Ctx) error {
	handler.ensureDependencies()
	users, err := handler.userService.List()
	if err != nil {
		return respondServiceError(c, err, "failed to load users")
	}
	return c.JSON(users)
}

func (handler *Handler) GetCurrentUser(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "could not validate credentials")
	}
	return c.JSON(user)
}

func (handler *Handler) GetUser(c *fiber.Ctx) error {
	actor, _ := currentUser(c)
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return invalidInput(c)
	}
	if !services.CanActOnUser(actor, userID) {
		return respondServiceError(c, services.ErrPermissionDenied, "")
	}

	handler.ensureDependencies()
	user, err := handler.userService.Get(userID)
	if err != nil {
		return respondServiceError(c, err, "failed to load user")
	}
	return c.JSON(user)
}

func (handler *Handler) UpdateUser(c *fiber.Ctx) error {
	actor, _ := currentUser(c)
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return invalidInput(c)
	}
	input := userUpdateRequest{}
	if err := c.BodyParser(&input); err != nil {
		return invalidInput(c)
	}

	handler.ensureDependencies()
	user, err := handler.userService.Update(actor, userID, input.patch())
	if err != nil {
		return respondServiceError(c, err, "failed to update user")
	}
	return c.JSON(user)
}

func (handler *Handler) DeleteUser(c *fiber.Ctx) error {
	actor, _ := currentUser(c)
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return invalidInput(c)
	}

	handler.ensureDependencies()
	if err := handler.userService.Delete(actor, userID); err != nil {
		return respondServiceError(c, err, "failed to delete user")
	}

	slog.Info("user deleted", "user_id", userID, "actor_id", actor.ID)
	return c.JSON(fiber.Map{"deleted": userID})
}
