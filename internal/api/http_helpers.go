package api

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/daybook/internal/services"
)

var errInvalidIDParam = errors.New("invalid id")

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// ErrorHandler renders errors that escaped the handlers in the API error shape.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return apiError(c, fiberErr.Code, strings.ToLower(fiberErr.Message))
	}
	slog.Error("unhandled request error", "method", c.Method(), "path", c.Path(), "error", err)
	return apiError(c, fiber.StatusInternalServerError, "internal server error")
}

func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	value, err := strconv.ParseUint(strings.TrimSpace(c.Params(name)), 10, 64)
	if err != nil || value == 0 {
		return 0, errInvalidIDParam
	}
	return uint(value), nil
}

func invalidInput(c *fiber.Ctx) error {
	return apiError(c, fiber.StatusUnprocessableEntity, "invalid input")
}

// respondServiceError maps service sentinels to HTTP statuses. Anything
// unknown is logged and reported as fallback with status 500.
func respondServiceError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrPermissionDenied):
		return apiError(c, fiber.StatusForbidden, services.ErrPermissionDenied.Error())
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrNoteNotFound),
		errors.Is(err, services.ErrDayRatingNotFound),
		errors.Is(err, services.ErrPollNotFound):
		return apiError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrDayRatingExists):
		return apiError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidEmail),
		errors.Is(err, services.ErrFirstNameRequired),
		errors.Is(err, services.ErrWeakPassword),
		errors.Is(err, services.ErrInvalidNoteType),
		errors.Is(err, services.ErrInvalidNoteText),
		errors.Is(err, services.ErrNoteDateInPast),
		errors.Is(err, services.ErrDayRatingEmpty):
		return apiError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidNoteQuery),
		errors.Is(err, services.ErrInvalidCalendarDate):
		return apiError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	slog.Error(fallback, "method", c.Method(), "path", c.Path(), "error", err)
	return apiError(c, fiber.StatusInternalServerError, fallback)
}
