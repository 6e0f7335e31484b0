package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/daybook/internal/models"
)

func (handler *Handler) GetTodayPoll(c *fiber.Ctx) error {
	actor, _ := currentUser(c)
	userID, err := parseIDParam(c, "user_id")
	if err != nil {
		return invalidInput(c)
	}

	handler.ensureDependencies()
	poll, err := handler.pollService.GetTodayFor(actor, userID)
	if err != nil {
		return respondServiceError(c, err, "failed to load poll")
	}
	return c.JSON(newPollView(poll))
}

func (handler *Handler) CompletePoll(c *fiber.Ctx) error {
	actor, _ := currentUser(c)
	pollID, err := parseIDParam(c, "id")
	if err != nil {
		return invalidInput(c)
	}

	handler.ensureDependencies()
	if err := handler.pollService.CompleteFor(actor, pollID); err != nil {
		return respondServiceError(c, err, "failed to complete poll")
	}
	return c.JSON(fiber.Map{"completed": pollID})
}

// ListPollPrompts returns the stored catalog, optionally narrowed by ?category.
func (handler *Handler) ListPollPrompts(c *fiber.Ctx) error {
	handler.ensureDependencies()

	raw := strings.TrimSpace(c.Query("category"))
	if raw == "" {
		prompts, err := handler.pollCatalog.ListAll()
		if err != nil {
			return respondServiceError(c, err, "failed to load prompts")
		}
		return c.JSON(prompts)
	}

	category, ok := models.ParsePollCategory(raw)
	if !ok {
		return invalidInput(c)
	}
	prompts, err := handler.pollCatalog.AllPromptsFor(category)
	if err != nil {
		return respondServiceError(c, err, "failed to load prompts")
	}
	return c.JSON(prompts)
}
