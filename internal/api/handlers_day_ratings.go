package api

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/daybook/internal/services"
)

func (handler *Handler) CreateDayRating(c *fiber.Ctx) error {
	actor, _ := currentUser(c)
	input := dayRatingRequest{}
	if err := c.BodyParser(&input); err != nil {
		return invalidInput(c)
	}

	handler.ensureDependencies()
	rating, err := handler.dayRatingService.Create(actor, input.input(), handler.today())
	if err != nil {
		return respondServiceError(c, err, "failed to create day rating")
	}
	return c.Status(fiber.StatusCreated).JSON(newDayRatingView(rating))
}

func (handler *Handler) ListDayRatings(c *fiber.Ctx) error {
	handler.ensureDependencies()
	ratings, err := handler.dayRatingService.ListAll()
	if err != nil {
		return respondServiceError(c, err, "failed to load day ratings")
	}
	return c.JSON(newDayRatingViews(ratings))
}

// ListMyDayRatings keeps ratings that have a value for every field passed as
// true in the query, e.g. ?mood=true&health=true.
func (handler *Handler) ListMyDayRatings(c *fiber.Ctx) error {
	actor, _ := currentUser(c)
	filter := services.DayRatingFieldFilter{}
	for name, target := range map[string]*bool{
		"mood":                  &filter.Mood,
		"notes":                 &filter.Notes,
		"health":                &filter.Health,
		"next_day_expectations": &filter.NextDayExpectations,
	} {
		raw := strings.TrimSpace(c.Query(name))
		if raw == "" {
			continue
		}
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return invalidInput(c)
		}
		*target = value
	}

	handler.ensureDependencies()
	ratings, err := handler.dayRatingService.ListForUser(actor.ID, filter)
	if err != nil {
		return respondServiceError(c, err, "failed to load day ratings")
	}
	return c.JSON(newDayRatingViews(ratings))
}

func (handler *Handler) GetDayRating(c *fiber.Ctx) error {
	actor, _ := currentUser(c)
	userID, day, err := handler.dayRatingTarget(c)
	if err != nil {
		return invalidInput(c)
	}

	handler.ensureDependencies()
	rating, err := handler.dayRatingService.Get(actor, userID, day)
	if err != nil {
		return respondServiceError(c, err, "failed to load day rating")
	}
	return c.JSON(newDayRatingView(rating))
}

func (handler *Handler) UpdateDayRating(c *fiber.Ctx) error {
	actor, _ := currentUser(c)
	userID, day, err := handler.dayRatingTarget(c)
	if err != nil {
		return invalidInput(c)
	}
	input := dayRatingRequest{}
	if err := c.BodyParser(&input); err != nil {
		return invalidInput(c)
	}

	handler.ensureDependencies()
	rating, err := handler.dayRatingService.Update(actor, userID, day, input.input())
	if err != nil {
		return respondServiceError(c, err, "failed to update day rating")
	}
	return c.JSON(newDayRatingView(rating))
}

func (handler *Handler) DeleteDayRating(c *fiber.Ctx) error {
	actor, _ := currentUser(c)
	userID, day, err := handler.dayRatingTarget(c)
	if err != nil {
		return invalidInput(c)
	}

	handler.ensureDependencies()
	if err := handler.dayRatingService.Delete(actor, userID, day); err != nil {
		return respondServiceError(c, err, "failed to delete day rating")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// dayRatingTarget reads :user_id and the optional ?date, which defaults to today.
func (handler *Handler) dayRatingTarget(c *fiber.Ctx) (uint, time.Time, error) {
	userID, err := parseIDParam(c, "user_id")
	if err != nil {
		return 0, time.Time{}, err
	}
	raw := strings.TrimSpace(c.Query("date"))
	if raw == "" {
		return userID, handler.today(), nil
	}
	day, err := services.ParseCalendarDate(raw)
	if err != nil {
		return 0, time.Time{}, err
	}
	return userID, day, nil
}
