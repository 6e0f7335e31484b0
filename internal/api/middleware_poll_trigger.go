package api

import "github.com/gofiber/fiber/v2"

// TriggerDailyPoll runs the rest of the chain and then asks the scheduler to
// make sure the caller has today's poll. The response is never affected.
func (handler *Handler) TriggerDailyPoll(c *fiber.Ctx) error {
	err := c.Next()

	if handler.polls == nil {
		return err
	}
	if user, ok := currentUser(c); ok && !user.IsStaff {
		handler.polls.Schedule(*user)
	}
	return err
}
