package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/daybook/internal/services"
)

const (
	loginAttemptLimit  = 5
	loginAttemptWindow = 15 * time.Minute
)

// IssueToken exchanges email and password for a bearer token. The username
// field is accepted as an alias for email.
func (handler *Handler) IssueToken(c *fiber.Ctx) error {
	input := tokenRequest{}
	if err := c.BodyParser(&input); err != nil {
		return invalidInput(c)
	}
	email := input.Email
	if email == "" {
		email = input.Username
	}

	now := handler.now()
	limiterKey := loginLimiterKey(c, email)
	if handler.loginLimiter.blocked(limiterKey, now) {
		return apiError(c, fiber.StatusTooManyRequests, "too many login attempts")
	}

	handler.ensureDependencies()
	user, err := handler.authService.Authenticate(email, input.Password)
	if err != nil {
		if errors.Is(err, services.ErrAuthCredentialsInvalid) {
			handler.loginLimiter.recordFailure(limiterKey, now)
			c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
			return apiError(c, fiber.StatusUnauthorized, "incorrect email or password")
		}
		return respondServiceError(c, err, "failed to authenticate")
	}
	handler.loginLimiter.clear(limiterKey)

	if user.Disabled {
		return apiError(c, fiber.StatusBadRequest, "inactive user")
	}

	token, err := handler.buildToken(&user, handler.tokenTTL)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create token")
	}
	return c.JSON(tokenResponse{AccessToken: token, TokenType: "bearer"})
}
