package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/terraincognita07/daybook/internal/models"
)

var (
	errMissingBearerToken = errors.New("missing bearer token")
	errInvalidToken       = errors.New("invalid token")
)

func bearerToken(c *fiber.Ctx) (string, error) {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
		return "", errMissingBearerToken
	}
	return strings.TrimSpace(token), nil
}

func (handler *Handler) parseAccessToken(raw string) (*authClaims, error) {
	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return handler.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(handler.now),
	)
	if err != nil || !token.Valid || claims.UserID == 0 {
		return nil, errInvalidToken
	}
	return claims, nil
}

// authenticateRequest resolves the bearer token to an enabled user.
func (handler *Handler) authenticateRequest(c *fiber.Ctx) (*models.User, error) {
	raw, err := bearerToken(c)
	if err != nil {
		return nil, err
	}
	claims, err := handler.parseAccessToken(raw)
	if err != nil {
		return nil, err
	}

	handler.ensureDependencies()
	user, err := handler.authService.ActiveUser(claims.UserID)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
