package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/terraincognita07/daybook/internal/models"
)

func TestIssueTokenAcceptsFormAndJSON(t *testing.T) {
	env := newTestApp(t)
	createTestUser(t, env.database, "owner@example.com", false)

	if token := loginToken(t, env.app, "owner@example.com"); token == "" {
		t.Fatal("expected token from form login")
	}

	response := doJSON(t, env.app, http.MethodPost, "/api/token", "", map[string]string{
		"email":    "OWNER@example.com",
		"password": testPassword,
	})
	expectStatus(t, response, http.StatusOK)

	payload := tokenResponse{}
	decodeJSON(t, response, &payload)
	if payload.AccessToken == "" || payload.TokenType != "bearer" {
		t.Fatalf("unexpected token payload: %+v", payload)
	}

	claims, err := env.handler.parseAccessToken(payload.AccessToken)
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if claims.ID == "" || claims.Subject == "" {
		t.Fatalf("expected jti and sub claims, got %+v", claims.RegisteredClaims)
	}
}

func TestIssueTokenRejectsBadCredentials(t *testing.T) {
	env := newTestApp(t)
	createTestUser(t, env.database, "owner@example.com", false)

	response := doJSON(t, env.app, http.MethodPost, "/api/token", "", map[string]string{
		"email":    "owner@example.com",
		"password": "Wrong-password1",
	})
	expectStatus(t, response, http.StatusUnauthorized)
	if response.Header.Get("WWW-Authenticate") != "Bearer" {
		t.Fatal("expected WWW-Authenticate header on failed login")
	}

	response = doJSON(t, env.app, http.MethodPost, "/api/token", "", map[string]string{
		"email":    "nobody@example.com",
		"password": testPassword,
	})
	expectStatus(t, response, http.StatusUnauthorized)
}

func TestIssueTokenRateLimitsRepeatedFailures(t *testing.T) {
	env := newTestApp(t)
	createTestUser(t, env.database, "owner@example.com", false)

	for range loginAttemptLimit {
		response := doJSON(t, env.app, http.MethodPost, "/api/token", "", map[string]string{
			"email":    "owner@example.com",
			"password": "Wrong-password1",
		})
		expectStatus(t, response, http.StatusUnauthorized)
	}

	response := doJSON(t, env.app, http.MethodPost, "/api/token", "", map[string]string{
		"email":    "owner@example.com",
		"password": testPassword,
	})
	expectStatus(t, response, http.StatusTooManyRequests)
}

func TestIssueTokenRejectsDisabledUser(t *testing.T) {
	env := newTestApp(t)
	user := createTestUser(t, env.database, "disabled@example.com", false)
	if err := env.database.Model(&models.User{}).Where("id = ?", user.ID).Update("disabled", true).Error; err != nil {
		t.Fatalf("disable user: %v", err)
	}

	response := doJSON(t, env.app, http.MethodPost, "/api/token", "", map[string]string{
		"email":    "disabled@example.com",
		"password": testPassword,
	})
	expectStatus(t, response, http.StatusBadRequest)
}

func TestAuthRequiredRejectsMissingAndInvalidTokens(t *testing.T) {
	env := newTestApp(t)
	user := createTestUser(t, env.database, "owner@example.com", false)

	response := doJSON(t, env.app, http.MethodGet, "/api/users/me", "", nil)
	expectStatus(t, response, http.StatusUnauthorized)
	if response.Header.Get("WWW-Authenticate") != "Bearer" {
		t.Fatal("expected WWW-Authenticate header")
	}

	response = doJSON(t, env.app, http.MethodGet, "/api/users/me", "not-a-jwt", nil)
	expectStatus(t, response, http.StatusUnauthorized)

	env.handler.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := env.handler.buildToken(&user, 30*time.Minute)
	if err != nil {
		t.Fatalf("build token: %v", err)
	}
	env.handler.now = time.Now
	response = doJSON(t, env.app, http.MethodGet, "/api/users/me", expired, nil)
	expectStatus(t, response, http.StatusUnauthorized)

	if len(env.scheduler.scheduled()) != 0 {
		t.Fatal("expected no poll scheduling for rejected requests")
	}
}

func TestAuthRequiredRejectsDisabledUserWithValidToken(t *testing.T) {
	env := newTestApp(t)
	createTestUser(t, env.database, "owner@example.com", false)
	token := loginToken(t, env.app, "owner@example.com")

	if err := env.database.Model(&models.User{}).Where("email = ?", "owner@example.com").Update("disabled", true).Error; err != nil {
		t.Fatalf("disable user: %v", err)
	}

	response := doJSON(t, env.app, http.MethodGet, "/api/users/me", token, nil)
	expectStatus(t, response, http.StatusBadRequest)
}
