package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/daybook/internal/db"
	"github.com/terraincognita07/daybook/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	testSecretKey = "test-secret-key-0123456789abcdef"
	testPassword  = "Sunrise2026"
)

type pollSchedulerStub struct {
	mu    sync.Mutex
	users []uint
}

func (stub *pollSchedulerStub) Schedule(user models.User) bool {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	stub.users = append(stub.users, user.ID)
	return true
}

func (stub *pollSchedulerStub) scheduled() []uint {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	return append([]uint(nil), stub.users...)
}

type testApp struct {
	app       *fiber.App
	database  *gorm.DB
	handler   *Handler
	scheduler *pollSchedulerStub
}

func newTestApp(t *testing.T) testApp {
	t.Helper()
	return newTestAppWithScheduler(t, nil)
}

// newTestAppWithScheduler uses scheduler when set, otherwise a recording stub.
func newTestAppWithScheduler(t *testing.T, scheduler PollScheduler) testApp {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "daybook-api-test.db")
	database, err := db.OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	stub := &pollSchedulerStub{}
	if scheduler == nil {
		scheduler = stub
	}

	handler, err := NewHandler(database, HandlerConfig{
		SecretKey: testSecretKey,
		Location:  time.UTC,
		Polls:     scheduler,
	})
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}
	if _, err := handler.pollCatalog.SeedIfEmpty(); err != nil {
		t.Fatalf("seed prompts: %v", err)
	}

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return testApp{app: app, database: database, handler: handler, scheduler: stub}
}

func createTestUser(t *testing.T, database *gorm.DB, email string, isStaff bool) models.User {
	t.Helper()

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	user := models.User{
		Email:        strings.ToLower(strings.TrimSpace(email)),
		FirstName:    "Test",
		PasswordHash: string(passwordHash),
		IsStaff:      isStaff,
		RegisteredAt: time.Now().UTC(),
	}
	if err := database.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func loginToken(t *testing.T, app *fiber.App, email string) string {
	t.Helper()

	form := url.Values{"username": {email}, "password": {testPassword}}
	request := httptest.NewRequest(http.MethodPost, "/api/token", strings.NewReader(form.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("token request failed: %v", err)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected token status 200, got %d: %s", response.StatusCode, readBody(t, response))
	}

	payload := tokenResponse{}
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		t.Fatalf("decode token response: %v", err)
	}
	return payload.AccessToken
}

func doJSON(t *testing.T, app *fiber.App, method string, target string, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, target, reader)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, target, err)
	}
	t.Cleanup(func() {
		_ = response.Body.Close()
	})
	return response
}

func decodeJSON(t *testing.T, response *http.Response, target any) {
	t.Helper()
	if err := json.NewDecoder(response.Body).Decode(target); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func readBody(t *testing.T, response *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(body)
}

func expectStatus(t *testing.T, response *http.Response, want int) {
	t.Helper()
	if response.StatusCode != want {
		t.Fatalf("expected status %d, got %d: %s", want, response.StatusCode, readBody(t, response))
	}
}
