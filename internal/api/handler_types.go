package api

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/terraincognita07/daybook/internal/db"
	"github.com/terraincognita07/daybook/internal/models"
	"github.com/terraincognita07/daybook/internal/services"
	"gorm.io/gorm"
)

const defaultAccessTokenTTL = 30 * time.Minute

// PollScheduler queues daily poll generation without waiting for it.
type PollScheduler interface {
	Schedule(user models.User) bool
}

type HandlerConfig struct {
	SecretKey string
	Location  *time.Location
	TokenTTL  time.Duration
	// Catalog defaults to the built-in prompts when nil.
	Catalog *services.PollCatalogConfig
	Polls   PollScheduler
}

type Handler struct {
	db           *gorm.DB
	secretKey    []byte
	location     *time.Location
	tokenTTL     time.Duration
	catalog      services.PollCatalogConfig
	polls        PollScheduler
	loginLimiter *attemptLimiter
	now          func() time.Time

	repositories     *db.Repositories
	authService      *services.AuthService
	userService      *services.UserService
	noteService      *services.NoteService
	dayRatingService *services.DayRatingService
	pollService      *services.PollService
	pollCatalog      *services.PollCatalog
}

type authClaims struct {
	UserID uint `json:"uid"`
	jwt.RegisteredClaims
}
