package api

import (
	"errors"
	"strings"
	"time"

	"github.com/terraincognita07/daybook/internal/services"
	"gorm.io/gorm"
)

func NewHandler(database *gorm.DB, config HandlerConfig) (*Handler, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	secretKey := strings.TrimSpace(config.SecretKey)
	if secretKey == "" {
		return nil, errors.New("secret key is required")
	}

	location := config.Location
	if location == nil {
		location = time.UTC
	}
	tokenTTL := config.TokenTTL
	if tokenTTL <= 0 {
		tokenTTL = defaultAccessTokenTTL
	}
	catalog := services.DefaultPollCatalogConfig()
	if config.Catalog != nil {
		catalog = *config.Catalog
	}

	handler := &Handler{
		db:           database,
		secretKey:    []byte(secretKey),
		location:     location,
		tokenTTL:     tokenTTL,
		catalog:      catalog,
		polls:        config.Polls,
		loginLimiter: newAttemptLimiter(loginAttemptLimit, loginAttemptWindow),
		now:          time.Now,
	}
	return handler.withDependencies(database), nil
}

// today is the current calendar day in the configured zone.
func (handler *Handler) today() time.Time {
	return services.CalendarDate(handler.now(), handler.location)
}
