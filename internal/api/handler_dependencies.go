package api

import (
	"github.com/terraincognita07/daybook/internal/db"
	"github.com/terraincognita07/daybook/internal/services"
	"gorm.io/gorm"
)

func (handler *Handler) withDependencies(database *gorm.DB) *Handler {
	handler.repositories = db.NewRepositories(database)
	handler.ensureDependencies()
	return handler
}

func (handler *Handler) ensureDependencies() {
	if handler.repositories == nil {
		if handler.db == nil {
			return
		}
		handler.repositories = db.NewRepositories(handler.db)
	}

	if handler.authService == nil {
		handler.authService = services.NewAuthService(handler.repositories.Users)
	}
	if handler.userService == nil {
		handler.userService = services.NewUserService(handler.repositories.Users, handler.location)
	}
	if handler.noteService == nil {
		handler.noteService = services.NewNoteService(handler.repositories.Notes)
	}
	if handler.dayRatingService == nil {
		handler.dayRatingService = services.NewDayRatingService(handler.repositories.DayRatings)
	}
	if handler.pollService == nil {
		handler.pollService = services.NewPollService(handler.repositories.Polls, handler.location)
	}
	if handler.pollCatalog == nil {
		handler.pollCatalog = services.NewPollCatalog(handler.catalog, handler.repositories.PollPrompts)
	}
}
