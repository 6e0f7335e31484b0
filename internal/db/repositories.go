package db

import "gorm.io/gorm"

type Repositories struct {
	Users       *UserRepository
	Notes       *NoteRepository
	DayRatings  *DayRatingRepository
	Polls       *PollRepository
	PollPrompts *PollPromptRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:       NewUserRepository(database),
		Notes:       NewNoteRepository(database),
		DayRatings:  NewDayRatingRepository(database),
		Polls:       NewPollRepository(database),
		PollPrompts: NewPollPromptRepository(database),
	}
}
