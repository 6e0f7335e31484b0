package api

import (
	"time"

	"github.com/terraincognita07/daybook/internal/models"
	"github.com/terraincognita07/daybook/internal/services"
)

type tokenRequest struct {
	Email    string `json:"email" form:"email"`
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type userUpdateRequest struct {
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	IsStaff   *bool   `json:"is_staff"`
	Disabled  *bool   `json:"disabled"`
}

func (request userUpdateRequest) patch() services.UserPatch {
	return services.UserPatch{
		Email:     request.Email,
		Password:  request.Password,
		FirstName: request.FirstName,
		LastName:  request.LastName,
		IsStaff:   request.IsStaff,
		Disabled:  request.Disabled,
	}
}

type noteCreateRequest struct {
	Type      string  `json:"type"`
	Text      string  `json:"text"`
	Date      *string `json:"date"`
	Completed *bool   `json:"completed"`
}

type noteUpdateRequest struct {
	Type      *string `json:"type"`
	Text      *string `json:"text"`
	Date      *string `json:"date"`
	Completed *bool   `json:"completed"`
}

type dayRatingRequest struct {
	Mood                *bool `json:"mood"`
	Notes               *bool `json:"notes"`
	Health              *bool `json:"health"`
	NextDayExpectations *bool `json:"next_day_expectations"`
}

func (request dayRatingRequest) input() services.DayRatingInput {
	return services.DayRatingInput{
		Mood:                request.Mood,
		Notes:               request.Notes,
		Health:              request.Health,
		NextDayExpectations: request.NextDayExpectations,
	}
}

type noteView struct {
	ID        uint            `json:"id"`
	OwnerID   uint            `json:"owner_id"`
	Type      models.NoteType `json:"type"`
	Text      string          `json:"text"`
	Date      string          `json:"date"`
	Completed *bool           `json:"completed"`
	CreatedAt time.Time       `json:"created_at"`
}

func newNoteView(note models.Note) noteView {
	return noteView{
		ID:        note.ID,
		OwnerID:   note.UserID,
		Type:      note.Type,
		Text:      note.Text,
		Date:      services.FormatCalendarDate(note.Date),
		Completed: note.Completed,
		CreatedAt: note.CreatedAt,
	}
}

func newNoteViews(notes []models.Note) []noteView {
	views := make([]noteView, 0, len(notes))
	for _, note := range notes {
		views = append(views, newNoteView(note))
	}
	return views
}

type dayRatingView struct {
	UserID              uint   `json:"user_id"`
	Date                string `json:"date"`
	Mood                *bool  `json:"mood"`
	Notes               *bool  `json:"notes"`
	Health              *bool  `json:"health"`
	NextDayExpectations *bool  `json:"next_day_expectations"`
}

func newDayRatingView(rating models.DayRating) dayRatingView {
	return dayRatingView{
		UserID:              rating.UserID,
		Date:                services.FormatCalendarDate(rating.Date),
		Mood:                rating.Mood,
		Notes:               rating.Notes,
		Health:              rating.Health,
		NextDayExpectations: rating.NextDayExpectations,
	}
}

func newDayRatingViews(ratings []models.DayRating) []dayRatingView {
	views := make([]dayRatingView, 0, len(ratings))
	for _, rating := range ratings {
		views = append(views, newDayRatingView(rating))
	}
	return views
}

type pollView struct {
	ID          uint                `json:"id"`
	UserID      uint                `json:"user_id"`
	CreatedOn   string              `json:"created_on"`
	Category    models.PollCategory `json:"category"`
	Prompt      models.PollPrompt   `json:"prompt"`
	Completed   bool                `json:"completed"`
	CompletedAt *time.Time          `json:"completed_at"`
}

func newPollView(poll models.Poll) pollView {
	return pollView{
		ID:          poll.ID,
		UserID:      poll.UserID,
		CreatedOn:   services.FormatCalendarDate(poll.CreatedOn),
		Category:    poll.Category,
		Prompt:      poll.Prompt,
		Completed:   poll.Completed,
		CompletedAt: poll.CompletedAt,
	}
}

// parseOptionalDate returns nil for a missing value.
func parseOptionalDate(raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	day, err := services.ParseCalendarDate(*raw)
	if err != nil {
		return nil, err
	}
	return &day, nil
}
