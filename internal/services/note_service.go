package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/terraincognita07/daybook/internal/models"
)

var (
	ErrNoteNotFound     = errors.New("note not found")
	ErrInvalidNoteType  = errors.New("invalid note type")
	ErrInvalidNoteText  = errors.New("invalid note text")
	ErrNoteDateInPast   = errors.New("note date is in the past")
	ErrNoteCreateFailed = errors.New("create note failed")
	ErrNoteUpdateFailed = errors.New("update note failed")
	ErrNoteDeleteFailed = errors.New("delete note failed")
	ErrNoteListFailed   = errors.New("list notes failed")
)

type NoteRepository interface {
	ListAll() ([]models.Note, error)
	ListByUser(userID uint) ([]models.Note, error)
	ListByUserFrom(userID uint, fromDay time.Time) ([]models.Note, error)
	FindByID(noteID uint) (models.Note, bool, error)
	Create(note *models.Note) error
	Save(note *models.Note) error
	Delete(noteID uint) error
}

type NoteInput struct {
	Type      string
	Text      string
	Date      *time.Time
	Completed *bool
}

type NotePatch struct {
	Type      *string
	Text      *string
	Date      *time.Time
	Completed *bool
}

type NoteService struct {
	notes NoteRepository
	now   func() time.Time
}

func NewNoteService(notes NoteRepository) *NoteService {
	return &NoteService{notes: notes, now: time.Now}
}

// Create stores a note for actor. Dates before today are reserved for staff.
func (service *NoteService) Create(actor *models.User, input NoteInput, today time.Time) (models.Note, error) {
	if actor == nil {
		return models.Note{}, ErrPermissionDenied
	}

	noteType, err := parseNoteType(input.Type)
	if err != nil {
		return models.Note{}, err
	}
	text, err := normalizeNoteText(input.Text)
	if err != nil {
		return models.Note{}, err
	}

	date := today
	if input.Date != nil {
		date = CalendarDate(*input.Date, time.UTC)
		if date.Before(today) && !IsStaffUser(actor) {
			return models.Note{}, ErrNoteDateInPast
		}
	}

	note := models.Note{
		UserID:    actor.ID,
		Type:      noteType,
		Text:      text,
		Date:      date,
		Completed: normalizeNoteCompletion(noteType, input.Completed, nil),
		CreatedAt: service.now().UTC(),
	}
	if err := service.notes.Create(&note); err != nil {
		return models.Note{}, fmt.Errorf("%w: %v", ErrNoteCreateFailed, err)
	}
	return note, nil
}

func (service *NoteService) ListAll() ([]models.Note, error) {
	notes, err := service.notes.ListAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoteListFailed, err)
	}
	return notes, nil
}

// ListForUser loads notes dated today or later and runs them through the
// filter engine. Any period other than upcoming needs the whole history, so
// the unscoped list is read instead.
func (service *NoteService) ListForUser(userID uint, query NoteQuery, today time.Time) ([]models.Note, error) {
	var (
		notes []models.Note
		err   error
	)
	if query.Period == NotePeriodUpcoming {
		notes, err = service.notes.ListByUserFrom(userID, today)
	} else {
		notes, err = service.notes.ListByUser(userID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoteListFailed, err)
	}
	return FilterNotes(notes, query, today), nil
}

func (service *NoteService) Get(actor *models.User, noteID uint) (models.Note, error) {
	note, found, err := service.notes.FindByID(noteID)
	if err != nil {
		return models.Note{}, err
	}
	if !found {
		return models.Note{}, ErrNoteNotFound
	}
	if actor == nil || note.UserID != actor.ID {
		return models.Note{}, ErrPermissionDenied
	}
	return note, nil
}

func (service *NoteService) Update(actor *models.User, noteID uint, patch NotePatch, today time.Time) (models.Note, error) {
	note, err := service.Get(actor, noteID)
	if err != nil {
		return models.Note{}, err
	}

	previousCompleted := note.Completed
	if patch.Type != nil {
		noteType, err := parseNoteType(*patch.Type)
		if err != nil {
			return models.Note{}, err
		}
		note.Type = noteType
	}
	if patch.Text != nil {
		text, err := normalizeNoteText(*patch.Text)
		if err != nil {
			return models.Note{}, err
		}
		note.Text = text
	}
	if patch.Date != nil {
		date := CalendarDate(*patch.Date, time.UTC)
		if date.Before(today) && !IsStaffUser(actor) {
			return models.Note{}, ErrNoteDateInPast
		}
		note.Date = date
	}
	note.Completed = normalizeNoteCompletion(note.Type, patch.Completed, previousCompleted)

	if err := service.notes.Save(&note); err != nil {
		return models.Note{}, fmt.Errorf("%w: %v", ErrNoteUpdateFailed, err)
	}
	return note, nil
}

func (service *NoteService) Delete(actor *models.User, noteID uint) error {
	if _, err := service.Get(actor, noteID); err != nil {
		return err
	}
	if err := service.notes.Delete(noteID); err != nil {
		return fmt.Errorf("%w: %v", ErrNoteDeleteFailed, err)
	}
	return nil
}

func parseNoteType(raw string) (models.NoteType, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return models.NoteTypeNote, nil
	}
	noteType := models.NoteType(value)
	if !noteType.Valid() {
		return "", ErrInvalidNoteType
	}
	return noteType, nil
}

func normalizeNoteText(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if text == "" || utf8.RuneCountInString(text) > models.MaxNoteTextLength {
		return "", ErrInvalidNoteText
	}
	return text, nil
}

// completed is set for tasks only. A task keeps its previous state unless a
// new one is given, and starts as not completed.
func normalizeNoteCompletion(noteType models.NoteType, requested *bool, previous *bool) *bool {
	if noteType != models.NoteTypeTask {
		return nil
	}
	value := false
	switch {
	case requested != nil:
		value = *requested
	case previous != nil:
		value = *previous
	}
	return &value
}
