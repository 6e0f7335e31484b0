package services

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/terraincognita07/daybook/internal/models"
)

var ErrInvalidNoteQuery = errors.New("invalid note query")

type NoteSorting string

const (
	NoteSortingDateAsc  NoteSorting = "date_asc"
	NoteSortingDateDesc NoteSorting = "date_desc"
)

type NotePeriod string

const (
	NotePeriodUpcoming NotePeriod = "upcoming"
	NotePeriodPast     NotePeriod = "past"
	NotePeriodAll      NotePeriod = "all"
)

type NoteTypeFilter string

const (
	NoteTypeFilterNote NoteTypeFilter = "note"
	NoteTypeFilterTask NoteTypeFilter = "task"
	NoteTypeFilterAll  NoteTypeFilter = "all"
)

type NoteCompletionFilter string

const (
	NoteCompletionCompleted    NoteCompletionFilter = "completed"
	NoteCompletionNotCompleted NoteCompletionFilter = "non_completed"
	NoteCompletionAll          NoteCompletionFilter = "all"
)

type NoteQuery struct {
	Sorting   NoteSorting
	Period    NotePeriod
	Type      NoteTypeFilter
	Completed NoteCompletionFilter
}

func DefaultNoteQuery() NoteQuery {
	return NoteQuery{
		Sorting:   NoteSortingDateAsc,
		Period:    NotePeriodUpcoming,
		Type:      NoteTypeFilterAll,
		Completed: NoteCompletionAll,
	}
}

// NoteQueryParams holds raw request values. Empty means unset.
type NoteQueryParams struct {
	Sorting   string
	Period    string
	Type      string
	Completed string
}

func ParseNoteQuery(params NoteQueryParams) (NoteQuery, error) {
	query := DefaultNoteQuery()

	switch normalizeQueryValue(params.Sorting) {
	case "":
	case "date", "date_asc":
		query.Sorting = NoteSortingDateAsc
	case "-date", "date_desc":
		query.Sorting = NoteSortingDateDesc
	default:
		return NoteQuery{}, fmt.Errorf("%w: sorting %q", ErrInvalidNoteQuery, params.Sorting)
	}

	switch period := NotePeriod(normalizeQueryValue(params.Period)); period {
	case "":
	case NotePeriodUpcoming, NotePeriodPast, NotePeriodAll:
		query.Period = period
	default:
		return NoteQuery{}, fmt.Errorf("%w: period %q", ErrInvalidNoteQuery, params.Period)
	}

	switch noteType := NoteTypeFilter(normalizeQueryValue(params.Type)); noteType {
	case "":
	case NoteTypeFilterNote, NoteTypeFilterTask, NoteTypeFilterAll:
		query.Type = noteType
	default:
		return NoteQuery{}, fmt.Errorf("%w: type %q", ErrInvalidNoteQuery, params.Type)
	}

	switch normalizeQueryValue(params.Completed) {
	case "":
	case "completed", "true":
		query.Completed = NoteCompletionCompleted
	case "non_completed", "false":
		query.Completed = NoteCompletionNotCompleted
	case "all":
		query.Completed = NoteCompletionAll
	default:
		return NoteQuery{}, fmt.Errorf("%w: completed %q", ErrInvalidNoteQuery, params.Completed)
	}

	return query, nil
}

// FilterNotes applies period, date sort, type and completion filters in that
// order. The input slice is never modified.
func FilterNotes(notes []models.Note, query NoteQuery, today time.Time) []models.Note {
	result := make([]models.Note, 0, len(notes))
	for _, note := range notes {
		if query.Period == NotePeriodPast && !note.Date.Before(today) {
			continue
		}
		result = append(result, note)
	}

	slices.SortStableFunc(result, func(left, right models.Note) int {
		if query.Sorting == NoteSortingDateDesc {
			return right.Date.Compare(left.Date)
		}
		return left.Date.Compare(right.Date)
	})

	if query.Type == NoteTypeFilterNote || query.Type == NoteTypeFilterTask {
		wanted := models.NoteType(query.Type)
		result = slices.DeleteFunc(result, func(note models.Note) bool {
			return note.Type != wanted
		})
	}

	if query.Type == NoteTypeFilterTask && query.Completed != NoteCompletionAll {
		wantCompleted := query.Completed == NoteCompletionCompleted
		result = slices.DeleteFunc(result, func(note models.Note) bool {
			return note.Completed == nil || *note.Completed != wantCompleted
		})
	}

	return result
}

func normalizeQueryValue(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
