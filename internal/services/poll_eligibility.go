package services

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/terraincognita07/daybook/internal/models"
)

type PollNoteLookup interface {
	ExistsForUserOnDay(userID uint, dayStart time.Time, dayEnd time.Time, noteType models.NoteType) (bool, error)
}

type PollPromptSource interface {
	AllPromptsFor(category models.PollCategory) ([]models.PollPrompt, error)
}

// PollEligibility decides whether a category can be asked today and picks
// one of its prompts.
type PollEligibility struct {
	notes   PollNoteLookup
	prompts PollPromptSource
	intn    func(n int) int
}

func NewPollEligibility(notes PollNoteLookup, prompts PollPromptSource) *PollEligibility {
	return &PollEligibility{notes: notes, prompts: prompts, intn: rand.IntN}
}

// Resolve returns a prompt id for category. Note and task categories are
// eligible only when the user has a note of that type dated today.
func (resolver *PollEligibility) Resolve(userID uint, category models.PollCategory, today time.Time) (uint, bool, error) {
	if noteType, needsReferent := category.ReferentNoteType(); needsReferent {
		dayStart, dayEnd := DayRange(today)
		exists, err := resolver.notes.ExistsForUserOnDay(userID, dayStart, dayEnd, noteType)
		if err != nil {
			return 0, false, err
		}
		if !exists {
			return 0, false, nil
		}
	}

	prompts, err := resolver.prompts.AllPromptsFor(category)
	if err != nil {
		return 0, false, err
	}
	if len(prompts) == 0 {
		return 0, false, fmt.Errorf("%w: %s", ErrPollPromptsMissing, category)
	}
	return prompts[resolver.intn(len(prompts))].ID, true, nil
}
