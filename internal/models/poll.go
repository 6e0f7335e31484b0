package models

import "time"

type PollCategory string

const (
	PollCategoryNote                PollCategory = "note"
	PollCategoryTask                PollCategory = "task"
	PollCategoryHealth              PollCategory = "health"
	PollCategoryNextDayExpectations PollCategory = "next_day_expectations"
	PollCategoryMood                PollCategory = "mood"
)

// FallbackPollCategory is used when random draws keep landing on categories
// the user has nothing to answer about.
const FallbackPollCategory = PollCategoryHealth

func PollCategories() []PollCategory {
	return []PollCategory{
		PollCategoryNote,
		PollCategoryTask,
		PollCategoryHealth,
		PollCategoryNextDayExpectations,
		PollCategoryMood,
	}
}

func ParsePollCategory(raw string) (PollCategory, bool) {
	for _, category := range PollCategories() {
		if string(category) == raw {
			return category, true
		}
	}
	return "", false
}

// ReferentNoteType reports which note type must exist today for the category
// to be asked. Categories without a referent are always eligible.
func (category PollCategory) ReferentNoteType() (NoteType, bool) {
	switch category {
	case PollCategoryNote:
		return NoteTypeNote, true
	case PollCategoryTask:
		return NoteTypeTask, true
	default:
		return "", false
	}
}

type PollPrompt struct {
	ID       uint         `gorm:"primaryKey" json:"id"`
	Category PollCategory `gorm:"not null;index" json:"category"`
	Text     string       `gorm:"not null" json:"text"`
}

type Poll struct {
	ID          uint         `gorm:"primaryKey"`
	UserID      uint         `gorm:"not null;uniqueIndex:uidx_polls_user_day"`
	CreatedOn   time.Time    `gorm:"type:date;not null;uniqueIndex:uidx_polls_user_day"`
	Category    PollCategory `gorm:"not null"`
	PromptID    uint         `gorm:"not null"`
	Prompt      PollPrompt   `gorm:"foreignKey:PromptID"`
	Completed   bool         `gorm:"not null;default:false"`
	CompletedAt *time.Time
}
