package models

import "time"

type NoteType string

const (
	NoteTypeNote NoteType = "note"
	NoteTypeTask NoteType = "task"
)

const MaxNoteTextLength = 1000

func (noteType NoteType) Valid() bool {
	return noteType == NoteTypeNote || noteType == NoteTypeTask
}

// Note is either a plain note or a task. Completed is set only for tasks.
type Note struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;index:idx_notes_user_date"`
	Type      NoteType  `gorm:"column:note_type;not null;default:note"`
	Text      string    `gorm:"not null"`
	Date      time.Time `gorm:"type:date;not null;index:idx_notes_user_date"`
	Completed *bool
	CreatedAt time.Time
}
