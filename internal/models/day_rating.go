package models

import "time"

type DayRating struct {
	UserID              uint      `gorm:"primaryKey;autoIncrement:false"`
	Date                time.Time `gorm:"primaryKey;type:date"`
	Mood                *bool
	Notes               *bool
	Health              *bool
	NextDayExpectations *bool
}

func (rating DayRating) IsEmpty() bool {
	return rating.Mood == nil && rating.Notes == nil && rating.Health == nil && rating.NextDayExpectations == nil
}
