package models

import "time"

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	FirstName    string    `gorm:"not null" json:"first_name"`
	LastName     string    `json:"last_name"`
	PasswordHash string    `gorm:"not null" json:"-"`
	IsStaff      bool      `gorm:"not null;default:false" json:"is_staff"`
	Disabled     bool      `gorm:"not null;default:false" json:"disabled"`
	RegisteredAt time.Time `gorm:"not null" json:"registered_at"`
}
