package services

import "github.com/terraincognita07/daybook/internal/models"

func IsStaffUser(user *models.User) bool {
	return user != nil && user.IsStaff
}

// CanActOnUser reports whether actor may read or change data owned by targetUserID.
func CanActOnUser(actor *models.User, targetUserID uint) bool {
	if actor == nil {
		return false
	}
	return actor.IsStaff || actor.ID == targetUserID
}
