package db

import (
	"context"
	"time"

	"github.com/terraincognita07/daybook/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PollRepository struct {
	database *gorm.DB
}

func NewPollRepository(database *gorm.DB) *PollRepository {
	return &PollRepository{database: database}
}

func (repo *PollRepository) FindByUserAndDay(userID uint, day time.Time) (models.Poll, bool, error) {
	poll := models.Poll{}
	result := repo.database.
		Preload("Prompt").
		Where("user_id = ? AND created_on = ?", userID, day).
		Limit(1).
		Find(&poll)
	if result.Error != nil {
		return models.Poll{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Poll{}, false, nil
	}
	return poll, true, nil
}

func (repo *PollRepository) FindByID(pollID uint) (models.Poll, bool, error) {
	poll := models.Poll{}
	result := repo.database.Preload("Prompt").Where("id = ?", pollID).Limit(1).Find(&poll)
	if result.Error != nil {
		return models.Poll{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Poll{}, false, nil
	}
	return poll, true, nil
}

// InsertIfAbsent creates the poll unless one already exists for the same
// user and day. It reports whether a row was written.
func (repo *PollRepository) InsertIfAbsent(ctx context.Context, poll *models.Poll) (bool, error) {
	result := repo.database.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "created_on"}},
			DoNothing: true,
		}).
		Create(poll)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (repo *PollRepository) MarkCompleted(pollID uint, completedAt time.Time) (bool, error) {
	result := repo.database.Model(&models.Poll{}).
		Where("id = ?", pollID).
		Updates(map[string]any{
			"completed":    true,
			"completed_at": completedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (repo *PollRepository) CountByUserAndDay(userID uint, day time.Time) (int64, error) {
	var count int64
	if err := repo.database.Model(&models.Poll{}).
		Where("user_id = ? AND created_on = ?", userID, day).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
