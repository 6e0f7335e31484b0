package db

import (
	"time"

	"github.com/terraincognita07/daybook/internal/models"
	"gorm.io/gorm"
)

type DayRatingRepository struct {
	database *gorm.DB
}

func NewDayRatingRepository(database *gorm.DB) *DayRatingRepository {
	return &DayRatingRepository{database: database}
}

func (repo *DayRatingRepository) ListAll() ([]models.DayRating, error) {
	ratings := make([]models.DayRating, 0)
	if err := repo.database.Order("date ASC, user_id ASC").Find(&ratings).Error; err != nil {
		return nil, err
	}
	return ratings, nil
}

func (repo *DayRatingRepository) ListByUser(userID uint) ([]models.DayRating, error) {
	ratings := make([]models.DayRating, 0)
	if err := repo.database.Where("user_id = ?", userID).Order("date ASC").Find(&ratings).Error; err != nil {
		return nil, err
	}
	return ratings, nil
}

func (repo *DayRatingRepository) Find(userID uint, day time.Time) (models.DayRating, bool, error) {
	rating := models.DayRating{}
	result := repo.database.Where("user_id = ? AND date = ?", userID, day).Limit(1).Find(&rating)
	if result.Error != nil {
		return models.DayRating{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.DayRating{}, false, nil
	}
	return rating, true, nil
}

func (repo *DayRatingRepository) Create(rating *models.DayRating) error {
	return repo.database.Create(rating).Error
}

func (repo *DayRatingRepository) Save(rating *models.DayRating) error {
	return repo.database.Model(&models.DayRating{}).
		Where("user_id = ? AND date = ?", rating.UserID, rating.Date).
		Updates(map[string]any{
			"mood":                  rating.Mood,
			"notes":                 rating.Notes,
			"health":                rating.Health,
			"next_day_expectations": rating.NextDayExpectations,
		}).Error
}

func (repo *DayRatingRepository) Delete(userID uint, day time.Time) error {
	return repo.database.Where("user_id = ? AND date = ?", userID, day).Delete(&models.DayRating{}).Error
}
