package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/terraincognita07/daybook/internal/models"
	"gorm.io/gorm"
)

var (
	ErrDayRatingEmpty        = errors.New("at least one rating field is required")
	ErrDayRatingExists       = errors.New("day rating already exists")
	ErrDayRatingNotFound     = errors.New("day rating not found")
	ErrDayRatingCreateFailed = errors.New("create day rating failed")
	ErrDayRatingUpdateFailed = errors.New("update day rating failed")
	ErrDayRatingDeleteFailed = errors.New("delete day rating failed")
)

type DayRatingRepository interface {
	ListAll() ([]models.DayRating, error)
	ListByUser(userID uint) ([]models.DayRating, error)
	Find(userID uint, day time.Time) (models.DayRating, bool, error)
	Create(rating *models.DayRating) error
	Save(rating *models.DayRating) error
	Delete(userID uint, day time.Time) error
}

type DayRatingInput struct {
	Mood                *bool
	Notes               *bool
	Health              *bool
	NextDayExpectations *bool
}

// DayRatingFieldFilter selects ratings where every flagged field has a value.
type DayRatingFieldFilter struct {
	Mood                bool
	Notes               bool
	Health              bool
	NextDayExpectations bool
}

type DayRatingService struct {
	ratings DayRatingRepository
}

func NewDayRatingService(ratings DayRatingRepository) *DayRatingService {
	return &DayRatingService{ratings: ratings}
}

func (service *DayRatingService) Create(actor *models.User, input DayRatingInput, today time.Time) (models.DayRating, error) {
	if actor == nil {
		return models.DayRating{}, ErrPermissionDenied
	}
	rating := input.rating(actor.ID, today)
	if rating.IsEmpty() {
		return models.DayRating{}, ErrDayRatingEmpty
	}

	_, found, err := service.ratings.Find(actor.ID, today)
	if err != nil {
		return models.DayRating{}, fmt.Errorf("%w: %v", ErrDayRatingCreateFailed, err)
	}
	if found {
		return models.DayRating{}, ErrDayRatingExists
	}

	if err := service.ratings.Create(&rating); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.DayRating{}, ErrDayRatingExists
		}
		return models.DayRating{}, fmt.Errorf("%w: %v", ErrDayRatingCreateFailed, err)
	}
	return rating, nil
}

func (service *DayRatingService) ListAll() ([]models.DayRating, error) {
	return service.ratings.ListAll()
}

func (service *DayRatingService) ListForUser(userID uint, filter DayRatingFieldFilter) ([]models.DayRating, error) {
	ratings, err := service.ratings.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	result := make([]models.DayRating, 0, len(ratings))
	for _, rating := range ratings {
		if filter.matches(rating) {
			result = append(result, rating)
		}
	}
	return result, nil
}

func (service *DayRatingService) Get(actor *models.User, userID uint, day time.Time) (models.DayRating, error) {
	if !CanActOnUser(actor, userID) {
		return models.DayRating{}, ErrPermissionDenied
	}
	rating, found, err := service.ratings.Find(userID, day)
	if err != nil {
		return models.DayRating{}, err
	}
	if !found {
		return models.DayRating{}, ErrDayRatingNotFound
	}
	return rating, nil
}

// Update replaces all four fields of an existing rating.
func (service *DayRatingService) Update(actor *models.User, userID uint, day time.Time, input DayRatingInput) (models.DayRating, error) {
	if _, err := service.Get(actor, userID, day); err != nil {
		return models.DayRating{}, err
	}
	rating := input.rating(userID, day)
	if rating.IsEmpty() {
		return models.DayRating{}, ErrDayRatingEmpty
	}
	if err := service.ratings.Save(&rating); err != nil {
		return models.DayRating{}, fmt.Errorf("%w: %v", ErrDayRatingUpdateFailed, err)
	}
	return rating, nil
}

func (service *DayRatingService) Delete(actor *models.User, userID uint, day time.Time) error {
	if _, err := service.Get(actor, userID, day); err != nil {
		return err
	}
	if err := service.ratings.Delete(userID, day); err != nil {
		return fmt.Errorf("%w: %v", ErrDayRatingDeleteFailed, err)
	}
	return nil
}

func (input DayRatingInput) rating(userID uint, day time.Time) models.DayRating {
	return models.DayRating{
		UserID:              userID,
		Date:                day,
		Mood:                input.Mood,
		Notes:               input.Notes,
		Health:              input.Health,
		NextDayExpectations: input.NextDayExpectations,
	}
}

func (filter DayRatingFieldFilter) matches(rating models.DayRating) bool {
	if filter.Mood && rating.Mood == nil {
		return false
	}
	if filter.Notes && rating.Notes == nil {
		return false
	}
	if filter.Health && rating.Health == nil {
		return false
	}
	if filter.NextDayExpectations && rating.NextDayExpectations == nil {
		return false
	}
	return true
}
