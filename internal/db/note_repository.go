package db

import (
	"time"

	"github.com/terraincognita07/daybook/internal/models"
	"gorm.io/gorm"
)

type NoteRepository struct {
	database *gorm.DB
}

func NewNoteRepository(database *gorm.DB) *NoteRepository {
	return &NoteRepository{database: database}
}

func (repo *NoteRepository) ListAll() ([]models.Note, error) {
	notes := make([]models.Note, 0)
	if err := repo.database.Order("date ASC, id ASC").Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

func (repo *NoteRepository) ListByUser(userID uint) ([]models.Note, error) {
	notes := make([]models.Note, 0)
	if err := repo.database.Where("user_id = ?", userID).Order("date ASC, id ASC").Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

func (repo *NoteRepository) ListByUserFrom(userID uint, fromDay time.Time) ([]models.Note, error) {
	notes := make([]models.Note, 0)
	if err := repo.database.
		Where("user_id = ? AND date >= ?", userID, fromDay).
		Order("date ASC, id ASC").
		Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

func (repo *NoteRepository) ExistsForUserOnDay(userID uint, dayStart time.Time, dayEnd time.Time, noteType models.NoteType) (bool, error) {
	var matched int64
	if err := repo.database.Model(&models.Note{}).
		Where("user_id = ? AND note_type = ? AND date >= ? AND date < ?", userID, noteType, dayStart, dayEnd).
		Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (repo *NoteRepository) FindByID(noteID uint) (models.Note, bool, error) {
	note := models.Note{}
	result := repo.database.Where("id = ?", noteID).Limit(1).Find(&note)
	if result.Error != nil {
		return models.Note{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Note{}, false, nil
	}
	return note, true, nil
}

func (repo *NoteRepository) Create(note *models.Note) error {
	return repo.database.Create(note).Error
}

func (repo *NoteRepository) Save(note *models.Note) error {
	return repo.database.Save(note).Error
}

func (repo *NoteRepository) Delete(noteID uint) error {
	return repo.database.Delete(&models.Note{}, noteID).Error
}
