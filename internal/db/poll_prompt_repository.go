package db

import (
	"github.com/terraincognita07/daybook/internal/models"
	"gorm.io/gorm"
)

type PollPromptRepository struct {
	database *gorm.DB
}

func NewPollPromptRepository(database *gorm.DB) *PollPromptRepository {
	return &PollPromptRepository{database: database}
}

func (repo *PollPromptRepository) Count() (int64, error) {
	var count int64
	if err := repo.database.Model(&models.PollPrompt{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *PollPromptRepository) ListByCategory(category models.PollCategory) ([]models.PollPrompt, error) {
	prompts := make([]models.PollPrompt, 0)
	if err := repo.database.Where("category = ?", category).Order("id ASC").Find(&prompts).Error; err != nil {
		return nil, err
	}
	return prompts, nil
}

func (repo *PollPromptRepository) ListAll() ([]models.PollPrompt, error) {
	prompts := make([]models.PollPrompt, 0)
	if err := repo.database.Order("id ASC").Find(&prompts).Error; err != nil {
		return nil, err
	}
	return prompts, nil
}

func (repo *PollPromptRepository) CreateBatch(prompts []models.PollPrompt) error {
	if len(prompts) == 0 {
		return nil
	}
	return repo.database.Create(&prompts).Error
}
