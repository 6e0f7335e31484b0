package services

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/terraincognita07/daybook/internal/models"
	"gopkg.in/yaml.v3"
)

var (
	ErrPollCatalogInvalid = errors.New("invalid poll prompt catalog")
	ErrPollPromptsMissing = errors.New("no poll prompts for category")
	ErrPollCatalogSeed    = errors.New("seed poll prompts failed")
)

// PollCatalogConfig maps every poll category to its prompt texts. It is
// validated on construction and never changes afterwards.
type PollCatalogConfig struct {
	prompts map[models.PollCategory][]string
}

type pollCatalogFile struct {
	Prompts map[string][]string `yaml:"prompts"`
}

func NewPollCatalogConfig(prompts map[models.PollCategory][]string) (PollCatalogConfig, error) {
	config := PollCatalogConfig{prompts: make(map[models.PollCategory][]string, len(prompts))}
	for category, texts := range prompts {
		if _, ok := models.ParsePollCategory(string(category)); !ok {
			return PollCatalogConfig{}, fmt.Errorf("%w: unknown category %q", ErrPollCatalogInvalid, category)
		}
		cleaned := make([]string, 0, len(texts))
		for _, text := range texts {
			if trimmed := strings.TrimSpace(text); trimmed != "" {
				cleaned = append(cleaned, trimmed)
			}
		}
		config.prompts[category] = cleaned
	}
	for _, category := range models.PollCategories() {
		if len(config.prompts[category]) == 0 {
			return PollCatalogConfig{}, fmt.Errorf("%w: category %q has no prompts", ErrPollCatalogInvalid, category)
		}
	}
	return config, nil
}

func DefaultPollCatalogConfig() PollCatalogConfig {
	config, err := NewPollCatalogConfig(models.DefaultPollPrompts())
	if err != nil {
		panic(err)
	}
	return config
}

// LoadPollCatalogConfig reads a YAML catalog from path. An empty path yields
// the built-in prompts.
func LoadPollCatalogConfig(path string) (PollCatalogConfig, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultPollCatalogConfig(), nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return PollCatalogConfig{}, fmt.Errorf("read poll catalog %s: %w", path, err)
	}

	var file pollCatalogFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return PollCatalogConfig{}, fmt.Errorf("%w: %v", ErrPollCatalogInvalid, err)
	}

	prompts := make(map[models.PollCategory][]string, len(file.Prompts))
	for raw, texts := range file.Prompts {
		prompts[models.PollCategory(strings.TrimSpace(raw))] = texts
	}
	return NewPollCatalogConfig(prompts)
}

// Prompts returns a copy of the texts configured for category.
func (config PollCatalogConfig) Prompts(category models.PollCategory) []string {
	return append([]string(nil), config.prompts[category]...)
}

type PollPromptRepository interface {
	Count() (int64, error)
	ListByCategory(category models.PollCategory) ([]models.PollPrompt, error)
	ListAll() ([]models.PollPrompt, error)
	CreateBatch(prompts []models.PollPrompt) error
}

type PollCatalog struct {
	config  PollCatalogConfig
	prompts PollPromptRepository
	logger  *slog.Logger
}

func NewPollCatalog(config PollCatalogConfig, prompts PollPromptRepository) *PollCatalog {
	return &PollCatalog{config: config, prompts: prompts, logger: slog.Default()}
}

func (catalog *PollCatalog) Categories() []models.PollCategory {
	return models.PollCategories()
}

// AllPromptsFor returns the stored prompts of category in insertion order.
func (catalog *PollCatalog) AllPromptsFor(category models.PollCategory) ([]models.PollPrompt, error) {
	return catalog.prompts.ListByCategory(category)
}

func (catalog *PollCatalog) ListAll() ([]models.PollPrompt, error) {
	return catalog.prompts.ListAll()
}

// SeedIfEmpty inserts the configured prompts when the prompt table has no
// rows at all. It returns the number of prompts written.
func (catalog *PollCatalog) SeedIfEmpty() (int, error) {
	count, err := catalog.prompts.Count()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPollCatalogSeed, err)
	}
	if count > 0 {
		return 0, nil
	}

	batch := make([]models.PollPrompt, 0)
	for _, category := range models.PollCategories() {
		for _, text := range catalog.config.prompts[category] {
			batch = append(batch, models.PollPrompt{Category: category, Text: text})
		}
	}
	if err := catalog.prompts.CreateBatch(batch); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPollCatalogSeed, err)
	}

	catalog.logger.Info("poll prompt catalog seeded", "prompts", len(batch))
	return len(batch), nil
}
