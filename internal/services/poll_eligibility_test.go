package services

import (
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/terraincognita07/daybook/internal/models"
)

type pollNoteLookupStub struct {
	mu      sync.Mutex
	present map[models.NoteType]bool
	lastDay time.Time
	err     error
}

func (stub *pollNoteLookupStub) ExistsForUserOnDay(_ uint, dayStart time.Time, _ time.Time, noteType models.NoteType) (bool, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	stub.lastDay = dayStart
	if stub.err != nil {
		return false, stub.err
	}
	return stub.present[noteType], nil
}

func promptIDsFor(t *testing.T, repo *pollPromptRepositoryStub, category models.PollCategory) []uint {
	t.Helper()

	prompts, err := repo.ListByCategory(category)
	if err != nil {
		t.Fatalf("ListByCategory(%s) unexpected error: %v", category, err)
	}
	ids := make([]uint, 0, len(prompts))
	for _, prompt := range prompts {
		ids = append(ids, prompt.ID)
	}
	return ids
}

func TestPollEligibilityTaskOnlyUser(t *testing.T) {
	t.Parallel()

	repo := newSeededPromptRepository(t)
	catalog := NewPollCatalog(DefaultPollCatalogConfig(), repo)
	notes := &pollNoteLookupStub{present: map[models.NoteType]bool{models.NoteTypeTask: true}}
	resolver := NewPollEligibility(notes, catalog)
	today := time.Date(2026, time.May, 5, 0, 0, 0, 0, time.UTC)
	taskPrompts := promptIDsFor(t, repo, models.PollCategoryTask)

	for range 50 {
		if _, eligible, err := resolver.Resolve(1, models.PollCategoryNote, today); err != nil || eligible {
			t.Fatalf("expected note category to be ineligible, eligible=%v err=%v", eligible, err)
		}

		promptID, eligible, err := resolver.Resolve(1, models.PollCategoryTask, today)
		if err != nil || !eligible {
			t.Fatalf("expected task category to be eligible, eligible=%v err=%v", eligible, err)
		}
		if !slices.Contains(taskPrompts, promptID) {
			t.Fatalf("prompt %d is not a task prompt %v", promptID, taskPrompts)
		}
	}
	if !notes.lastDay.Equal(today) {
		t.Fatalf("expected lookup for %s, got %s", today, notes.lastDay)
	}
}

func TestPollEligibilityAlwaysEligibleCategories(t *testing.T) {
	t.Parallel()

	repo := newSeededPromptRepository(t)
	resolver := NewPollEligibility(&pollNoteLookupStub{}, NewPollCatalog(DefaultPollCatalogConfig(), repo))
	today := time.Date(2026, time.May, 5, 0, 0, 0, 0, time.UTC)

	for _, category := range []models.PollCategory{
		models.PollCategoryHealth,
		models.PollCategoryMood,
		models.PollCategoryNextDayExpectations,
	} {
		promptID, eligible, err := resolver.Resolve(1, category, today)
		if err != nil || !eligible {
			t.Fatalf("expected %s to be eligible, eligible=%v err=%v", category, eligible, err)
		}
		if !slices.Contains(promptIDsFor(t, repo, category), promptID) {
			t.Fatalf("prompt %d does not belong to %s", promptID, category)
		}
	}
}

func TestPollEligibilityUsesInjectedRandomness(t *testing.T) {
	t.Parallel()

	repo := newSeededPromptRepository(t)
	resolver := NewPollEligibility(&pollNoteLookupStub{}, NewPollCatalog(DefaultPollCatalogConfig(), repo))
	resolver.intn = func(n int) int { return n - 1 }

	ids := promptIDsFor(t, repo, models.PollCategoryMood)
	promptID, _, err := resolver.Resolve(1, models.PollCategoryMood, time.Now().UTC())
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}
	if promptID != ids[len(ids)-1] {
		t.Fatalf("expected last mood prompt %d, got %d", ids[len(ids)-1], promptID)
	}
}

func TestPollEligibilityErrors(t *testing.T) {
	t.Parallel()

	empty := NewPollEligibility(&pollNoteLookupStub{}, NewPollCatalog(DefaultPollCatalogConfig(), &pollPromptRepositoryStub{}))
	if _, _, err := empty.Resolve(1, models.PollCategoryHealth, time.Now().UTC()); !errors.Is(err, ErrPollPromptsMissing) {
		t.Fatalf("expected ErrPollPromptsMissing, got %v", err)
	}

	lookupErr := errors.New("db down")
	failing := NewPollEligibility(&pollNoteLookupStub{err: lookupErr}, NewPollCatalog(DefaultPollCatalogConfig(), newSeededPromptRepository(t)))
	if _, _, err := failing.Resolve(1, models.PollCategoryNote, time.Now().UTC()); !errors.Is(err, lookupErr) {
		t.Fatalf("expected lookup error, got %v", err)
	}
}
