package db

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/terraincognita07/daybook/internal/models"
	"gorm.io/gorm"
)

func TestPollRepositoryInsertIfAbsentKeepsOnePollPerUserDay(t *testing.T) {
	database := openSQLiteForTest(t, filepath.Join(t.TempDir(), "daybook-polls.db"))
	repos := NewRepositories(database)
	user := createRepositoryTestUser(t, database, "poll-owner@example.com")
	prompt := createRepositoryTestPrompt(t, repos, models.PollCategoryHealth)
	day := time.Date(2026, time.March, 4, 0, 0, 0, 0, time.UTC)

	first := models.Poll{UserID: user.ID, CreatedOn: day, Category: models.PollCategoryHealth, PromptID: prompt.ID}
	created, err := repos.Polls.InsertIfAbsent(context.Background(), &first)
	if err != nil {
		t.Fatalf("insert first poll: %v", err)
	}
	if !created || first.ID == 0 {
		t.Fatalf("expected first insert to create a row, created=%v id=%d", created, first.ID)
	}

	second := models.Poll{UserID: user.ID, CreatedOn: day, Category: models.PollCategoryHealth, PromptID: prompt.ID}
	created, err = repos.Polls.InsertIfAbsent(context.Background(), &second)
	if err != nil {
		t.Fatalf("insert second poll: %v", err)
	}
	if created {
		t.Fatal("expected second insert for the same day to be ignored")
	}

	count, err := repos.Polls.CountByUserAndDay(user.ID, day)
	if err != nil {
		t.Fatalf("count polls: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one poll, got %d", count)
	}
}

func TestPollRepositoryInsertIfAbsentConcurrentWriters(t *testing.T) {
	database := openSQLiteForTest(t, filepath.Join(t.TempDir(), "daybook-polls-concurrent.db"))
	repos := NewRepositories(database)
	user := createRepositoryTestUser(t, database, "racer@example.com")
	prompt := createRepositoryTestPrompt(t, repos, models.PollCategoryMood)
	day := time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC)

	const writers = 8
	var wg sync.WaitGroup
	createdCount := make(chan bool, writers)
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			poll := models.Poll{UserID: user.ID, CreatedOn: day, Category: models.PollCategoryMood, PromptID: prompt.ID}
			created, err := repos.Polls.InsertIfAbsent(context.Background(), &poll)
			if err != nil {
				t.Errorf("concurrent insert: %v", err)
				return
			}
			createdCount <- created
		}()
	}
	wg.Wait()
	close(createdCount)

	wins := 0
	for created := range createdCount {
		if created {
			wins++
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one writer to create the poll, got %d", wins)
	}
}

func TestPollRepositoryInsertForMissingUserViolatesForeignKey(t *testing.T) {
	database := openSQLiteForTest(t, filepath.Join(t.TempDir(), "daybook-polls-fk.db"))
	repos := NewRepositories(database)
	prompt := createRepositoryTestPrompt(t, repos, models.PollCategoryHealth)

	poll := models.Poll{
		UserID:    4242,
		CreatedOn: time.Date(2026, time.March, 6, 0, 0, 0, 0, time.UTC),
		Category:  models.PollCategoryHealth,
		PromptID:  prompt.ID,
	}
	_, err := repos.Polls.InsertIfAbsent(context.Background(), &poll)
	if err == nil {
		t.Fatal("expected insert for a missing owner to fail")
	}
	if !errors.Is(err, gorm.ErrForeignKeyViolated) {
		t.Fatalf("expected foreign key violation, got %v", err)
	}
}

func TestPollRepositoryMarkCompleted(t *testing.T) {
	database := openSQLiteForTest(t, filepath.Join(t.TempDir(), "daybook-polls-complete.db"))
	repos := NewRepositories(database)
	user := createRepositoryTestUser(t, database, "completer@example.com")
	prompt := createRepositoryTestPrompt(t, repos, models.PollCategoryHealth)
	day := time.Date(2026, time.March, 7, 0, 0, 0, 0, time.UTC)

	poll := models.Poll{UserID: user.ID, CreatedOn: day, Category: models.PollCategoryHealth, PromptID: prompt.ID}
	if _, err := repos.Polls.InsertIfAbsent(context.Background(), &poll); err != nil {
		t.Fatalf("insert poll: %v", err)
	}

	completedAt := day.Add(9 * time.Hour)
	found, err := repos.Polls.MarkCompleted(poll.ID, completedAt)
	if err != nil {
		t.Fatalf("mark completed: %v", err)
	}
	if !found {
		t.Fatal("expected existing poll to be marked completed")
	}

	stored, found, err := repos.Polls.FindByUserAndDay(user.ID, day)
	if err != nil || !found {
		t.Fatalf("load poll: found=%v err=%v", found, err)
	}
	if !stored.Completed || stored.CompletedAt == nil {
		t.Fatalf("expected completed poll with timestamp, got %#v", stored)
	}
	if stored.Prompt.ID != prompt.ID || stored.Prompt.Text == "" {
		t.Fatalf("expected prompt to be preloaded, got %#v", stored.Prompt)
	}

	found, err = repos.Polls.MarkCompleted(999, completedAt)
	if err != nil {
		t.Fatalf("mark unknown poll: %v", err)
	}
	if found {
		t.Fatal("expected unknown poll id to report not found")
	}
}

func TestNoteRepositoryExistsForUserOnDay(t *testing.T) {
	database := openSQLiteForTest(t, filepath.Join(t.TempDir(), "daybook-notes.db"))
	repos := NewRepositories(database)
	user := createRepositoryTestUser(t, database, "notes@example.com")
	other := createRepositoryTestUser(t, database, "other@example.com")
	day := time.Date(2026, time.March, 8, 0, 0, 0, 0, time.UTC)
	completed := false

	for _, note := range []models.Note{
		{UserID: user.ID, Type: models.NoteTypeTask, Text: "ship it", Date: day, Completed: &completed},
		{UserID: other.ID, Type: models.NoteTypeNote, Text: "not mine", Date: day},
		{UserID: user.ID, Type: models.NoteTypeNote, Text: "tomorrow", Date: day.AddDate(0, 0, 1)},
	} {
		note := note
		if err := repos.Notes.Create(&note); err != nil {
			t.Fatalf("create note: %v", err)
		}
	}

	hasTask, err := repos.Notes.ExistsForUserOnDay(user.ID, day, day.AddDate(0, 0, 1), models.NoteTypeTask)
	if err != nil {
		t.Fatalf("exists task: %v", err)
	}
	if !hasTask {
		t.Fatal("expected task dated today to be found")
	}

	hasNote, err := repos.Notes.ExistsForUserOnDay(user.ID, day, day.AddDate(0, 0, 1), models.NoteTypeNote)
	if err != nil {
		t.Fatalf("exists note: %v", err)
	}
	if hasNote {
		t.Fatal("expected no note-type entry today for user")
	}

	upcoming, err := repos.Notes.ListByUserFrom(user.ID, day.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("list upcoming: %v", err)
	}
	if len(upcoming) != 1 || upcoming[0].Text != "tomorrow" {
		t.Fatalf("expected only tomorrow's note, got %#v", upcoming)
	}
}

func TestUserRepositoryDeleteAccountRemovesOwnedRows(t *testing.T) {
	database := openSQLiteForTest(t, filepath.Join(t.TempDir(), "daybook-delete.db"))
	repos := NewRepositories(database)
	user := createRepositoryTestUser(t, database, "leaving@example.com")
	prompt := createRepositoryTestPrompt(t, repos, models.PollCategoryHealth)
	day := time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)
	mood := true

	if err := repos.Notes.Create(&models.Note{UserID: user.ID, Type: models.NoteTypeNote, Text: "bye", Date: day}); err != nil {
		t.Fatalf("create note: %v", err)
	}
	if err := repos.DayRatings.Create(&models.DayRating{UserID: user.ID, Date: day, Mood: &mood}); err != nil {
		t.Fatalf("create rating: %v", err)
	}
	poll := models.Poll{UserID: user.ID, CreatedOn: day, Category: models.PollCategoryHealth, PromptID: prompt.ID}
	if _, err := repos.Polls.InsertIfAbsent(context.Background(), &poll); err != nil {
		t.Fatalf("create poll: %v", err)
	}

	if err := repos.Users.DeleteAccountAndRelatedData(user.ID); err != nil {
		t.Fatalf("delete account: %v", err)
	}

	for _, model := range []any{&models.Note{}, &models.DayRating{}, &models.Poll{}} {
		var count int64
		if err := database.Model(model).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
			t.Fatalf("count rows: %v", err)
		}
		if count != 0 {
			t.Fatalf("expected owned rows of %T to be removed, got %d", model, count)
		}
	}

	if err := repos.Users.DeleteAccountAndRelatedData(user.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected second delete to report not found, got %v", err)
	}
}

func createRepositoryTestUser(t *testing.T, database *gorm.DB, email string) models.User {
	t.Helper()

	user := models.User{
		Email:        email,
		FirstName:    "Test",
		PasswordHash: "hash",
		RegisteredAt: time.Now().UTC(),
	}
	if err := database.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func createRepositoryTestPrompt(t *testing.T, repos *Repositories, category models.PollCategory) models.PollPrompt {
	t.Helper()

	prompts := []models.PollPrompt{{Category: category, Text: "How was " + string(category) + "?"}}
	if err := repos.PollPrompts.CreateBatch(prompts); err != nil {
		t.Fatalf("create prompt: %v", err)
	}
	return prompts[0]
}
