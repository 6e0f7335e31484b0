//go:build integration

package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/terraincognita07/daybook/internal/models"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

func openPostgresContainerForTest(t *testing.T) *gorm.DB {
	t.Helper()

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("daybook"),
		tcpostgres.WithUsername("daybook"),
		tcpostgres.WithPassword("daybook"),
		tcpostgres.BasicWaitStrategies(),
	)
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("postgres connection string: %v", err)
	}

	database, err := Open(Config{Type: TypePostgres, DSN: dsn, MaxOpenConns: 4})
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	t.Cleanup(func() {
		_ = Close(database)
	})
	return database
}

func TestPostgresPollLifecycle(t *testing.T) {
	database := openPostgresContainerForTest(t)
	assertAllEmbeddedMigrationsApplied(t, database)

	repos := NewRepositories(database)
	user := createRepositoryTestUser(t, database, "pg-owner@example.com")
	prompt := createRepositoryTestPrompt(t, repos, models.PollCategoryTask)
	day := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)

	poll := models.Poll{UserID: user.ID, CreatedOn: day, Category: models.PollCategoryTask, PromptID: prompt.ID}
	created, err := repos.Polls.InsertIfAbsent(context.Background(), &poll)
	if err != nil || !created {
		t.Fatalf("insert poll: created=%v err=%v", created, err)
	}

	duplicate := models.Poll{UserID: user.ID, CreatedOn: day, Category: models.PollCategoryTask, PromptID: prompt.ID}
	created, err = repos.Polls.InsertIfAbsent(context.Background(), &duplicate)
	if err != nil || created {
		t.Fatalf("expected duplicate to be ignored: created=%v err=%v", created, err)
	}

	orphan := models.Poll{UserID: user.ID + 1000, CreatedOn: day, Category: models.PollCategoryTask, PromptID: prompt.ID}
	if _, err := repos.Polls.InsertIfAbsent(context.Background(), &orphan); !errors.Is(err, gorm.ErrForeignKeyViolated) {
		t.Fatalf("expected foreign key violation, got %v", err)
	}

	found, err := repos.Polls.MarkCompleted(poll.ID, day.Add(time.Hour))
	if err != nil || !found {
		t.Fatalf("mark completed: found=%v err=%v", found, err)
	}
}
