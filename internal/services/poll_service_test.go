package services

import (
	"errors"
	"testing"
	"time"

	"github.com/terraincognita07/daybook/internal/models"
)

type pollLifecycleRepositoryStub struct {
	polls map[uint]models.Poll
}

func (stub *pollLifecycleRepositoryStub) FindByUserAndDay(userID uint, day time.Time) (models.Poll, bool, error) {
	for _, poll := range stub.polls {
		if poll.UserID == userID && poll.CreatedOn.Equal(day) {
			return poll, true, nil
		}
	}
	return models.Poll{}, false, nil
}

func (stub *pollLifecycleRepositoryStub) FindByID(pollID uint) (models.Poll, bool, error) {
	poll, ok := stub.polls[pollID]
	return poll, ok, nil
}

func (stub *pollLifecycleRepositoryStub) MarkCompleted(pollID uint, completedAt time.Time) (bool, error) {
	poll, ok := stub.polls[pollID]
	if !ok {
		return false, nil
	}
	poll.Completed = true
	poll.CompletedAt = &completedAt
	stub.polls[pollID] = poll
	return true, nil
}

func TestPollServiceCompleteIsRepeatable(t *testing.T) {
	t.Parallel()

	created := time.Date(2026, time.August, 3, 0, 0, 0, 0, time.UTC)
	repo := &pollLifecycleRepositoryStub{polls: map[uint]models.Poll{
		1: {ID: 1, UserID: 2, CreatedOn: created, Category: models.PollCategoryMood},
	}}
	service := NewPollService(repo, time.UTC)
	clock := created.Add(9 * time.Hour)
	service.now = func() time.Time { return clock }

	if err := service.Complete(1); err != nil {
		t.Fatalf("Complete() unexpected error: %v", err)
	}
	first := repo.polls[1]
	if !first.Completed || first.CompletedAt == nil || first.CompletedAt.Before(first.CreatedOn) {
		t.Fatalf("unexpected poll after completion: %#v", first)
	}

	clock = clock.Add(time.Hour)
	if err := service.Complete(1); err != nil {
		t.Fatalf("second Complete() unexpected error: %v", err)
	}
	second := repo.polls[1]
	if !second.Completed || !second.CompletedAt.Equal(clock) {
		t.Fatalf("expected refreshed completion time %s, got %#v", clock, second.CompletedAt)
	}
}

func TestPollServiceCompleteUnknownPoll(t *testing.T) {
	t.Parallel()

	repo := &pollLifecycleRepositoryStub{polls: map[uint]models.Poll{
		1: {ID: 1, UserID: 2},
	}}
	service := NewPollService(repo, time.UTC)

	if err := service.Complete(999); !errors.Is(err, ErrPollNotFound) {
		t.Fatalf("expected ErrPollNotFound, got %v", err)
	}
	if repo.polls[1].Completed {
		t.Fatal("expected other polls to stay untouched")
	}
}

func TestPollServiceCompleteForChecksOwnership(t *testing.T) {
	t.Parallel()

	repo := &pollLifecycleRepositoryStub{polls: map[uint]models.Poll{
		1: {ID: 1, UserID: 2},
	}}
	service := NewPollService(repo, time.UTC)

	if err := service.CompleteFor(&models.User{ID: 3}, 1); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if err := service.CompleteFor(&models.User{ID: 3}, 5); !errors.Is(err, ErrPollNotFound) {
		t.Fatalf("expected ErrPollNotFound, got %v", err)
	}
	if err := service.CompleteFor(&models.User{ID: 9, IsStaff: true}, 1); err != nil {
		t.Fatalf("staff CompleteFor() unexpected error: %v", err)
	}
}

func TestPollServiceGetToday(t *testing.T) {
	t.Parallel()

	location := time.FixedZone("UTC-5", -5*60*60)
	instant := time.Date(2026, time.August, 4, 2, 0, 0, 0, time.UTC)
	repo := &pollLifecycleRepositoryStub{polls: map[uint]models.Poll{
		1: {ID: 1, UserID: 2, CreatedOn: time.Date(2026, time.August, 3, 0, 0, 0, 0, time.UTC)},
	}}
	service := NewPollService(repo, location)
	service.now = func() time.Time { return instant }

	poll, err := service.GetToday(2)
	if err != nil || poll.ID != 1 {
		t.Fatalf("expected poll 1 for the local day, got %#v (err=%v)", poll, err)
	}
	if _, err := service.GetToday(3); !errors.Is(err, ErrPollNotFound) {
		t.Fatalf("expected ErrPollNotFound, got %v", err)
	}
	if _, err := service.GetTodayFor(&models.User{ID: 3}, 2); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}
