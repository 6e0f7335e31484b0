package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/terraincognita07/daybook/internal/models"
)

var (
	ErrPollNotFound       = errors.New("poll not found")
	ErrPollCompleteFailed = errors.New("complete poll failed")
)

type PollLifecycleRepository interface {
	FindByUserAndDay(userID uint, day time.Time) (models.Poll, bool, error)
	FindByID(pollID uint) (models.Poll, bool, error)
	MarkCompleted(pollID uint, completedAt time.Time) (bool, error)
}

type PollService struct {
	polls    PollLifecycleRepository
	location *time.Location
	now      func() time.Time
	logger   *slog.Logger
}

func NewPollService(polls PollLifecycleRepository, location *time.Location) *PollService {
	if location == nil {
		location = time.UTC
	}
	return &PollService{polls: polls, location: location, now: time.Now, logger: slog.Default()}
}

func (service *PollService) Today() time.Time {
	return CalendarDate(service.now(), service.location)
}

func (service *PollService) GetToday(userID uint) (models.Poll, error) {
	poll, found, err := service.polls.FindByUserAndDay(userID, service.Today())
	if err != nil {
		return models.Poll{}, err
	}
	if !found {
		return models.Poll{}, ErrPollNotFound
	}
	return poll, nil
}

func (service *PollService) GetTodayFor(actor *models.User, userID uint) (models.Poll, error) {
	if !CanActOnUser(actor, userID) {
		return models.Poll{}, ErrPermissionDenied
	}
	return service.GetToday(userID)
}

// Complete marks the poll done and stamps completed_at. Repeated calls
// refresh the timestamp.
func (service *PollService) Complete(pollID uint) error {
	updated, err := service.polls.MarkCompleted(pollID, service.now().UTC())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPollCompleteFailed, err)
	}
	if !updated {
		return ErrPollNotFound
	}
	service.logger.Info("poll completed", "poll_id", pollID)
	return nil
}

// CompleteFor completes a poll on behalf of actor, who must own it or be staff.
func (service *PollService) CompleteFor(actor *models.User, pollID uint) error {
	poll, found, err := service.polls.FindByID(pollID)
	if err != nil {
		return err
	}
	if !found {
		return ErrPollNotFound
	}
	if !CanActOnUser(actor, poll.UserID) {
		return ErrPermissionDenied
	}
	return service.Complete(pollID)
}
