package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/terraincognita07/daybook/internal/models"
	"gorm.io/gorm"
)

// ErrOwnerGone means the poll owner was deleted while its poll was being
// created. EnsureToday absorbs it.
var ErrOwnerGone = errors.New("poll owner no longer exists")

var ErrPollCreateFailed = errors.New("create poll failed")

// pollDrawsPerCategory bounds random category draws before falling back.
const pollDrawsPerCategory = 5

type EnsureOutcome string

const (
	EnsureCreated      EnsureOutcome = "created"
	EnsureExisting     EnsureOutcome = "existing"
	EnsureSkippedStaff EnsureOutcome = "skipped_staff"
	EnsureOwnerGone    EnsureOutcome = "owner_gone"
)

type PollStore interface {
	FindByUserAndDay(userID uint, day time.Time) (models.Poll, bool, error)
	InsertIfAbsent(ctx context.Context, poll *models.Poll) (bool, error)
}

type PollOwnerLookup interface {
	FindByID(userID uint) (models.User, error)
}

type PollPromptResolver interface {
	Resolve(userID uint, category models.PollCategory, today time.Time) (uint, bool, error)
}

type PollSelector struct {
	polls      PollStore
	owners     PollOwnerLookup
	resolver   PollPromptResolver
	categories []models.PollCategory
	location   *time.Location
	now        func() time.Time
	intn       func(n int) int
	logger     *slog.Logger
}

func NewPollSelector(polls PollStore, owners PollOwnerLookup, resolver PollPromptResolver, categories []models.PollCategory, location *time.Location) *PollSelector {
	if location == nil {
		location = time.UTC
	}
	if len(categories) == 0 {
		categories = models.PollCategories()
	}
	return &PollSelector{
		polls:      polls,
		owners:     owners,
		resolver:   resolver,
		categories: append([]models.PollCategory(nil), categories...),
		location:   location,
		now:        time.Now,
		intn:       rand.IntN,
		logger:     slog.Default(),
	}
}

// EnsureToday makes sure user has exactly one poll for the current day.
// Staff accounts never get polls.
func (selector *PollSelector) EnsureToday(ctx context.Context, user models.User) (EnsureOutcome, error) {
	if user.IsStaff {
		return EnsureSkippedStaff, nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	today := CalendarDate(selector.now(), selector.location)
	if _, found, err := selector.polls.FindByUserAndDay(user.ID, today); err != nil {
		return "", err
	} else if found {
		return EnsureExisting, nil
	}

	category, promptID, err := selector.choosePrompt(user.ID, today)
	if err != nil {
		return "", err
	}

	poll := models.Poll{
		UserID:    user.ID,
		CreatedOn: today,
		Category:  category,
		PromptID:  promptID,
	}
	created, err := selector.insert(ctx, &poll)
	if errors.Is(err, ErrOwnerGone) {
		selector.logger.Info("poll owner gone before poll was stored", "user_id", user.ID)
		return EnsureOwnerGone, nil
	}
	if err != nil {
		return "", err
	}
	if !created {
		return EnsureExisting, nil
	}

	selector.logger.Info("poll created", "poll_id", poll.ID, "user_id", user.ID, "category", string(category))
	return EnsureCreated, nil
}

// choosePrompt draws random categories until one is eligible. After a fixed
// number of misses it uses the fallback category, which needs no referent.
func (selector *PollSelector) choosePrompt(userID uint, today time.Time) (models.PollCategory, uint, error) {
	attempts := pollDrawsPerCategory * len(selector.categories)
	for range attempts {
		category := selector.categories[selector.intn(len(selector.categories))]
		promptID, eligible, err := selector.resolver.Resolve(userID, category, today)
		if err != nil {
			return "", 0, err
		}
		if eligible {
			return category, promptID, nil
		}
	}

	selector.logger.Debug("poll category draws exhausted, using fallback", "user_id", userID, "attempts", attempts)
	promptID, eligible, err := selector.resolver.Resolve(userID, models.FallbackPollCategory, today)
	if err != nil {
		return "", 0, err
	}
	if !eligible {
		return "", 0, fmt.Errorf("%w: %s", ErrPollPromptsMissing, models.FallbackPollCategory)
	}
	return models.FallbackPollCategory, promptID, nil
}

func (selector *PollSelector) insert(ctx context.Context, poll *models.Poll) (bool, error) {
	created, err := selector.polls.InsertIfAbsent(ctx, poll)
	if err == nil {
		return created, nil
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return false, ErrOwnerGone
	}
	if _, lookupErr := selector.owners.FindByID(poll.UserID); errors.Is(lookupErr, gorm.ErrRecordNotFound) {
		return false, ErrOwnerGone
	}
	return false, fmt.Errorf("%w: %v", ErrPollCreateFailed, err)
}
