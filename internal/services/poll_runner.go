package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/terraincognita07/daybook/internal/models"
	"golang.org/x/sync/singleflight"
)

const (
	defaultPollQueueSize    = 256
	defaultPollWorkers      = 2
	pollEnsuredTTL          = 26 * time.Hour
	pollEnsuredCleanupEvery = time.Hour
)

type PollEnsurer interface {
	EnsureToday(ctx context.Context, user models.User) (EnsureOutcome, error)
}

// PollRecorder receives runner results. *metrics.PollMetrics satisfies it.
type PollRecorder interface {
	RecordOutcome(outcome string, duration time.Duration)
	RecordError(duration time.Duration)
	RecordDropped()
	SetQueueDepth(depth int)
}

type PollRunnerConfig struct {
	QueueSize int
	Workers   int
	Location  *time.Location
}

type pollJob struct {
	user models.User
	key  string
}

// PollRunner generates daily polls in the background. Callers hand users to
// Schedule and never wait for the result.
type PollRunner struct {
	ensurer  PollEnsurer
	recorder PollRecorder
	config   PollRunnerConfig
	logger   *slog.Logger
	now      func() time.Time

	queue   chan pollJob
	group   singleflight.Group
	ensured *cache.Cache

	mu      sync.RWMutex
	started bool
	stopped bool
	done    chan struct{}
	wg      sync.WaitGroup
}

func NewPollRunner(ensurer PollEnsurer, config PollRunnerConfig, recorder PollRecorder) *PollRunner {
	if config.QueueSize <= 0 {
		config.QueueSize = defaultPollQueueSize
	}
	if config.Workers <= 0 {
		config.Workers = defaultPollWorkers
	}
	if config.Location == nil {
		config.Location = time.UTC
	}
	return &PollRunner{
		ensurer:  ensurer,
		recorder: recorder,
		config:   config,
		logger:   slog.Default(),
		now:      time.Now,
		queue:    make(chan pollJob, config.QueueSize),
		ensured:  cache.New(pollEnsuredTTL, 0),
		done:     make(chan struct{}),
	}
}

// Schedule queues poll generation for user and returns immediately. It
// reports whether a job was queued.
func (runner *PollRunner) Schedule(user models.User) bool {
	if user.IsStaff {
		return false
	}
	key := runner.jobKey(user.ID)
	if _, ok := runner.ensured.Get(key); ok {
		return false
	}

	runner.mu.RLock()
	defer runner.mu.RUnlock()
	if runner.stopped {
		return false
	}

	select {
	case runner.queue <- pollJob{user: user, key: key}:
		if runner.recorder != nil {
			runner.recorder.SetQueueDepth(len(runner.queue))
		}
		return true
	default:
		if runner.recorder != nil {
			runner.recorder.RecordDropped()
		}
		runner.logger.Warn("poll queue full, dropping request", "user_id", user.ID)
		return false
	}
}

// Start launches the workers. Calling it more than once has no effect.
func (runner *PollRunner) Start(ctx context.Context) {
	runner.mu.Lock()
	defer runner.mu.Unlock()
	if runner.started || runner.stopped {
		return
	}
	runner.started = true

	for range runner.config.Workers {
		runner.wg.Add(1)
		go runner.work(ctx)
	}

	runner.wg.Add(1)
	go runner.cleanup()
}

// Stop rejects new jobs, lets workers finish the queued ones and waits.
func (runner *PollRunner) Stop() {
	runner.mu.Lock()
	if runner.stopped {
		runner.mu.Unlock()
		return
	}
	runner.stopped = true
	close(runner.queue)
	close(runner.done)
	runner.mu.Unlock()

	runner.wg.Wait()
}

func (runner *PollRunner) work(ctx context.Context) {
	defer runner.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-runner.queue:
			if !ok {
				return
			}
			if runner.recorder != nil {
				runner.recorder.SetQueueDepth(len(runner.queue))
			}
			runner.process(ctx, job)
		}
	}
}

func (runner *PollRunner) process(ctx context.Context, job pollJob) {
	_, err, _ := runner.group.Do(job.key, func() (any, error) {
		if _, ok := runner.ensured.Get(job.key); ok {
			return EnsureExisting, nil
		}

		started := time.Now()
		outcome, err := runner.ensurer.EnsureToday(ctx, job.user)
		elapsed := time.Since(started)
		if err != nil {
			if runner.recorder != nil {
				runner.recorder.RecordError(elapsed)
			}
			return nil, err
		}

		runner.ensured.SetDefault(job.key, outcome)
		if runner.recorder != nil {
			runner.recorder.RecordOutcome(string(outcome), elapsed)
		}
		return outcome, nil
	})
	if err != nil {
		runner.logger.Error("ensure daily poll failed", "user_id", job.user.ID, "error", err)
	}
}

func (runner *PollRunner) cleanup() {
	defer runner.wg.Done()
	ticker := time.NewTicker(pollEnsuredCleanupEvery)
	defer ticker.Stop()
	for {
		select {
		case <-runner.done:
			return
		case <-ticker.C:
			runner.ensured.DeleteExpired()
		}
	}
}

func (runner *PollRunner) jobKey(userID uint) string {
	return fmt.Sprintf("%d:%s", userID, FormatCalendarDate(CalendarDate(runner.now(), runner.config.Location)))
}
