package api

import (
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/patrickmn/go-cache"
)

// attemptLimiter blocks a key once it collects limit failures inside a
// sliding window. Entries expire from the cache one window after the last
// failure.
type attemptLimiter struct {
	limit  int
	window time.Duration

	mu       sync.Mutex
	failures *cache.Cache
}

func newAttemptLimiter(limit int, window time.Duration) *attemptLimiter {
	return &attemptLimiter{
		limit:    limit,
		window:   window,
		failures: cache.New(window, 0),
	}
}

func (limiter *attemptLimiter) blocked(key string, now time.Time) bool {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	return len(limiter.recentLocked(key, now)) >= limiter.limit
}

func (limiter *attemptLimiter) recordFailure(key string, now time.Time) {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	recent := append(limiter.recentLocked(key, now), now)
	limiter.failures.Set(key, recent, limiter.window)
	limiter.failures.DeleteExpired()
}

func (limiter *attemptLimiter) clear(key string) {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	limiter.failures.Delete(key)
}

func (limiter *attemptLimiter) recentLocked(key string, now time.Time) []time.Time {
	cached, ok := limiter.failures.Get(key)
	if !ok {
		return nil
	}

	threshold := now.Add(-limiter.window)
	recent := make([]time.Time, 0, len(cached.([]time.Time)))
	for _, at := range cached.([]time.Time) {
		if at.After(threshold) {
			recent = append(recent, at)
		}
	}
	return recent
}

// loginLimiterKey scopes failed logins to the client address and the
// account being tried.
func loginLimiterKey(c *fiber.Ctx, email string) string {
	address := strings.TrimSpace(c.IP())
	if address == "" {
		address = "unknown"
	}
	return address + "|" + strings.ToLower(strings.TrimSpace(email))
}
