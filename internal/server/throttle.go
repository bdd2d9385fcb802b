package server

import (
	"sync"
	"time"

	"github.com/lawnchairsociety/questkeeper/internal/config"
)

// CommandThrottle limits how many commands each session may issue per sliding window.
type CommandThrottle struct {
	mu              sync.Mutex
	history         map[string][]time.Time // session ID -> command times inside the window
	maxCommands     int
	window          time.Duration
	now             func() time.Time
	cleanupInterval time.Duration
	stopCleanup     chan struct{}
	stopOnce        sync.Once
}

// NewCommandThrottle creates a throttle with the given config.
// MaxCommands of 0 disables throttling.
func NewCommandThrottle(cfg config.RateLimitConfig) *CommandThrottle {
	ct := &CommandThrottle{
		history:         make(map[string][]time.Time),
		maxCommands:     cfg.MaxCommands,
		window:          time.Duration(cfg.WindowSeconds) * time.Second,
		now:             time.Now,
		cleanupInterval: 5 * time.Minute,
		stopCleanup:     make(chan struct{}),
	}

	if ct.window <= 0 {
		ct.window = 5 * time.Second
	}

	go ct.cleanupLoop()

	return ct
}

// Stop stops the cleanup goroutine.
func (ct *CommandThrottle) Stop() {
	ct.stopOnce.Do(func() {
		close(ct.stopCleanup)
	})
}

// Allow records a command for the session if it is within its budget.
// When refused, it returns how long until the oldest command leaves the window.
func (ct *CommandThrottle) Allow(sessionID string) (bool, time.Duration) {
	if ct.maxCommands <= 0 {
		return true, 0
	}

	ct.mu.Lock()
	defer ct.mu.Unlock()

	now := ct.now()
	recent := ct.prune(ct.history[sessionID], now)

	if len(recent) >= ct.maxCommands {
		ct.history[sessionID] = recent
		return false, recent[0].Add(ct.window).Sub(now)
	}

	ct.history[sessionID] = append(recent, now)
	return true, 0
}

// Forget drops the history of a closed session.
func (ct *CommandThrottle) Forget(sessionID string) {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	delete(ct.history, sessionID)
}

// prune drops times that have left the window. times is sorted oldest first.
func (ct *CommandThrottle) prune(times []time.Time, now time.Time) []time.Time {
	cutoff := now.Add(-ct.window)
	i := 0
	for i < len(times) && !times[i].After(cutoff) {
		i++
	}
	return times[i:]
}

func (ct *CommandThrottle) cleanupLoop() {
	ticker := time.NewTicker(ct.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ct.stopCleanup:
			return
		case <-ticker.C:
			ct.cleanup()
		}
	}
}

// cleanup removes sessions with no commands inside the window.
func (ct *CommandThrottle) cleanup() {
	ct.mu.Lock()
	defer ct.mu.Unlock()

	now := ct.now()
	for id, times := range ct.history {
		if len(ct.prune(times, now)) == 0 {
			delete(ct.history, id)
		}
	}
}
