package llm

import (
	"sync"
	"time"
)

// Default local rate caps for model calls.
const (
	DefaultMaxCallsPerDay    = 100
	DefaultMaxCallsPerMinute = 10
)

// LimiterConfig holds configuration for the call limiter.
type LimiterConfig struct {
	// MaxCallsPerDay caps calls in a rolling 24-hour window (default: 100).
	MaxCallsPerDay int

	// MaxCallsPerMinute caps calls in a rolling 60-second window (default: 10).
	MaxCallsPerMinute int

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Limiter enforces local per-day and per-minute caps on model calls.
// Every attempt counts against both windows, including attempts that
// later time out. Safe for concurrent use.
type Limiter struct {
	mu           sync.Mutex
	maxPerDay    int
	maxPerMinute int
	now          func() time.Time
	history      []time.Time
}

// NewLimiter creates a Limiter from config, applying defaults.
func NewLimiter(cfg LimiterConfig) *Limiter {
	maxPerDay := cfg.MaxCallsPerDay
	if maxPerDay <= 0 {
		maxPerDay = DefaultMaxCallsPerDay
	}
	maxPerMinute := cfg.MaxCallsPerMinute
	if maxPerMinute <= 0 {
		maxPerMinute = DefaultMaxCallsPerMinute
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Limiter{
		maxPerDay:    maxPerDay,
		maxPerMinute: maxPerMinute,
		now:          now,
	}
}

// Allow reports whether another call may start now, and records it when
// permitted. The check and the recording happen under one lock, so
// concurrent callers cannot both squeeze through the last slot.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)

	if len(l.history) >= l.maxPerDay {
		return false
	}
	if l.countSince(now.Add(-time.Minute)) >= l.maxPerMinute {
		return false
	}

	l.history = append(l.history, now)
	return true
}

// UsageStats is a snapshot of limiter consumption.
type UsageStats struct {
	CallsToday        int `json:"calls_today"`
	MaxCallsPerDay    int `json:"max_calls_per_day"`
	CallsLastMinute   int `json:"calls_last_minute"`
	MaxCallsPerMinute int `json:"max_calls_per_minute"`
	RemainingToday    int `json:"remaining_today"`
}

// Stats returns current consumption against both windows.
func (l *Limiter) Stats() UsageStats {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)

	return UsageStats{
		CallsToday:        len(l.history),
		MaxCallsPerDay:    l.maxPerDay,
		CallsLastMinute:   l.countSince(now.Add(-time.Minute)),
		MaxCallsPerMinute: l.maxPerMinute,
		RemainingToday:    l.maxPerDay - len(l.history),
	}
}

// prune drops records older than the daily window. Caller holds l.mu.
func (l *Limiter) prune(now time.Time) {
	cutoff := now.Add(-24 * time.Hour)
	kept := l.history[:0]
	for _, t := range l.history {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	l.history = kept
}

// countSince counts records after the cutoff. Caller holds l.mu.
func (l *Limiter) countSince(cutoff time.Time) int {
	count := 0
	for _, t := range l.history {
		if t.After(cutoff) {
			count++
		}
	}
	return count
}
