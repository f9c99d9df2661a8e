package service

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Idle limiters are swept once the registry grows past maxLimiters.
const (
	maxLimiters    = 10000
	limiterMaxIdle = 10 * time.Minute
)

// RequesterLimiter applies a token bucket per requester.
// A zero rate disables limiting.
type RequesterLimiter struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*limiterEntry
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRequesterLimiter allows perSecond claims per requester with the given
// burst. burst < 1 is raised to 1.
func NewRequesterLimiter(perSecond float64, burst int) *RequesterLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RequesterLimiter{
		limit:    rate.Limit(perSecond),
		burst:    burst,
		limiters: make(map[string]*limiterEntry),
	}
}

// Enabled reports whether limiting is active.
func (l *RequesterLimiter) Enabled() bool {
	return l != nil && l.limit > 0
}

// Allow consumes one token for requester. When the bucket is empty it
// returns false and the delay until the next token.
func (l *RequesterLimiter) Allow(requester string) (bool, time.Duration) {
	if !l.Enabled() {
		return true, 0
	}

	now := time.Now()
	limiter := l.get(requester, now)

	r := limiter.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// Len returns the number of tracked requesters.
func (l *RequesterLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

func (l *RequesterLimiter) get(requester string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e, ok := l.limiters[requester]; ok {
		e.lastSeen = now
		return e.limiter
	}

	if len(l.limiters) >= maxLimiters {
		for k, e := range l.limiters {
			if now.Sub(e.lastSeen) > limiterMaxIdle {
				delete(l.limiters, k)
			}
		}
	}

	e := &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst), lastSeen: now}
	l.limiters[requester] = e
	return e.limiter
}
