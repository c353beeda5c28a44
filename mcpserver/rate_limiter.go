package mcpserver

import (
	"sync"
	"time"
)

// RateLimiter counts calls per key in fixed windows
type RateLimiter struct {
	mu           sync.Mutex
	counters     map[string]*rateLimitEntry
	maxRequests  int
	windowPeriod time.Duration
	now          func() time.Time
}

type rateLimitEntry struct {
	count       int
	windowStart time.Time
}

// RateLimitStatus is the outcome of a limit check
type RateLimitStatus struct {
	Limited   bool
	Count     int
	ResetTime time.Time
}

// NewRateLimiter allows maxRequests per key in each window
func NewRateLimiter(maxRequests int, windowPeriod time.Duration) *RateLimiter {
	return &RateLimiter{
		counters:     make(map[string]*rateLimitEntry),
		maxRequests:  maxRequests,
		windowPeriod: windowPeriod,
		now:          time.Now,
	}
}

// Check records a call for key and reports whether it exceeds the limit
func (r *RateLimiter) Check(key string) RateLimitStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	entry, ok := r.counters[key]
	if !ok || now.Sub(entry.windowStart) >= r.windowPeriod {
		entry = &rateLimitEntry{windowStart: now}
		r.counters[key] = entry
	}

	entry.count++

	return RateLimitStatus{
		Limited:   entry.count > r.maxRequests,
		Count:     entry.count,
		ResetTime: entry.windowStart.Add(r.windowPeriod),
	}
}
