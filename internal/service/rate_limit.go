package service

import (
	"sync"
	"time"
)

type window struct {
	start time.Time
	count int
}

// RateLimiter counts requests per chat in fixed windows.
type RateLimiter struct {
	limit  int
	period time.Duration
	now    func() time.Time

	mu      sync.Mutex
	windows map[int64]*window
}

func NewRateLimiter(limit int, period time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		period:  period,
		now:     time.Now,
		windows: make(map[int64]*window),
	}
}

// Allow records one request for chatID and reports whether it is within the
// limit, together with the count in the current window.
func (r *RateLimiter) Allow(chatID int64) (bool, int) {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.windows[chatID]
	if !ok || now.Sub(w.start) >= r.period {
		w = &window{start: now}
		r.windows[chatID] = w
	}
	w.count++
	return w.count <= r.limit, w.count
}

func (r *RateLimiter) Limit() int {
	return r.limit
}

// Cleanup forgets windows that have already expired.
func (r *RateLimiter) Cleanup() {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, w := range r.windows {
		if now.Sub(w.start) >= r.period {
			delete(r.windows, id)
		}
	}
}
