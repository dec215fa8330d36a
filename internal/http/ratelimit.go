package http

import (
	"sync"
	"time"
)

const (
	writeLimit  = 60 // mutating requests per window, per client IP
	writeWindow = time.Minute

	sweepInterval = 5 * time.Minute
	staleAfter    = 10 * time.Minute
)

// rateLimiter throttles mutating requests with a fixed window per client IP.
// Counters reset when a request arrives after the window has elapsed; idle
// clients are swept by a background goroutine.
type rateLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	done    chan struct{}
	once    sync.Once
}

type window struct {
	seen  time.Time
	count int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		windows: make(map[string]*window),
		done:    make(chan struct{}),
	}
	go rl.sweep()
	return rl
}

// allow records a request from clientIP and reports whether it is within the
// per-window budget.
func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	w := rl.windows[clientIP]
	if w == nil || now.Sub(w.seen) > writeWindow {
		rl.windows[clientIP] = &window{seen: now, count: 1}
		return true
	}
	w.count++
	w.seen = now
	return w.count <= writeLimit
}

func (rl *rateLimiter) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.dropStale()
		case <-rl.done:
			return
		}
	}
}

func (rl *rateLimiter) dropStale() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-staleAfter)
	for ip, w := range rl.windows {
		if w.seen.Before(cutoff) {
			delete(rl.windows, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.once.Do(func() { close(rl.done) })
}
