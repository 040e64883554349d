package server

import (
	"sync"
	"time"
)

// rateWindow is a per-session sliding-window message counter: each attempt is
// recorded, timestamps older than the window are pruned, and the attempt is
// rejected once the pruned count exceeds the limit. Unlike a token bucket,
// bursts are governed purely by count within the trailing window.
type rateWindow struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	stamps []time.Time
}

func newRateWindow(limit int, window time.Duration) *rateWindow {
	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = time.Second
	}
	return &rateWindow{
		limit:  limit,
		window: window,
	}
}

// allow records the current attempt and reports whether it stays within the
// limit. Rejected attempts still count against the window.
func (rw *rateWindow) allow() bool {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	now := time.Now()
	rw.stamps = append(rw.stamps, now)

	cutoff := now.Add(-rw.window)
	kept := rw.stamps[:0]
	for _, ts := range rw.stamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	rw.stamps = kept

	return len(rw.stamps) <= rw.limit
}
