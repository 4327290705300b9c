package debug

import (
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Throttle logs at most once per interval and counts what it drops. Used on
// hot paths (per-dispatch audio/MIDI failures) where every error is the same.
type Throttle struct {
	limiter *rate.Limiter
	dropped atomic.Int64
}

// NewThrottle allows one line per every.
func NewThrottle(every time.Duration) *Throttle {
	return &Throttle{limiter: rate.NewLimiter(rate.Every(every), 1)}
}

// Log writes the line if the limiter allows it, otherwise counts it.
func (t *Throttle) Log(category, format string, args ...any) bool {
	if !t.limiter.Allow() {
		t.dropped.Add(1)
		return false
	}
	if n := t.dropped.Swap(0); n > 0 {
		Log(category, format+" (+%d suppressed)", append(args, n)...)
		return true
	}
	Log(category, format, args...)
	return true
}

// Dropped returns how many lines were suppressed since the last one written.
func (t *Throttle) Dropped() int64 {
	return t.dropped.Load()
}
