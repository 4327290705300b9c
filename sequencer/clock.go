package sequencer

import (
	"sync"
	"time"

	"go-pentaseq/debug"
)

// Clock fires ticks at a fixed period until stopped.
type Clock interface {
	Start(interval time.Duration)
	SetInterval(interval time.Duration) // no-op when stopped
	Stop()
	Ticks() <-chan time.Time
}

// TickerClock is a Clock backed by time.Ticker. A forwarding goroutine keeps
// the Ticks channel the same across Start/Stop cycles.
type TickerClock struct {
	mu       sync.Mutex
	ticker   *time.Ticker
	stopChan chan struct{}
	ticks    chan time.Time
}

// NewTickerClock creates a stopped clock.
func NewTickerClock() *TickerClock {
	return &TickerClock{
		ticks: make(chan time.Time, 1),
	}
}

// Ticks returns the tick channel. A tick the consumer hasn't taken yet is
// not queued behind another one; late ticks are dropped.
func (c *TickerClock) Ticks() <-chan time.Time {
	return c.ticks
}

// Start (re)starts the clock; the first tick arrives one interval from now.
func (c *TickerClock) Start(interval time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()
	c.drain()

	c.ticker = time.NewTicker(interval)
	c.stopChan = make(chan struct{})
	go c.forward(c.ticker, c.stopChan)

	debug.Log("clock", "start interval=%v", interval)
}

// SetInterval changes the period of a running clock without stopping it.
func (c *TickerClock) SetInterval(interval time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ticker == nil {
		return
	}
	c.ticker.Reset(interval)
	debug.Log("clock", "interval=%v", interval)
}

// Stop halts the clock and discards a pending tick.
func (c *TickerClock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()
	c.drain()
}

// Running reports whether the clock is started.
func (c *TickerClock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ticker != nil
}

func (c *TickerClock) stopLocked() {
	if c.ticker == nil {
		return
	}
	c.ticker.Stop()
	close(c.stopChan)
	c.ticker = nil
	c.stopChan = nil
	debug.Log("clock", "stop")
}

func (c *TickerClock) drain() {
	select {
	case <-c.ticks:
	default:
	}
}

// forward hands ticks on. The send happens under mu, so once Stop or Start
// has closed stop and drained, no tick from this ticker can arrive.
func (c *TickerClock) forward(t *time.Ticker, stop chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case now := <-t.C:
			if !c.send(now, stop) {
				return
			}
		}
	}
}

func (c *TickerClock) send(now time.Time, stop chan struct{}) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-stop:
		return false
	default:
	}
	select {
	case c.ticks <- now:
	default:
		debug.LogEvery(10, "clock", "consumer busy, tick dropped")
	}
	return true
}
