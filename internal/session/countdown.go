package session

import (
	"sync"
	"time"
)

// DefaultLogoutTicks is the number of ticks before a forced sign-out fires.
const DefaultLogoutTicks = 5

// Countdown drives the forced sign-out sequence shown after an admin
// updates their own account. Exactly one run may exist per countdown:
// starting a new run replaces any running one (never stacks). A running
// countdown cannot be dismissed; it either reaches zero or is skipped
// forward with FireNow. Close exists solely for owner teardown and does
// not count as a dismissal path for the user.
type Countdown struct {
	mu         sync.Mutex
	generation int
	remaining  int
	stop       chan struct{}
	onTick     func(remaining int)
	onDone     func()
}

// NewCountdown creates a countdown. onTick receives the remaining tick
// count after each tick; onDone fires once when the countdown completes.
// Either callback may be nil.
func NewCountdown(onTick func(remaining int), onDone func()) *Countdown {
	return &Countdown{onTick: onTick, onDone: onDone}
}

// Start begins a run of the given number of ticks at the given interval,
// replacing any run already in progress.
func (c *Countdown) Start(ticks int, interval time.Duration) {
	c.mu.Lock()
	c.cancelLocked()
	c.generation++
	gen := c.generation
	c.remaining = ticks
	stop := make(chan struct{})
	c.stop = stop
	c.mu.Unlock()

	go c.run(gen, interval, stop)
}

func (c *Countdown) run(gen int, interval time.Duration, stop chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			if gen != c.generation {
				c.mu.Unlock()
				return
			}
			c.remaining--
			remaining := c.remaining
			done := remaining <= 0
			if done {
				c.stop = nil
			}
			c.mu.Unlock()

			if c.onTick != nil {
				c.onTick(remaining)
			}
			if done {
				if c.onDone != nil {
					c.onDone()
				}
				return
			}
		}
	}
}

// FireNow completes the countdown immediately (explicit user action, e.g.
// the "sign out now" button). It is a no-op when no run is active.
func (c *Countdown) FireNow() {
	c.mu.Lock()
	if c.stop == nil {
		c.mu.Unlock()
		return
	}
	c.cancelLocked()
	c.remaining = 0
	c.mu.Unlock()

	if c.onDone != nil {
		c.onDone()
	}
}

// Remaining returns the ticks left in the current run, or 0 when idle.
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Active reports whether a run is in progress.
func (c *Countdown) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stop != nil
}

// Close stops any run without firing onDone. Teardown only: the session
// view owning this countdown is going away.
func (c *Countdown) Close() {
	c.mu.Lock()
	c.cancelLocked()
	c.remaining = 0
	c.mu.Unlock()
}

// cancelLocked invalidates the current run. Caller holds c.mu.
func (c *Countdown) cancelLocked() {
	c.generation++
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
}
