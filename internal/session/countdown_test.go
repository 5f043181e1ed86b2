package session

import (
	"sync"
	"testing"
	"time"
)

// tickRecorder collects callback invocations so tests can assert on the
// exact tick sequence and completion count.
type tickRecorder struct {
	mu    sync.Mutex
	ticks []int
	done  int
	fired chan struct{}
}

func newTickRecorder() *tickRecorder {
	return &tickRecorder{fired: make(chan struct{}, 1)}
}

func (r *tickRecorder) onTick(remaining int) {
	r.mu.Lock()
	r.ticks = append(r.ticks, remaining)
	r.mu.Unlock()
}

func (r *tickRecorder) onDone() {
	r.mu.Lock()
	r.done++
	r.mu.Unlock()
	select {
	case r.fired <- struct{}{}:
	default:
	}
}

func (r *tickRecorder) snapshot() ([]int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.ticks...), r.done
}

func (r *tickRecorder) waitDone(t *testing.T) {
	t.Helper()
	select {
	case <-r.fired:
	case <-time.After(2 * time.Second):
		t.Fatal("countdown never completed")
	}
}

func TestCountdown_RunsToCompletion(t *testing.T) {
	rec := newTickRecorder()
	c := NewCountdown(rec.onTick, rec.onDone)

	c.Start(DefaultLogoutTicks, time.Millisecond)
	rec.waitDone(t)

	ticks, done := rec.snapshot()
	want := []int{4, 3, 2, 1, 0}
	if len(ticks) != len(want) {
		t.Fatalf("got ticks %v, want %v", ticks, want)
	}
	for i := range want {
		if ticks[i] != want[i] {
			t.Fatalf("got ticks %v, want %v", ticks, want)
		}
	}
	if done != 1 {
		t.Errorf("onDone fired %d times, want 1", done)
	}
	if c.Active() {
		t.Error("countdown still active after completion")
	}
}

func TestCountdown_StartReplacesRunningCountdown(t *testing.T) {
	rec := newTickRecorder()
	c := NewCountdown(rec.onTick, rec.onDone)

	// The first run would take far longer than the test; replacing it must
	// cancel it outright rather than stacking a second run.
	c.Start(DefaultLogoutTicks, time.Hour)
	c.Start(2, time.Millisecond)
	rec.waitDone(t)

	// Give a stacked run a chance to misfire before asserting.
	time.Sleep(20 * time.Millisecond)

	_, done := rec.snapshot()
	if done != 1 {
		t.Errorf("onDone fired %d times, want 1", done)
	}
	if c.Remaining() != 0 {
		t.Errorf("remaining = %d after completion", c.Remaining())
	}
}

func TestCountdown_FireNowCompletesImmediately(t *testing.T) {
	rec := newTickRecorder()
	c := NewCountdown(rec.onTick, rec.onDone)

	c.Start(DefaultLogoutTicks, time.Hour)
	c.FireNow()
	rec.waitDone(t)

	if _, done := rec.snapshot(); done != 1 {
		t.Errorf("onDone fired %d times, want 1", done)
	}
	if c.Active() {
		t.Error("countdown still active after FireNow")
	}
}

func TestCountdown_FireNowIdleIsNoop(t *testing.T) {
	rec := newTickRecorder()
	c := NewCountdown(rec.onTick, rec.onDone)

	c.FireNow()

	if _, done := rec.snapshot(); done != 0 {
		t.Errorf("onDone fired %d times on idle countdown", done)
	}
}

func TestCountdown_CloseDoesNotFireDone(t *testing.T) {
	rec := newTickRecorder()
	c := NewCountdown(rec.onTick, rec.onDone)

	c.Start(DefaultLogoutTicks, time.Millisecond)
	c.Close()
	time.Sleep(20 * time.Millisecond)

	if _, done := rec.snapshot(); done != 0 {
		t.Errorf("onDone fired %d times after Close", done)
	}
	if c.Active() {
		t.Error("countdown still active after Close")
	}
	if c.Remaining() != 0 {
		t.Errorf("remaining = %d after Close", c.Remaining())
	}
}

func TestCountdown_NilCallbacks(t *testing.T) {
	c := NewCountdown(nil, nil)

	c.Start(2, time.Millisecond)
	time.Sleep(50 * time.Millisecond)

	if c.Active() {
		t.Error("countdown still active")
	}
}
