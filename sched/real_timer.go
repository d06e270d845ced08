package sched

import (
	"sync"
	"time"
)

// RealTimerState represents the current state of a [RealTimer].
type RealTimerState string

const (
	// RealTimerRunning indicates the timer is waiting to expire.
	RealTimerRunning RealTimerState = "running"
	// RealTimerStopped indicates the timer was stopped before expiration.
	RealTimerStopped RealTimerState = "stopped"
	// RealTimerExpired indicates the timer has expired and its callback was called.
	RealTimerExpired RealTimerState = "expired"
)

// RealTimer is a one-shot wall clock timer created by [AfterFunc].
// The [Real] scheduler hands it out as its one-shot [Handle].
// Besides cancellation it tracks its start, duration and state.
//
// Unlike [time.Timer], a Stop that wins the race with an expiry whose callback
// has not started yet still cancels the callback.
type RealTimer struct {
	// startTime is the timestamp when the timer was started.
	startTime time.Time
	// duration is the total duration the timer should run.
	duration time.Duration

	// mu protects all fields below.
	mu sync.Mutex
	// state is the current state of the timer.
	state RealTimerState
	// stopTime is the timestamp when the timer was stopped or expired.
	stopTime time.Time
	// callback is released once the timer leaves the running state.
	callback func()
	// realTimer is the underlying timer that drives expiration.
	realTimer *time.Timer
}

// AfterFunc starts a wall clock timer that calls f in its own goroutine after d.
func AfterFunc(d time.Duration, f func()) *RealTimer {
	t := &RealTimer{
		startTime: time.Now(),
		duration:  d,
		state:     RealTimerRunning,
		callback:  f,
	}

	t.mu.Lock()
	t.realTimer = time.AfterFunc(d, t.expire)
	t.mu.Unlock()
	return t
}

func (t *RealTimer) expire() {
	t.mu.Lock()
	if t.state != RealTimerRunning {
		t.mu.Unlock()
		return
	}
	t.state = RealTimerExpired
	t.stopTime = time.Now()
	f := t.callback
	t.callback = nil
	t.mu.Unlock()

	f()
}

// Stop cancels the timer.
// It returns false if the timer has already expired or been stopped.
func (t *RealTimer) Stop() bool {
	if t == nil {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != RealTimerRunning {
		return false
	}

	t.state = RealTimerStopped
	t.stopTime = time.Now()
	t.callback = nil
	t.realTimer.Stop()
	return true
}

// State returns the current timer state.
func (t *RealTimer) State() RealTimerState {
	if t == nil {
		return ""
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Elapsed returns the time elapsed since the timer started,
// up to the moment it was stopped or expired.
func (t *RealTimer) Elapsed() time.Duration {
	if t == nil {
		return 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.elapsedUnsafe()
}

func (t *RealTimer) elapsedUnsafe() time.Duration {
	if t.state == RealTimerRunning {
		return time.Since(t.startTime)
	}
	return t.stopTime.Sub(t.startTime)
}

// Left returns the time remaining until the timer expires.
// Returns 0 if the timer is expired or stopped.
func (t *RealTimer) Left() time.Duration {
	if t == nil {
		return 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != RealTimerRunning {
		return 0
	}
	return max(t.duration-t.elapsedUnsafe(), 0)
}
