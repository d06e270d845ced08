// Package sched abstracts delayed and periodic callback scheduling.
//
// [Real] runs callbacks on the wall clock using the time package.
// [Manual] runs them on a virtual clock that only moves when
// [Manual.Advance] is called, which makes timer behaviour deterministic in tests.
package sched

//go:generate go tool mockgen -source=sched.go -destination=../internal/testutil/schedmock/sched.go -package=schedmock

import "time"

// Handle is a cancelable reference to a scheduled callback.
type Handle interface {
	// Stop cancels the callback.
	// It returns true if the call prevented a future invocation and false if
	// the handle was already stopped or, for one-shot callbacks, already fired.
	Stop() bool
}

// Scheduler schedules callbacks after a delay or repeatedly with a period.
// Callbacks may run on any goroutine.
type Scheduler interface {
	// Now returns the current time of the scheduler clock.
	Now() time.Time
	// AfterFunc calls f once after d elapses.
	// A non-positive d schedules f as soon as possible.
	AfterFunc(d time.Duration, f func()) Handle
	// EveryFunc calls f every d until the returned handle is stopped.
	// It panics if d is not positive.
	EveryFunc(d time.Duration, f func()) Handle
}
