package timer

import (
	"log/slog"
	"time"

	"github.com/ghettovoice/timer/log"
	"github.com/ghettovoice/timer/sched"
	"github.com/ghettovoice/timer/units"
)

// Func is a timer callback. It receives [Options.Args] on every invocation.
type Func func(args any)

// Options are the timer options.
// Nil options are equivalent to a zero value: a one-shot timer that starts immediately.
type Options struct {
	// Args is passed to every callback invocation.
	Args any
	// Loop makes the timer fire repeatedly every duration instead of once.
	Loop bool
	// NoStart leaves the timer idle after creation, [Timer.Start] must be called explicitly.
	NoStart bool
	// Wait is the initial wait phase before the main timer starts.
	// It does not count towards the timer duration and applies only to auto-started timers.
	Wait time.Duration
	// ExecuteAfterWait makes the timer fire once at the end of the wait phase,
	// before the main timer starts.
	ExecuteAfterWait bool
	// Scheduler runs the timer callbacks.
	// If nil, the [sched.Real] is used.
	Scheduler sched.Scheduler
	// Parser converts (value, unit) pairs in [FromDuration] and [Timer.SetDuration].
	// If nil, the [units.Default] is used.
	Parser units.Parser
	// Log is the logger that will be used with the timer.
	// If nil, the [log.Default] is used.
	Log *slog.Logger
}

func (o *Options) args() any {
	if o == nil {
		return nil
	}
	return o.Args
}

func (o *Options) loop() bool {
	if o == nil {
		return false
	}
	return o.Loop
}

func (o *Options) autoStart() bool {
	return o == nil || !o.NoStart
}

func (o *Options) wait() time.Duration {
	if o == nil {
		return 0
	}
	return o.Wait
}

func (o *Options) executeAfterWait() bool {
	if o == nil {
		return false
	}
	return o.ExecuteAfterWait
}

func (o *Options) scheduler() sched.Scheduler {
	if o == nil || o.Scheduler == nil {
		return sched.Real()
	}
	return o.Scheduler
}

func (o *Options) parser() units.Parser {
	if o == nil || o.Parser == nil {
		return units.Default
	}
	return o.Parser
}

func (o *Options) log() *slog.Logger {
	if o == nil || o.Log == nil {
		return log.Default()
	}
	return o.Log
}
