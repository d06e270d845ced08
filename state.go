package timer

import (
	"context"

	"github.com/qmuntal/stateless"
)

// TimerState represents the current state of a [Timer].
type TimerState string

const (
	// StateIdle indicates the timer has nothing scheduled.
	// New timers that are not auto-started, expired one-shot timers and cleared timers are idle.
	StateIdle TimerState = "idle"
	// StateWaiting indicates the timer is in its initial wait phase.
	StateWaiting TimerState = "waiting"
	// StateRunning indicates the main schedule is installed.
	StateRunning TimerState = "running"
	// StatePaused indicates the timer was stopped while running and keeps the remainder of its window.
	StatePaused TimerState = "paused"
	// StateResuming indicates a paused timer was started again and waits for the remainder to elapse.
	StateResuming TimerState = "resuming"
)

const (
	evtStart  = "start"
	evtStop   = "stop"
	evtWait   = "wait"
	evtTick   = "tick"
	evtElapse = "elapse"
	evtClear  = "clear"
)

// initFSM configures the timer state machine.
// The state itself lives in t.state, guarded by t.mu, so the machine must only be fired with t.mu held.
func (t *Timer) initFSM() {
	t.fsm = stateless.NewStateMachineWithExternalStorage(
		func(context.Context) (stateless.State, error) { return t.state, nil },
		func(_ context.Context, s stateless.State) error {
			t.state = s.(TimerState) //nolint:forcetypeassert
			return nil
		},
		stateless.FiringImmediate,
	)

	t.fsm.Configure(StateIdle).
		OnEntry(t.actIdle).
		OnEntryFrom(evtClear, t.actClear).
		Permit(evtStart, StateRunning).
		Permit(evtWait, StateWaiting)

	t.fsm.Configure(StateWaiting).
		OnEntry(t.actWait).
		Permit(evtStart, StateRunning).
		Permit(evtElapse, StateIdle).
		Permit(evtClear, StateIdle)

	t.fsm.Configure(StateRunning).
		OnEntry(t.actRun).
		InternalTransition(evtTick, t.actTick).
		Permit(evtStop, StatePaused).
		Permit(evtElapse, StateIdle).
		Permit(evtClear, StateIdle)

	t.fsm.Configure(StatePaused).
		OnEntry(t.actPause).
		Permit(evtStart, StateResuming).
		Permit(evtClear, StateIdle)

	t.fsm.Configure(StateResuming).
		OnEntry(t.actResume).
		Permit(evtStart, StateRunning).
		Permit(evtElapse, StateIdle).
		Permit(evtClear, StateIdle)
}
