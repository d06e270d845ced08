package timer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"braces.dev/errtrace"
	"github.com/google/uuid"
	"github.com/qmuntal/stateless"

	"github.com/ghettovoice/timer/internal/errorutil"
	"github.com/ghettovoice/timer/log"
	"github.com/ghettovoice/timer/sched"
	"github.com/ghettovoice/timer/units"
)

// Timer invokes a callback once or repeatedly after a duration.
// It can be paused and resumed keeping the remainder of the current window,
// and its duration can be changed while it runs.
//
// Use [New] or [FromDuration] to create a timer.
type Timer struct {
	id     uuid.UUID
	fn     Func
	args   any
	loop   bool
	sched  sched.Scheduler
	parser units.Parser
	log    *slog.Logger

	// mu protects all fields below.
	mu  sync.Mutex
	fsm *stateless.StateMachine
	// state is the current state, read and written by fsm.
	state TimerState
	// duration is the nominal period between fires.
	duration time.Duration
	// period is the period of the installed repeating schedule,
	// it lags behind duration until the next fire after a duration change.
	period        time.Duration
	wait          time.Duration
	execAfterWait bool
	// start and end bound the current or last frozen window.
	start, end time.Time
	hasWindow  bool
	// handle is the single outstanding scheduled callback, if any.
	handle sched.Handle
	// gen identifies the live handle, fires carrying an older generation are dropped.
	gen uint64
}

// New creates a new timer that invokes fn after d, or every d if [Options.Loop] is set.
// Unless [Options.NoStart] is set, the timer is started right away,
// after the [Options.Wait] phase if one is configured.
//
// It returns an error matching [ErrInvalidArgument] if fn is nil, d or the wait
// duration are negative, or d is zero for a looping timer.
func New(d time.Duration, opts *Options, fn Func) (*Timer, error) {
	errs := checkArgs(opts, fn)
	if d < 0 {
		errs = append(errs, errorutil.Errorf("negative duration %v", d))
	} else if d == 0 && opts.loop() {
		errs = append(errs, errorutil.Error("zero duration for looping timer"))
	}
	if err := errorutil.JoinPrefix("timer options", errs...); err != nil {
		return nil, errtrace.Wrap(NewInvalidArgumentError(err))
	}
	return newTimer(d, opts, fn), nil
}

// FromDuration is like [New] but takes the duration as a value expressed in unit,
// converted with [Options.Parser].
//
// If the value can not be converted, the returned error also lists
// the problems with opts and fn.
func FromDuration(value any, unit string, opts *Options, fn Func) (*Timer, error) {
	d, err := opts.parser().ParseDuration(value, unit)
	if err != nil {
		return nil, errtrace.Wrap(NewInvalidArgumentError(errorutil.Join(
			err,
			errorutil.JoinPrefix("timer options", checkArgs(opts, fn)...),
		)))
	}
	return errtrace.Wrap2(New(d, opts, fn))
}

// checkArgs validates everything but the duration.
func checkArgs(opts *Options, fn Func) []error {
	var errs []error
	if fn == nil {
		errs = append(errs, errorutil.Error("nil callback"))
	}
	if w := opts.wait(); w < 0 {
		errs = append(errs, errorutil.Errorf("negative wait duration %v", w))
	}
	return errs
}

func newTimer(d time.Duration, opts *Options, fn Func) *Timer {
	t := &Timer{
		id:            uuid.New(),
		fn:            fn,
		args:          opts.args(),
		loop:          opts.loop(),
		sched:         opts.scheduler(),
		parser:        opts.parser(),
		log:           opts.log(),
		state:         StateIdle,
		duration:      d,
		wait:          opts.wait(),
		execAfterWait: opts.executeAfterWait(),
	}
	t.initFSM()

	t.mu.Lock()
	defer t.mu.Unlock()

	t.log.LogAttrs(context.Background(), slog.LevelDebug, "timer created",
		t.attrUnsafe(),
		slog.Any("args", log.FmtValue(t.args, false)),
	)

	if !opts.autoStart() {
		return t
	}
	if t.wait > 0 {
		t.fireUnsafe(evtWait)
	} else {
		t.startUnsafe()
	}
	return t
}

// ID returns the unique timer ID used to correlate log records.
func (t *Timer) ID() uuid.UUID {
	if t == nil {
		return uuid.Nil
	}
	return t.id
}

// Args returns the value passed to every callback invocation.
func (t *Timer) Args() any {
	if t == nil {
		return nil
	}
	return t.args
}

// Loop reports whether the timer fires repeatedly.
func (t *Timer) Loop() bool {
	if t == nil {
		return false
	}
	return t.loop
}

// State returns the current timer state.
func (t *Timer) State() TimerState {
	if t == nil {
		return ""
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// IsStarted reports whether the main schedule of the timer is running.
func (t *Timer) IsStarted() bool { return t.State() == StateRunning }

// IsStopped reports whether the timer was paused by [Timer.Stop] and not started since.
func (t *Timer) IsStopped() bool { return t.State() == StatePaused }

// Start starts or resumes the timer.
//
// A paused timer fires once when the remainder of its interrupted window
// elapses and then starts a full fresh cycle. Any other timer that is not
// running installs its main schedule right away; a pending wait phase or
// resume is canceled.
//
// Start returns false if the timer is already running or nil.
func (t *Timer) Start() bool {
	if t == nil {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.startUnsafe()
}

func (t *Timer) startUnsafe() bool {
	if t.state == StateRunning {
		return false
	}
	return t.fireUnsafe(evtStart)
}

// Stop pauses a running timer, keeping the remainder of the current window
// for the next [Timer.Start]. No callback of the running schedule fires after Stop returns.
//
// Stop returns false if the timer is not running or nil.
func (t *Timer) Stop() bool {
	if t == nil {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateRunning {
		return false
	}
	return t.fireUnsafe(evtStop)
}

// Clear cancels everything the timer has scheduled, including a pending wait
// phase or resume, forgets the remainder and returns the timer to the idle state.
//
// Clear returns false if the timer is nil or was already idle with no window to forget.
func (t *Timer) Clear() bool {
	if t == nil {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == StateIdle {
		if !t.hasWindow {
			return false
		}
		t.resetWindowUnsafe()
		return true
	}
	return t.fireUnsafe(evtClear)
}

// Execute invokes the callback immediately, regardless of the timer state.
// It does not affect the schedule and does nothing on a nil timer.
func (t *Timer) Execute() {
	if t == nil {
		return
	}
	t.fn(t.args)
}

// Duration returns the nominal period between fires.
func (t *Timer) Duration() time.Duration {
	if t == nil {
		return 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.duration
}

// SetDuration sets the timer duration to value expressed in unit,
// converted with [Options.Parser]. See [Timer.SetDurationValue].
func (t *Timer) SetDuration(value any, unit string) error {
	if t == nil {
		return errtrace.Wrap(NewInvalidArgumentError("nil timer"))
	}

	d, err := t.parser.ParseDuration(value, unit)
	if err != nil {
		return errtrace.Wrap(NewInvalidArgumentError(err))
	}
	return errtrace.Wrap(t.SetDurationValue(d))
}

// SetDurationValue sets the timer duration.
//
// A running looping timer keeps its current window and switches to the new
// period at the next fire. A running one-shot timer keeps its deadline.
// Otherwise the new duration applies at the next start.
//
// It returns an error matching [ErrInvalidArgument] if d is negative,
// zero for a looping timer, or the timer is nil.
func (t *Timer) SetDurationValue(d time.Duration) error {
	if t == nil {
		return errtrace.Wrap(NewInvalidArgumentError("nil timer"))
	}
	if d < 0 {
		return errtrace.Wrap(NewInvalidArgumentError("negative duration %v", d))
	}
	if d == 0 && t.loop {
		return errtrace.Wrap(NewInvalidArgumentError("zero duration for looping timer"))
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	prev := t.duration
	t.duration = d

	t.log.LogAttrs(context.Background(), slog.LevelDebug, "timer duration changed",
		t.attrUnsafe(),
		slog.Duration("previous", prev),
		slog.Bool("deferred", t.state == StateRunning),
	)
	return nil
}

// Remaining returns the time left in the current window.
//
// It returns zero if no window has been established yet.
// For a paused timer it returns the remainder frozen by [Timer.Stop].
// For a running timer it may turn slightly negative between a deadline and the fire that follows it.
func (t *Timer) Remaining() time.Duration {
	if t == nil {
		return 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remainingUnsafe()
}

func (t *Timer) remainingUnsafe() time.Duration {
	if !t.hasWindow {
		return 0
	}

	switch t.state {
	case StatePaused:
		return t.end.Sub(t.start)
	case StateIdle:
		return max(t.end.Sub(t.sched.Now()), 0)
	default:
		return t.end.Sub(t.sched.Now())
	}
}

// LogValue implements [slog.LogValuer].
func (t *Timer) LogValue() slog.Value {
	if t == nil {
		return slog.Value{}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.logValueUnsafe()
}

func (t *Timer) logValueUnsafe() slog.Value {
	return slog.GroupValue(
		slog.Any("id", t.id),
		slog.Any("state", t.state),
		slog.Duration("duration", t.duration),
		slog.Bool("loop", t.loop),
		slog.Duration("remaining", t.remainingUnsafe()),
	)
}

// attrUnsafe returns the timer log attribute without resolving [Timer.LogValue],
// which would deadlock while t.mu is held.
func (t *Timer) attrUnsafe() slog.Attr {
	return slog.Attr{Key: "timer", Value: t.logValueUnsafe()}
}

func (t *Timer) fireUnsafe(evt string) bool {
	ctx := context.Background()
	if err := t.fsm.FireCtx(ctx, evt); err != nil {
		t.log.LogAttrs(ctx, slog.LevelError, "failed to fire timer event",
			t.attrUnsafe(),
			slog.String("event", evt),
			slog.Any("error", err),
		)
		return false
	}
	return true
}

func (t *Timer) setWindowUnsafe(start time.Time, d time.Duration) {
	t.start = start
	t.end = start.Add(d)
	t.hasWindow = true
}

func (t *Timer) resetWindowUnsafe() {
	t.start, t.end = time.Time{}, time.Time{}
	t.hasWindow = false
}

// scheduleUnsafe replaces the outstanding handle with a new one that calls fn with its generation.
func (t *Timer) scheduleUnsafe(d time.Duration, every bool, fn func(gen uint64)) {
	t.cancelUnsafe()

	t.gen++
	gen := t.gen
	f := func() { fn(gen) }
	if every {
		t.handle = t.sched.EveryFunc(d, f)
		t.period = d
	} else {
		t.handle = t.sched.AfterFunc(d, f)
	}
}

func (t *Timer) cancelUnsafe() {
	if t.handle == nil {
		return
	}
	t.handle.Stop()
	t.handle = nil
	t.gen++
}

// consumeUnsafe reports whether gen identifies the live one-shot handle of a timer in state st,
// releasing the handle if so.
func (t *Timer) consumeUnsafe(gen uint64, st TimerState) bool {
	if gen != t.gen || t.state != st {
		return false
	}
	t.handle = nil
	return true
}

func (t *Timer) onWaitElapsed(gen uint64) {
	t.mu.Lock()
	if !t.consumeUnsafe(gen, StateWaiting) || !t.fireUnsafe(evtElapse) {
		t.mu.Unlock()
		return
	}
	exec := t.execAfterWait
	t.mu.Unlock()

	if exec {
		t.fn(t.args)
	}
	t.Start()
}

func (t *Timer) onResumeElapsed(gen uint64) {
	t.mu.Lock()
	if !t.consumeUnsafe(gen, StateResuming) || !t.fireUnsafe(evtElapse) {
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()

	t.fn(t.args)
	t.Start()
}

func (t *Timer) onExpire(gen uint64) {
	t.mu.Lock()
	if !t.consumeUnsafe(gen, StateRunning) || !t.fireUnsafe(evtElapse) {
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()

	t.fn(t.args)
}

func (t *Timer) onTick(gen uint64) {
	t.mu.Lock()
	if gen != t.gen || t.state != StateRunning || !t.fireUnsafe(evtTick) {
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()

	t.fn(t.args)
}

func (t *Timer) actIdle(context.Context, ...any) error {
	t.cancelUnsafe()
	return nil
}

func (t *Timer) actClear(ctx context.Context, _ ...any) error {
	t.resetWindowUnsafe()
	t.log.LogAttrs(ctx, slog.LevelDebug, "timer cleared", t.attrUnsafe())
	return nil
}

func (t *Timer) actWait(ctx context.Context, _ ...any) error {
	t.scheduleUnsafe(t.wait, false, t.onWaitElapsed)
	t.log.LogAttrs(ctx, slog.LevelDebug, "timer wait phase started",
		t.attrUnsafe(),
		slog.Duration("wait", t.wait),
		slog.Bool("execute_after_wait", t.execAfterWait),
	)
	return nil
}

func (t *Timer) actRun(ctx context.Context, _ ...any) error {
	if t.loop {
		t.scheduleUnsafe(t.duration, true, t.onTick)
	} else {
		t.scheduleUnsafe(t.duration, false, t.onExpire)
	}
	now := t.sched.Now()
	t.setWindowUnsafe(now, t.duration)

	t.log.LogAttrs(ctx, slog.LevelDebug, "timer started",
		t.attrUnsafe(),
		slog.Time("expires_at", t.end),
	)
	return nil
}

func (t *Timer) actTick(ctx context.Context, _ ...any) error {
	if t.period != t.duration {
		t.scheduleUnsafe(t.duration, true, t.onTick)
		t.log.LogAttrs(ctx, slog.LevelDebug, "timer period changed", t.attrUnsafe())
	}
	t.setWindowUnsafe(t.sched.Now(), t.duration)
	return nil
}

func (t *Timer) actPause(ctx context.Context, _ ...any) error {
	t.cancelUnsafe()
	now := t.sched.Now()
	t.setWindowUnsafe(now, max(t.end.Sub(now), 0))

	t.log.LogAttrs(ctx, slog.LevelDebug, "timer paused", t.attrUnsafe())
	return nil
}

func (t *Timer) actResume(ctx context.Context, _ ...any) error {
	rem := t.end.Sub(t.start)
	t.scheduleUnsafe(rem, false, t.onResumeElapsed)
	t.setWindowUnsafe(t.sched.Now(), rem)

	t.log.LogAttrs(ctx, slog.LevelDebug, "timer resuming",
		t.attrUnsafe(),
		slog.Time("expires_at", t.end),
	)
	return nil
}
