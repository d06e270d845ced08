// Package timer provides a pausable, resumable, optionally repeating timer.
//
// A [Timer] invokes a callback once or repeatedly after a duration. It can be
// paused with [Timer.Stop] and resumed with [Timer.Start], keeping the exact
// remainder of the interrupted window, its duration can be changed while it
// runs, and it can be delayed by an initial wait phase.
//
// Resuming a paused timer fires the callback once when the remainder elapses
// and then starts a full fresh cycle. A paused looping timer with a 1s period
// stopped 400ms into its window therefore fires 600ms after resume and every
// second after that.
//
// Changing the duration of a running looping timer never truncates the window
// in flight: the new period takes effect at the next fire.
//
// Basic usage:
//
//	// Fire every 5 seconds, starting after a 1 second wait phase.
//	tmr, err := timer.New(5*time.Second, &timer.Options{
//	    Loop: true,
//	    Wait: time.Second,
//	}, func(any) {
//	    log.Println("tick")
//	})
//	if err != nil {
//	    return err
//	}
//	defer tmr.Clear()
//
//	// Or with human readable units.
//	tmr, err = timer.FromDuration(1.5, "minutes", nil, func(any) {
//	    log.Println("done")
//	})
//
// Callbacks run on scheduler goroutines with no timer lock held,
// so they may call any timer method. All timer methods are safe for concurrent use.
package timer

//go:generate go tool errtrace -w .
