package timer_test

import (
	"fmt"
	"time"

	"github.com/ghettovoice/timer"
	"github.com/ghettovoice/timer/log"
	"github.com/ghettovoice/timer/sched"
)

func Example() {
	clock := sched.NewManual(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	began := clock.Now()

	tmr, err := timer.New(time.Second, &timer.Options{
		Loop:      true,
		Scheduler: clock,
		Log:       log.Noop(),
	}, func(any) {
		fmt.Println("tick at", clock.Now().Sub(began))
	})
	if err != nil {
		panic(err)
	}

	clock.Advance(2400 * time.Millisecond)
	tmr.Stop()
	fmt.Println("paused, remaining", tmr.Remaining())

	clock.Advance(time.Minute)
	tmr.Start()
	clock.Advance(2 * time.Second)

	// Output:
	// tick at 1s
	// tick at 2s
	// paused, remaining 600ms
	// tick at 1m3s
	// tick at 1m4s
}

func ExampleTimer_SetDuration() {
	clock := sched.NewManual(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	began := clock.Now()

	tmr, err := timer.FromDuration(1, "second", &timer.Options{
		Loop:      true,
		Scheduler: clock,
		Log:       log.Noop(),
	}, func(any) {
		fmt.Println("tick at", clock.Now().Sub(began))
	})
	if err != nil {
		panic(err)
	}

	clock.Advance(300 * time.Millisecond)
	if err := tmr.SetDuration("PT2S", ""); err != nil {
		panic(err)
	}
	clock.Advance(5 * time.Second)

	// Output:
	// tick at 1s
	// tick at 3s
	// tick at 5s
}

func ExampleOptions_wait() {
	clock := sched.NewManual(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	began := clock.Now()

	_, err := timer.New(time.Second, &timer.Options{
		Args:             "ping",
		Wait:             500 * time.Millisecond,
		ExecuteAfterWait: true,
		Scheduler:        clock,
		Log:              log.Noop(),
	}, func(args any) {
		fmt.Println(args, "at", clock.Now().Sub(began))
	})
	if err != nil {
		panic(err)
	}

	clock.Advance(2 * time.Second)

	// Output:
	// ping at 500ms
	// ping at 1.5s
}
