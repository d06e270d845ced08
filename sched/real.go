package sched

import (
	"sync"
	"time"
)

type realScheduler struct{}

var defReal Scheduler = realScheduler{}

// Real returns the wall clock scheduler.
func Real() Scheduler { return defReal }

func (realScheduler) Now() time.Time { return time.Now() }

func (realScheduler) AfterFunc(d time.Duration, f func()) Handle {
	return AfterFunc(d, f)
}

func (realScheduler) EveryFunc(d time.Duration, f func()) Handle {
	if d <= 0 {
		panic("sched: non-positive interval for EveryFunc")
	}

	tk := &ticker{
		t:    time.NewTicker(d),
		done: make(chan struct{}),
	}
	go tk.run(f)
	return tk
}

// ticker drives f from a time.Ticker on a dedicated goroutine
// that exits once the ticker is stopped.
type ticker struct {
	t    *time.Ticker
	done chan struct{}
	once sync.Once
}

func (tk *ticker) run(f func()) {
	for {
		select {
		case <-tk.done:
			return
		case <-tk.t.C:
			select {
			case <-tk.done:
				return
			default:
			}
			f()
		}
	}
}

func (tk *ticker) Stop() bool {
	var stopped bool
	tk.once.Do(func() {
		tk.t.Stop()
		close(tk.done)
		stopped = true
	})
	return stopped
}
