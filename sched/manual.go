package sched

import (
	"container/heap"
	"sync"
	"time"
)

// Manual is a [Scheduler] driven by a virtual clock.
// Time only moves forward when [Manual.Advance] is called, and due callbacks
// run synchronously on the goroutine that advances the clock.
// It is safe for concurrent use.
type Manual struct {
	mu    sync.Mutex
	now   time.Time
	seq   uint64
	tasks taskQueue
}

// NewManual creates a new manual scheduler with its clock set to start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the current virtual time.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// AfterFunc schedules f to run once the clock reaches now+d.
func (m *Manual) AfterFunc(d time.Duration, f func()) Handle {
	return m.add(d, 0, f)
}

// EveryFunc schedules f to run each time the clock passes a multiple of d from now.
func (m *Manual) EveryFunc(d time.Duration, f func()) Handle {
	if d <= 0 {
		panic("sched: non-positive interval for EveryFunc")
	}
	return m.add(d, d, f)
}

func (m *Manual) add(d, period time.Duration, f func()) *manualTask {
	m.mu.Lock()
	defer m.mu.Unlock()

	if d < 0 {
		d = 0
	}
	m.seq++
	tsk := &manualTask{
		m:      m,
		at:     m.now.Add(d),
		period: period,
		seq:    m.seq,
		fn:     f,
	}
	heap.Push(&m.tasks, tsk)
	return tsk
}

// Advance moves the clock forward by d, running every callback that becomes due.
// Callbacks run in deadline order, with the clock set to their deadline.
// Callbacks scheduled by other callbacks run too if they fall due before the target time.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		if len(m.tasks) == 0 || m.tasks[0].at.After(target) {
			m.now = target
			m.mu.Unlock()
			return
		}

		tsk := m.tasks[0]
		m.now = tsk.at
		if tsk.period > 0 {
			m.seq++
			tsk.at = tsk.at.Add(tsk.period)
			tsk.seq = m.seq
			heap.Fix(&m.tasks, 0)
		} else {
			heap.Pop(&m.tasks)
		}
		fn := tsk.fn
		m.mu.Unlock()

		fn()
	}
}

// Pending returns the number of scheduled callbacks that were not stopped or fired yet.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

type manualTask struct {
	m      *Manual
	at     time.Time
	period time.Duration
	seq    uint64
	fn     func()
	idx    int
}

func (tsk *manualTask) Stop() bool {
	tsk.m.mu.Lock()
	defer tsk.m.mu.Unlock()

	if tsk.idx < 0 {
		return false
	}
	heap.Remove(&tsk.m.tasks, tsk.idx)
	return true
}

// taskQueue orders tasks by deadline, then by scheduling order.
type taskQueue []*manualTask

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].at.Equal(q[j].at) {
		return q[i].seq < q[j].seq
	}
	return q[i].at.Before(q[j].at)
}

func (q taskQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].idx = i
	q[j].idx = j
}

func (q *taskQueue) Push(x any) {
	tsk := x.(*manualTask) //nolint:forcetypeassert
	tsk.idx = len(*q)
	*q = append(*q, tsk)
}

func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	tsk := old[n-1]
	old[n-1] = nil
	tsk.idx = -1
	*q = old[:n-1]
	return tsk
}
