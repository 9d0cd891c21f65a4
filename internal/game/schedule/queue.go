// Package schedule implements the timer engine driving regeneration,
// combat rounds, and the day/night cycle: a min-heap of one-shot timers
// ordered by absolute expiry, drained by a single driver goroutine.
//
// There is no cancel primitive. A timer whose work is no longer wanted
// simply does not reschedule itself when it fires; callbacks must tolerate
// firing against deleted or offline entities.
package schedule

import (
	"container/heap"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Timer is a single pending callback. A fired Timer may be re-armed with
// Queue.Reschedule, preserving its original delay.
type Timer struct {
	when  time.Time
	delay time.Duration
	fn    func()
	index int // heap position, -1 when not queued
}

// NewTimer creates a timer that runs fn delay after it is added to a queue.
//
// Precondition: delay >= 0; fn must be non-nil.
func NewTimer(delay time.Duration, fn func()) *Timer {
	if fn == nil {
		panic("schedule: NewTimer called with nil callback")
	}
	return &Timer{delay: delay, fn: fn, index: -1}
}

type timerHeap []*Timer

func (h timerHeap) Len() int            { return len(h) }
func (h timerHeap) Less(i, j int) bool  { return h[i].when.Before(h[j].when) }
func (h timerHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *timerHeap) Push(x interface{}) { t := x.(*Timer); t.index = len(*h); *h = append(*h, t) }
func (h *timerHeap) Pop() interface{} {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}

// Queue owns the pending timers and the driver goroutine that fires them.
// Adding a timer that expires sooner than the one currently being waited
// on wakes the driver so the nearest deadline is always honored.
//
// Callbacks run synchronously on the driver goroutine, one at a time.
type Queue struct {
	mu     sync.Mutex
	timers timerHeap
	wake   chan struct{}
	done   chan struct{}
	logger *zap.Logger

	stopOnce sync.Once
}

// NewQueue creates a stopped Queue. Call Start (or Run) to begin firing.
//
// Precondition: logger must be non-nil.
func NewQueue(logger *zap.Logger) *Queue {
	return &Queue{
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Schedule creates a timer running fn after delay and adds it.
//
// Precondition: delay >= 0; fn must be non-nil.
// Postcondition: the returned Timer is queued and will fire exactly once
// unless the queue stops first.
func (q *Queue) Schedule(delay time.Duration, fn func()) *Timer {
	t := NewTimer(delay, fn)
	q.Reschedule(t)
	return t
}

// Reschedule re-arms t with its original delay measured from now and adds
// it to the queue. Safe to call from inside t's own callback, which is how
// self-perpetuating loops (regen, combat rounds, day/night) are built.
//
// Precondition: t must not currently be queued.
func (q *Queue) Reschedule(t *Timer) {
	q.mu.Lock()
	t.when = time.Now().Add(t.delay)
	heap.Push(&q.timers, t)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Len returns the number of pending timers.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.timers)
}

// Run drives the queue until Stop is called. It blocks the calling
// goroutine; all callbacks execute on it.
func (q *Queue) Run() {
	q.logger.Debug("timer queue active")
	idle := time.NewTimer(time.Hour)
	defer idle.Stop()

	for {
		q.mu.Lock()
		var wait time.Duration
		var next *Timer
		if len(q.timers) > 0 {
			next = q.timers[0]
			wait = time.Until(next.when)
		}
		if next != nil && wait <= 0 {
			heap.Pop(&q.timers)
			q.mu.Unlock()
			q.invoke(next)
			continue
		}
		q.mu.Unlock()

		if next == nil {
			select {
			case <-q.wake:
			case <-q.done:
				return
			}
			continue
		}

		if !idle.Stop() {
			select {
			case <-idle.C:
			default:
			}
		}
		idle.Reset(wait)
		select {
		case <-idle.C:
		case <-q.wake:
		case <-q.done:
			return
		}
	}
}

func (q *Queue) invoke(t *Timer) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error("timer callback panicked", zap.Any("panic", r))
		}
	}()
	t.fn()
}

// Start runs the queue, blocking until Stop. It exists to satisfy the
// server lifecycle Service contract.
func (q *Queue) Start() error {
	q.Run()
	return nil
}

// Stop terminates the driver goroutine. Pending timers never fire.
// Safe to call multiple times.
func (q *Queue) Stop() {
	q.stopOnce.Do(func() { close(q.done) })
}
