package schedule

import (
	"sync"
	"sync/atomic"
	"time"
)

// Executor runs a fired callback, typically under the owner's lock.
type Executor func(fn func())

// Scope owns a set of scheduled tasks. Closing the scope cancels all of them
// and rejects new ones.
type Scope struct {
	clock Clock
	exec  Executor

	mu     sync.Mutex
	next   uint64
	tasks  map[uint64]*Task
	closed bool
}

// Task is one scheduled callback.
type Task struct {
	scope     *Scope
	id        uint64
	timer     Timer
	cancelled atomic.Bool
}

// NewScope creates a scope. A nil clock uses the wall clock and a nil
// executor runs callbacks directly on the timer goroutine.
func NewScope(clock Clock, exec Executor) *Scope {
	if clock == nil {
		clock = System()
	}
	if exec == nil {
		exec = func(fn func()) { fn() }
	}
	return &Scope{clock: clock, exec: exec, tasks: make(map[uint64]*Task)}
}

// Clock returns the scope's time source.
func (s *Scope) Clock() Clock { return s.clock }

// Now is shorthand for s.Clock().Now().
func (s *Scope) Now() time.Time { return s.clock.Now() }

// After schedules fn to run after d. On a closed scope the returned task is
// already cancelled and fn never runs.
func (s *Scope) After(d time.Duration, fn func()) *Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	t := &Task{scope: s, id: s.next}
	if s.closed {
		t.cancelled.Store(true)
		return t
	}
	s.tasks[t.id] = t
	t.timer = s.clock.AfterFunc(d, func() { s.fire(t, fn) })
	return t
}

func (s *Scope) fire(t *Task, fn func()) {
	s.mu.Lock()
	if _, ok := s.tasks[t.id]; !ok || s.closed {
		s.mu.Unlock()
		return
	}
	delete(s.tasks, t.id)
	s.mu.Unlock()

	s.exec(func() {
		// Cancel may have raced with the executor acquiring the owner's lock.
		if t.cancelled.Load() || s.Closed() {
			return
		}
		fn()
	})
}

// Cancel stops the task. It reports whether the task was still pending.
func (t *Task) Cancel() bool {
	if t == nil {
		return false
	}
	if t.cancelled.Swap(true) {
		return false
	}
	s := t.scope
	s.mu.Lock()
	_, pending := s.tasks[t.id]
	delete(s.tasks, t.id)
	s.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
	}
	return pending
}

// Pending returns the number of tasks that have neither fired nor been
// cancelled.
func (s *Scope) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Closed reports whether Close has been called.
func (s *Scope) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close cancels every pending task. It is safe to call more than once.
func (s *Scope) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	tasks := s.tasks
	s.tasks = make(map[uint64]*Task)
	s.mu.Unlock()

	for _, t := range tasks {
		t.cancelled.Store(true)
		if t.timer != nil {
			t.timer.Stop()
		}
	}
}
