package core

import "time"

// TaskID identifies a scheduled task.
type TaskID uint64

type task struct {
	id  TaskID
	due time.Duration
	fn  func()
}

// Scheduler is a single-threaded cooperative timer queue with an explicit
// clock. Nothing runs until Advance is called, so deferred engine work is
// testable without wall-clock delay. It is not safe for concurrent use.
type Scheduler struct {
	now    time.Duration
	nextID TaskID
	tasks  []task
}

// NewScheduler creates a scheduler with its clock at zero.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Now returns the scheduler clock.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Schedule queues fn to run once the clock reaches now+delay.
func (s *Scheduler) Schedule(delay time.Duration, fn func()) TaskID {
	if delay < 0 {
		delay = 0
	}
	s.nextID++
	s.tasks = append(s.tasks, task{id: s.nextID, due: s.now + delay, fn: fn})
	return s.nextID
}

// Cancel removes a pending task. Returns false if it already ran or never existed.
func (s *Scheduler) Cancel(id TaskID) bool {
	for i, t := range s.tasks {
		if t.id == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return true
		}
	}
	return false
}

// CancelAll drops every pending task.
func (s *Scheduler) CancelAll() {
	s.tasks = nil
}

// Pending returns the number of queued tasks.
func (s *Scheduler) Pending() int {
	return len(s.tasks)
}

// Advance moves the clock forward by d and runs every task that falls due,
// earliest first; ties run in scheduling order. Tasks scheduled by a running
// task are eligible in the same call. Returns the number of tasks run.
func (s *Scheduler) Advance(d time.Duration) int {
	if d < 0 {
		d = 0
	}
	target := s.now + d
	ran := 0
	for {
		idx := s.nextDue(target)
		if idx < 0 {
			break
		}
		t := s.tasks[idx]
		s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
		s.now = t.due
		t.fn()
		ran++
	}
	s.now = target
	return ran
}

// Drain runs every pending task regardless of its due time.
func (s *Scheduler) Drain() int {
	ran := 0
	for len(s.tasks) > 0 {
		latest := s.now
		for _, t := range s.tasks {
			if t.due > latest {
				latest = t.due
			}
		}
		ran += s.Advance(latest - s.now)
	}
	return ran
}

// nextDue returns the index of the earliest task due at or before target, or -1.
func (s *Scheduler) nextDue(target time.Duration) int {
	best := -1
	for i, t := range s.tasks {
		if t.due > target {
			continue
		}
		if best < 0 || t.due < s.tasks[best].due || (t.due == s.tasks[best].due && t.id < s.tasks[best].id) {
			best = i
		}
	}
	return best
}
