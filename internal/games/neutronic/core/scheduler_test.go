package core_test

import (
	"testing"
	"time"

	"github.com/vovakirdan/neutronic/internal/games/neutronic/core"
)

func TestSchedulerRunsInDueOrder(t *testing.T) {
	s := core.NewScheduler()
	var order []string

	s.Schedule(300*time.Millisecond, func() { order = append(order, "c") })
	s.Schedule(100*time.Millisecond, func() { order = append(order, "a") })
	s.Schedule(100*time.Millisecond, func() { order = append(order, "b") })

	if ran := s.Advance(50 * time.Millisecond); ran != 0 {
		t.Errorf("ran %d tasks before due", ran)
	}
	if ran := s.Advance(time.Second); ran != 3 {
		t.Errorf("ran %d tasks, want 3", ran)
	}

	want := []string{"a", "b", "c"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order = %v, want %v", order, want)
			break
		}
	}
	if s.Now() != 1050*time.Millisecond {
		t.Errorf("clock = %v, want 1.05s", s.Now())
	}
}

func TestSchedulerChainedTasks(t *testing.T) {
	s := core.NewScheduler()
	var at []time.Duration

	s.Schedule(100*time.Millisecond, func() {
		at = append(at, s.Now())
		s.Schedule(100*time.Millisecond, func() {
			at = append(at, s.Now())
		})
	})

	s.Advance(250 * time.Millisecond)
	if len(at) != 2 {
		t.Fatalf("expected chained task to run, got %v", at)
	}
	if at[0] != 100*time.Millisecond || at[1] != 200*time.Millisecond {
		t.Errorf("tasks ran at %v, want [100ms 200ms]", at)
	}
}

func TestSchedulerCancel(t *testing.T) {
	s := core.NewScheduler()
	ran := false
	id := s.Schedule(10*time.Millisecond, func() { ran = true })

	if !s.Cancel(id) {
		t.Error("cancel of pending task should succeed")
	}
	if s.Cancel(id) {
		t.Error("second cancel should fail")
	}
	s.Advance(time.Second)
	if ran {
		t.Error("cancelled task ran")
	}
}

func TestSchedulerDrain(t *testing.T) {
	s := core.NewScheduler()
	count := 0
	s.Schedule(time.Hour, func() { count++ })
	s.Schedule(time.Minute, func() {
		count++
		s.Schedule(time.Hour, func() { count++ })
	})

	if ran := s.Drain(); ran != 3 {
		t.Errorf("drained %d tasks, want 3", ran)
	}
	if count != 3 || s.Pending() != 0 {
		t.Errorf("count=%d pending=%d", count, s.Pending())
	}
}
