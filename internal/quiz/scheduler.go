package quiz

import (
	"sort"
	"time"
)

// Timer is a scheduled callback that can be stopped before it fires.
type Timer interface {
	// Stop prevents the callback from running. It reports whether the call
	// stopped the timer; false means it already fired or was stopped.
	Stop() bool
}

// Scheduler runs a callback once after a delay. Callbacks must run on the
// same goroutine that drives the Machine.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) Timer
}

// ImmediateScheduler runs every callback synchronously inside Schedule.
// It suits non-interactive callers that have no transition to show.
type ImmediateScheduler struct{}

// Schedule runs fn right away.
func (ImmediateScheduler) Schedule(_ time.Duration, fn func()) Timer {
	fn()
	return firedTimer{}
}

type firedTimer struct{}

func (firedTimer) Stop() bool { return false }

// ManualScheduler is a fake clock. Callbacks fire only when Advance moves the
// clock past their deadline.
type ManualScheduler struct {
	now     time.Duration
	seq     int
	pending []*manualTimer
}

// NewManualScheduler creates a ManualScheduler at time zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

type manualTimer struct {
	s    *ManualScheduler
	due  time.Duration
	seq  int
	fn   func()
	done bool
}

func (t *manualTimer) Stop() bool {
	if t.done {
		return false
	}
	t.done = true
	t.s.remove(t)
	return true
}

// Schedule registers fn to run once the clock reaches now+d.
func (s *ManualScheduler) Schedule(d time.Duration, fn func()) Timer {
	s.seq++
	t := &manualTimer{s: s, due: s.now + d, seq: s.seq, fn: fn}
	s.pending = append(s.pending, t)
	sort.SliceStable(s.pending, func(i, j int) bool {
		return s.pending[i].due < s.pending[j].due
	})
	return t
}

// Advance moves the clock forward by d and fires every timer that came due,
// in deadline order. Timers scheduled by a firing callback run in the same
// call if they also fall due.
func (s *ManualScheduler) Advance(d time.Duration) {
	target := s.now + d
	for len(s.pending) > 0 && s.pending[0].due <= target {
		t := s.pending[0]
		s.pending = s.pending[1:]
		s.now = t.due
		t.done = true
		t.fn()
	}
	s.now = target
}

// Pending returns the number of timers that have not fired or been stopped.
func (s *ManualScheduler) Pending() int {
	return len(s.pending)
}

// Now returns the elapsed fake time.
func (s *ManualScheduler) Now() time.Duration {
	return s.now
}

func (s *ManualScheduler) remove(t *manualTimer) {
	for i, p := range s.pending {
		if p == t {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return
		}
	}
}
