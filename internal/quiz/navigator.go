package quiz

import "time"

// Direction is the direction of a step transition.
type Direction int

const (
	DirectionNone Direction = iota
	DirectionNext
	DirectionPrev
)

func (d Direction) String() string {
	switch d {
	case DirectionNext:
		return "next"
	case DirectionPrev:
		return "prev"
	}
	return "none"
}

// Navigator holds at most one pending step transition. A request made while
// another is in flight is rejected, never queued.
type Navigator struct {
	sched Scheduler
	delay time.Duration

	transitioning bool
	direction     Direction
	pending       Timer
}

// NewNavigator creates a Navigator that commits steps after delay.
func NewNavigator(sched Scheduler, delay time.Duration) *Navigator {
	if sched == nil {
		sched = ImmediateScheduler{}
	}
	return &Navigator{sched: sched, delay: delay}
}

// Request schedules commit to run after the transition delay. It returns
// false without scheduling anything when a transition is already pending.
func (n *Navigator) Request(dir Direction, commit func()) bool {
	if n.transitioning {
		return false
	}
	n.transitioning = true
	n.direction = dir

	t := n.sched.Schedule(n.delay, func() {
		n.pending = nil
		commit()
		n.transitioning = false
	})
	if n.transitioning {
		n.pending = t
	}
	return true
}

// Cancel drops the pending transition, if any, without running its commit.
func (n *Navigator) Cancel() {
	if n.pending != nil {
		n.pending.Stop()
		n.pending = nil
	}
	n.transitioning = false
}

// Transitioning reports whether a step is pending.
func (n *Navigator) Transitioning() bool { return n.transitioning }

// Direction returns the direction of the last requested step.
func (n *Navigator) Direction() Direction { return n.direction }
