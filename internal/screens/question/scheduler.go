package question

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/archetype/internal/quiz"
)

// timerFiredMsg is delivered when a scheduled transition is due.
type timerFiredMsg struct {
	id int
}

// Scheduler runs quiz transitions on the Bubble Tea event loop. Schedule
// queues a tick command; the callback runs later from Update via Fire, so
// quiz state is only touched on the program's goroutine.
type Scheduler struct {
	nextID int
	timers map[int]func()
	queued []tea.Cmd
}

var _ quiz.Scheduler = (*Scheduler)(nil)

// NewScheduler creates a Scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{timers: make(map[int]func())}
}

type teaTimer struct {
	s  *Scheduler
	id int
}

func (t teaTimer) Stop() bool {
	if _, ok := t.s.timers[t.id]; !ok {
		return false
	}
	delete(t.s.timers, t.id)
	return true
}

func (s *Scheduler) Schedule(d time.Duration, fn func()) quiz.Timer {
	s.nextID++
	id := s.nextID
	s.timers[id] = fn
	s.queued = append(s.queued, tea.Tick(d, func(time.Time) tea.Msg {
		return timerFiredMsg{id: id}
	}))
	return teaTimer{s: s, id: id}
}

// Cmd returns the tick commands queued since the last call.
func (s *Scheduler) Cmd() tea.Cmd {
	if len(s.queued) == 0 {
		return nil
	}
	cmds := s.queued
	s.queued = nil
	return tea.Batch(cmds...)
}

// Fire runs the callback for id. Stopped or already fired timers are
// ignored.
func (s *Scheduler) Fire(id int) bool {
	fn, ok := s.timers[id]
	if !ok {
		return false
	}
	delete(s.timers, id)
	fn()
	return true
}

// Pending returns the number of timers not yet fired or stopped.
func (s *Scheduler) Pending() int { return len(s.timers) }
