package question

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/archetype/internal/catalog"
	"github.com/abhisek/archetype/internal/quiz"
	"github.com/abhisek/archetype/internal/screen"
	"github.com/abhisek/archetype/internal/validate"
)

// snapshotStore serves one saved snapshot.
type snapshotStore struct {
	snap quiz.Snapshot
}

func (s *snapshotStore) Load(context.Context, string) (quiz.Snapshot, bool) { return s.snap, true }
func (s *snapshotStore) Save(_ context.Context, _ string, snap quiz.Snapshot) { s.snap = snap }
func (s *snapshotStore) Clear(context.Context, string)                        {}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func typeText(s *QuestionScreen, text string) {
	for _, r := range text {
		s.Update(keyPress(r))
	}
}

// fire delivers every pending transition.
func fire(s *QuestionScreen) {
	for id := range s.sched.timers {
		s.Update(timerFiredMsg{id: id})
	}
}

func newStarted(t *testing.T) (*QuestionScreen, *quiz.Machine) {
	t.Helper()
	sched := NewScheduler()
	m := quiz.New(catalog.Default(), quiz.Options{Scheduler: sched, Delay: time.Millisecond})
	if out := m.Start(); out != quiz.Moving {
		t.Fatalf("Start() = %v", out)
	}
	return New(m, sched), m
}

// atStatement restores a machine on the questioning phase at index.
func atStatement(t *testing.T, index int, answers map[string]string) (*QuestionScreen, *quiz.Machine) {
	t.Helper()
	sched := NewScheduler()
	store := &snapshotStore{snap: quiz.Snapshot{CurrentIndex: index, Answers: answers}}
	m := quiz.New(catalog.Default(), quiz.Options{Store: store, Scheduler: sched, Delay: time.Millisecond})
	if !m.Restore(context.Background()) {
		t.Fatal("expected restore")
	}
	return New(m, sched), m
}

func TestTypingRecordsAnswer(t *testing.T) {
	s, m := newStarted(t)
	typeText(s, "Ana")

	if got := m.AnswerFor("nome"); got != "Ana" {
		t.Errorf("answer = %q, want %q", got, "Ana")
	}
	if s.Title() != "Dados Pessoais" {
		t.Errorf("title = %q", s.Title())
	}
	if s.Status() != "1/75" {
		t.Errorf("status = %q", s.Status())
	}
}

func TestEnterBlankShowsNotice(t *testing.T) {
	s, m := newStarted(t)
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd != nil {
		t.Error("blocked advance should not schedule anything")
	}
	if s.notice != msgBlank {
		t.Errorf("notice = %q", s.notice)
	}
	if m.Index() != 0 {
		t.Errorf("index = %d", m.Index())
	}
}

func TestEnterInvalidShowsFieldError(t *testing.T) {
	s, m := newStarted(t)
	typeText(s, "A")
	s.Update(specialKey(tea.KeyEnter))

	if s.input.Error != validate.MsgNameShort {
		t.Errorf("field error = %q", s.input.Error)
	}
	if !strings.Contains(s.View(100, 30), validate.MsgNameShort) {
		t.Error("view should show the field error")
	}

	// Typing clears the error.
	typeText(s, "n")
	if s.input.Error != "" || m.FieldError("nome") != "" {
		t.Error("typing should clear the field error")
	}
}

func TestEnterValidMovesAfterTimer(t *testing.T) {
	s, m := newStarted(t)
	typeText(s, "Ana Souza")

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a tick command")
	}
	if !m.Transitioning() || m.Index() != 0 {
		t.Fatal("index should only change when the timer fires")
	}
	if !strings.Contains(s.View(100, 30), "→") {
		t.Error("view should show the forward indicator")
	}

	fire(s)
	if m.Index() != 1 {
		t.Fatalf("index = %d, want 1", m.Index())
	}
	// The phone field starts with the seeded country code.
	if s.input.Value() != validate.DefaultPhonePrefix {
		t.Errorf("input = %q", s.input.Value())
	}
}

func TestShiftTabRetreats(t *testing.T) {
	s, m := atStatement(t, 1, map[string]string{"nome": "Ana Souza", "Whatsapp": "+55 "})
	s.Update(tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	fire(s)
	if m.Index() != 0 {
		t.Fatalf("index = %d, want 0", m.Index())
	}
	if s.input.Value() != "Ana Souza" {
		t.Errorf("input = %q", s.input.Value())
	}
}

func TestDigitSelectsAndAdvances(t *testing.T) {
	s, m := atStatement(t, 3, nil)
	if s.Title() != "Perguntas" {
		t.Errorf("title = %q", s.Title())
	}

	s.Update(keyPress('3'))
	if m.AnswerFor("q1") != "3" {
		t.Fatalf("q1 = %q", m.AnswerFor("q1"))
	}

	// A second selection during the transition changes nothing.
	s.Update(keyPress('5'))
	if m.AnswerFor("q1") != "3" {
		t.Errorf("q1 changed during transition: %q", m.AnswerFor("q1"))
	}

	fire(s)
	if m.Index() != 4 {
		t.Fatalf("index = %d, want 4", m.Index())
	}
}

func TestDigitOutsideScaleIgnored(t *testing.T) {
	s, m := atStatement(t, 3, nil)
	s.Update(keyPress('7'))
	if m.AnswerFor("q1") != "" || m.Transitioning() {
		t.Error("7 is not on the scale")
	}
}

func TestCursorAndEnter(t *testing.T) {
	s, m := atStatement(t, 3, nil)
	s.Update(specialKey(tea.KeyDown))
	s.Update(specialKey(tea.KeyDown))
	s.Update(specialKey(tea.KeyEnter))
	if m.AnswerFor("q1") != "3" {
		t.Errorf("q1 = %q, want 3", m.AnswerFor("q1"))
	}
	fire(s)
	if m.Index() != 4 {
		t.Errorf("index = %d, want 4", m.Index())
	}
}

func TestSpaceSelectsWithoutAdvancing(t *testing.T) {
	s, m := atStatement(t, 3, nil)
	s.Update(specialKey(tea.KeyDown))
	s.Update(tea.KeyPressMsg{Code: tea.KeySpace, Text: " "})
	if m.AnswerFor("q1") != "2" {
		t.Errorf("q1 = %q, want 2", m.AnswerFor("q1"))
	}
	if m.Transitioning() {
		t.Error("space should not advance")
	}
}

func TestBackspaceRetreatsOnStatements(t *testing.T) {
	s, m := atStatement(t, 4, map[string]string{"q1": "4"})
	s.Update(specialKey(tea.KeyBackspace))
	fire(s)
	if m.Index() != 3 {
		t.Fatalf("index = %d, want 3", m.Index())
	}
	if s.choice.Chosen != "4" {
		t.Errorf("chosen = %q, want restored answer 4", s.choice.Chosen)
	}
}

func TestRightArrowBlockedWithoutAnswer(t *testing.T) {
	s, m := atStatement(t, 3, nil)
	s.Update(specialKey(tea.KeyRight))
	if s.notice != msgBlank || m.Transitioning() {
		t.Error("advancing an unanswered statement should be blocked")
	}
}

func TestLastAnswerFinishes(t *testing.T) {
	last := catalog.Default().MaxIndex()
	s, m := atStatement(t, last, nil)

	_, cmd := s.Update(keyPress('5'))
	if cmd == nil {
		t.Fatal("expected a phase change command")
	}
	msg, ok := cmd().(screen.PhaseChangedMsg)
	if !ok {
		t.Fatalf("expected PhaseChangedMsg, got %T", cmd())
	}
	if !msg.Completed {
		t.Error("finishing should mark the phase change as completed")
	}
	if m.Phase() != quiz.PhaseResults {
		t.Errorf("phase = %v", m.Phase())
	}
}

func TestScheduler(t *testing.T) {
	s := NewScheduler()
	if s.Cmd() != nil {
		t.Error("no queued commands expected")
	}

	ran := 0
	t1 := s.Schedule(time.Millisecond, func() { ran++ })
	s.Schedule(time.Millisecond, func() { ran += 10 })
	if s.Pending() != 2 {
		t.Fatalf("pending = %d", s.Pending())
	}
	if s.Cmd() == nil {
		t.Fatal("expected queued commands")
	}
	if s.Cmd() != nil {
		t.Error("Cmd should drain the queue")
	}

	if !t1.Stop() {
		t.Error("first Stop should report true")
	}
	if t1.Stop() {
		t.Error("second Stop should report false")
	}
	if s.Fire(1) {
		t.Error("stopped timer must not fire")
	}
	if !s.Fire(2) || ran != 10 {
		t.Errorf("ran = %d, want 10", ran)
	}
	if s.Fire(2) {
		t.Error("timer fired twice")
	}
}
