package app

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/archetype/internal/catalog"
	"github.com/abhisek/archetype/internal/quiz"
	"github.com/abhisek/archetype/internal/screen"
	"github.com/abhisek/archetype/internal/screens/instructions"
	"github.com/abhisek/archetype/internal/screens/question"
	"github.com/abhisek/archetype/internal/screens/results"
	"github.com/abhisek/archetype/internal/screens/welcome"
)

type snapshotStore struct {
	snap quiz.Snapshot
	ok   bool
}

func (s *snapshotStore) Load(context.Context, string) (quiz.Snapshot, bool) { return s.snap, s.ok }
func (s *snapshotStore) Save(_ context.Context, _ string, snap quiz.Snapshot) {
	s.snap, s.ok = snap, true
}
func (s *snapshotStore) Clear(context.Context, string) { s.ok = false }

func newOptions(t *testing.T, snap *quiz.Snapshot) Options {
	t.Helper()
	sched := question.NewScheduler()
	st := &snapshotStore{}
	if snap != nil {
		st.snap, st.ok = *snap, true
	}
	m := quiz.New(catalog.Default(), quiz.Options{Store: st, Scheduler: sched})
	m.Restore(context.Background())
	return Options{Machine: m, Scheduler: sched}
}

func TestInitialScreenFollowsPhase(t *testing.T) {
	tests := []struct {
		name  string
		snap  *quiz.Snapshot
		check func(screen.Screen) bool
	}{
		{"fresh", nil, func(s screen.Screen) bool { _, ok := s.(*instructions.InstructionsScreen); return ok }},
		{"questioning", &quiz.Snapshot{CurrentIndex: 5, Answers: map[string]string{}},
			func(s screen.Screen) bool { _, ok := s.(*question.QuestionScreen); return ok }},
		{"results", &quiz.Snapshot{ShowResults: true, Answers: map[string]string{}},
			func(s screen.Screen) bool { _, ok := s.(*results.ResultsScreen); return ok }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newAppModel(newOptions(t, tt.snap))
			if !tt.check(m.router.Active()) {
				t.Errorf("active screen = %T", m.router.Active())
			}
		})
	}
}

func TestSplashOnlyOnInstructions(t *testing.T) {
	opts := newOptions(t, nil)
	opts.Splash = true
	m := newAppModel(opts)
	if _, ok := m.router.Active().(*welcome.WelcomeScreen); !ok {
		t.Errorf("active screen = %T, want welcome", m.router.Active())
	}

	opts = newOptions(t, &quiz.Snapshot{CurrentIndex: 3, Answers: map[string]string{}})
	opts.Splash = true
	m = newAppModel(opts)
	if _, ok := m.router.Active().(*question.QuestionScreen); !ok {
		t.Errorf("active screen = %T, want question", m.router.Active())
	}
}

func TestPhaseChangeReplacesScreen(t *testing.T) {
	opts := newOptions(t, nil)
	m := newAppModel(opts)

	if out := opts.Machine.Start(); out != quiz.Moving {
		t.Fatalf("Start() = %v", out)
	}
	model, _ := m.Update(screen.PhaseChangedMsg{})
	m = model.(AppModel)

	if _, ok := m.router.Active().(*question.QuestionScreen); !ok {
		t.Errorf("active screen = %T, want question", m.router.Active())
	}
	if m.router.Depth() != 1 {
		t.Errorf("depth = %d, want 1", m.router.Depth())
	}
}

func TestCtrlCQuits(t *testing.T) {
	m := newAppModel(newOptions(t, nil))
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("got %T, want QuitMsg", cmd())
	}
}

func TestViewRendersFrame(t *testing.T) {
	m := newAppModel(newOptions(t, nil))
	model, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	v := model.(AppModel).View()
	if !v.AltScreen {
		t.Error("expected alt screen")
	}
}

func TestRunRequiresMachine(t *testing.T) {
	if err := Run(Options{}); err == nil {
		t.Error("expected error without machine")
	}
}
