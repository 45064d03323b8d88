package history

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/archetype/internal/quiz"
	"github.com/abhisek/archetype/internal/router"
	"github.com/abhisek/archetype/internal/store"
)

type fakeLister struct {
	records []store.ResultRecord
	err     error
	limit   int
}

func (f *fakeLister) List(_ context.Context, limit int) ([]store.ResultRecord, error) {
	f.limit = limit
	return f.records, f.err
}

func sampleRecords() []store.ResultRecord {
	return []store.ResultRecord{
		{
			ID:       "r1",
			Personal: quiz.PersonalData{Name: "Ana", Email: "ana@example.com", Phone: "+5511987654321"},
			Scores: []store.ScoreLine{
				{ArchetypeID: "sage", Name: "Sábio", Raw: 30, Max: 30, Percentage: 100},
				{ArchetypeID: "ruler", Name: "Governante", Raw: 12, Max: 30, Percentage: 40},
			},
			Sent:      true,
			CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:        "r2",
			Personal:  quiz.PersonalData{Name: "Bia"},
			CreatedAt: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
		},
	}
}

func loaded(t *testing.T, repo *fakeLister) *HistoryScreen {
	t.Helper()
	s := New(repo)
	s.Update(s.Init()())
	return s
}

func TestLoadsRecords(t *testing.T) {
	repo := &fakeLister{records: sampleRecords()}
	s := loaded(t, repo)

	if repo.limit != listLimit {
		t.Errorf("limit = %d, want %d", repo.limit, listLimit)
	}
	view := s.View(120, 40)
	for _, want := range []string{"Ana", "Sábio (100.0%)", "enviado", "Bia"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestEmptyHistory(t *testing.T) {
	s := loaded(t, &fakeLister{})
	if !strings.Contains(s.View(80, 20), "Nenhum resultado") {
		t.Error("expected empty message")
	}
}

func TestLoadError(t *testing.T) {
	s := loaded(t, &fakeLister{err: errors.New("db closed")})
	if !strings.Contains(s.View(80, 20), "db closed") {
		t.Error("expected error in view")
	}
}

func TestExpandShowsScores(t *testing.T) {
	s := loaded(t, &fakeLister{records: sampleRecords()})

	if strings.Contains(s.View(120, 40), "Governante") {
		t.Fatal("details should be collapsed")
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	view := s.View(120, 40)
	if !strings.Contains(view, "Governante") {
		t.Error("expanded record should list every archetype")
	}
	if !strings.Contains(view, "+55 (11) 98765-4321") {
		t.Error("expanded record should show the masked phone")
	}
}

func TestNavigationBounds(t *testing.T) {
	s := loaded(t, &fakeLister{records: sampleRecords()})

	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if s.selected != 0 {
		t.Errorf("selected = %d, want 0", s.selected)
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.selected != 1 {
		t.Errorf("selected = %d, want 1", s.selected)
	}
}

func TestEscPops(t *testing.T) {
	s := loaded(t, &fakeLister{})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Errorf("got %T, want PopScreenMsg", cmd())
	}
}
