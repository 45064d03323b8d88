package quiz

import (
	"context"
	"maps"
)

// DefaultStorageKey versions persisted snapshots. Changing it orphans every
// snapshot written under the previous key.
const DefaultStorageKey = "archetype_test_v2"

// Phase is the screen the session is on.
type Phase int

const (
	PhaseInstructions Phase = iota
	PhaseQuestioning
	PhaseResults
)

func (p Phase) String() string {
	switch p {
	case PhaseInstructions:
		return "instructions"
	case PhaseQuestioning:
		return "questioning"
	case PhaseResults:
		return "results"
	}
	return "unknown"
}

// State is a copy of the machine's session state.
type State struct {
	Phase       Phase
	Index       int
	Answers     map[string]string
	FieldErrors map[string]string
	ResultsSent bool
}

func defaultState() State {
	return State{
		Phase:       PhaseInstructions,
		Answers:     map[string]string{},
		FieldErrors: map[string]string{},
	}
}

func (s State) clone() State {
	s.Answers = maps.Clone(s.Answers)
	s.FieldErrors = maps.Clone(s.FieldErrors)
	return s
}

// Snapshot is the persisted form of State. Field errors are never persisted.
type Snapshot struct {
	CurrentIndex     int               `json:"currentIndex"`
	ShowInstructions bool              `json:"showInstructions"`
	ShowResults      bool              `json:"showResults"`
	ResultsSent      bool              `json:"resultsSent"`
	Answers          map[string]string `json:"answers"`
}

// SnapshotOf converts a state into its persisted form.
func SnapshotOf(s State) Snapshot {
	answers := maps.Clone(s.Answers)
	if answers == nil {
		answers = map[string]string{}
	}
	return Snapshot{
		CurrentIndex:     s.Index,
		ShowInstructions: s.Phase == PhaseInstructions,
		ShowResults:      s.Phase == PhaseResults,
		ResultsSent:      s.ResultsSent,
		Answers:          answers,
	}
}

// Phase derives the phase encoded by the snapshot flags. Results win over
// instructions when both are set.
func (s Snapshot) Phase() Phase {
	switch {
	case s.ShowResults:
		return PhaseResults
	case s.ShowInstructions:
		return PhaseInstructions
	}
	return PhaseQuestioning
}

// Store persists snapshots under a key. Implementations are best-effort:
// Load reports absence for missing or malformed data, and Save and Clear
// swallow their failures.
type Store interface {
	Load(ctx context.Context, key string) (Snapshot, bool)
	Save(ctx context.Context, key string, snap Snapshot)
	Clear(ctx context.Context, key string)
}

type nopStore struct{}

func (nopStore) Load(context.Context, string) (Snapshot, bool) { return Snapshot{}, false }
func (nopStore) Save(context.Context, string, Snapshot)        {}
func (nopStore) Clear(context.Context, string)                 {}

// PersonalData is the participant block of the answer map.
type PersonalData struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}
