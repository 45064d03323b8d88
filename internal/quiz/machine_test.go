package quiz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/archetype/internal/catalog"
	"github.com/abhisek/archetype/internal/validate"
)

type memStore struct {
	snaps  map[string]Snapshot
	saves  int
	clears int
}

func newMemStore() *memStore {
	return &memStore{snaps: map[string]Snapshot{}}
}

func (s *memStore) Load(_ context.Context, key string) (Snapshot, bool) {
	snap, ok := s.snaps[key]
	return snap, ok
}

func (s *memStore) Save(_ context.Context, key string, snap Snapshot) {
	s.saves++
	s.snaps[key] = snap
}

func (s *memStore) Clear(_ context.Context, key string) {
	s.clears++
	delete(s.snaps, key)
}

const firstStatement = 3 // index of q1

func newTestMachine(t *testing.T) (*Machine, *ManualScheduler, *memStore) {
	t.Helper()
	sched := NewManualScheduler()
	st := newMemStore()
	m := New(catalog.Default(), Options{Store: st, Scheduler: sched})
	return m, sched, st
}

// atIndex returns a machine restored onto the given step index in the
// questioning phase with valid personal data.
func atIndex(t *testing.T, index int) (*Machine, *ManualScheduler, *memStore) {
	t.Helper()
	m, sched, st := newTestMachine(t)
	st.snaps[DefaultStorageKey] = Snapshot{
		CurrentIndex: index,
		Answers: map[string]string{
			"nome":     "Ana",
			"Whatsapp": "+5511987654321",
			"email":    "a@b.com",
		},
	}
	require.True(t, m.Restore(context.Background()))
	require.Equal(t, PhaseQuestioning, m.Phase())
	return m, sched, st
}

func TestNew_Defaults(t *testing.T) {
	m, _, _ := newTestMachine(t)

	s := m.State()
	assert.Equal(t, PhaseInstructions, s.Phase)
	assert.Equal(t, 0, s.Index)
	assert.Empty(t, s.Answers)
	assert.Empty(t, s.FieldErrors)
	assert.False(t, m.Transitioning())
}

func TestStart_SeedsPhonePrefix(t *testing.T) {
	m, _, st := newTestMachine(t)

	assert.Equal(t, Moving, m.Start())
	assert.Equal(t, PhaseQuestioning, m.Phase())
	assert.Equal(t, validate.DefaultPhonePrefix, m.AnswerFor("Whatsapp"))

	saved := st.snaps[DefaultStorageKey]
	assert.False(t, saved.ShowInstructions)
	assert.Equal(t, validate.DefaultPhonePrefix, saved.Answers["Whatsapp"])

	assert.Equal(t, Ignored, m.Start(), "start only applies from instructions")
}

func TestStart_KeepsExistingPhone(t *testing.T) {
	m, _, _ := newTestMachine(t)
	m.Answer("Whatsapp", "+14155552671")
	m.Start()
	assert.Equal(t, "+14155552671", m.AnswerFor("Whatsapp"))
}

func TestAnswer_UnknownQuestionIgnored(t *testing.T) {
	m, _, st := newTestMachine(t)
	assert.Equal(t, Ignored, m.Answer("nope", "x"))
	assert.Empty(t, m.Answers())
	assert.Zero(t, st.saves)
}

func TestAdvance_BlankAnswerBlocks(t *testing.T) {
	m, sched, _ := newTestMachine(t)
	m.Start()

	assert.Equal(t, Blocked, m.Advance())
	m.Answer("nome", "   ")
	assert.Equal(t, Blocked, m.Advance())

	sched.Advance(DefaultTransitionDelay)
	assert.Equal(t, 0, m.Index())
	assert.Empty(t, m.State().FieldErrors)
}

func TestAdvance_InvalidPersonalDataRecordsOneError(t *testing.T) {
	m, sched, _ := newTestMachine(t)
	m.Start()
	m.Answer("nome", "A")

	assert.Equal(t, Invalid, m.Advance())
	sched.Advance(DefaultTransitionDelay)

	assert.Equal(t, 0, m.Index())
	assert.Equal(t, map[string]string{"nome": validate.MsgNameShort}, m.State().FieldErrors)
	assert.False(t, m.Transitioning())

	m.Answer("nome", "Ana")
	assert.Empty(t, m.FieldError("nome"), "answering clears the field error")
}

func TestAdvance_WalksPersonalData(t *testing.T) {
	m, sched, st := newTestMachine(t)
	m.Start()

	m.Answer("nome", "Ana")
	require.Equal(t, Moving, m.Advance())
	assert.True(t, m.Transitioning())
	assert.Equal(t, DirectionNext, m.Direction())
	assert.Equal(t, 0, m.Index(), "index changes only after the delay")

	sched.Advance(DefaultTransitionDelay)
	assert.Equal(t, 1, m.Index())
	assert.False(t, m.Transitioning())
	assert.Equal(t, 1, st.snaps[DefaultStorageKey].CurrentIndex)

	// Seeded prefix alone is not a valid number.
	assert.Equal(t, Invalid, m.Advance())
	assert.Equal(t, validate.MsgPhoneBrazil, m.FieldError("Whatsapp"))

	m.Answer("Whatsapp", "+5511987654321")
	require.Equal(t, Moving, m.Advance())
	sched.Advance(DefaultTransitionDelay)
	assert.Equal(t, 2, m.Index())

	m.Answer("email", "not-an-email")
	assert.Equal(t, Invalid, m.Advance())
	assert.Equal(t, validate.MsgEmailInvalid, m.FieldError("email"))

	m.Answer("email", "a@b.com")
	require.Equal(t, Moving, m.Advance())
	sched.Advance(DefaultTransitionDelay)
	assert.Equal(t, firstStatement, m.Index())
	assert.True(t, m.CurrentQuestion().IsLikert())
}

func TestAdvance_DoubleRequestCommitsOnce(t *testing.T) {
	m, sched, _ := atIndex(t, firstStatement)
	m.Answer("q1", "3")

	assert.Equal(t, Moving, m.Advance())
	assert.Equal(t, Busy, m.Advance())
	assert.Equal(t, 1, sched.Pending())

	sched.Advance(DefaultTransitionDelay)
	assert.Equal(t, firstStatement+1, m.Index())

	sched.Advance(DefaultTransitionDelay)
	assert.Equal(t, firstStatement+1, m.Index())
}

func TestAdvance_LastQuestionFinishes(t *testing.T) {
	m, sched, st := atIndex(t, catalog.Default().MaxIndex())

	assert.Equal(t, Blocked, m.Advance())
	m.Answer("q72", "5")
	assert.Equal(t, Finished, m.Advance())
	assert.Equal(t, PhaseResults, m.Phase())
	assert.Zero(t, sched.Pending())

	saved := st.snaps[DefaultStorageKey]
	assert.True(t, saved.ShowResults)
	assert.Equal(t, catalog.Default().MaxIndex(), saved.CurrentIndex)

	assert.Equal(t, Ignored, m.Advance())
	assert.Equal(t, Ignored, m.Retreat())
}

func TestAdvance_NoValidationForStatements(t *testing.T) {
	m, sched, _ := atIndex(t, firstStatement)
	m.Answer("q1", "anything")
	assert.Equal(t, Moving, m.Advance())
	sched.Advance(DefaultTransitionDelay)
	assert.Equal(t, firstStatement+1, m.Index())
}

func TestRetreat(t *testing.T) {
	t.Run("no-op at first question", func(t *testing.T) {
		m, sched, _ := newTestMachine(t)
		m.Start()
		assert.Equal(t, Ignored, m.Retreat())
		sched.Advance(DefaultTransitionDelay)
		assert.Equal(t, 0, m.Index())
	})

	t.Run("skips validation", func(t *testing.T) {
		m, sched, _ := atIndex(t, 1)
		m.Answer("Whatsapp", "bad")

		assert.Equal(t, Moving, m.Retreat())
		assert.Equal(t, DirectionPrev, m.Direction())
		assert.Equal(t, Busy, m.Retreat())
		sched.Advance(DefaultTransitionDelay)

		assert.Equal(t, 0, m.Index())
		assert.Empty(t, m.State().FieldErrors)
	})

	t.Run("ignored before start", func(t *testing.T) {
		m, _, _ := newTestMachine(t)
		assert.Equal(t, Ignored, m.Retreat())
	})
}

func TestSelectAndAdvance(t *testing.T) {
	t.Run("answers and advances", func(t *testing.T) {
		m, sched, _ := atIndex(t, firstStatement)
		assert.Equal(t, Moving, m.SelectAndAdvance("q1", "4", true))
		sched.Advance(DefaultTransitionDelay)
		assert.Equal(t, firstStatement+1, m.Index())
		assert.Equal(t, "4", m.AnswerFor("q1"))
	})

	t.Run("rapid second select is dropped", func(t *testing.T) {
		m, sched, _ := atIndex(t, firstStatement)
		assert.Equal(t, Moving, m.SelectAndAdvance("q1", "4", true))
		assert.Equal(t, Busy, m.SelectAndAdvance("q1", "5", true))
		assert.Equal(t, "4", m.AnswerFor("q1"))

		sched.Advance(DefaultTransitionDelay)
		assert.Equal(t, firstStatement+1, m.Index())
	})

	t.Run("without auto advance", func(t *testing.T) {
		m, sched, _ := atIndex(t, firstStatement)
		assert.Equal(t, Answered, m.SelectAndAdvance("q1", "2", false))
		sched.Advance(DefaultTransitionDelay)
		assert.Equal(t, firstStatement, m.Index())
	})

	t.Run("last question finishes", func(t *testing.T) {
		m, _, _ := atIndex(t, catalog.Default().MaxIndex())
		assert.Equal(t, Finished, m.SelectAndAdvance("q72", "1", true))
		assert.Equal(t, PhaseResults, m.Phase())
	})
}

func TestReset(t *testing.T) {
	m, sched, st := atIndex(t, 10)
	m.Answer("q8", "5")
	require.Equal(t, Moving, m.Advance())
	m.MarkResultsSent()

	m.Reset()

	assert.False(t, m.Transitioning())
	assert.Zero(t, sched.Pending(), "pending transition is cancelled")
	s := m.State()
	assert.Equal(t, PhaseInstructions, s.Phase)
	assert.Equal(t, 0, s.Index)
	assert.Empty(t, s.Answers)
	assert.Empty(t, s.FieldErrors)
	assert.False(t, s.ResultsSent)

	_, saved := st.snaps[DefaultStorageKey]
	assert.False(t, saved)
	assert.Equal(t, 1, st.clears)

	sched.Advance(DefaultTransitionDelay)
	assert.Equal(t, 0, m.Index())
}

func TestReset_FromResults(t *testing.T) {
	m, _, _ := atIndex(t, catalog.Default().MaxIndex())
	m.Answer("q72", "3")
	require.Equal(t, Finished, m.Advance())

	m.Reset()
	assert.Equal(t, PhaseInstructions, m.Phase())
	assert.Equal(t, Moving, m.Start())
}

func TestRestore(t *testing.T) {
	t.Run("nothing saved", func(t *testing.T) {
		m, _, _ := newTestMachine(t)
		assert.False(t, m.Restore(context.Background()))
		assert.Equal(t, PhaseInstructions, m.Phase())
	})

	t.Run("index beyond catalog is clamped", func(t *testing.T) {
		m, _, st := newTestMachine(t)
		st.snaps[DefaultStorageKey] = Snapshot{CurrentIndex: 500, Answers: map[string]string{"q1": "2"}}

		require.True(t, m.Restore(context.Background()))
		assert.Equal(t, catalog.Default().MaxIndex(), m.Index())
		assert.Equal(t, PhaseQuestioning, m.Phase())
		assert.Equal(t, "2", m.AnswerFor("q1"))
	})

	t.Run("negative index is clamped", func(t *testing.T) {
		m, _, st := newTestMachine(t)
		st.snaps[DefaultStorageKey] = Snapshot{CurrentIndex: -4, ShowInstructions: true}
		require.True(t, m.Restore(context.Background()))
		assert.Equal(t, 0, m.Index())
		assert.Equal(t, PhaseInstructions, m.Phase())
	})

	t.Run("results and sent flag", func(t *testing.T) {
		m, _, st := newTestMachine(t)
		st.snaps[DefaultStorageKey] = Snapshot{CurrentIndex: 74, ShowResults: true, ResultsSent: true}
		require.True(t, m.Restore(context.Background()))
		assert.Equal(t, PhaseResults, m.Phase())
		assert.True(t, m.ResultsSent())
		assert.NotNil(t, m.State().Answers)
	})

	t.Run("other key is not visible", func(t *testing.T) {
		st := newMemStore()
		st.snaps["archetype_test_v1"] = Snapshot{CurrentIndex: 9}
		m := New(catalog.Default(), Options{Store: st, Scheduler: NewManualScheduler()})
		assert.False(t, m.Restore(context.Background()))
	})
}

func TestMarkResultsSent(t *testing.T) {
	m, _, st := newTestMachine(t)
	m.MarkResultsSent()
	assert.True(t, m.ResultsSent())
	assert.True(t, st.snaps[DefaultStorageKey].ResultsSent)

	saves := st.saves
	m.MarkResultsSent()
	assert.Equal(t, saves, st.saves)
}

func TestPersonalData(t *testing.T) {
	m, _, _ := newTestMachine(t)
	m.Answer("nome", "  Ana Souza ")
	m.Answer("email", "ana@example.com")
	m.Answer("Whatsapp", "+5511987654321")

	assert.Equal(t, PersonalData{
		Name:  "Ana Souza",
		Email: "ana@example.com",
		Phone: "+5511987654321",
	}, m.PersonalData())
}

func TestState_IsACopy(t *testing.T) {
	m, _, _ := newTestMachine(t)
	m.Answer("q1", "3")
	s := m.State()
	s.Answers["q1"] = "5"
	assert.Equal(t, "3", m.AnswerFor("q1"))
}

func TestImmediateScheduler(t *testing.T) {
	m := New(catalog.Default(), Options{Scheduler: ImmediateScheduler{}})
	m.Start()
	m.Answer("nome", "Ana")
	assert.Equal(t, Moving, m.Advance())
	assert.Equal(t, 1, m.Index())
	assert.False(t, m.Transitioning())
}
