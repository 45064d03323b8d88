package quiz

import (
	"context"
	"maps"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/archetype/internal/catalog"
	"github.com/abhisek/archetype/internal/validate"
)

// DefaultTransitionDelay is how long a step transition is held before the
// index changes.
const DefaultTransitionDelay = 180 * time.Millisecond

// Outcome describes what an operation did.
type Outcome int

const (
	// Ignored means the operation does not apply in the current state.
	Ignored Outcome = iota
	// Blocked means the current answer is blank.
	Blocked
	// Invalid means the current answer failed validation.
	Invalid
	// Busy means a transition is already in flight.
	Busy
	// Answered means the answer was recorded without navigating.
	Answered
	// Moving means a step transition was scheduled.
	Moving
	// Finished means the questionnaire moved to the results phase.
	Finished
)

func (o Outcome) String() string {
	switch o {
	case Ignored:
		return "ignored"
	case Blocked:
		return "blocked"
	case Invalid:
		return "invalid"
	case Busy:
		return "busy"
	case Answered:
		return "answered"
	case Moving:
		return "moving"
	case Finished:
		return "finished"
	}
	return "unknown"
}

// Options configures a Machine. Zero values select defaults.
type Options struct {
	Store     Store
	Key       string
	Scheduler Scheduler
	Delay     time.Duration
	Gate      *validate.Gate
	Logger    *zap.Logger
}

// Machine drives one questionnaire session. It is not safe for concurrent
// use; every call, including scheduler callbacks, must come from one
// goroutine.
type Machine struct {
	cat    *catalog.Catalog
	gate   *validate.Gate
	store  Store
	key    string
	nav    *Navigator
	logger *zap.Logger

	state State
}

// New creates a Machine in the default state. Call Restore to rehydrate a
// saved session.
func New(cat *catalog.Catalog, opts Options) *Machine {
	if opts.Store == nil {
		opts.Store = nopStore{}
	}
	if opts.Key == "" {
		opts.Key = DefaultStorageKey
	}
	if opts.Delay <= 0 {
		opts.Delay = DefaultTransitionDelay
	}
	if opts.Gate == nil {
		opts.Gate = validate.NewGate(cat)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Machine{
		cat:    cat,
		gate:   opts.Gate,
		store:  opts.Store,
		key:    opts.Key,
		nav:    NewNavigator(opts.Scheduler, opts.Delay),
		logger: opts.Logger,
		state:  defaultState(),
	}
}

// Restore loads the saved snapshot, if any. A saved index outside the
// catalog is clamped into range. It reports whether a snapshot was found.
func (m *Machine) Restore(ctx context.Context) bool {
	snap, ok := m.store.Load(ctx, m.key)
	if !ok {
		return false
	}

	st := defaultState()
	st.Phase = snap.Phase()
	st.Index = m.cat.Clamp(snap.CurrentIndex)
	st.ResultsSent = snap.ResultsSent
	for k, v := range snap.Answers {
		st.Answers[k] = v
	}
	m.state = st

	if st.Index != snap.CurrentIndex {
		m.logger.Info("restored index clamped",
			zap.Int("saved", snap.CurrentIndex),
			zap.Int("index", st.Index))
	}
	m.logger.Debug("session restored",
		zap.Stringer("phase", st.Phase),
		zap.Int("index", st.Index),
		zap.Int("answers", len(st.Answers)))
	return true
}

// Start leaves the instructions and seeds the phone answer with the default
// country prefix when it is blank.
func (m *Machine) Start() Outcome {
	if m.state.Phase != PhaseInstructions {
		return Ignored
	}
	m.state.Phase = PhaseQuestioning
	if id := m.cat.PersonalFieldID(catalog.KindTel); id != "" {
		if strings.TrimSpace(m.state.Answers[id]) == "" {
			m.state.Answers[id] = validate.DefaultPhonePrefix
		}
	}
	m.persist()
	return Moving
}

// Answer records value for the question and clears its field error. Unknown
// question IDs are ignored.
func (m *Machine) Answer(questionID, value string) Outcome {
	if _, ok := m.cat.ByID(questionID); !ok {
		return Ignored
	}
	m.state.Answers[questionID] = value
	delete(m.state.FieldErrors, questionID)
	m.persist()
	return Answered
}

// Advance moves forward from the current question. Blank answers block,
// personal data must pass the validation gate, and advancing from the last
// question finishes the questionnaire.
func (m *Machine) Advance() Outcome {
	if m.state.Phase != PhaseQuestioning {
		return Ignored
	}
	if m.nav.Transitioning() {
		return Busy
	}

	q := m.cat.Question(m.state.Index)
	value := m.state.Answers[q.ID]
	if strings.TrimSpace(value) == "" {
		return Blocked
	}

	if m.cat.IsPersonalData(m.state.Index) {
		if res := m.gate.ValidateField(q.ID, value); !res.Valid {
			m.state.FieldErrors[q.ID] = res.Message
			m.logger.Debug("advance rejected",
				zap.String("question", q.ID),
				zap.String("rule", res.Rule))
			return Invalid
		}
		delete(m.state.FieldErrors, q.ID)
	}

	if m.state.Index >= m.cat.MaxIndex() {
		m.state.Phase = PhaseResults
		m.persist()
		m.logger.Info("questionnaire finished", zap.Int("answers", len(m.state.Answers)))
		return Finished
	}

	m.nav.Request(DirectionNext, func() {
		m.state.Index = m.cat.Clamp(m.state.Index + 1)
		m.persist()
	})
	return Moving
}

// Retreat moves back one question without validating. It does nothing on
// the first question.
func (m *Machine) Retreat() Outcome {
	if m.state.Phase != PhaseQuestioning || m.state.Index == 0 {
		return Ignored
	}
	if m.nav.Transitioning() {
		return Busy
	}
	m.nav.Request(DirectionPrev, func() {
		m.state.Index = m.cat.Clamp(m.state.Index - 1)
		m.persist()
	})
	return Moving
}

// SelectAndAdvance records an answer and, when autoAdvance is set, advances
// right away. While a transition is in flight the call changes nothing.
func (m *Machine) SelectAndAdvance(questionID, value string, autoAdvance bool) Outcome {
	if m.nav.Transitioning() {
		return Busy
	}
	if out := m.Answer(questionID, value); out != Answered {
		return out
	}
	if !autoAdvance {
		return Answered
	}
	return m.Advance()
}

// Reset cancels any pending transition, clears the saved snapshot and
// returns to the default state.
func (m *Machine) Reset() {
	m.nav.Cancel()
	m.store.Clear(context.Background(), m.key)
	m.state = defaultState()
	m.logger.Info("session reset")
}

// MarkResultsSent records that the results were delivered.
func (m *Machine) MarkResultsSent() {
	if m.state.ResultsSent {
		return
	}
	m.state.ResultsSent = true
	m.persist()
}

func (m *Machine) persist() {
	m.store.Save(context.Background(), m.key, SnapshotOf(m.state))
}

// State returns a copy of the session state.
func (m *Machine) State() State { return m.state.clone() }

// Phase returns the current phase.
func (m *Machine) Phase() Phase { return m.state.Phase }

// Index returns the current step index.
func (m *Machine) Index() int { return m.state.Index }

// CurrentQuestion returns the question at the current index.
func (m *Machine) CurrentQuestion() catalog.Question {
	return m.cat.Question(m.state.Index)
}

// Catalog returns the questionnaire the machine runs.
func (m *Machine) Catalog() *catalog.Catalog { return m.cat }

// AnswerFor returns the stored answer for a question.
func (m *Machine) AnswerFor(questionID string) string {
	return m.state.Answers[questionID]
}

// Answers returns a copy of the answer map.
func (m *Machine) Answers() map[string]string {
	return maps.Clone(m.state.Answers)
}

// FieldError returns the pending validation message for a question.
func (m *Machine) FieldError(questionID string) string {
	return m.state.FieldErrors[questionID]
}

// Transitioning reports whether a step transition is in flight.
func (m *Machine) Transitioning() bool { return m.nav.Transitioning() }

// Direction returns the direction of the last transition.
func (m *Machine) Direction() Direction { return m.nav.Direction() }

// ResultsSent reports whether results were delivered in this session.
func (m *Machine) ResultsSent() bool { return m.state.ResultsSent }

// PersonalData extracts the participant's answers.
func (m *Machine) PersonalData() PersonalData {
	return PersonalData{
		Name:  strings.TrimSpace(m.state.Answers[m.cat.PersonalFieldID(catalog.KindText)]),
		Email: strings.TrimSpace(m.state.Answers[m.cat.PersonalFieldID(catalog.KindEmail)]),
		Phone: strings.TrimSpace(m.state.Answers[m.cat.PersonalFieldID(catalog.KindTel)]),
	}
}
