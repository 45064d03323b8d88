package question

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/archetype/internal/catalog"
	"github.com/abhisek/archetype/internal/quiz"
	"github.com/abhisek/archetype/internal/screen"
	"github.com/abhisek/archetype/internal/ui/components"
	"github.com/abhisek/archetype/internal/ui/layout"
	"github.com/abhisek/archetype/internal/ui/theme"
)

const msgBlank = "Responda esta pergunta para continuar."

var placeholders = map[catalog.Kind]string{
	catalog.KindText:  "Seu nome completo",
	catalog.KindTel:   "+55 (11) 98765-4321",
	catalog.KindEmail: "voce@exemplo.com",
}

// QuestionScreen walks through the catalog one question at a time.
type QuestionScreen struct {
	machine *quiz.Machine
	sched   *Scheduler

	input  components.TextInput
	choice components.Choice
	shown  int
	notice string
}

var _ screen.Screen = (*QuestionScreen)(nil)
var _ screen.KeyHintProvider = (*QuestionScreen)(nil)
var _ screen.StatusProvider = (*QuestionScreen)(nil)

// New creates a QuestionScreen. sched must be the scheduler the machine
// was built with.
func New(machine *quiz.Machine, sched *Scheduler) *QuestionScreen {
	s := &QuestionScreen{
		machine: machine,
		sched:   sched,
		input:   components.NewTextInput("", 120),
		shown:   -1,
	}
	s.sync()
	return s
}

func (s *QuestionScreen) Init() tea.Cmd {
	if s.personal() {
		return s.input.Init()
	}
	return nil
}

func (s *QuestionScreen) Title() string {
	if s.personal() {
		return "Dados Pessoais"
	}
	return "Perguntas"
}

func (s *QuestionScreen) Status() string {
	return fmt.Sprintf("%d/%d", s.machine.Index()+1, s.machine.Catalog().Len())
}

func (s *QuestionScreen) KeyHints() []layout.KeyHint {
	if s.personal() {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Próxima"},
			{Key: "Shift+Tab", Description: "Voltar"},
			{Key: "Ctrl+C", Description: "Sair"},
		}
	}
	return []layout.KeyHint{
		{Key: "1-5", Description: "Responder"},
		{Key: "↑↓", Description: "Escolher"},
		{Key: "Enter", Description: "Confirmar"},
		{Key: "⌫/←", Description: "Voltar"},
		{Key: "Ctrl+C", Description: "Sair"},
	}
}

func (s *QuestionScreen) personal() bool {
	return s.machine.Catalog().IsPersonalData(s.machine.Index())
}

// sync rebuilds the input widgets when the current question changed.
func (s *QuestionScreen) sync() {
	idx := s.machine.Index()
	if idx == s.shown {
		return
	}
	s.shown = idx
	s.notice = ""

	q := s.machine.CurrentQuestion()
	answer := s.machine.AnswerFor(q.ID)
	if s.machine.Catalog().IsPersonalData(idx) {
		s.input.Reset(answer, placeholders[q.Kind])
		s.input.Error = s.machine.FieldError(q.ID)
		return
	}
	s.choice = components.NewChoice(q.Options, answer)
}

func (s *QuestionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case timerFiredMsg:
		s.sched.Fire(msg.id)
		s.sync()
		if s.personal() {
			return s, s.input.Model.Focus()
		}
		return s, nil

	case tea.KeyPressMsg:
		if s.personal() {
			return s.handlePersonalKey(msg)
		}
		return s.handleLikertKey(msg)
	}

	if s.personal() {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *QuestionScreen) handlePersonalKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return s, s.apply(s.machine.Advance())
	case "shift+tab", "up":
		return s, s.apply(s.machine.Retreat())
	}
	if s.machine.Transitioning() {
		return s, nil
	}

	q := s.machine.CurrentQuestion()
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	if v := s.input.Value(); v != s.machine.AnswerFor(q.ID) {
		s.machine.Answer(q.ID, v)
		s.input.Error = ""
		s.notice = ""
	}
	return s, cmd
}

func (s *QuestionScreen) handleLikertKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	q := s.machine.CurrentQuestion()
	key := msg.String()

	switch key {
	case "backspace", "left", "h":
		return s, s.apply(s.machine.Retreat())
	case "right", "l":
		return s, s.apply(s.machine.Advance())
	case "up", "k", "down", "j":
		s.choice, _ = s.choice.Update(msg)
		return s, nil
	case "enter":
		opt, ok := s.choice.Current()
		if !ok {
			return s, nil
		}
		if s.machine.AnswerFor(q.ID) == opt.Value {
			return s, s.apply(s.machine.Advance())
		}
		return s, s.choose(q, opt.Value, true)
	case "space", " ":
		if opt, ok := s.choice.Current(); ok {
			return s, s.choose(q, opt.Value, false)
		}
		return s, nil
	}

	if len(key) == 1 && q.IsLikert() && q.HasOption(key) {
		return s, s.choose(q, key, true)
	}
	return s, nil
}

func (s *QuestionScreen) choose(q catalog.Question, value string, advance bool) tea.Cmd {
	out := s.machine.SelectAndAdvance(q.ID, value, advance)
	if out != quiz.Busy && out != quiz.Ignored {
		s.choice = components.NewChoice(q.Options, value)
	}
	return s.apply(out)
}

// apply reacts to an operation outcome.
func (s *QuestionScreen) apply(out quiz.Outcome) tea.Cmd {
	switch out {
	case quiz.Moving:
		s.notice = ""
		return s.sched.Cmd()
	case quiz.Finished:
		return screen.PhaseChanged(true)
	case quiz.Blocked:
		s.notice = msgBlank
	case quiz.Invalid:
		s.input.Error = s.machine.FieldError(s.machine.CurrentQuestion().ID)
	}
	return nil
}

func (s *QuestionScreen) View(width, height int) string {
	cat := s.machine.Catalog()
	q := s.machine.CurrentQuestion()
	cw := components.ContentWidth(width)

	var subtitle string
	if s.personal() {
		subtitle = "Comece preenchendo seus dados pessoais"
	} else {
		subtitle = fmt.Sprintf("Pergunta %d de %d", q.Number, len(cat.Statements()))
	}

	progress := components.NewProgressBar("", float64(s.machine.Index()+1)/float64(cat.Len()), false, cw)

	var body strings.Builder
	label := q.Label
	if q.Number > 0 {
		label = fmt.Sprintf("%d. %s", q.Number, q.Label)
	}
	body.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(cw - 6).Render(label))
	body.WriteString("\n\n")
	if s.personal() {
		body.WriteString(s.input.View())
	} else {
		body.WriteString(s.choice.View())
	}

	sections := []string{
		theme.Hint.Render(subtitle),
		progress.View(),
		"",
		components.Card(body.String(), cw),
	}
	if s.notice != "" {
		sections = append(sections, theme.ErrorText.Render(s.notice))
	}
	if s.machine.Transitioning() {
		arrow := "→"
		if s.machine.Direction() == quiz.DirectionPrev {
			arrow = "←"
		}
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Accent).Render(arrow))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
