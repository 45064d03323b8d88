package instructions

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/archetype/internal/quiz"
	"github.com/abhisek/archetype/internal/router"
	"github.com/abhisek/archetype/internal/screen"
	"github.com/abhisek/archetype/internal/ui/components"
	"github.com/abhisek/archetype/internal/ui/layout"
	"github.com/abhisek/archetype/internal/ui/theme"
)

const (
	labelStart    = "▶ Começar o teste"
	labelContinue = "▶ Continuar o teste"
	labelClear    = "Limpar progresso salvo"
	labelHistory  = "Resultados anteriores"
	labelQuit     = "Sair"

	msgCleared = "Progresso salvo apagado."
)

// InstructionsScreen explains the scale and starts the questionnaire.
type InstructionsScreen struct {
	machine *quiz.Machine
	history func() screen.Screen
	menu    components.Menu
	notice  string
}

var _ screen.Screen = (*InstructionsScreen)(nil)
var _ screen.KeyHintProvider = (*InstructionsScreen)(nil)

// New creates an InstructionsScreen. history may be nil when no local
// history is available.
func New(machine *quiz.Machine, history func() screen.Screen) *InstructionsScreen {
	s := &InstructionsScreen{machine: machine, history: history}
	s.buildMenu()
	return s
}

func (s *InstructionsScreen) buildMenu() {
	start := labelStart
	if s.hasProgress() {
		start = labelContinue
	}
	items := []components.MenuItem{
		{Label: start, Action: s.start},
		{Label: labelClear, Action: s.clear, Disabled: !s.hasProgress()},
	}
	if s.history != nil {
		items = append(items, components.MenuItem{Label: labelHistory, Action: s.openHistory})
	}
	items = append(items, components.MenuItem{Label: labelQuit, Action: func() tea.Cmd { return tea.Quit }})
	s.menu = components.NewMenu(items)
}

// hasProgress reports whether anything beyond the seeded phone prefix was
// answered.
func (s *InstructionsScreen) hasProgress() bool {
	for _, v := range s.machine.Answers() {
		if strings.TrimSpace(v) != "" && strings.TrimSpace(v) != "+55" {
			return true
		}
	}
	return s.machine.Index() > 0
}

func (s *InstructionsScreen) Init() tea.Cmd { return nil }

func (s *InstructionsScreen) Title() string { return "Instruções" }

func (s *InstructionsScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Navegar"},
		{Key: "Enter", Description: "Selecionar"},
		{Key: "c", Description: "Limpar progresso"},
	}
	if s.history != nil {
		hints = append(hints, layout.KeyHint{Key: "h", Description: "Histórico"})
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Sair"})
}

func (s *InstructionsScreen) start() tea.Cmd {
	if s.machine.Start() == quiz.Ignored {
		return nil
	}
	return screen.PhaseChanged(false)
}

func (s *InstructionsScreen) clear() tea.Cmd {
	s.machine.Reset()
	s.notice = msgCleared
	s.buildMenu()
	return nil
}

func (s *InstructionsScreen) openHistory() tea.Cmd {
	if s.history == nil {
		return nil
	}
	next := s.history()
	return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}

func (s *InstructionsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "c":
		return s, s.clear()
	case "h":
		return s, s.openHistory()
	case "q":
		return s, tea.Quit
	}
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *InstructionsScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	cat := s.machine.Catalog()

	title := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("Teste de Arquétipos")
	subtitle := theme.Hint.Render("Descubra seu perfil arquetípico pessoal")
	credit := lipgloss.NewStyle().Foreground(theme.TextDim).
		Render("Propriedade intelectual e autora do teste: Carol S. Pearson")

	var body strings.Builder
	body.WriteString(theme.Body.Width(cw - 6).Render(
		"Indique a frequência com que cada afirmação descreve melhor o seu comportamento. " +
			"Assinale o que melhor o descreve neste momento."))
	body.WriteString("\n\n")
	for i, o := range cat.Scale() {
		badge := lipgloss.NewStyle().
			Background(theme.Scale[i%len(theme.Scale)]).
			Foreground(theme.Text).
			Bold(true).
			Render(" " + o.Value + " ")
		body.WriteString(badge + "  " + o.Label + "\n")
	}
	body.WriteString("\n")
	body.WriteString(theme.Hint.Render("Dica: nas afirmações, as teclas 1 a 5 selecionam e avançam automaticamente."))

	facts := theme.Hint.Render(fmt.Sprintf("~10 min   •   %d perguntas   •   %d arquétipos",
		cat.Len(), len(cat.Archetypes())))

	sections := []string{
		layout.Center(title, cw),
		layout.Center(subtitle, cw),
		layout.Center(credit, cw),
		"",
		components.Card(body.String(), cw),
		layout.Center(facts, cw),
		"",
		s.menu.View(),
	}
	if s.notice != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Success).Render(s.notice))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
