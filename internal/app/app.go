package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/archetype/internal/notify"
	"github.com/abhisek/archetype/internal/quiz"
	"github.com/abhisek/archetype/internal/router"
	"github.com/abhisek/archetype/internal/screen"
	"github.com/abhisek/archetype/internal/screens/history"
	"github.com/abhisek/archetype/internal/screens/instructions"
	"github.com/abhisek/archetype/internal/screens/question"
	"github.com/abhisek/archetype/internal/screens/results"
	"github.com/abhisek/archetype/internal/screens/welcome"
	"github.com/abhisek/archetype/internal/ui/layout"
)

// ResultStore is the history backend used by the results and history screens.
type ResultStore interface {
	results.History
	history.Lister
}

// Options holds the dependencies for the TUI.
type Options struct {
	// Machine must be built with Scheduler as its quiz.Scheduler.
	Machine   *quiz.Machine
	Scheduler *question.Scheduler

	Results    ResultStore
	Dispatcher notify.Dispatcher
	Insight    results.Describer
	ExportDir  string
	Logger     *zap.Logger

	// Splash shows the welcome animation before the first screen.
	Splash bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	opts   Options
	router *router.Router
	width  int
	height int
}

// newAppModel creates an AppModel on the screen for the machine's phase.
func newAppModel(opts Options) AppModel {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	m := AppModel{opts: opts}
	initial := m.phaseScreen(false)
	if opts.Splash && opts.Machine.Phase() == quiz.PhaseInstructions {
		initial = welcome.New(func() screen.Screen { return m.phaseScreen(false) })
	}
	m.router = router.New(initial)
	return m
}

// phaseScreen builds the screen for the machine's current phase.
func (m AppModel) phaseScreen(completed bool) screen.Screen {
	switch m.opts.Machine.Phase() {
	case quiz.PhaseQuestioning:
		return question.New(m.opts.Machine, m.opts.Scheduler)
	case quiz.PhaseResults:
		var hist results.History
		if m.opts.Results != nil {
			hist = m.opts.Results
		}
		return results.New(results.Options{
			Machine:    m.opts.Machine,
			History:    hist,
			Dispatcher: m.opts.Dispatcher,
			Insight:    m.opts.Insight,
			ExportDir:  m.opts.ExportDir,
			Logger:     m.opts.Logger,
			Record:     completed,
		})
	}
	return instructions.New(m.opts.Machine, m.historyFactory())
}

func (m AppModel) historyFactory() func() screen.Screen {
	if m.opts.Results == nil {
		return nil
	}
	repo := m.opts.Results
	return func() screen.Screen { return history.New(repo) }
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case screen.PhaseChangedMsg:
		m.opts.Logger.Debug("phase changed",
			zap.Stringer("phase", m.opts.Machine.Phase()),
			zap.Bool("completed", msg.Completed))
		return m, m.router.Replace(m.phaseScreen(msg.Completed))

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title, status := "", ""
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
	}

	header := layout.RenderHeader(title, status, m.width)

	var footerHints []layout.KeyHint
	if kp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = kp.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Voltar"},
			{Key: "Ctrl+C", Description: "Sair"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "Ctrl+C", Description: "Sair"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	if opts.Machine == nil || opts.Scheduler == nil {
		return fmt.Errorf("app: machine and scheduler are required")
	}
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Erro ao executar o programa:", err)
		return err
	}
	return nil
}
