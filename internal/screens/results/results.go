package results

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/archetype/internal/insight"
	"github.com/abhisek/archetype/internal/notify"
	"github.com/abhisek/archetype/internal/quiz"
	"github.com/abhisek/archetype/internal/report"
	"github.com/abhisek/archetype/internal/scoring"
	"github.com/abhisek/archetype/internal/screen"
	"github.com/abhisek/archetype/internal/store"
	"github.com/abhisek/archetype/internal/ui/components"
	"github.com/abhisek/archetype/internal/ui/layout"
	"github.com/abhisek/archetype/internal/ui/theme"
	"github.com/abhisek/archetype/internal/validate"
)

const (
	sendTimeout    = 30 * time.Second
	insightTimeout = 45 * time.Second
)

// History stores completed results.
type History interface {
	Save(ctx context.Context, rec *store.ResultRecord) error
	MarkSent(ctx context.Context, id string) error
}

// Describer generates a narrative for the top archetypes.
type Describer interface {
	Describe(ctx context.Context, name string, top []scoring.ArchetypeScore) (*insight.Insight, error)
}

// Options wires the results screen. Every collaborator except Machine is
// optional.
type Options struct {
	Machine    *quiz.Machine
	History    History
	Dispatcher notify.Dispatcher
	Insight    Describer
	ExportDir  string
	Logger     *zap.Logger
	Now        func() time.Time

	// Record saves the result to History when the screen opens. It is set
	// when the questionnaire was just finished rather than restored.
	Record bool
}

// ResultsScreen shows the ranked archetypes and offers export and send.
type ResultsScreen struct {
	opts     Options
	gate     *validate.Gate
	scores   []scoring.ArchetypeScore
	personal quiz.PersonalData

	recordID string
	sending  bool
	notice   string
	isError  bool

	insight        string
	insightPending bool

	offset int
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

// New computes the scores for the machine's answers.
func New(opts Options) *ResultsScreen {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}
	cat := opts.Machine.Catalog()
	return &ResultsScreen{
		opts:     opts,
		gate:     validate.NewGate(cat),
		scores:   scoring.Score(cat.Archetypes(), opts.Machine.Answers()),
		personal: opts.Machine.PersonalData(),
	}
}

func (s *ResultsScreen) Init() tea.Cmd {
	var cmds []tea.Cmd
	if s.opts.Record && s.opts.History != nil {
		cmds = append(cmds, s.record())
	}
	if s.opts.Dispatcher != nil && !s.opts.Machine.ResultsSent() {
		cmds = append(cmds, s.send())
	}
	if s.opts.Insight != nil {
		s.insightPending = true
		cmds = append(cmds, s.describe())
	}
	return tea.Batch(cmds...)
}

func (s *ResultsScreen) Title() string { return "Seus Resultados" }

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "e", Description: "Exportar .txt"},
		{Key: "x", Description: "Exportar .xlsx"},
	}
	if s.opts.Dispatcher != nil {
		hints = append(hints, layout.KeyHint{Key: "s", Description: "Enviar"})
	}
	return append(hints,
		layout.KeyHint{Key: "r", Description: "Refazer"},
		layout.KeyHint{Key: "↑↓", Description: "Rolar"},
		layout.KeyHint{Key: "Ctrl+C", Description: "Sair"},
	)
}

// Scores returns the ranked scores shown on the screen.
func (s *ResultsScreen) Scores() []scoring.ArchetypeScore { return s.scores }

func (s *ResultsScreen) record() tea.Cmd {
	rec := store.NewResultRecord(s.personal, s.scores, s.opts.Now())
	rec.Sent = s.opts.Machine.ResultsSent()
	history := s.opts.History
	return func() tea.Msg {
		err := history.Save(context.Background(), &rec)
		return recordedMsg{ID: rec.ID, Err: err}
	}
}

func (s *ResultsScreen) send() tea.Cmd {
	if s.sending {
		return nil
	}
	if errs := s.gate.ValidatePersonalData(s.opts.Machine.Answers()); len(errs) > 0 {
		s.setNotice("Dados pessoais incompletos: "+errs[0].Message, true)
		return nil
	}
	s.sending = true
	payload := notify.PayloadFrom(s.scores, s.personal)
	d := s.opts.Dispatcher
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		return sentMsg{Err: d.Dispatch(ctx, payload)}
	}
}

func (s *ResultsScreen) describe() tea.Cmd {
	top := scoring.Top(s.scores, 3)
	name := s.personal.Name
	svc := s.opts.Insight
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), insightTimeout)
		defer cancel()
		in, err := svc.Describe(ctx, name, top)
		return insightMsg{Insight: in, Err: err}
	}
}

func (s *ResultsScreen) export(format report.Format) tea.Cmd {
	path := filepath.Join(s.opts.ExportDir, report.Filename(format, s.opts.Now()))
	scores, personal := s.scores, s.personal
	return func() tea.Msg {
		f, err := os.Create(path)
		if err != nil {
			return exportedMsg{Err: err}
		}
		if err := report.Write(f, format, scores, personal); err != nil {
			f.Close()
			return exportedMsg{Err: err}
		}
		return exportedMsg{Path: path, Err: f.Close()}
	}
}

func (s *ResultsScreen) setNotice(msg string, isError bool) {
	s.notice = msg
	s.isError = isError
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case recordedMsg:
		if msg.Err != nil {
			s.opts.Logger.Warn("save result history failed", zap.Error(msg.Err))
			return s, nil
		}
		s.recordID = msg.ID
		return s, nil

	case sentMsg:
		s.sending = false
		if msg.Err != nil {
			s.opts.Logger.Warn("send results failed", zap.Error(msg.Err))
			s.setNotice("Não foi possível enviar os resultados. Pressione s para tentar de novo.", true)
			return s, nil
		}
		s.opts.Machine.MarkResultsSent()
		s.setNotice("Resultados enviados.", false)
		return s, s.markSent()

	case insightMsg:
		s.insightPending = false
		if msg.Err != nil {
			s.opts.Logger.Info("insight unavailable", zap.Error(msg.Err))
			return s, nil
		}
		s.insight = msg.Insight.Summary
		return s, nil

	case exportedMsg:
		if msg.Err != nil {
			s.setNotice("Falha ao exportar: "+msg.Err.Error(), true)
			return s, nil
		}
		s.setNotice("Resultado salvo em "+msg.Path, false)
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "e":
			return s, s.export(report.FormatText)
		case "x":
			return s, s.export(report.FormatXLSX)
		case "s":
			if s.opts.Dispatcher == nil {
				s.setNotice("Envio de resultados não configurado.", true)
				return s, nil
			}
			return s, s.send()
		case "r":
			s.opts.Machine.Reset()
			return s, screen.PhaseChanged(false)
		case "up", "k":
			if s.offset > 0 {
				s.offset--
			}
		case "down", "j":
			s.offset++
		}
	}
	return s, nil
}

func (s *ResultsScreen) markSent() tea.Cmd {
	if s.recordID == "" || s.opts.History == nil {
		return nil
	}
	id, history, logger := s.recordID, s.opts.History, s.opts.Logger
	return func() tea.Msg {
		if err := history.MarkSent(context.Background(), id); err != nil {
			logger.Warn("mark result sent failed", zap.String("id", id), zap.Error(err))
		}
		return nil
	}
}

var rankLabels = []string{"🏆 Dominante", "⭐ Secundário", "✨ Terciário"}

func (s *ResultsScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	sections := []string{
		layout.Center(theme.Title.Render("Seus Resultados"), cw),
		layout.Center(theme.Hint.Render("Análise do seu perfil de arquétipos"), cw),
		"",
	}

	for i, sc := range scoring.Top(s.scores, 3) {
		sections = append(sections, s.renderCard(i, sc, cw))
	}

	if s.insightPending {
		sections = append(sections, theme.Hint.Render("Gerando análise personalizada..."))
	} else if s.insight != "" {
		sections = append(sections, components.Card(theme.Body.Width(cw-6).Render(s.insight), cw))
	}

	sections = append(sections, "", lipgloss.NewStyle().Bold(true).Foreground(theme.Text).Render("Todos os arquétipos"))
	labelWidth := 0
	for _, sc := range s.scores {
		if w := lipgloss.Width(sc.Archetype.Name); w > labelWidth {
			labelWidth = w
		}
	}
	for i, sc := range s.scores {
		bar := components.NewProgressBar(fmt.Sprintf("%2d. %s", i+1, sc.Archetype.Name), sc.Percentage/100, true, cw)
		bar.LabelWidth = labelWidth + 4
		bar.Color = theme.Hex(sc.Archetype.Color)
		sections = append(sections, bar.View())
	}

	status := "Resultados ainda não enviados."
	if s.opts.Machine.ResultsSent() {
		status = "Resultados enviados."
	}
	if s.sending {
		status = "Enviando resultados..."
	}
	sections = append(sections, "", theme.Hint.Render(status))
	if s.notice != "" {
		style := lipgloss.NewStyle().Foreground(theme.Success)
		if s.isError {
			style = theme.ErrorText
		}
		sections = append(sections, style.Render(s.notice))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	lines := strings.Split(content, "\n")
	maxOffset := len(lines) - height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if s.offset > maxOffset {
		s.offset = maxOffset
	}
	lines = lines[s.offset:]
	if len(lines) > height && height > 0 {
		lines = lines[:height]
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(lines, "\n"))
}

func (s *ResultsScreen) renderCard(rank int, sc scoring.ArchetypeScore, cw int) string {
	a := sc.Archetype
	heading := lipgloss.NewStyle().Bold(true).Foreground(theme.Hex(a.Color)).
		Render(fmt.Sprintf("%s: %s", rankLabels[rank], a.Name))

	bar := components.NewProgressBar("", sc.Percentage/100, false, cw-6)
	bar.Color = theme.Hex(a.Color)

	lines := []string{heading, ""}
	if rank == 0 {
		lines = append(lines,
			theme.Body.Width(cw-6).Render("Descrição: "+a.Description),
			theme.Body.Width(cw-6).Render("Foco: "+a.Focus),
		)
	} else {
		lines = append(lines, theme.Body.Width(cw-6).Render(a.Description))
	}
	lines = append(lines,
		"",
		fmt.Sprintf("Pontuação  %s / %s", report.Number(sc.Raw), report.Number(sc.Max)),
		bar.View(),
		theme.Hint.Render(fmt.Sprintf("%.1f%% de desenvolvimento", sc.Percentage)),
	)

	body := strings.Join(lines, "\n")
	if rank == 0 {
		return components.HighlightCard(body, cw)
	}
	return components.Card(body, cw)
}
