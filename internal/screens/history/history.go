package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/archetype/internal/router"
	"github.com/abhisek/archetype/internal/screen"
	"github.com/abhisek/archetype/internal/store"
	"github.com/abhisek/archetype/internal/ui/layout"
	"github.com/abhisek/archetype/internal/ui/theme"
	"github.com/abhisek/archetype/internal/validate"
)

// listLimit caps how many past results are loaded.
const listLimit = 50

// Lister reads stored results, newest first.
type Lister interface {
	List(ctx context.Context, limit int) ([]store.ResultRecord, error)
}

type historyLoadedMsg struct {
	Records []store.ResultRecord
	Err     error
}

// HistoryScreen lists previously completed assessments.
type HistoryScreen struct {
	repo     Lister
	records  []store.ResultRecord
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(repo Lister) *HistoryScreen {
	return &HistoryScreen{
		repo:     repo,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		records, err := s.repo.List(context.Background(), listLimit)
		return historyLoadedMsg{Records: records, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "Resultados anteriores"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Detalhes"},
		{Key: "↑↓", Description: "Navegar"},
		{Key: "Esc", Description: "Voltar"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.records = msg.Records
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.records)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nErro: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Carregando resultados...")
	}
	if len(s.records) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  Nenhum resultado salvo ainda.")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, rec := range s.records {
		dominant := "-"
		if top, ok := rec.Dominant(); ok {
			dominant = fmt.Sprintf("%s (%.1f%%)", top.Name, top.Percentage)
		}
		sent := "não enviado"
		if rec.Sent {
			sent = "enviado"
		}

		prefix := "  "
		if i == s.selected {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s  %-20s  %s  %s",
			prefix, rec.CreatedAt.Local().Format("02/01/2006 15:04"), rec.Personal.Name, dominant, sent)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			dim := lipgloss.NewStyle().Foreground(theme.TextDim)
			contact := fmt.Sprintf("    %s  %s", rec.Personal.Email, validate.MaskPhone(rec.Personal.Phone))
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, dim.Render(contact)))
			b.WriteString("\n")
			for n, sc := range rec.Scores {
				detail := fmt.Sprintf("    %2d. %-14s %5.1f%%", n+1, sc.Name, sc.Percentage)
				b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, dim.Render(detail)))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}
