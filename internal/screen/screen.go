package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/archetype/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StatusProvider is an optional interface for screens that show a status
// on the right side of the header, such as question progress.
type StatusProvider interface {
	Status() string
}

// PhaseChangedMsg asks the app to replace the active screen with the one
// for the quiz's current phase.
type PhaseChangedMsg struct {
	// Completed is set when the questionnaire was just finished, as opposed
	// to restored in the results phase.
	Completed bool
}

// PhaseChanged returns a command emitting PhaseChangedMsg.
func PhaseChanged(completed bool) tea.Cmd {
	return func() tea.Msg { return PhaseChangedMsg{Completed: completed} }
}
