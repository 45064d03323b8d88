package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/archetype/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with an inline error line.
type TextInput struct {
	Model textinput.Model
	Error string
}

// NewTextInput creates a new focused text input.
func NewTextInput(placeholder string, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	return TextInput{Model: ti}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// Reset replaces the value and placeholder and moves the cursor to the end.
func (t *TextInput) Reset(value, placeholder string) {
	t.Model.Placeholder = placeholder
	t.Model.SetValue(value)
	t.Model.CursorEnd()
}

// View renders the input and, when set, its error below it.
func (t TextInput) View() string {
	view := t.Model.View()
	if t.Error != "" {
		view += "\n" + lipgloss.NewStyle().Foreground(theme.Error).Render("✗ "+t.Error)
	}
	return view
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}
