package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/archetype/internal/catalog"
	"github.com/abhisek/archetype/internal/ui/theme"
)

// Choice is a vertical single-choice list. The cursor moves independently
// of the recorded answer, which is marked with a filled bullet.
type Choice struct {
	Options []catalog.Option
	Cursor  int
	Chosen  string
}

// NewChoice creates a list with the cursor on the chosen value, or on the
// first option when nothing is chosen yet.
func NewChoice(options []catalog.Option, chosen string) Choice {
	c := Choice{Options: options, Chosen: chosen}
	for i, o := range options {
		if o.Value == chosen {
			c.Cursor = i
		}
	}
	return c
}

// Update moves the cursor.
func (c Choice) Update(msg tea.Msg) (Choice, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}
	switch kmsg.String() {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
	case "down", "j":
		if c.Cursor < len(c.Options)-1 {
			c.Cursor++
		}
	}
	return c, nil
}

// Current returns the option under the cursor.
func (c Choice) Current() (catalog.Option, bool) {
	if c.Cursor < 0 || c.Cursor >= len(c.Options) {
		return catalog.Option{}, false
	}
	return c.Options[c.Cursor], true
}

// View renders the options.
func (c Choice) View() string {
	var b strings.Builder
	for i, o := range c.Options {
		prefix := "  "
		if i == c.Cursor {
			prefix = "▸ "
		}
		bullet := "○"
		if o.Value == c.Chosen {
			bullet = "●"
		}
		line := fmt.Sprintf("%s%s %s  %s", prefix, bullet, o.Value, o.Label)

		style := theme.Unselected
		switch {
		case i == c.Cursor:
			style = theme.Selected
		case o.Value == c.Chosen:
			style = theme.Chosen
		}
		b.WriteString(style.Render(line))
		if i < len(c.Options)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
