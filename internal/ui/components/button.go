package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/immowert/internal/ui/theme"
)

// Button is a labelled action that can be greyed out.
type Button struct {
	Label   string
	Enabled bool
}

// NewButton returns a button.
func NewButton(label string, enabled bool) Button {
	return Button{Label: label, Enabled: enabled}
}

// View renders the button.
func (b Button) View() string {
	if b.Enabled {
		return theme.ButtonActive.Render(b.Label + " ▸")
	}
	return theme.ButtonInactive.Render(b.Label)
}

// Row joins buttons horizontally with a gap.
func Row(buttons ...Button) string {
	parts := make([]string, 0, 2*len(buttons))
	for i, b := range buttons {
		if i > 0 {
			parts = append(parts, "  ")
		}
		parts = append(parts, b.View())
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}
