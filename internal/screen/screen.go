package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/immowert/internal/ui/layout"
)

// Screen is one full-page view managed by the router.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the content area between header and footer.
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider lets a screen replace the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Resumer is notified when the screen above it closes.
type Resumer interface {
	Resume() tea.Cmd
}
