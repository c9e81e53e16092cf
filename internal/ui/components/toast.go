package components

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/immowert/internal/ui/theme"
)

// ToastDuration is how long a toast stays visible.
const ToastDuration = 5 * time.Second

// Toast holds at most one transient message. It is shared by the screens
// of one program and must only be touched from the update loop.
type Toast struct {
	Title   string
	Message string
	seq     int
}

// ToastExpiredMsg hides the toast it was scheduled for.
type ToastExpiredMsg struct{ seq int }

// Show displays a message and returns the command that hides it again.
func (t *Toast) Show(title, message string) tea.Cmd {
	t.Title, t.Message = title, message
	t.seq++
	seq := t.seq
	return tea.Tick(ToastDuration, func(time.Time) tea.Msg { return ToastExpiredMsg{seq: seq} })
}

// Handle clears the toast when msg is its own expiry.
func (t *Toast) Handle(msg ToastExpiredMsg) {
	if msg.seq == t.seq {
		t.Title, t.Message = "", ""
	}
}

// Visible reports whether a message is shown.
func (t *Toast) Visible() bool {
	return t != nil && t.Message != ""
}

// View renders the toast box, or "" when hidden.
func (t *Toast) View(width int) string {
	if !t.Visible() {
		return ""
	}
	title := lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render(t.Title)
	box := theme.Toast.Width(min(width-4, 70)).Render(title + "\n" + t.Message)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, box)
}
