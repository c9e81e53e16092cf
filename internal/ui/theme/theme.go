package theme

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
)

// DefaultAccent is used when the tenant's colour cannot be parsed.
const DefaultAccent = "#0B70A9"

// Color palette. Primary follows the tenant's brand colour.
var (
	Primary   color.Color = lipgloss.Color(DefaultAccent)
	Secondary             = lipgloss.Color("#38BDF8") // Sky
	Accent                = lipgloss.Color("#F59E0B") // Amber
	Success               = lipgloss.Color("#22C55E") // Green
	Error                 = lipgloss.Color("#F43F5E") // Rose
	Text                  = lipgloss.Color("#F8FAFC") // White
	TextDim               = lipgloss.Color("#94A3B8") // Slate
	BgDark                = lipgloss.Color("#0F172A") // Deep Navy
	BgCard                = lipgloss.Color("#1E293B") // Dark Slate
	Border                = lipgloss.Color("#334155") // Slate
)

// Styles derived from the palette. Apply rebuilds them.
var (
	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	Body       lipgloss.Style
	Hint       lipgloss.Style
	Card       lipgloss.Style
	Selected   lipgloss.Style
	Unselected lipgloss.Style
	Toast      lipgloss.Style

	ButtonActive   lipgloss.Style
	ButtonInactive lipgloss.Style
)

func init() {
	build()
}

// Apply switches the primary colour to hex, a #RGB or #RRGGBB value.
// Anything else restores DefaultAccent. It reports whether hex was used.
func Apply(hex string) bool {
	ok := validHex(hex)
	if !ok {
		hex = DefaultAccent
	}
	Primary = lipgloss.Color(hex)
	build()
	return ok
}

func validHex(s string) bool {
	if !strings.HasPrefix(s, "#") || (len(s) != 4 && len(s) != 7) {
		return false
	}
	for _, r := range s[1:] {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

func build() {
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
		Foreground(TextDim).
		Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	Selected = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	Unselected = lipgloss.NewStyle().
		Foreground(Text)

	Toast = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Error).
		Foreground(Text).
		Padding(0, 2)

	ButtonActive = lipgloss.NewStyle().
		Background(Primary).
		Foreground(Text).
		Bold(true).
		Padding(0, 2)

	ButtonInactive = lipgloss.NewStyle().
		Foreground(TextDim).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 2)
}
