package home

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/immowert/internal/ui/theme"
)

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 30

// contentWidth returns the uniform inner width used for all sections.
func contentWidth(frameWidth int) int {
	// Leave room for frame border (2) + inner padding (4)
	return min(max(frameWidth-6, 20), 60)
}

func renderTitle(makler string, cw int) string {
	name := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(makler)
	sub := theme.Subtitle.Render("Kostenlose Immobilienbewertung")
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(name + "\n" + sub)
}

// renderStatus renders the progress line in a bordered box matching content width.
func renderStatus(text string, done bool, cw int) string {
	style := lipgloss.NewStyle().Foreground(theme.TextDim)
	if done {
		style = lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw-2). // account for border chars
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(style.Render(text))
}

// renderMenu renders each menu item as a fixed-width button.
func renderMenu(labels []string, selected int, disabled map[int]bool, cw int) string {
	base := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)

	selectedBtn := base.
		Bold(true).
		Foreground(theme.Text).
		Background(theme.Primary).
		BorderForeground(theme.Primary)
	normalBtn := base.
		Foreground(theme.Text).
		BorderForeground(theme.Border)
	disabledBtn := base.
		Foreground(theme.TextDim).
		BorderForeground(theme.Border)

	buttons := make([]string, 0, len(labels))
	for i, label := range labels {
		switch {
		case disabled[i]:
			buttons = append(buttons, disabledBtn.Render(label))
		case i == selected:
			buttons = append(buttons, selectedBtn.Render("▸ "+label))
		default:
			buttons = append(buttons, normalBtn.Render(label))
		}
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(buttons, "\n"))
}

// renderMenuCompact renders menu items as plain lines for short terminals
// where bordered buttons would overflow.
func renderMenuCompact(labels []string, selected int, disabled map[int]bool, cw int) string {
	lines := make([]string, 0, len(labels))
	for i, label := range labels {
		switch {
		case disabled[i]:
			lines = append(lines, lipgloss.NewStyle().Foreground(theme.TextDim).Render("   "+label))
		case i == selected:
			lines = append(lines, lipgloss.NewStyle().
				Foreground(theme.Text).
				Background(theme.Primary).
				Bold(true).
				Render(" ▸ "+label+" "))
		default:
			lines = append(lines, lipgloss.NewStyle().Foreground(theme.Text).Render("   "+label))
		}
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(lines, "\n"))
}

// renderFrame wraps content in a border, centered within the given dimensions.
func renderFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(max(height-2, 1)).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
