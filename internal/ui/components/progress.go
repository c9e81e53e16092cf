package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/immowert/internal/ui/theme"
)

// ProgressBar shows how far the questionnaire has come.
type ProgressBar struct {
	Label   string
	Percent float64
	Width   int
}

// NewStepProgress returns a bar for step pos (zero-based) of total.
func NewStepProgress(pos, total, width int) ProgressBar {
	var pct float64
	if total > 0 {
		pct = float64(pos+1) / float64(total)
	}
	return ProgressBar{
		Label:   fmt.Sprintf("Schritt %d von %d", pos+1, total),
		Percent: pct,
		Width:   width,
	}
}

// View renders the label, the bar and the percentage.
func (p ProgressBar) View() string {
	label := ""
	if p.Label != "" {
		label = lipgloss.NewStyle().Foreground(theme.TextDim).Render(p.Label) + "  "
	}
	const percentWidth = 6

	barWidth := p.Width - lipgloss.Width(label) - percentWidth
	if barWidth < 4 {
		barWidth = 4
	}
	filled := int(float64(barWidth) * p.Percent)
	filled = max(0, min(filled, barWidth))

	bar := lipgloss.NewStyle().Background(theme.Primary).Render(strings.Repeat(" ", filled)) +
		lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", barWidth-filled))

	pct := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("  %d%%", int(p.Percent*100)))

	return label + bar + pct
}
