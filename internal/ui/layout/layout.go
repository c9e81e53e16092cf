package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/immowert/internal/ui/theme"
)

// Minimum terminal size; below it only a resize hint is shown.
const (
	MinWidth  = 80
	MinHeight = 24

	CompactWidthThreshold = 100
)

// KeyHint is one key binding shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsCompactWidth reports whether side-by-side panels should stack.
func IsCompactWidth(width int) bool {
	return width < CompactWidthThreshold
}

// IsTooSmall reports whether the terminal is below the minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// Center renders text with style across the full width.
func Center(width int, style lipgloss.Style, text string) string {
	return style.Width(width).Align(lipgloss.Center).Render(text)
}

// Rule is a horizontal divider of at most max cells, centred in width.
func Rule(width, max int) string {
	n := width - 8
	if n > max {
		n = max
	}
	if n < 0 {
		n = 0
	}
	line := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", n))
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, line)
}

// RenderMinSizeMessage renders the "terminal too small" message.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"Das Terminal ist zu klein.\n\nBitte auf mindestens\n%d x %d vergrößern.\n\nAktuell: %d x %d",
			MinWidth, MinHeight, width, height,
		))
}

// Brand is the agent identity shown in the header.
type Brand struct {
	Name    string
	Contact string
}

// RenderHeader renders the header bar: agent name left, screen title
// centred, contact right.
func RenderHeader(brand Brand, title string, width int) string {
	left := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render("  " + brand.Name)

	center := lipgloss.NewStyle().
		Foreground(theme.Text).
		Render(title)

	right := ""
	if brand.Contact != "" {
		right = lipgloss.NewStyle().
			Foreground(theme.Accent).
			Render("☎ " + brand.Contact)
	}

	leftLen := lipgloss.Width(left)
	centerLen := lipgloss.Width(center)
	rightLen := lipgloss.Width(right)

	innerWidth := width - 4 // border and padding
	if innerWidth < 0 {
		innerWidth = 0
	}

	leftGap := (innerWidth-centerLen)/2 - leftLen
	if leftGap < 1 {
		leftGap = 1
	}
	rightGap := innerWidth - leftLen - leftGap - centerLen - rightLen
	if rightGap < 1 {
		rightGap = 1
	}

	content := left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right

	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}

// RenderFooter renders the footer with key hints.
func RenderFooter(hints []KeyHint, width int) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		part := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key) +
			" " +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.Description)
		parts = append(parts, part)
	}

	content := "  " + strings.Join(parts, "   ")

	box := lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)

	return box
}

// RenderFrame composes the full frame: header + content + footer.
func RenderFrame(header, content, footer string, width, height int) string {
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)

	contentHeight := height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	styledContent := lipgloss.NewStyle().
		Width(width).
		Height(contentHeight).
		Render(content)

	return header + "\n" + styledContent + "\n" + footer
}
