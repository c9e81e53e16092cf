package wizard

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/immowert/internal/ui/components"
	"github.com/abhisek/immowert/internal/ui/theme"
	wz "github.com/abhisek/immowert/internal/wizard"
)

const contentWidth = 72

func (s *WizardScreen) View(width, height int) string {
	seq := s.session.Sequencer()
	if seq.Phase() == wz.PhaseSubmitting {
		return s.renderSubmitting(width, height)
	}
	step, ok := seq.Current()
	if !ok {
		return ""
	}

	w := min(width-4, contentWidth)
	var b strings.Builder

	b.WriteString(components.NewStepProgress(seq.Position(), seq.Len(), w).View())
	b.WriteString("\n\n")
	b.WriteString(theme.Title.Render(step.TitleFor(s.tenant.MaklerName)))
	b.WriteString("\n")
	if sub := step.SubtitleFor(s.tenant.MaklerName); sub != "" {
		b.WriteString(theme.Subtitle.Render(sub))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	focused := s.focused()
	for _, c := range s.visible() {
		b.WriteString(c.View(c == focused))
		b.WriteString("\n\n")
	}

	if s.errMsg != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg))
		b.WriteString("\n\n")
	}

	next := "Weiter"
	if seq.IsLast() {
		next = "Bewertung erhalten"
	}
	b.WriteString(components.Row(
		components.NewButton("Zurück", seq.Position() > 0),
		components.NewButton(next, s.session.CanProceed()),
	))

	return lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Width(w).Render(b.String()))
}

func (s *WizardScreen) renderSubmitting(width, height int) string {
	msg := s.spinner.View() + " " + theme.Body.Render("Ihre Bewertung wird erstellt …")
	hint := theme.Hint.Render("Das kann einen Moment dauern.")
	return lipgloss.Place(width, max(height, 3), lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, msg, "", hint))
}
