// Package compare is the form for valuing a second property against the
// finished one.
package compare

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/immowert/internal/answers"
	"github.com/abhisek/immowert/internal/result"
	"github.com/abhisek/immowert/internal/router"
	"github.com/abhisek/immowert/internal/screen"
	"github.com/abhisek/immowert/internal/ui/components"
	"github.com/abhisek/immowert/internal/ui/layout"
	"github.com/abhisek/immowert/internal/ui/theme"
	"github.com/abhisek/immowert/internal/wizard"
)

// Options configures the screen.
type Options struct {
	Session *wizard.Session

	// Results builds the screen showing the comparison report.
	Results func(result.Record) screen.Screen
}

type compareDoneMsg struct {
	Record result.Record
	Err    error
}

const (
	rowZip = iota
	rowCity
	rowLiving
	rowPlot
	rowCondition
	rowYear
)

// CompareScreen implements screen.Screen for the comparison form.
type CompareScreen struct {
	session *wizard.Session
	results func(result.Record) screen.Screen

	house     bool
	zip       components.TextInput
	city      components.TextInput
	living    components.TextInput
	plot      components.TextInput
	condition components.Choice
	year      components.Choice

	row     int
	busy    bool
	spinner spinner.Model
	errMsg  string
}

var _ screen.Screen = (*CompareScreen)(nil)
var _ screen.KeyHintProvider = (*CompareScreen)(nil)

// New creates the form prefilled from the session's answers.
func New(opts Options) *CompareScreen {
	base := wizard.ComparisonBase(opts.Session.Answers())

	living := answers.MustLookup(answers.FieldLivingArea)
	plot := answers.MustLookup(answers.FieldPlotArea)
	s := &CompareScreen{
		session: opts.Session,
		results: opts.Results,
		house:   base.Is(answers.House),
		zip:     components.NewTextInput("Postleitzahl", "12345", 5),
		city:    components.NewTextInput("Ort", "", 100),
		living:  components.NewNumberInput(living.Label, "", living.Min, living.Max),
		plot:    components.NewNumberInput(plot.Label, "", plot.Min, plot.Max),
		condition: components.NewChoice(options(answers.FieldConditionGeneral), false,
			deref(base.ConditionGeneral)...),
		year: components.NewChoice(options(answers.FieldYearBuilt), false,
			deref(base.YearBuilt)...),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Primary)),
		),
	}
	s.zip.NumericOnly = true
	if base.LivingArea != nil {
		s.living.SetValue(strconv.Itoa(*base.LivingArea))
	}
	s.city.Blur()
	s.living.Blur()
	s.plot.Blur()
	return s
}

func options(f answers.Field) []components.Option {
	def := answers.MustLookup(f)
	out := make([]components.Option, len(def.Options))
	for i, o := range def.Options {
		out[i] = components.Option{Value: o.Value, Label: o.Label}
	}
	return out
}

func deref(v *string) []string {
	if v == nil {
		return nil
	}
	return []string{*v}
}

func (s *CompareScreen) Init() tea.Cmd {
	return s.zip.Init()
}

func (s *CompareScreen) Title() string {
	return "Vergleichsobjekt"
}

func (s *CompareScreen) KeyHints() []layout.KeyHint {
	if s.busy {
		return nil
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Nächstes Feld"},
		{Key: "Ctrl+S", Description: "Vergleich starten"},
		{Key: "Esc", Description: "Abbrechen"},
	}
}

func (s *CompareScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case compareDoneMsg:
		s.busy = false
		if msg.Err != nil {
			s.errMsg = wizard.FailureMessage
			return s, nil
		}
		if s.results == nil {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		next := s.results(msg.Record)
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }

	case spinner.TickMsg:
		if !s.busy {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		if s.busy {
			return s, nil
		}
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "ctrl+s":
			return s.submit()
		case "tab", "down":
			if s.row < rowCondition || msg.String() == "tab" {
				return s, s.move(1)
			}
		case "shift+tab", "up":
			if s.row < rowCondition || msg.String() == "shift+tab" {
				return s, s.move(-1)
			}
		case "enter":
			switch s.row {
			case rowCondition:
				s.condition, _ = s.condition.Update(msg)
				return s, s.move(1)
			case rowYear:
				s.year, _ = s.year.Update(msg)
				return s.submit()
			}
			return s, s.move(1)
		}
		return s.forward(msg)
	}
	return s, nil
}

func (s *CompareScreen) forward(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	switch s.row {
	case rowZip:
		s.zip, cmd = s.zip.Update(msg)
	case rowCity:
		s.city, cmd = s.city.Update(msg)
	case rowLiving:
		s.living, cmd = s.living.Update(msg)
	case rowPlot:
		s.plot, cmd = s.plot.Update(msg)
	case rowCondition:
		s.condition, _ = s.condition.Update(msg)
	case rowYear:
		s.year, _ = s.year.Update(msg)
	}
	return s, cmd
}

func (s *CompareScreen) rows() []int {
	rows := []int{rowZip, rowCity, rowLiving}
	if s.house {
		rows = append(rows, rowPlot)
	}
	return append(rows, rowCondition, rowYear)
}

func (s *CompareScreen) move(delta int) tea.Cmd {
	rows := s.rows()
	idx := 0
	for i, r := range rows {
		if r == s.row {
			idx = i
		}
	}
	s.row = rows[(idx+delta+len(rows))%len(rows)]

	s.zip.Blur()
	s.city.Blur()
	s.living.Blur()
	s.plot.Blur()
	switch s.row {
	case rowZip:
		return s.zip.Focus()
	case rowCity:
		return s.city.Focus()
	case rowLiving:
		return s.living.Focus()
	case rowPlot:
		return s.plot.Focus()
	}
	return nil
}

// Patch builds the comparison answers from the form.
func (s *CompareScreen) Patch() (answers.Patch, error) {
	zip, city := s.zip.Value(), s.city.Value()
	if len(zip) != 5 || city == "" {
		return nil, wizard.ErrComparisonLocation
	}
	p := answers.NewPatch().
		Set(answers.FieldZipCode, zip).
		Set(answers.FieldCity, city)

	if err := numberInto(p, answers.FieldLivingArea, s.living); err != nil {
		return nil, err
	}
	if s.house {
		if err := numberInto(p, answers.FieldPlotArea, s.plot); err != nil {
			return nil, err
		}
	}
	if sel := s.condition.Selected(); len(sel) > 0 {
		p.Set(answers.FieldConditionGeneral, sel[0])
	}
	if sel := s.year.Selected(); len(sel) > 0 {
		p.Set(answers.FieldYearBuilt, sel[0])
	}
	return p, nil
}

var errOutOfRange = errors.New("value out of range")

func numberInto(p answers.Patch, f answers.Field, in components.TextInput) error {
	if in.Value() == "" {
		p.Clear(f)
		return nil
	}
	n, ok := in.IntValue()
	if !ok {
		return errOutOfRange
	}
	p.Set(f, n)
	return nil
}

func (s *CompareScreen) submit() (screen.Screen, tea.Cmd) {
	p, err := s.Patch()
	switch {
	case errors.Is(err, wizard.ErrComparisonLocation):
		s.errMsg = "Bitte Postleitzahl und Ort angeben."
		return s, nil
	case err != nil:
		s.errMsg = "Bitte prüfen Sie die Flächenangaben."
		return s, nil
	}

	s.errMsg = ""
	s.busy = true
	session := s.session
	return s, tea.Batch(s.spinner.Tick, func() tea.Msg {
		rec, err := session.Compare(context.Background(), p)
		return compareDoneMsg{Record: rec, Err: err}
	})
}

func (s *CompareScreen) View(width, height int) string {
	if s.busy {
		msg := s.spinner.View() + " " + theme.Body.Render("Vergleichsbewertung wird erstellt …")
		return lipgloss.Place(width, max(height, 3), lipgloss.Center, lipgloss.Center, msg)
	}

	w := min(width-4, 72)
	var b strings.Builder
	b.WriteString(theme.Title.Render("Mit einer anderen Immobilie vergleichen"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render("Art, Wohnfläche, Zustand und Baujahr sind aus Ihrer Bewertung übernommen."))
	b.WriteString("\n\n")

	for _, r := range s.rows() {
		switch r {
		case rowZip:
			b.WriteString(s.zip.View())
		case rowCity:
			b.WriteString(s.city.View())
		case rowLiving:
			b.WriteString(s.living.View())
		case rowPlot:
			b.WriteString(s.plot.View())
		case rowCondition:
			b.WriteString(s.label("Zustand", r) + "\n" + s.condition.View())
		case rowYear:
			b.WriteString(s.label("Baujahr", r) + "\n" + s.year.View())
		}
		b.WriteString("\n")
	}

	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(components.NewButton("Vergleich starten", true).View())

	return lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Width(w).Render(b.String()))
}

func (s *CompareScreen) label(text string, row int) string {
	if s.row == row {
		return theme.Selected.Render(text)
	}
	return lipgloss.NewStyle().Foreground(theme.TextDim).Render(text)
}
