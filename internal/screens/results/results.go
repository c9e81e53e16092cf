// Package results shows a valuation report as a tabbed textual view.
package results

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/immowert/internal/result"
	"github.com/abhisek/immowert/internal/router"
	"github.com/abhisek/immowert/internal/screen"
	"github.com/abhisek/immowert/internal/tenant"
	"github.com/abhisek/immowert/internal/ui/layout"
	"github.com/abhisek/immowert/internal/ui/theme"
)

// Disclaimer is printed under every report.
const Disclaimer = "Diese Bewertung ist eine unverbindliche Ersteinschätzung auf Basis Ihrer Angaben " +
	"und ersetzt kein Verkehrswertgutachten."

type tab int

const (
	tabOverview tab = iota
	tabDetails
	tabPrices
	tabComparables
	tabNextSteps
	tabCount
)

var tabNames = [tabCount]string{"Übersicht", "Wertdetails", "Preisentwicklung", "Vergleiche", "Nächste Schritte"}

// Options configures the screen.
type Options struct {
	Record result.Record
	Tenant tenant.Config

	// Heading defaults to "Ihre Immobilienbewertung".
	Heading string

	// Edit reopens the questionnaire. Nil hides the action.
	Edit func() tea.Cmd

	// Compare opens the comparison form. Nil hides the action.
	Compare func() tea.Cmd
}

// ResultsScreen implements screen.Screen for a finished valuation.
type ResultsScreen struct {
	opts Options
	tab  tab
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

// New creates a ResultsScreen.
func New(opts Options) *ResultsScreen {
	if opts.Heading == "" {
		opts.Heading = "Ihre Immobilienbewertung"
	}
	return &ResultsScreen{opts: opts}
}

func (s *ResultsScreen) Init() tea.Cmd {
	return nil
}

func (s *ResultsScreen) Title() string {
	return s.opts.Heading
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "←/→", Description: "Bereich"}}
	if s.opts.Edit != nil {
		hints = append(hints, layout.KeyHint{Key: "B", Description: "Angaben bearbeiten"})
	}
	if s.opts.Compare != nil {
		hints = append(hints, layout.KeyHint{Key: "V", Description: "Vergleichen"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Zurück"})
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	key := kmsg.String()
	switch key {
	case "right", "l", "tab":
		s.tab = (s.tab + 1) % tabCount
	case "left", "h", "shift+tab":
		s.tab = (s.tab + tabCount - 1) % tabCount
	case "b":
		if s.opts.Edit != nil {
			return s, s.opts.Edit()
		}
	case "v":
		if s.opts.Compare != nil {
			return s, s.opts.Compare()
		}
	case "esc", "q":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	default:
		if len(key) == 1 && key[0] >= '1' && int(key[0]-'1') < int(tabCount) {
			s.tab = tab(key[0] - '1')
		}
	}
	return s, nil
}

func (s *ResultsScreen) View(width, height int) string {
	w := min(width-4, 76)
	var b strings.Builder

	b.WriteString(s.renderTabs())
	b.WriteString("\n")
	b.WriteString(layout.Rule(w, w))
	b.WriteString("\n\n")

	switch s.tab {
	case tabOverview:
		b.WriteString(s.renderOverview())
	case tabDetails:
		b.WriteString(s.renderDetails())
	case tabPrices:
		b.WriteString(renderPrices(s.opts.Record.PriceDevelopment, w))
	case tabComparables:
		b.WriteString(renderComparables(s.opts.Record.ComparableProperties))
	case tabNextSteps:
		b.WriteString(s.renderNextSteps())
	}

	b.WriteString("\n\n")
	b.WriteString(theme.Hint.Width(w).Render(Disclaimer))

	return lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Width(w).Render(b.String()))
}

func (s *ResultsScreen) renderTabs() string {
	parts := make([]string, 0, tabCount)
	for i, name := range tabNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if tab(i) == s.tab {
			parts = append(parts, theme.Selected.Render("["+label+"]"))
		} else {
			parts = append(parts, theme.Unselected.Render(" "+label+" "))
		}
	}
	return strings.Join(parts, " ")
}

func (s *ResultsScreen) renderOverview() string {
	rec := s.opts.Record
	var b strings.Builder

	b.WriteString(theme.Subtitle.Render("Geschätzter Marktwert"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(result.EUR(rec.EstimatedValue)))
	b.WriteString("\n\n")

	rows := [][2]string{
		{"Wertspanne", rec.Range()},
		{"Ø Preis pro m²", result.EURPerSqm(rec.PricePerSqm)},
		{"Zuverlässigkeit", rec.ConfidenceLabel()},
	}
	for _, r := range rows {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("%-18s", r[0])) + " " + theme.Body.Render(r[1]) + "\n")
	}

	if rec.MarketTrend != nil && *rec.MarketTrend != "" {
		b.WriteString("\n")
		b.WriteString(theme.Subtitle.Render("Marktentwicklung"))
		b.WriteString("\n")
		b.WriteString(theme.Body.Render(*rec.MarketTrend))
	}
	return b.String()
}

func (s *ResultsScreen) renderDetails() string {
	rec := s.opts.Record
	var b strings.Builder
	b.WriteString(renderDrivers("Wertsteigernde Faktoren", "+", theme.Success, rec.PositiveDrivers))
	b.WriteString("\n")
	b.WriteString(renderDrivers("Wertmindernde Faktoren", "−", theme.Error, rec.NegativeDrivers))
	return b.String()
}

func renderDrivers(heading, mark string, c color.Color, drivers []string) string {
	var b strings.Builder
	b.WriteString(theme.Subtitle.Render(heading))
	b.WriteString("\n")
	if len(drivers) == 0 {
		b.WriteString(theme.Hint.Render("  keine angegeben"))
		b.WriteString("\n")
		return b.String()
	}
	markStyle := lipgloss.NewStyle().Foreground(c).Bold(true)
	for _, d := range drivers {
		b.WriteString("  " + markStyle.Render(mark) + " " + theme.Body.Render(d) + "\n")
	}
	return b.String()
}

// renderPrices draws one bar per year for the local price per m².
func renderPrices(points []result.PricePoint, width int) string {
	if len(points) == 0 {
		return theme.Hint.Render("Keine Preisentwicklung verfügbar.")
	}

	var top float64
	for _, p := range points {
		for _, v := range []*float64{p.AvgPrice, p.LocalPrice} {
			if v != nil && *v > top {
				top = *v
			}
		}
	}

	barWidth := max(width-40, 10)
	var b strings.Builder
	b.WriteString(theme.Subtitle.Render("Preis pro m² (lokal, Ø Region)"))
	b.WriteString("\n\n")
	for _, p := range points {
		filled := 0
		if p.LocalPrice != nil && top > 0 {
			filled = int(float64(barWidth) * *p.LocalPrice / top)
		}
		bar := lipgloss.NewStyle().Foreground(theme.Primary).Render(strings.Repeat("█", filled)) +
			lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("░", barWidth-filled))
		fmt.Fprintf(&b, "%d  %s  %s  %s\n", p.Year, bar,
			theme.Body.Render(result.EURPerSqm(p.LocalPrice)),
			theme.Hint.Render("Ø "+result.EURPerSqm(p.AvgPrice)))
	}
	return b.String()
}

func renderComparables(items []result.Comparable) string {
	if len(items) == 0 {
		return theme.Hint.Render("Keine Vergleichsobjekte verfügbar.")
	}

	var b strings.Builder
	b.WriteString(theme.Subtitle.Render("Vergleichsobjekte in der Nähe"))
	b.WriteString("\n\n")
	for _, c := range items {
		b.WriteString(theme.Body.Bold(true).Render(c.AddressSnippet))
		b.WriteString("\n")

		facts := []string{c.PropertyTypeDisplay, result.Sqm(c.LivingAreaSqm)}
		if c.PlotAreaSqm != nil {
			facts = append(facts, "Grundstück "+result.Sqm(c.PlotAreaSqm))
		}
		if c.YearBuiltDisplay != "" {
			facts = append(facts, "Baujahr "+c.YearBuiltDisplay)
		}
		b.WriteString("  " + theme.Hint.Render(strings.Join(facts, " · ")))
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("  %s  %s\n\n",
			theme.Body.Render(result.EUR(c.EstimatedValueEUR)),
			theme.Hint.Render("("+result.EURPerSqm(c.PricePerSqmEUR)+")")))
	}
	return b.String()
}

func (s *ResultsScreen) renderNextSteps() string {
	t := s.opts.Tenant
	var b strings.Builder
	b.WriteString(theme.Subtitle.Render("So geht es weiter"))
	b.WriteString("\n")
	b.WriteString(theme.Body.Render(fmt.Sprintf(
		"%s meldet sich persönlich bei Ihnen, um die Bewertung zu besprechen "+
			"und bei Bedarf einen Besichtigungstermin zu vereinbaren.", t.MaklerName)))
	b.WriteString("\n\n")

	contact := [][2]string{
		{"Telefon", t.Telefon},
		{"E-Mail", t.LeadEmail},
		{"Büro", t.Office()},
	}
	for _, c := range contact {
		if c[1] == "" {
			continue
		}
		b.WriteString(theme.Hint.Render(fmt.Sprintf("%-10s", c[0])) + " " + theme.Body.Render(c[1]) + "\n")
	}
	return b.String()
}
