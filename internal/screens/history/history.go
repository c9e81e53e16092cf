// Package history lists recorded submission attempts for the current session.
package history

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/immowert/internal/result"
	"github.com/abhisek/immowert/internal/router"
	"github.com/abhisek/immowert/internal/screen"
	"github.com/abhisek/immowert/internal/store"
	"github.com/abhisek/immowert/internal/submission"
	"github.com/abhisek/immowert/internal/ui/layout"
	"github.com/abhisek/immowert/internal/ui/theme"
)

const (
	queryLimit   = 50
	snippetLimit = 240
)

type historyLoadedMsg struct {
	Events []store.SubmissionEvent
	Err    error
}

// HistoryScreen displays past submission attempts.
type HistoryScreen struct {
	repo      store.SubmissionRepo
	sessionID string
	events    []store.SubmissionEvent
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a HistoryScreen. An empty sessionID lists every session.
func New(repo store.SubmissionRepo, sessionID string) *HistoryScreen {
	return &HistoryScreen{
		repo:      repo,
		sessionID: sessionID,
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo, id := s.repo, s.sessionID
	return func() tea.Msg {
		events, err := repo.QuerySubmissions(context.Background(),
			store.QueryOpts{Limit: queryLimit, SessionID: id})
		return historyLoadedMsg{Events: events, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "Verlauf"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Auswahl"},
		{Key: "Esc", Description: "Zurück"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.events = msg.Events
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.events)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	dim := lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(theme.TextDim)
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nFehler: %s", s.errMsg))
	}
	if !s.loaded {
		return dim.Render("\n\n  Verlauf wird geladen …")
	}
	if len(s.events) == 0 {
		return dim.Italic(true).Render("\n\n  Noch keine Anfragen gesendet.")
	}

	var b strings.Builder
	b.WriteString("\n")
	for i, ev := range s.events {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		kind := "Bewertung"
		if ev.Comparison {
			kind = "Vergleich"
		}
		status := "–"
		if ev.StatusCode > 0 {
			status = fmt.Sprintf("HTTP %d", ev.StatusCode)
		}
		line := fmt.Sprintf("%s%s  %-9s  %-14s  %-8s  %5d ms",
			prefix, ev.Timestamp.Local().Format("02.01.2006 15:04"), kind,
			OutcomeLabel(ev.Outcome), status, ev.LatencyMs)

		style := lipgloss.NewStyle().Foreground(outcomeColor(ev))
		if i == s.selected {
			style = style.Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				renderDetail(ev, min(width-8, 80))))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func renderDetail(ev store.SubmissionEvent, width int) string {
	var lines []string
	if ev.Endpoint != "" {
		lines = append(lines, "Ziel: "+ev.Endpoint)
	}
	lines = append(lines, "Anfrage-ID: "+ev.RequestID)
	if ev.ErrorMessage != "" {
		lines = append(lines, "Fehler: "+ev.ErrorMessage)
	}
	if body := strings.TrimSpace(ev.ResponseBody); body != "" {
		lines = append(lines, "Antwort: "+Snippet(body, snippetLimit))
	}
	return lipgloss.NewStyle().
		Width(width).
		PaddingLeft(4).
		Foreground(theme.TextDim).
		Render(strings.Join(lines, "\n"))
}

// OutcomeLabel is the German display name of a recorded outcome.
func OutcomeLabel(outcome string) string {
	switch outcome {
	case result.Parsed.String():
		return "Bewertet"
	case result.Acknowledged.String():
		return "Bestätigt"
	case submission.OutcomeUnrecognized:
		return "Unbekannt"
	case submission.OutcomeStatusError:
		return "Abgelehnt"
	case submission.OutcomeTransportError:
		return "Nicht erreichbar"
	}
	return "Fehlgeschlagen"
}

// Snippet shortens s to at most n runes on a single line.
func Snippet(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

func outcomeColor(ev store.SubmissionEvent) color.Color {
	switch {
	case ev.Success && ev.Outcome == result.Parsed.String():
		return theme.Success
	case ev.Success:
		return theme.Secondary
	default:
		return theme.Error
	}
}
