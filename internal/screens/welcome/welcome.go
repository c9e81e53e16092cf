// Package welcome is the splash screen greeting the visitor on behalf of
// the agent.
package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/immowert/internal/router"
	"github.com/abhisek/immowert/internal/screen"
	"github.com/abhisek/immowert/internal/tenant"
	"github.com/abhisek/immowert/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	phase1End    = 500 * time.Millisecond
	phase2End    = 1500 * time.Millisecond
	totalDur     = 3000 * time.Millisecond
)

const houseArt = `      ╱╲
     ╱  ╲____
    ╱ ▫▫ ╲  ║
   ╱______╲ ║
   │ ▢  ▢ │ ║
   │  ▯   │_║
   ╰──────╯`

// twinkle frames light the window
var twinkleFrames = []string{"▢", "▣"}

type tickMsg time.Time

// WelcomeScreen shows a short greeting before transitioning to the home screen.
type WelcomeScreen struct {
	tenant       tenant.Config
	homeFactory  func() screen.Screen
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that will transition to the screen produced by homeFactory.
func New(t tenant.Config, homeFactory func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{
		tenant:      t,
		homeFactory: homeFactory,
	}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		w.tickCount++
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	home := w.homeFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: home}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	house := lipgloss.NewStyle().Foreground(theme.Primary).Render(houseArt)
	// Phase 2+: the window twinkles
	if w.elapsed >= phase1End {
		frame := twinkleFrames[w.tickCount%len(twinkleFrames)]
		lit := lipgloss.NewStyle().Foreground(theme.Accent).Render(frame)
		house = strings.Replace(house, "▢", lit, 1)
	}
	sections = append(sections, house, "")

	if w.elapsed >= phase1End {
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render(w.tenant.Anrede))
	}

	// Phase 3+: banner and agent
	if w.elapsed >= phase2End {
		sections = append(sections, "", RenderBanner(width), "")
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			Render(w.tenant.MaklerName))
		if office := w.tenant.Office(); office != "" {
			sections = append(sections, theme.Subtitle.Render(office))
		}
		sections = append(sections, "", lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("Beliebige Taste drücken"))
	}

	content := strings.Join(sections, "\n")

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
