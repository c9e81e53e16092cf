// Package home is the main menu shown after the welcome screen.
package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/immowert/internal/answers"
	"github.com/abhisek/immowert/internal/result"
	"github.com/abhisek/immowert/internal/router"
	"github.com/abhisek/immowert/internal/screen"
	"github.com/abhisek/immowert/internal/tenant"
	"github.com/abhisek/immowert/internal/ui/components"
	"github.com/abhisek/immowert/internal/wizard"
)

const (
	itemWizard = iota
	itemResults
	itemHistory
	itemReset
	itemQuit
)

// Options configures the home screen. Nil factories disable their entry.
type Options struct {
	Session *wizard.Session
	Tenant  tenant.Config

	Wizard  func() screen.Screen
	Results func() screen.Screen
	History func() screen.Screen
}

// HomeScreen is the main menu of the application.
type HomeScreen struct {
	opts   Options
	menu   components.Menu
	notice string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.Resumer = (*HomeScreen)(nil)

// New creates a HomeScreen.
func New(opts Options) *HomeScreen {
	h := &HomeScreen{opts: opts}
	h.refresh()
	return h
}

// refresh rebuilds the menu from the session state, keeping the selection
// when the selected entry is still enabled.
func (h *HomeScreen) refresh() {
	seq := h.opts.Session.Sequencer()
	done := seq.Phase() == wizard.PhaseDone
	started := done || h.opts.Session.Answers().Answered(answers.FieldPropertyType)

	startLabel := "Bewertung starten"
	switch {
	case done:
		startLabel = "Angaben bearbeiten"
	case started:
		startLabel = "Bewertung fortsetzen"
	}

	items := []components.MenuItem{
		itemWizard:  {Label: startLabel, Action: h.openWizard, Disabled: h.opts.Wizard == nil},
		itemResults: {Label: "Ergebnis ansehen", Action: h.push(h.opts.Results), Disabled: !done || h.opts.Results == nil},
		itemHistory: {Label: "Verlauf", Action: h.push(h.opts.History), Disabled: h.opts.History == nil},
		itemReset:   {Label: "Angaben zurücksetzen", Action: h.reset, Disabled: !started},
		itemQuit:    {Label: "Beenden", Action: func() tea.Cmd { return tea.Quit }},
	}

	selected := h.menu.Selected
	h.menu = components.NewMenu(items)
	if selected < len(items) && !items[selected].Disabled {
		h.menu.Selected = selected
	}
}

func (h *HomeScreen) push(factory func() screen.Screen) func() tea.Cmd {
	return func() tea.Cmd {
		if factory == nil {
			return nil
		}
		next := factory()
		return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
	}
}

func (h *HomeScreen) openWizard() tea.Cmd {
	if h.opts.Session.Sequencer().Phase() == wizard.PhaseDone {
		if err := h.opts.Session.Edit(context.Background()); err != nil {
			h.notice = "Die Angaben konnten nicht geöffnet werden."
			return nil
		}
	}
	return h.push(h.opts.Wizard)()
}

func (h *HomeScreen) reset() tea.Cmd {
	if err := h.opts.Session.Reset(context.Background()); err != nil {
		h.notice = "Die Angaben konnten nicht gelöscht werden."
		return nil
	}
	h.notice = "Alle Angaben wurden gelöscht."
	return nil
}

func (h *HomeScreen) Init() tea.Cmd {
	h.refresh()
	return nil
}

// Resume picks up session changes made by the screens opened from here.
func (h *HomeScreen) Resume() tea.Cmd {
	h.notice = ""
	h.refresh()
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok {
		h.notice = ""
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	h.refresh()
	return h, cmd
}

func (h *HomeScreen) status() (string, bool) {
	seq := h.opts.Session.Sequencer()
	switch {
	case seq.Phase() == wizard.PhaseDone && seq.Result() != nil:
		return "Ihre Bewertung: " + result.EUR(seq.Result().EstimatedValue), true
	case seq.Phase() == wizard.PhaseSubmitting:
		return "Bewertung wird erstellt …", false
	case h.opts.Session.Answers().Answered(answers.FieldPropertyType):
		return fmt.Sprintf("Schritt %d von %d beantwortet", seq.Position()+1, seq.Len()), false
	}
	return "In wenigen Minuten zum Marktwert Ihrer Immobilie", false
}

func (h *HomeScreen) View(width, height int) string {
	cw := contentWidth(width)
	compact := height < 28

	labels := make([]string, len(h.menu.Items))
	disabled := make(map[int]bool)
	for i, item := range h.menu.Items {
		labels[i] = item.Label
		disabled[i] = item.Disabled
	}

	text, done := h.status()
	sections := []string{
		renderTitle(h.opts.Tenant.MaklerName, cw),
		renderStatus(text, done, cw),
	}
	if compact {
		sections = append(sections, renderMenuCompact(labels, h.menu.Selected, disabled, cw))
	} else {
		sections = append(sections, renderMenu(labels, h.menu.Selected, disabled, cw))
	}
	if h.notice != "" {
		sections = append(sections, h.notice)
	}

	return renderFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Start"
}
