// Package wizard is the questionnaire screen: one page per applicable
// step, then the submission spinner.
package wizard

import (
	"context"
	"errors"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/immowert/internal/answers"
	"github.com/abhisek/immowert/internal/router"
	"github.com/abhisek/immowert/internal/screen"
	"github.com/abhisek/immowert/internal/tenant"
	"github.com/abhisek/immowert/internal/ui/components"
	"github.com/abhisek/immowert/internal/ui/layout"
	"github.com/abhisek/immowert/internal/ui/theme"
	wz "github.com/abhisek/immowert/internal/wizard"
)

// Options configures the screen.
type Options struct {
	Session *wz.Session
	Tenant  tenant.Config

	// Done builds the screen that replaces the wizard once a result is in.
	Done func() screen.Screen
}

// WizardScreen implements screen.Screen for the questionnaire.
type WizardScreen struct {
	session *wz.Session
	tenant  tenant.Config
	done    func() screen.Screen

	stepID   string
	controls []control
	focus    int
	spinner  spinner.Model
	errMsg   string
}

var _ screen.Screen = (*WizardScreen)(nil)
var _ screen.KeyHintProvider = (*WizardScreen)(nil)

// New creates the screen at the session's current step.
func New(opts Options) *WizardScreen {
	s := &WizardScreen{
		session: opts.Session,
		tenant:  opts.Tenant,
		done:    opts.Done,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Primary)),
		),
	}
	s.sync()
	return s
}

func (s *WizardScreen) Init() tea.Cmd {
	if s.session.Sequencer().Phase() == wz.PhaseSubmitting {
		return tea.Batch(s.spinner.Tick, s.deliver())
	}
	return s.focusCmd()
}

func (s *WizardScreen) Title() string {
	return "Immobilienbewertung"
}

func (s *WizardScreen) KeyHints() []layout.KeyHint {
	if s.session.Sequencer().Phase() == wz.PhaseSubmitting {
		return nil
	}
	hints := []layout.KeyHint{{Key: "Enter", Description: "Weiter"}}
	if len(s.visible()) > 1 {
		hints = append(hints, layout.KeyHint{Key: "Tab", Description: "Nächstes Feld"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Zurück"})
}

func (s *WizardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case submitDoneMsg:
		return s.handleSubmitDone(msg)

	case spinner.TickMsg:
		if s.session.Sequencer().Phase() != wz.PhaseSubmitting {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case components.ChoiceMadeMsg:
		return s.complete()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if c := s.focused(); c != nil {
		_, cmd := c.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *WizardScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.session.Sequencer().Phase() != wz.PhaseAtStep {
		return s, nil
	}

	switch msg.String() {
	case "esc":
		return s.back()
	case "tab":
		return s, s.moveFocus(1)
	case "shift+tab":
		return s, s.moveFocus(-1)
	case "enter":
		if c := s.focused(); c == nil || !c.Picks() {
			return s.complete()
		}
	}

	c := s.focused()
	if c == nil {
		return s, nil
	}
	changed, cmd := c.Update(msg)
	if changed {
		s.commit(c.Patch())
	}
	return s, cmd
}

// commit writes p to the answers and refreshes the visible inputs.
func (s *WizardScreen) commit(p answers.Patch) {
	if len(p) == 0 {
		return
	}
	s.errMsg = ""
	if err := s.session.Update(context.Background(), p); err != nil {
		s.errMsg = err.Error()
		return
	}
	if n := len(s.visible()); s.focus >= n {
		s.focus = max(n-1, 0)
	}
}

// complete finishes the focused input: the next visible input gets the
// focus, or the step is left when there is none.
func (s *WizardScreen) complete() (screen.Screen, tea.Cmd) {
	if s.focus < len(s.visible())-1 {
		return s, s.moveFocus(1)
	}
	return s.advance()
}

func (s *WizardScreen) advance() (screen.Screen, tea.Cmd) {
	adv, err := s.session.Advance()
	if err != nil {
		s.errMsg = s.blockedMessage(err)
		return s, nil
	}
	s.errMsg = ""
	if adv == wz.AdvanceSubmit {
		return s, tea.Batch(s.spinner.Tick, s.deliver())
	}
	s.sync()
	return s, s.focusCmd()
}

func (s *WizardScreen) back() (screen.Screen, tea.Cmd) {
	if err := s.session.Back(); err != nil {
		if errors.Is(err, wz.ErrFirstStep) {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		s.errMsg = err.Error()
		return s, nil
	}
	s.errMsg = ""
	s.sync()
	return s, s.focusCmd()
}

// deliver posts the answers off the update loop.
func (s *WizardScreen) deliver() tea.Cmd {
	session := s.session
	return func() tea.Msg {
		reply, err := session.Deliver(context.Background())
		return submitDoneMsg{Reply: reply, Err: err}
	}
}

func (s *WizardScreen) handleSubmitDone(msg submitDoneMsg) (screen.Screen, tea.Cmd) {
	if err := s.session.Complete(context.Background(), msg.Reply, msg.Err); err != nil {
		s.sync()
		return s, s.focusCmd()
	}
	if s.done == nil {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	next := s.done()
	return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (s *WizardScreen) blockedMessage(err error) string {
	if !errors.Is(err, wz.ErrBlocked) {
		return err.Error()
	}
	step, ok := s.session.Sequencer().Current()
	if !ok {
		return err.Error()
	}
	var labels []string
	for _, f := range wz.Missing(step.ID, s.session.Answers()) {
		labels = append(labels, answers.MustLookup(f).Label)
	}
	if len(labels) == 0 {
		return "Bitte beantworten Sie die Frage, um fortzufahren."
	}
	return "Bitte ausfüllen: " + strings.Join(labels, ", ")
}

// sync rebuilds the inputs when the current step changed.
func (s *WizardScreen) sync() {
	step, ok := s.session.Sequencer().Current()
	if !ok {
		return
	}
	if step.ID == s.stepID && s.controls != nil {
		return
	}
	hint := locationHint{Zip: s.tenant.BueroPLZ, City: s.tenant.BueroStadt, Street: s.tenant.BueroStrasse}
	s.stepID = step.ID
	s.controls = controlsFor(step, s.session.Answers(), hint)
	s.focus = 0
}

func (s *WizardScreen) visible() []control {
	a := s.session.Answers()
	out := make([]control, 0, len(s.controls))
	for _, c := range s.controls {
		if c.Visible(a) {
			out = append(out, c)
		}
	}
	return out
}

func (s *WizardScreen) focused() control {
	vis := s.visible()
	if s.focus < len(vis) {
		return vis[s.focus]
	}
	return nil
}

func (s *WizardScreen) moveFocus(delta int) tea.Cmd {
	vis := s.visible()
	if len(vis) == 0 {
		return nil
	}
	if c := s.focused(); c != nil {
		c.Blur()
	}
	s.focus = (s.focus + delta + len(vis)) % len(vis)
	return s.focusCmd()
}

func (s *WizardScreen) focusCmd() tea.Cmd {
	for _, c := range s.controls {
		c.Blur()
	}
	if c := s.focused(); c != nil {
		return c.Focus()
	}
	return nil
}
