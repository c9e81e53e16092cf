// Package app is the root Bubble Tea model wiring the screens together.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/immowert/internal/result"
	"github.com/abhisek/immowert/internal/router"
	"github.com/abhisek/immowert/internal/screen"
	"github.com/abhisek/immowert/internal/screens/compare"
	"github.com/abhisek/immowert/internal/screens/history"
	"github.com/abhisek/immowert/internal/screens/home"
	"github.com/abhisek/immowert/internal/screens/results"
	"github.com/abhisek/immowert/internal/screens/welcome"
	wizardscreen "github.com/abhisek/immowert/internal/screens/wizard"
	"github.com/abhisek/immowert/internal/store"
	"github.com/abhisek/immowert/internal/tenant"
	"github.com/abhisek/immowert/internal/ui/components"
	"github.com/abhisek/immowert/internal/ui/layout"
	"github.com/abhisek/immowert/internal/ui/theme"
	"github.com/abhisek/immowert/internal/wizard"
)

// Options configures the application.
type Options struct {
	Session *wizard.Session
	Tenant  tenant.Config

	// Notices must be the notifier the session was built with.
	Notices *NoticeQueue

	// Submissions backs the history screen. Nil disables it.
	Submissions store.SubmissionRepo
	SessionID   string

	// SkipWelcome opens the home screen directly.
	SkipWelcome bool

	Logger *slog.Logger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	brand   layout.Brand
	notices *NoticeQueue
	toast   *components.Toast
	logger  *slog.Logger
	width   int
	height  int
}

// screens builds the screens of one program run. The factories refer to
// each other, so they live on one value.
type screens struct {
	opts Options
}

func (s screens) home() screen.Screen {
	opts := home.Options{
		Session: s.opts.Session,
		Tenant:  s.opts.Tenant,
		Wizard:  s.wizard,
		Results: s.results,
	}
	if s.opts.Submissions != nil {
		opts.History = s.history
	}
	return home.New(opts)
}

func (s screens) wizard() screen.Screen {
	return wizardscreen.New(wizardscreen.Options{
		Session: s.opts.Session,
		Tenant:  s.opts.Tenant,
		Done:    s.results,
	})
}

func (s screens) results() screen.Screen {
	rec := s.opts.Session.Sequencer().Result()
	if rec == nil {
		return s.home()
	}
	return results.New(results.Options{
		Record:  *rec,
		Tenant:  s.opts.Tenant,
		Edit:    s.edit,
		Compare: s.compare,
	})
}

func (s screens) comparison(rec result.Record) screen.Screen {
	return results.New(results.Options{
		Record:  rec,
		Tenant:  s.opts.Tenant,
		Heading: "Vergleichsbewertung",
	})
}

func (s screens) history() screen.Screen {
	return history.New(s.opts.Submissions, s.opts.SessionID)
}

// edit reopens the questionnaire in place of the report.
func (s screens) edit() tea.Cmd {
	if err := s.opts.Session.Edit(context.Background()); err != nil {
		s.opts.Logger.Warn("failed to reopen answers", "err", err)
		return nil
	}
	next := s.wizard()
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (s screens) compare() tea.Cmd {
	next := compare.New(compare.Options{
		Session: s.opts.Session,
		Results: s.comparison,
	})
	return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}

// NewAppModel creates the model. The welcome screen leads to the home menu.
func NewAppModel(opts Options) AppModel {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Notices == nil {
		opts.Notices = NewNoticeQueue()
	}
	theme.Apply(opts.Tenant.Farbe)

	sc := screens{opts: opts}
	var initial screen.Screen
	if opts.SkipWelcome {
		initial = sc.home()
	} else {
		initial = welcome.New(opts.Tenant, sc.home)
	}

	return AppModel{
		router:  router.New(initial),
		brand:   layout.Brand{Name: opts.Tenant.MaklerName, Contact: opts.Tenant.Telefon},
		notices: opts.Notices,
		toast:   &components.Toast{},
		logger:  opts.Logger,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case components.ToastExpiredMsg:
		m.toast.Handle(msg)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, tea.Batch(cmd, m.drainNotices())
}

// drainNotices shows the newest queued notice.
func (m AppModel) drainNotices() tea.Cmd {
	pending := m.notices.Drain()
	if len(pending) == 0 {
		return nil
	}
	for _, n := range pending {
		if n.Err != nil {
			m.logger.Debug("notice", "title", n.Title, "err", n.Err)
		}
	}
	last := pending[len(pending)-1]
	return m.toast.Show(last.Title, last.Message)
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(m.brand, title, m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	toast := m.toast.View(m.width)
	if toast != "" {
		contentHeight = max(contentHeight-lipgloss.Height(toast), 0)
	}
	content := m.router.View(m.width, contentHeight)
	if toast != "" {
		content = lipgloss.NewStyle().Height(contentHeight).Render(content) + "\n" + toast
	}

	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if p, ok := active.(screen.KeyHintProvider); ok {
		return append(p.KeyHints(), layout.KeyHint{Key: "Ctrl+C", Description: "Beenden"})
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Zurück"},
			{Key: "Ctrl+C", Description: "Beenden"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Auswahl"},
		{Key: "Enter", Description: "Öffnen"},
		{Key: "Ctrl+C", Description: "Beenden"},
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(NewAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Fehler beim Ausführen:", err)
		return err
	}
	return nil
}
