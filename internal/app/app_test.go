package app

import (
	"context"
	"errors"
	"sync"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/immowert/internal/answers"
	"github.com/abhisek/immowert/internal/formstate"
	"github.com/abhisek/immowert/internal/result"
	"github.com/abhisek/immowert/internal/submission"
	"github.com/abhisek/immowert/internal/tenant"
	"github.com/abhisek/immowert/internal/wizard"
)

type failingGateway struct{}

func (failingGateway) Submit(context.Context, submission.Request) (*submission.Reply, error) {
	return nil, errors.New("connection refused")
}

func newModel(t *testing.T) (AppModel, *wizard.Session, *NoticeQueue) {
	t.Helper()
	notices := NewNoticeQueue()
	session := wizard.NewSession(wizard.Options{
		Store:    formstate.New(formstate.NewMemoryPersistence()),
		Gateway:  failingGateway{},
		Notifier: notices,
	})
	m := NewAppModel(Options{
		Session:     session,
		Tenant:      tenant.Default(),
		Notices:     notices,
		SkipWelcome: true,
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(AppModel), session, notices
}

func TestNoticeQueueIsSafeForConcurrentUse(t *testing.T) {
	q := NewNoticeQueue()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.Notify(wizard.Notice{Title: "t"})
		}()
	}
	wg.Wait()

	assert.Len(t, q.Drain(), 20)
	assert.Empty(t, q.Drain())
}

func TestSkipWelcomeOpensHome(t *testing.T) {
	m, _, _ := newModel(t)
	assert.Equal(t, "Start", m.router.Active().Title())

	view := m.render()
	assert.Contains(t, view, tenant.Default().MaklerName)
	assert.Contains(t, view, "Bewertung starten")
}

func TestCtrlCQuits(t *testing.T) {
	m, _, _ := newModel(t)
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestNoticeBecomesToast(t *testing.T) {
	m, _, notices := newModel(t)
	notices.Notify(wizard.Notice{Title: wizard.FailureTitle, Message: wizard.FailureMessage})

	next, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	m = next.(AppModel)
	require.NotNil(t, cmd)
	assert.True(t, m.toast.Visible())
	assert.Contains(t, m.render(), "Es gab einen Fehler")
}

func TestCompareFailureNotifies(t *testing.T) {
	m, session, notices := newModel(t)
	session.Sequencer().Restore(result.Fallback())

	p := answers.NewPatch().
		Set(answers.FieldZipCode, "50667").
		Set(answers.FieldCity, "Köln")
	_, err := session.Compare(context.Background(), p)
	require.Error(t, err)

	next, _ := m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	m = next.(AppModel)
	assert.Empty(t, notices.Drain())
	assert.Equal(t, wizard.FailureTitle, m.toast.Title)
}
