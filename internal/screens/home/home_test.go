package home

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/immowert/internal/answers"
	"github.com/abhisek/immowert/internal/formstate"
	"github.com/abhisek/immowert/internal/result"
	"github.com/abhisek/immowert/internal/router"
	"github.com/abhisek/immowert/internal/screen"
	"github.com/abhisek/immowert/internal/submission"
	"github.com/abhisek/immowert/internal/tenant"
	"github.com/abhisek/immowert/internal/wizard"
)

type stubScreen struct{ title string }

func (s stubScreen) Init() tea.Cmd                           { return nil }
func (s stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s stubScreen) View(int, int) string                    { return s.title }
func (s stubScreen) Title() string                           { return s.title }

type stubGateway struct{}

func (stubGateway) Submit(context.Context, submission.Request) (*submission.Reply, error) {
	return &submission.Reply{Record: result.Fallback(), Outcome: result.Acknowledged}, nil
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func newSession() (*wizard.Session, *formstate.Store) {
	st := formstate.New(formstate.NewMemoryPersistence())
	return wizard.NewSession(wizard.Options{Store: st, Gateway: stubGateway{}}), st
}

func newHome(s *wizard.Session) *HomeScreen {
	h := New(Options{
		Session: s,
		Tenant:  tenant.Default(),
		Wizard:  func() screen.Screen { return stubScreen{title: "wizard"} },
		Results: func() screen.Screen { return stubScreen{title: "results"} },
		History: func() screen.Screen { return stubScreen{title: "history"} },
	})
	h.Init()
	return h
}

func labels(h *HomeScreen) []string {
	out := make([]string, len(h.menu.Items))
	for i, item := range h.menu.Items {
		out[i] = item.Label
	}
	return out
}

func pushed(t *testing.T, cmd tea.Cmd) string {
	t.Helper()
	require.NotNil(t, cmd)
	msg, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	return msg.Screen.Title()
}

func TestFreshSessionMenu(t *testing.T) {
	s, _ := newSession()
	h := newHome(s)

	assert.Equal(t, []string{
		"Bewertung starten", "Ergebnis ansehen", "Verlauf", "Angaben zurücksetzen", "Beenden",
	}, labels(h))
	assert.True(t, h.menu.Items[itemResults].Disabled)
	assert.True(t, h.menu.Items[itemReset].Disabled)
	assert.Contains(t, h.View(100, 40), tenant.Default().MaklerName)

	_, cmd := h.Update(specialKey(tea.KeyEnter))
	assert.Equal(t, "wizard", pushed(t, cmd))
}

func TestStartedSessionOffersContinue(t *testing.T) {
	s, _ := newSession()
	require.NoError(t, s.Update(context.Background(),
		answers.NewPatch().Set(answers.FieldPropertyType, answers.House)))
	h := newHome(s)

	assert.Equal(t, "Bewertung fortsetzen", h.menu.Items[itemWizard].Label)
	assert.False(t, h.menu.Items[itemReset].Disabled)
	assert.Contains(t, h.View(100, 40), "Schritt 1 von")
}

func TestFinishedSessionShowsResult(t *testing.T) {
	s, st := newSession()
	require.NoError(t, st.SaveResult(context.Background(), result.Fallback()))
	_, err := s.Resume(context.Background())
	require.NoError(t, err)

	h := newHome(s)
	assert.Equal(t, "Angaben bearbeiten", h.menu.Items[itemWizard].Label)
	assert.False(t, h.menu.Items[itemResults].Disabled)
	assert.Contains(t, h.View(100, 40), "Ihre Bewertung: "+result.EUR(result.Fallback().EstimatedValue))

	h.Update(specialKey(tea.KeyDown))
	_, cmd := h.Update(specialKey(tea.KeyEnter))
	assert.Equal(t, "results", pushed(t, cmd))

	h.Update(specialKey(tea.KeyUp))
	_, cmd = h.Update(specialKey(tea.KeyEnter))
	assert.Equal(t, "wizard", pushed(t, cmd))
	assert.Equal(t, wizard.PhaseAtStep, s.Sequencer().Phase(), "editing leaves the report")
}

func TestResetClearsAnswers(t *testing.T) {
	s, _ := newSession()
	require.NoError(t, s.Update(context.Background(),
		answers.NewPatch().Set(answers.FieldPropertyType, answers.Apartment)))
	h := newHome(s)

	h.menu.Selected = itemReset
	h.Update(specialKey(tea.KeyEnter))

	assert.False(t, s.Answers().Answered(answers.FieldPropertyType))
	assert.Equal(t, "Bewertung starten", h.menu.Items[itemWizard].Label)
	assert.Equal(t, itemWizard, h.menu.Selected)
	assert.Contains(t, h.View(100, 40), "Alle Angaben wurden gelöscht.")
}

func TestResumeFollowsSession(t *testing.T) {
	s, _ := newSession()
	h := newHome(s)
	require.Equal(t, "Bewertung starten", h.menu.Items[itemWizard].Label)

	require.NoError(t, s.Update(context.Background(),
		answers.NewPatch().Set(answers.FieldPropertyType, answers.House)))
	h.Resume()
	assert.Equal(t, "Bewertung fortsetzen", h.menu.Items[itemWizard].Label)
}

func TestQuit(t *testing.T) {
	s, _ := newSession()
	h := newHome(s)
	h.menu.Selected = itemQuit

	_, cmd := h.Update(specialKey(tea.KeyEnter))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
