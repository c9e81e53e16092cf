package router

import (
	"github.com/abhisek/immowert/internal/screen"

	tea "charm.land/bubbletea/v2"
)

// PushScreenMsg opens a screen on top of the current one.
type PushScreenMsg struct {
	Screen screen.Screen
}

// PopScreenMsg closes the current screen.
type PopScreenMsg struct{}

// ReplaceScreenMsg swaps the current screen for another at the same depth.
type ReplaceScreenMsg struct {
	Screen screen.Screen
}

// ResetScreenMsg drops every screen and starts over from Screen.
type ResetScreenMsg struct {
	Screen screen.Screen
}

// Router keeps the stack of open screens. Only the top one receives
// messages.
type Router struct {
	stack []screen.Screen
}

// New returns a Router showing initial.
func New(initial screen.Screen) *Router {
	return &Router{stack: []screen.Screen{initial}}
}

// Push opens s and runs its Init.
func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

// Pop closes the top screen and resumes the one below. The last screen
// is never popped.
func (r *Router) Pop() tea.Cmd {
	if len(r.stack) <= 1 {
		return nil
	}
	r.stack = r.stack[:len(r.stack)-1]
	if rs, ok := r.Active().(screen.Resumer); ok {
		return rs.Resume()
	}
	return nil
}

// Replace swaps the top screen for s and runs its Init.
func (r *Router) Replace(s screen.Screen) tea.Cmd {
	if len(r.stack) == 0 {
		return r.Push(s)
	}
	r.stack[len(r.stack)-1] = s
	return s.Init()
}

// Reset leaves s as the only screen.
func (r *Router) Reset(s screen.Screen) tea.Cmd {
	r.stack = []screen.Screen{s}
	return s.Init()
}

// Active returns the top screen.
func (r *Router) Active() screen.Screen {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1]
}

// Depth returns the number of open screens.
func (r *Router) Depth() int {
	return len(r.stack)
}

// Update applies navigation messages and forwards everything else to the
// active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case PopScreenMsg:
		return r.Pop()
	case ReplaceScreenMsg:
		return r.Replace(msg.Screen)
	case ResetScreenMsg:
		return r.Reset(msg.Screen)
	}

	active := r.Active()
	if active == nil {
		return nil
	}
	updated, cmd := active.Update(msg)
	r.stack[len(r.stack)-1] = updated
	return cmd
}

// View renders the active screen into the given area.
func (r *Router) View(width, height int) string {
	active := r.Active()
	if active == nil {
		return ""
	}
	return active.View(width, height)
}
