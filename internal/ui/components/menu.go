package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/immowert/internal/ui/theme"
)

// MenuItem is one entry of a Menu.
type MenuItem struct {
	Label    string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list of actions.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu returns a menu with the first enabled item selected.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items}
	for i, item := range items {
		if !item.Disabled {
			m.Selected = i
			break
		}
	}
	return m
}

func (m Menu) step(delta int) Menu {
	for i := m.Selected + delta; i >= 0 && i < len(m.Items); i += delta {
		if !m.Items[i].Disabled {
			m.Selected = i
			break
		}
	}
	return m
}

// Update moves the selection and runs the selected action on enter.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		return m.step(-1), nil
	case "down", "j":
		return m.step(1), nil
	case "enter":
		if m.Selected >= 0 && m.Selected < len(m.Items) {
			item := m.Items[m.Selected]
			if item.Action != nil && !item.Disabled {
				return m, item.Action()
			}
		}
	}
	return m, nil
}

// View renders one item per line.
func (m Menu) View() string {
	var b strings.Builder
	for i, item := range m.Items {
		switch {
		case item.Disabled:
			b.WriteString(theme.Hint.Render("    " + item.Label))
		case i == m.Selected:
			b.WriteString(theme.Selected.Render("  ▸ " + item.Label))
		default:
			b.WriteString(theme.Unselected.Render("    " + item.Label))
		}
		b.WriteString("\n")
	}
	return b.String()
}
