package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/immowert/internal/ui/theme"
)

// Option is a selectable value with its display label.
type Option struct {
	Value string
	Label string
}

// Choice lists options for a single or multiple selection. Single mode
// selects on enter or a number key; multi mode toggles with space.
type Choice struct {
	Options []Option
	Multi   bool
	Cursor  int
	chosen  map[string]bool
}

// NewChoice returns a choice preselecting the given values.
func NewChoice(options []Option, multi bool, selected ...string) Choice {
	c := Choice{Options: options, Multi: multi, chosen: make(map[string]bool)}
	for _, v := range selected {
		c.chosen[v] = true
	}
	for i, o := range options {
		if c.chosen[o.Value] {
			c.Cursor = i
			break
		}
	}
	return c
}

// ChoiceMadeMsg reports a single-mode selection.
type ChoiceMadeMsg struct {
	Value string
}

// Update handles navigation and selection keys.
func (c Choice) Update(msg tea.Msg) (Choice, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(c.Options) == 0 {
		return c, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
		return c, nil
	case "down", "j":
		if c.Cursor < len(c.Options)-1 {
			c.Cursor++
		}
		return c, nil
	case "space", " ":
		if c.Multi {
			c.toggle(c.Options[c.Cursor].Value)
		}
		return c, nil
	case "enter":
		if !c.Multi {
			return c.pick(c.Cursor)
		}
		return c, nil
	}

	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		i := int(key[0] - '1')
		if i < len(c.Options) {
			c.Cursor = i
			if c.Multi {
				c.toggle(c.Options[i].Value)
				return c, nil
			}
			return c.pick(i)
		}
	}
	return c, nil
}

func (c *Choice) toggle(v string) {
	if c.chosen[v] {
		delete(c.chosen, v)
	} else {
		c.chosen[v] = true
	}
}

func (c Choice) pick(i int) (Choice, tea.Cmd) {
	v := c.Options[i].Value
	c.chosen = map[string]bool{v: true}
	return c, func() tea.Msg { return ChoiceMadeMsg{Value: v} }
}

// Selected returns the chosen values in option order.
func (c Choice) Selected() []string {
	out := []string{}
	for _, o := range c.Options {
		if c.chosen[o.Value] {
			out = append(out, o.Value)
		}
	}
	return out
}

// IsChosen reports whether v is selected.
func (c Choice) IsChosen(v string) bool {
	return c.chosen[v]
}

// View renders the options with their number keys.
func (c Choice) View() string {
	var b strings.Builder
	for i, o := range c.Options {
		mark := "( )"
		if c.Multi {
			mark = "[ ]"
		}
		if c.chosen[o.Value] {
			mark = "(•)"
			if c.Multi {
				mark = "[x]"
			}
		}
		prefix := "  "
		if i == c.Cursor {
			prefix = "▸ "
		}

		num := " "
		if i < 9 {
			num = fmt.Sprint(i + 1)
		}
		line := fmt.Sprintf("%s%s %s  %s", prefix, num, mark, o.Label)

		switch {
		case i == c.Cursor:
			b.WriteString(theme.Selected.Render(line))
		case c.chosen[o.Value]:
			b.WriteString(theme.Body.Bold(true).Render(line))
		default:
			b.WriteString(theme.Unselected.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
