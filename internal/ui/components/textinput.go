package components

import (
	"fmt"
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/immowert/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with a label and optional integer
// bounds.
type TextInput struct {
	Model       textinput.Model
	Label       string
	Unit        string
	NumericOnly bool
	Min, Max    int
}

// NewTextInput returns a focused free-text input.
func NewTextInput(label, placeholder string, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	ti.Focus()
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	return TextInput{Model: ti, Label: label}
}

// NewNumberInput returns an input that accepts digits only and reports
// values outside [min, max] as invalid. A max of 0 means unbounded.
func NewNumberInput(label, unit string, min, max int) TextInput {
	t := NewTextInput(label, "", 7)
	t.NumericOnly = true
	t.Unit = unit
	t.Min, t.Max = min, max
	if max > 0 {
		t.Model.Placeholder = fmt.Sprintf("%d–%d", min, max)
	}
	return t
}

// Init starts the cursor blink.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update forwards keys, dropping non-digits in numeric mode.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.NumericOnly {
		if kmsg, ok := msg.(tea.KeyMsg); ok {
			key := kmsg.String()
			if len(key) == 1 && (key[0] < '0' || key[0] > '9') {
				return t, nil
			}
		}
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// Focus gives the input the cursor.
func (t *TextInput) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur removes the cursor.
func (t *TextInput) Blur() {
	t.Model.Blur()
}

// SetValue replaces the content.
func (t *TextInput) SetValue(v string) {
	t.Model.SetValue(v)
}

// Value returns the trimmed content.
func (t TextInput) Value() string {
	return strings.TrimSpace(t.Model.Value())
}

// IntValue parses the content and reports whether it lies within bounds.
func (t TextInput) IntValue() (int, bool) {
	n, err := strconv.Atoi(t.Value())
	if err != nil {
		return 0, false
	}
	if n < t.Min || (t.Max > 0 && n > t.Max) {
		return n, false
	}
	return n, true
}

// View renders label, field and unit on one line, marking out-of-range
// numbers.
func (t TextInput) View() string {
	label := lipgloss.NewStyle().Foreground(theme.TextDim).Render(t.Label)
	if t.Model.Focused() {
		label = theme.Selected.Render(t.Label)
	}
	view := label + "  " + t.Model.View()
	if t.Unit != "" {
		view += " " + theme.Hint.Render(t.Unit)
	}
	if t.NumericOnly && t.Value() != "" {
		if _, ok := t.IntValue(); !ok {
			view += " " + lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
		}
	}
	return view
}
