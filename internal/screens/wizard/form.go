package wizard

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/immowert/internal/answers"
	"github.com/abhisek/immowert/internal/ui/components"
	"github.com/abhisek/immowert/internal/ui/theme"
	wz "github.com/abhisek/immowert/internal/wizard"
)

// control edits one answer field of the current step.
type control interface {
	Field() answers.Field

	// Update handles a key and reports whether the value changed.
	Update(msg tea.Msg) (bool, tea.Cmd)

	Focus() tea.Cmd
	Blur()
	View(focused bool) string

	// Patch returns the answers change for the control's current value.
	Patch() answers.Patch

	Visible(a answers.AnswerSet) bool

	// Picks reports whether enter selects a value instead of moving on.
	Picks() bool
}

// Follow-up fields shown only after a "yes" to their flag.
var followUps = map[answers.Field]answers.Field{
	answers.FieldHasBasement:     answers.FieldBasementType,
	answers.FieldCurrentlyRented: answers.FieldAnnualRent,
}

var shownWhen = map[answers.Field]func(answers.AnswerSet) bool{
	answers.FieldBasementType: func(a answers.AnswerSet) bool { return a.HasBasement != nil && *a.HasBasement },
	answers.FieldAnnualRent:   func(a answers.AnswerSet) bool { return a.CurrentlyRented != nil && *a.CurrentlyRented },
}

var yesNo = []components.Option{
	{Value: "true", Label: "Ja"},
	{Value: "false", Label: "Nein"},
}

// controlsFor builds the inputs of step, prefilled from a.
func controlsFor(step wz.Step, a answers.AnswerSet, office locationHint) []control {
	current := rawAnswers(a)
	var out []control
	for _, f := range step.Fields {
		def := answers.MustLookup(f)
		raw := current[f]

		switch def.Kind {
		case answers.KindChoice:
			out = append(out, newChoiceControl(def, def.Options, raw, parseString))
		case answers.KindInt:
			if step.Kind == wz.KindChoice {
				out = append(out, newChoiceControl(def, countOptions(def), raw, parseInt))
				continue
			}
			lo, hi := def.Min, def.Max
			if r, ok := step.Ranges[f]; ok {
				lo, hi = r.Min, r.Max
			}
			out = append(out, newNumberControl(def, lo, hi, raw))
		case answers.KindBool:
			out = append(out, newChoiceControl(def, toAnswerOptions(yesNo), raw, parseBool))
		case answers.KindText, answers.KindZip:
			out = append(out, newTextControl(def, office.placeholder(f), raw))
		case answers.KindMulti:
			opts := def.Options
			if f == answers.FieldOutdoorFeatures {
				opts = outdoorOptions(def, a)
			}
			out = append(out, newMultiControl(def, opts, raw))
		case answers.KindRenovations:
			out = append(out, newRenovationControl(a.Renovations))
		case answers.KindKitchen, answers.KindEnergy:
			rec := newRecord(def, a)
			out = append(out, &recordFlagControl{rec: rec, choice: components.NewChoice(yesNo, false, rec.flagValue()...)})
			out = append(out, &recordDetailControl{rec: rec, choice: components.NewChoice(toOptions(def.Options), false, rec.detailValue()...)})
		}
	}
	return out
}

func rawAnswers(a answers.AnswerSet) map[answers.Field]json.RawMessage {
	out := map[answers.Field]json.RawMessage{}
	b, err := json.Marshal(a)
	if err != nil {
		return out
	}
	_ = json.Unmarshal(b, &out)
	return out
}

// scalar renders a JSON scalar the way option values are written.
func scalar(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", false
	}
	switch v := v.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	}
	return "", false
}

func toOptions(opts []answers.Option) []components.Option {
	out := make([]components.Option, len(opts))
	for i, o := range opts {
		out[i] = components.Option{Value: o.Value, Label: o.Label}
	}
	return out
}

func toAnswerOptions(opts []components.Option) []answers.Option {
	out := make([]answers.Option, len(opts))
	for i, o := range opts {
		out[i] = answers.Option{Value: o.Value, Label: o.Label}
	}
	return out
}

// countOptions offers Min..Max, the last one meaning "or more".
func countOptions(def answers.Definition) []answers.Option {
	var out []answers.Option
	for n := def.Min; n <= def.Max; n++ {
		label := strconv.Itoa(n)
		if n == def.Max {
			label += " oder mehr"
		}
		out = append(out, answers.Option{Value: strconv.Itoa(n), Label: label})
	}
	return out
}

func outdoorOptions(def answers.Definition, a answers.AnswerSet) []answers.Option {
	var out []answers.Option
	for _, v := range wz.OutdoorOptions(a) {
		out = append(out, answers.Option{Value: v, Label: def.LabelFor(v)})
	}
	return out
}

func parseString(s string) any { return s }

func parseInt(s string) any {
	n, _ := strconv.Atoi(s)
	return n
}

func parseBool(s string) any { return s == "true" }

func labelView(label string, focused bool) string {
	if focused {
		return theme.Selected.Render(label)
	}
	return lipgloss.NewStyle().Foreground(theme.TextDim).Render(label)
}

func visibleFor(f answers.Field, a answers.AnswerSet) bool {
	if fn, ok := shownWhen[f]; ok {
		return fn(a)
	}
	return true
}

// choiceControl picks one option, converting it to the field's type.
type choiceControl struct {
	def     answers.Definition
	choice  components.Choice
	convert func(string) any
}

func newChoiceControl(def answers.Definition, opts []answers.Option, raw json.RawMessage, convert func(string) any) *choiceControl {
	var selected []string
	if v, ok := scalar(raw); ok {
		selected = append(selected, v)
	}
	return &choiceControl{def: def, choice: components.NewChoice(toOptions(opts), false, selected...), convert: convert}
}

func (c *choiceControl) Field() answers.Field { return c.def.Field }

func (c *choiceControl) Update(msg tea.Msg) (bool, tea.Cmd) {
	before := strings.Join(c.choice.Selected(), ",")
	var cmd tea.Cmd
	c.choice, cmd = c.choice.Update(msg)
	return before != strings.Join(c.choice.Selected(), ","), cmd
}

func (c *choiceControl) Focus() tea.Cmd { return nil }
func (c *choiceControl) Blur()          {}
func (c *choiceControl) Picks() bool    { return true }

func (c *choiceControl) Visible(a answers.AnswerSet) bool { return visibleFor(c.def.Field, a) }

func (c *choiceControl) Patch() answers.Patch {
	sel := c.choice.Selected()
	if len(sel) == 0 {
		return nil
	}
	v := c.convert(sel[0])
	p := answers.NewPatch().Set(c.def.Field, v)
	if dep, ok := followUps[c.def.Field]; ok && v == false {
		p.Clear(dep)
	}
	return p
}

func (c *choiceControl) View(focused bool) string {
	return labelView(c.def.Label, focused) + "\n" + c.choice.View()
}

// multiControl toggles any number of options.
type multiControl struct {
	def    answers.Definition
	choice components.Choice
}

func newMultiControl(def answers.Definition, opts []answers.Option, raw json.RawMessage) *multiControl {
	var selected []string
	_ = json.Unmarshal(raw, &selected)
	return &multiControl{def: def, choice: components.NewChoice(toOptions(opts), true, selected...)}
}

func (c *multiControl) Field() answers.Field { return c.def.Field }

func (c *multiControl) Update(msg tea.Msg) (bool, tea.Cmd) {
	before := strings.Join(c.choice.Selected(), ",")
	var cmd tea.Cmd
	c.choice, cmd = c.choice.Update(msg)
	return before != strings.Join(c.choice.Selected(), ","), cmd
}

func (c *multiControl) Focus() tea.Cmd { return nil }
func (c *multiControl) Blur()          {}
func (c *multiControl) Picks() bool    { return false }

func (c *multiControl) Visible(answers.AnswerSet) bool { return true }

func (c *multiControl) Patch() answers.Patch {
	return answers.NewPatch().Set(c.def.Field, c.choice.Selected())
}

func (c *multiControl) View(focused bool) string {
	return labelView(c.def.Label, focused) + "\n" + c.choice.View()
}

// numberControl takes an integer within the step's range. Out-of-range
// input clears the answer so the step stays blocked.
type numberControl struct {
	def   answers.Definition
	input components.TextInput
}

func newNumberControl(def answers.Definition, lo, hi int, raw json.RawMessage) *numberControl {
	in := components.NewNumberInput(def.Label, "", lo, hi)
	if v, ok := scalar(raw); ok {
		in.SetValue(v)
	}
	in.Blur()
	return &numberControl{def: def, input: in}
}

func (c *numberControl) Field() answers.Field { return c.def.Field }

func (c *numberControl) Update(msg tea.Msg) (bool, tea.Cmd) {
	before := c.input.Value()
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return before != c.input.Value(), cmd
}

func (c *numberControl) Focus() tea.Cmd { return c.input.Focus() }
func (c *numberControl) Blur()          { c.input.Blur() }
func (c *numberControl) Picks() bool    { return false }

func (c *numberControl) Visible(a answers.AnswerSet) bool { return visibleFor(c.def.Field, a) }

func (c *numberControl) Patch() answers.Patch {
	if n, ok := c.input.IntValue(); ok {
		return answers.NewPatch().Set(c.def.Field, n)
	}
	return answers.NewPatch().Clear(c.def.Field)
}

func (c *numberControl) View(bool) string {
	return c.input.View()
}

// textControl takes free text. Zip codes are only stored once complete.
type textControl struct {
	def   answers.Definition
	input components.TextInput
}

func newTextControl(def answers.Definition, placeholder string, raw json.RawMessage) *textControl {
	limit := 200
	if def.Kind == answers.KindZip {
		limit = 5
	}
	in := components.NewTextInput(def.Label, placeholder, limit)
	if v, ok := scalar(raw); ok {
		in.SetValue(v)
	}
	in.Blur()
	if def.Kind == answers.KindZip {
		in.NumericOnly = true
	}
	return &textControl{def: def, input: in}
}

func (c *textControl) Field() answers.Field { return c.def.Field }

func (c *textControl) Update(msg tea.Msg) (bool, tea.Cmd) {
	before := c.input.Value()
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return before != c.input.Value(), cmd
}

func (c *textControl) Focus() tea.Cmd { return c.input.Focus() }
func (c *textControl) Blur()          { c.input.Blur() }
func (c *textControl) Picks() bool    { return false }

func (c *textControl) Visible(answers.AnswerSet) bool { return true }

func (c *textControl) Patch() answers.Patch {
	v := c.input.Value()
	complete := v != ""
	if c.def.Kind == answers.KindZip {
		complete = len(v) == 5
	}
	if !complete {
		return answers.NewPatch().Clear(c.def.Field)
	}
	return answers.NewPatch().Set(c.def.Field, v)
}

func (c *textControl) View(bool) string {
	return c.input.View()
}

// record is the shared state of a flag-plus-detail sub-record such as the
// kitchen or the energy certificate.
type record struct {
	def    answers.Definition
	flag   *bool
	detail *string
}

func newRecord(def answers.Definition, a answers.AnswerSet) *record {
	r := &record{def: def}
	switch def.Kind {
	case answers.KindKitchen:
		if k := a.KitchenDetails; k != nil {
			r.flag, r.detail = answers.Ptr(k.Included), k.Condition
		}
	case answers.KindEnergy:
		if e := a.EnergyCertificate; e != nil {
			r.flag, r.detail = answers.Ptr(e.Available), e.Class
		}
	}
	return r
}

func (r *record) flagValue() []string {
	if r.flag == nil {
		return nil
	}
	return []string{strconv.FormatBool(*r.flag)}
}

func (r *record) detailValue() []string {
	if r.detail == nil {
		return nil
	}
	return []string{*r.detail}
}

func (r *record) patch() answers.Patch {
	if r.flag == nil {
		return nil
	}
	detail := r.detail
	if !*r.flag {
		detail = nil
	}
	var v any
	switch r.def.Kind {
	case answers.KindKitchen:
		v = answers.Kitchen{Included: *r.flag, Condition: detail}
	default:
		v = answers.EnergyCertificate{Available: *r.flag, Class: detail}
	}
	return answers.NewPatch().Set(r.def.Field, v)
}

type recordFlagControl struct {
	rec    *record
	choice components.Choice
}

func (c *recordFlagControl) Field() answers.Field { return c.rec.def.Field }

func (c *recordFlagControl) Update(msg tea.Msg) (bool, tea.Cmd) {
	before := strings.Join(c.choice.Selected(), ",")
	var cmd tea.Cmd
	c.choice, cmd = c.choice.Update(msg)
	sel := c.choice.Selected()
	if len(sel) > 0 {
		c.rec.flag = answers.Ptr(sel[0] == "true")
	}
	return before != strings.Join(sel, ","), cmd
}

func (c *recordFlagControl) Focus() tea.Cmd { return nil }
func (c *recordFlagControl) Blur()          {}
func (c *recordFlagControl) Picks() bool    { return true }

func (c *recordFlagControl) Visible(answers.AnswerSet) bool { return true }
func (c *recordFlagControl) Patch() answers.Patch           { return c.rec.patch() }

func (c *recordFlagControl) View(focused bool) string {
	return labelView(c.rec.def.Label, focused) + "\n" + c.choice.View()
}

type recordDetailControl struct {
	rec    *record
	choice components.Choice
}

func (c *recordDetailControl) Field() answers.Field { return c.rec.def.Field }

func (c *recordDetailControl) Update(msg tea.Msg) (bool, tea.Cmd) {
	before := strings.Join(c.choice.Selected(), ",")
	var cmd tea.Cmd
	c.choice, cmd = c.choice.Update(msg)
	sel := c.choice.Selected()
	if len(sel) > 0 {
		c.rec.detail = answers.Ptr(sel[0])
	}
	return before != strings.Join(sel, ","), cmd
}

func (c *recordDetailControl) Focus() tea.Cmd { return nil }
func (c *recordDetailControl) Blur()          {}
func (c *recordDetailControl) Picks() bool    { return true }

func (c *recordDetailControl) Visible(answers.AnswerSet) bool {
	return c.rec.flag != nil && *c.rec.flag
}

func (c *recordDetailControl) Patch() answers.Patch { return c.rec.patch() }

func (c *recordDetailControl) View(focused bool) string {
	label := "Zustand"
	if c.rec.def.Kind == answers.KindEnergy {
		label = "Energieeffizienzklasse"
	}
	return labelView(label, focused) + "\n" + c.choice.View()
}

// renovationControl is a table of building areas. Space marks an area as
// renovated, p and e cycle its period and extent.
type renovationControl struct {
	items  map[string]answers.Renovation
	cursor int
}

func newRenovationControl(current map[string]answers.Renovation) *renovationControl {
	items := make(map[string]answers.Renovation, len(current))
	for k, v := range current {
		items[k] = v
	}
	return &renovationControl{items: items}
}

func (c *renovationControl) Field() answers.Field { return answers.FieldRenovations }

func (c *renovationControl) Update(msg tea.Msg) (bool, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return false, nil
	}
	area := answers.RenovationAreas[c.cursor].Value
	item, done := c.items[area]

	switch kmsg.String() {
	case "up", "k":
		if c.cursor > 0 {
			c.cursor--
		}
	case "down", "j":
		if c.cursor < len(answers.RenovationAreas)-1 {
			c.cursor++
		}
	case "space", " ":
		if done {
			delete(c.items, area)
		} else {
			c.items[area] = answers.Renovation{Done: true}
		}
		return true, nil
	case "p":
		if done {
			item.Period = cycle(answers.RenovationPeriods, item.Period)
			c.items[area] = item
			return true, nil
		}
	case "e":
		if done {
			item.Extent = cycle(answers.RenovationExtents, item.Extent)
			c.items[area] = item
			return true, nil
		}
	}
	return false, nil
}

// cycle steps through opts and back to unset.
func cycle(opts []answers.Option, cur *string) *string {
	if cur == nil {
		return answers.Ptr(opts[0].Value)
	}
	for i, o := range opts {
		if o.Value == *cur && i+1 < len(opts) {
			return answers.Ptr(opts[i+1].Value)
		}
	}
	return nil
}

func (c *renovationControl) Focus() tea.Cmd { return nil }
func (c *renovationControl) Blur()          {}
func (c *renovationControl) Picks() bool    { return false }

func (c *renovationControl) Visible(answers.AnswerSet) bool { return true }

func (c *renovationControl) Patch() answers.Patch {
	if len(c.items) == 0 {
		return answers.NewPatch().Clear(answers.FieldRenovations)
	}
	items := make(map[string]answers.Renovation, len(c.items))
	for k, v := range c.items {
		items[k] = v
	}
	return answers.NewPatch().Set(answers.FieldRenovations, items)
}

func (c *renovationControl) View(focused bool) string {
	optLabel := func(opts []answers.Option, v *string) string {
		if v == nil {
			return "–"
		}
		for _, o := range opts {
			if o.Value == *v {
				return o.Label
			}
		}
		return *v
	}

	var b strings.Builder
	for i, area := range answers.RenovationAreas {
		item, done := c.items[area.Value]
		mark := "[ ]"
		detail := ""
		if done {
			mark = "[x]"
			detail = fmt.Sprintf("  %s · %s",
				optLabel(answers.RenovationPeriods, item.Period),
				optLabel(answers.RenovationExtents, item.Extent))
		}
		prefix := "  "
		if focused && i == c.cursor {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s %-10s%s", prefix, mark, area.Label, detail)
		switch {
		case focused && i == c.cursor:
			b.WriteString(theme.Selected.Render(line))
		case done:
			b.WriteString(theme.Body.Render(line))
		default:
			b.WriteString(theme.Unselected.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString(theme.Hint.Render("Leertaste: modernisiert  p: Zeitraum  e: Umfang"))
	return b.String()
}

// locationHint prefills placeholders with the agent's office address.
type locationHint struct {
	Zip, City, Street string
}

func (h locationHint) placeholder(f answers.Field) string {
	switch f {
	case answers.FieldZipCode:
		return h.Zip
	case answers.FieldCity:
		return h.City
	case answers.FieldStreet:
		return h.Street
	}
	return ""
}
