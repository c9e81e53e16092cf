package api

import (
	"github.com/abhisek/immowert/internal/answers"
	"github.com/abhisek/immowert/internal/result"
	"github.com/abhisek/immowert/internal/wizard"
)

type stepView struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Subtitle string          `json:"subtitle,omitempty"`
	Kind     wizard.Kind     `json:"kind"`
	Fields   []answers.Field `json:"fields"`
	Required []answers.Field `json:"required"`
}

type stateView struct {
	ID         string            `json:"id"`
	Phase      string            `json:"phase"`
	Position   int               `json:"position"`
	Steps      []stepView        `json:"steps"`
	Current    *stepView         `json:"current,omitempty"`
	CanProceed bool              `json:"canProceed"`
	IsLast     bool              `json:"isLast"`
	Answers    answers.AnswerSet `json:"answers"`
	Error      string            `json:"error,omitempty"`
	Result     *result.Record    `json:"result,omitempty"`
	Missing    []answers.Field   `json:"missing,omitempty"`
}

type createResponse struct {
	ID string `json:"id"`
}

type nextResponse struct {
	Submitted bool      `json:"submitted"`
	State     stateView `json:"state"`
}

func newStepView(st wizard.Step, makler string) stepView {
	return stepView{
		ID:       st.ID,
		Title:    st.TitleFor(makler),
		Subtitle: st.SubtitleFor(makler),
		Kind:     st.Kind,
		Fields:   st.Fields,
		Required: wizard.RequiredFields(st.ID),
	}
}

func newStateView(id string, s *wizard.Session, makler string) stateView {
	seq := s.Sequencer()
	a := s.Answers()

	v := stateView{
		ID:         id,
		Phase:      seq.Phase().String(),
		Position:   seq.Position(),
		CanProceed: s.CanProceed(),
		IsLast:     seq.IsLast(),
		Answers:    a,
		Result:     seq.Result(),
	}
	for _, st := range seq.Steps() {
		v.Steps = append(v.Steps, newStepView(st, makler))
	}
	if cur, ok := seq.Current(); ok && seq.Phase() == wizard.PhaseAtStep {
		sv := newStepView(cur, makler)
		v.Current = &sv
		v.Missing = wizard.Missing(cur.ID, a)
	}
	if err := seq.Err(); err != nil {
		v.Error = err.Error()
	}
	return v
}
