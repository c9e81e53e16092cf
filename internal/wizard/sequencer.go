package wizard

import (
	"errors"
	"fmt"

	"github.com/abhisek/immowert/internal/answers"
	"github.com/abhisek/immowert/internal/result"
)

// Phase is the sequencer's lifecycle state.
type Phase int

const (
	PhaseAtStep Phase = iota
	PhaseSubmitting
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseAtStep:
		return "at_step"
	case PhaseSubmitting:
		return "submitting"
	case PhaseDone:
		return "done"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Advance tells the caller what a successful Next did.
type Advance int

const (
	// AdvanceStep moved to the following step.
	AdvanceStep Advance = iota + 1
	// AdvanceSubmit left the last step; the caller must submit.
	AdvanceSubmit
)

var (
	// ErrBlocked means the current step's required answers are missing.
	ErrBlocked = errors.New("required answers missing")
	// ErrSubmitting means a submission is already in flight.
	ErrSubmitting = errors.New("submission in progress")
	// ErrFirstStep means back was requested on the first step.
	ErrFirstStep = errors.New("already at the first step")
	// ErrNotAtStep means navigation was requested outside the question phase.
	ErrNotAtStep = errors.New("not answering questions")
	// ErrNotSubmitting means a submission outcome arrived with none in flight.
	ErrNotSubmitting = errors.New("no submission in flight")
	// ErrNotDone means edit was requested before a result exists.
	ErrNotDone = errors.New("no result to edit")
)

// Sequencer tracks the position within the applicable steps and the
// submission lifecycle. It is not safe for concurrent use.
type Sequencer struct {
	catalog []Step
	steps   []Step
	pos     int
	phase   Phase
	result  *result.Record
	lastErr error
}

// NewSequencer starts at the first applicable step for a.
func NewSequencer(catalog []Step, a answers.AnswerSet) *Sequencer {
	s := &Sequencer{catalog: catalog}
	s.Recompute(a)
	return s
}

// Recompute refilters the catalog against a and clamps the position into
// the new list. The position is not otherwise moved.
func (s *Sequencer) Recompute(a answers.AnswerSet) {
	s.steps = Applicable(s.catalog, a)
	if s.pos >= len(s.steps) {
		s.pos = len(s.steps) - 1
	}
	if s.pos < 0 {
		s.pos = 0
	}
}

// Steps returns the current applicable step list.
func (s *Sequencer) Steps() []Step {
	return append([]Step(nil), s.steps...)
}

// Len returns the number of applicable steps.
func (s *Sequencer) Len() int { return len(s.steps) }

// Position returns the 0-based index of the current step.
func (s *Sequencer) Position() int { return s.pos }

// Phase returns the lifecycle state.
func (s *Sequencer) Phase() Phase { return s.phase }

// Current returns the step at the current position.
func (s *Sequencer) Current() (Step, bool) {
	if len(s.steps) == 0 {
		return Step{}, false
	}
	return s.steps[s.pos], true
}

// IsLast reports whether the current step is the final applicable one.
func (s *Sequencer) IsLast() bool {
	return s.pos == len(s.steps)-1
}

// CanProceed reports whether Next would be accepted for a.
func (s *Sequencer) CanProceed(a answers.AnswerSet) bool {
	if s.phase != PhaseAtStep {
		return false
	}
	cur, ok := s.Current()
	return ok && CanProceed(cur.ID, a)
}

// Err returns the error of the last failed submission, if any.
func (s *Sequencer) Err() error { return s.lastErr }

// Result returns the report once the sequencer is done.
func (s *Sequencer) Result() *result.Record { return s.result }

// Next advances past the current step if its answers are complete. On
// the last step it enters the submitting phase and returns AdvanceSubmit.
func (s *Sequencer) Next(a answers.AnswerSet) (Advance, error) {
	switch s.phase {
	case PhaseSubmitting:
		return 0, ErrSubmitting
	case PhaseDone:
		return 0, ErrNotAtStep
	}

	cur, ok := s.Current()
	if !ok || !CanProceed(cur.ID, a) {
		return 0, ErrBlocked
	}

	s.lastErr = nil
	if s.pos+1 < len(s.steps) {
		s.pos++
		return AdvanceStep, nil
	}
	s.phase = PhaseSubmitting
	return AdvanceSubmit, nil
}

// Back moves to the previous step.
func (s *Sequencer) Back() error {
	if s.phase != PhaseAtStep {
		return ErrNotAtStep
	}
	if s.pos == 0 {
		return ErrFirstStep
	}
	s.pos--
	s.lastErr = nil
	return nil
}

// Succeed records the submission's report and finishes.
func (s *Sequencer) Succeed(rec result.Record) error {
	if s.phase != PhaseSubmitting {
		return ErrNotSubmitting
	}
	s.phase = PhaseDone
	s.result = &rec
	return nil
}

// Fail returns to the last step with err kept for display.
func (s *Sequencer) Fail(err error) error {
	if s.phase != PhaseSubmitting {
		return ErrNotSubmitting
	}
	s.phase = PhaseAtStep
	s.pos = len(s.steps) - 1
	if s.pos < 0 {
		s.pos = 0
	}
	s.lastErr = err
	return nil
}

// Edit leaves the done phase and reopens the first step.
func (s *Sequencer) Edit() error {
	if s.phase != PhaseDone {
		return ErrNotDone
	}
	s.phase = PhaseAtStep
	s.pos = 0
	s.result = nil
	return nil
}

// Restore jumps straight to done with a report persisted earlier.
func (s *Sequencer) Restore(rec result.Record) {
	s.phase = PhaseDone
	s.result = &rec
	s.lastErr = nil
}
