package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/abhisek/immowert/internal/answers"
	"github.com/abhisek/immowert/internal/formstate"
	"github.com/abhisek/immowert/internal/result"
	"github.com/abhisek/immowert/internal/submission"
)

// Notice is a transient, user-visible message.
type Notice struct {
	Title   string
	Message string
	Err     error
}

// Notifier shows notices to the user.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// Failure notice shown when a submission cannot be completed.
const (
	FailureTitle   = "Fehler"
	FailureMessage = "Es gab einen Fehler bei der Verarbeitung. Bitte versuchen Sie es erneut."
)

// ErrComparisonLocation means a comparison lacks zip code or city.
var ErrComparisonLocation = errors.New("comparison needs zip code and city")

// Options configures a Session.
type Options struct {
	Store    *formstate.Store
	Gateway  submission.Gateway
	Notifier Notifier
	Logger   *slog.Logger

	// Catalog defaults to DefaultCatalog().
	Catalog []Step
}

// Session drives one questionnaire from first step to report. Apart from
// Deliver, its methods must be called from a single goroutine.
type Session struct {
	store    *formstate.Store
	seq      *Sequencer
	catalog  []Step
	gateway  submission.Gateway
	notifier Notifier
	logger   *slog.Logger
}

// NewSession wires the store to a fresh sequencer so every answer change
// recomputes the applicable steps.
func NewSession(opts Options) *Session {
	catalog := opts.Catalog
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = NotifierFunc(func(Notice) {})
	}

	s := &Session{
		store:    opts.Store,
		catalog:  catalog,
		seq:      NewSequencer(catalog, opts.Store.Answers()),
		gateway:  opts.Gateway,
		notifier: notifier,
		logger:   logger,
	}
	opts.Store.OnChange(func(a answers.AnswerSet) { s.seq.Recompute(a) })
	return s
}

// Resume restores persisted answers and, when present, the last report.
// It reports whether any answers were found.
func (s *Session) Resume(ctx context.Context) (bool, error) {
	_, ok, err := s.store.Load(ctx)
	if err != nil {
		return false, err
	}
	rec, err := s.store.LoadResult(ctx)
	if err != nil {
		return ok, err
	}
	if rec != nil {
		s.seq.Restore(*rec)
	}
	return ok, nil
}

// Sequencer exposes the navigation state for rendering.
func (s *Session) Sequencer() *Sequencer { return s.seq }

// Answers returns a copy of the current answers.
func (s *Session) Answers() answers.AnswerSet { return s.store.Answers() }

// CanProceed reports whether the current step may be left forward.
func (s *Session) CanProceed() bool {
	return s.seq.CanProceed(s.store.Answers())
}

// Update applies p to the answers.
func (s *Session) Update(ctx context.Context, p answers.Patch) error {
	if s.seq.Phase() != PhaseAtStep {
		return ErrNotAtStep
	}
	return s.store.Update(ctx, p)
}

// Advance moves forward one step. AdvanceSubmit means the caller must
// now run Deliver and pass its outcome to Complete.
func (s *Session) Advance() (Advance, error) {
	return s.seq.Next(s.store.Answers())
}

// Back moves to the previous step.
func (s *Session) Back() error {
	return s.seq.Back()
}

// Deliver sends the current answers to the webhook. It only reads state
// and may run on another goroutine while the caller waits.
func (s *Session) Deliver(ctx context.Context) (*submission.Reply, error) {
	return s.gateway.Submit(ctx, submission.Request{Answers: s.store.Answers()})
}

// Complete applies a submission outcome. Failures return to the last
// step and notify the user; the answers are untouched either way.
func (s *Session) Complete(ctx context.Context, reply *submission.Reply, err error) error {
	if err == nil && reply == nil {
		err = errors.New("empty submission reply")
	}
	if err != nil {
		if failErr := s.seq.Fail(err); failErr != nil {
			return failErr
		}
		s.logger.Warn("submission failed", "err", err)
		s.notifier.Notify(Notice{Title: FailureTitle, Message: FailureMessage, Err: err})
		return err
	}

	if err := s.seq.Succeed(reply.Record); err != nil {
		return err
	}
	s.logger.Info("submission completed", "outcome", reply.Outcome.String())
	if err := s.store.SaveResult(ctx, reply.Record); err != nil {
		s.logger.Warn("failed to persist result", "err", err)
	}
	return nil
}

// Next advances and, on the last step, submits synchronously.
func (s *Session) Next(ctx context.Context) (Advance, error) {
	adv, err := s.Advance()
	if err != nil || adv != AdvanceSubmit {
		return adv, err
	}
	reply, err := s.Deliver(ctx)
	return adv, s.Complete(ctx, reply, err)
}

// Edit leaves the report and reopens the first step with all answers.
func (s *Session) Edit(ctx context.Context) error {
	if err := s.seq.Edit(); err != nil {
		return err
	}
	if err := s.store.ClearResult(ctx); err != nil {
		return err
	}
	s.seq.Recompute(s.store.Answers())
	return nil
}

// Reset forgets all answers and any report.
func (s *Session) Reset(ctx context.Context) error {
	if err := s.store.Reset(ctx); err != nil {
		return err
	}
	s.seq = NewSequencer(s.catalog, answers.AnswerSet{})
	return nil
}

// Compare values a second property against the finished one. The
// comparison starts from the base property's type, living area,
// condition and year built, then applies p. Zip code and city must be
// provided by p. The session's own report is not replaced.
func (s *Session) Compare(ctx context.Context, p answers.Patch) (result.Record, error) {
	if s.seq.Phase() != PhaseDone {
		return result.Record{}, ErrNotDone
	}

	base := s.store.Answers()
	cmp := ComparisonBase(base)
	cmp, err := cmp.Merge(p)
	if err != nil {
		return result.Record{}, err
	}
	if cmp.ZipCode == nil || cmp.City == nil {
		return result.Record{}, ErrComparisonLocation
	}
	if !cmp.Is(answers.House) {
		cmp.PlotArea = nil
	}

	reply, err := s.gateway.Submit(ctx, submission.Request{Answers: cmp, Original: &base})
	if err != nil {
		s.logger.Warn("comparison failed", "err", err)
		s.notifier.Notify(Notice{Title: FailureTitle, Message: FailureMessage, Err: err})
		return result.Record{}, fmt.Errorf("compare: %w", err)
	}
	return reply.Record, nil
}

// ComparisonBase returns the fields a comparison inherits from base.
func ComparisonBase(base answers.AnswerSet) answers.AnswerSet {
	return answers.AnswerSet{
		PropertyType:     base.PropertyType,
		LivingArea:       base.LivingArea,
		ConditionGeneral: base.ConditionGeneral,
		YearBuilt:        base.YearBuilt,
	}.Clone()
}
