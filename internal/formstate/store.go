// Package formstate owns the Answer Set of one questionnaire session and
// writes every change through to durable storage.
package formstate

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/abhisek/immowert/internal/answers"
	"github.com/abhisek/immowert/internal/result"
)

// Slot keys.
const (
	AnswersKey = "answers"
	ResultKey  = "result"
)

// Store is the single writer of a session's Answer Set.
type Store struct {
	mu        sync.Mutex
	persist   Persistence
	answers   answers.AnswerSet
	listeners []func(answers.AnswerSet)
}

// New creates a store with a blank Answer Set.
func New(p Persistence) *Store {
	return &Store{persist: p}
}

// Answers returns a copy of the current Answer Set.
func (s *Store) Answers() answers.AnswerSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answers.Clone()
}

// OnChange registers fn to run after every successful Update or Load.
func (s *Store) OnChange(fn func(answers.AnswerSet)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Update merges p into the Answer Set, persists the full result and
// notifies listeners. An empty patch leaves the answers unchanged but is
// still persisted. On error nothing changes.
func (s *Store) Update(ctx context.Context, p answers.Patch) error {
	s.mu.Lock()
	next, err := s.answers.Merge(p)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if err := s.save(ctx, AnswersKey, next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.answers = next
	listeners := s.listeners
	s.mu.Unlock()

	s.notify(listeners, next)
	return nil
}

// Load restores a previously persisted Answer Set. ok is false when the
// slot is empty, in which case the current answers are kept.
func (s *Store) Load(ctx context.Context) (answers.AnswerSet, bool, error) {
	raw, ok, err := s.persist.Load(ctx, AnswersKey)
	if err != nil {
		return answers.AnswerSet{}, false, fmt.Errorf("load answers: %w", err)
	}
	if !ok {
		return s.Answers(), false, nil
	}

	var a answers.AnswerSet
	if err := json.Unmarshal(raw, &a); err != nil {
		return answers.AnswerSet{}, false, fmt.Errorf("decode answers: %w", err)
	}

	s.mu.Lock()
	s.answers = a
	listeners := s.listeners
	s.mu.Unlock()

	s.notify(listeners, a)
	return a.Clone(), true, nil
}

// SaveResult persists the report produced by the last submission.
func (s *Store) SaveResult(ctx context.Context, rec result.Record) error {
	return s.save(ctx, ResultKey, rec)
}

// LoadResult returns the persisted report, or nil if there is none.
func (s *Store) LoadResult(ctx context.Context) (*result.Record, error) {
	raw, ok, err := s.persist.Load(ctx, ResultKey)
	if err != nil {
		return nil, fmt.Errorf("load result: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var rec result.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return &rec, nil
}

// ClearResult drops the persisted report. Answers are kept.
func (s *Store) ClearResult(ctx context.Context) error {
	if err := s.persist.Delete(ctx, ResultKey); err != nil {
		return fmt.Errorf("clear result: %w", err)
	}
	return nil
}

// Reset drops both slots and blanks the in-memory answers.
func (s *Store) Reset(ctx context.Context) error {
	for _, key := range []string{AnswersKey, ResultKey} {
		if err := s.persist.Delete(ctx, key); err != nil {
			return fmt.Errorf("delete %s: %w", key, err)
		}
	}

	s.mu.Lock()
	s.answers = answers.AnswerSet{}
	listeners := s.listeners
	s.mu.Unlock()

	s.notify(listeners, answers.AnswerSet{})
	return nil
}

func (s *Store) save(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.persist.Save(ctx, key, b); err != nil {
		return fmt.Errorf("persist %s: %w", key, err)
	}
	return nil
}

func (s *Store) notify(listeners []func(answers.AnswerSet), a answers.AnswerSet) {
	for _, fn := range listeners {
		fn(a.Clone())
	}
}
