// Package store owns the canonical in-memory question collection and
// its flat-file persistence. All mutations (activation toggles, new
// questions, recorded results) go through the Store and trigger a
// full-snapshot write; callers never mutate a borrowed question and
// expect it to stick.
package store

import (
	"fmt"
	"os"

	"github.com/quizdrill/quizdrill/internal/question"
)

// Store is the in-memory question collection with persistence hooks.
// It is not safe for concurrent use; the app is single-user and
// single-threaded by design.
type Store struct {
	path      string
	questions []*question.Question
}

// Open loads the question collection from the default data location.
func Open() (*Store, error) {
	path, err := QuestionsPath()
	if err != nil {
		return nil, fmt.Errorf("resolve questions path: %w", err)
	}
	return OpenPath(path), nil
}

// OpenPath loads the question collection from an explicit file path.
// Records lacking an "active" field load as active.
func OpenPath(path string) *Store {
	records := LoadRecords(path)
	questions := make([]*question.Question, 0, len(records))
	for _, rec := range records {
		questions = append(questions, question.FromRecord(rec))
	}
	return &Store{path: path, questions: questions}
}

// ListAll returns every question, active or not, in load order.
func (s *Store) ListAll() []*question.Question {
	out := make([]*question.Question, len(s.questions))
	copy(out, s.questions)
	return out
}

// ListActive returns only the questions eligible for selection.
func (s *Store) ListActive() []*question.Question {
	var out []*question.Question
	for _, q := range s.questions {
		if q.Active {
			out = append(out, q)
		}
	}
	return out
}

// FindByID returns the question with the given id, or nil.
func (s *Store) FindByID(id int) *question.Question {
	for _, q := range s.questions {
		if q.ID == id {
			return q
		}
	}
	return nil
}

// ToggleActive sets the active flag on a question and persists the
// store. Returns false when no question has that id. Detecting
// same-value no-ops is the caller's job.
func (s *Store) ToggleActive(id int, active bool) bool {
	q := s.FindByID(id)
	if q == nil {
		return false
	}
	q.Active = active
	s.persist()
	return true
}

// AddQuestions assigns fresh consecutive ids starting at the current
// max+1, appends the questions, and persists. A batch of k questions
// gets k consecutive ids in input order.
func (s *Store) AddQuestions(newQuestions []*question.Question) {
	next := NextID(s.records())
	for _, q := range newQuestions {
		q.ID = next
		next++
		s.questions = append(s.questions, q)
	}
	s.persist()
}

// RecordResult updates a question's statistics after an answer and
// persists. TimesShown always increments, plus exactly one of the
// correct/incorrect counters. This is the only mutation path for
// statistics.
func (s *Store) RecordResult(q *question.Question, correct bool) {
	q.TimesShown++
	if correct {
		q.CorrectCount++
	} else {
		q.IncorrectCount++
	}
	s.persist()
}

// ResetCounters zeroes every question's usage counters and persists.
func (s *Store) ResetCounters() {
	for _, q := range s.questions {
		q.TimesShown = 0
		q.CorrectCount = 0
		q.IncorrectCount = 0
	}
	s.persist()
}

func (s *Store) records() []map[string]any {
	records := make([]map[string]any, len(s.questions))
	for i, q := range s.questions {
		records[i] = q.Record()
	}
	return records
}

func (s *Store) persist() {
	if err := SaveRecords(s.path, s.records()); err != nil {
		// Persistence failures are reported, not fatal; the in-memory
		// state stays authoritative until the next successful write.
		fmt.Fprintf(os.Stderr, "warning: failed to save questions: %v\n", err)
	}
}
