// Package queue schedules quiz questions with spaced re-injection of misses.
package queue

import (
	"errors"
	"fmt"

	"github.com/verte-zerg/asake/internal/generator"
	"github.com/verte-zerg/asake/internal/model"
)

// DefaultInterval is the number of answers between re-injections.
const DefaultInterval = 5

// ErrSessionNotActive indicates use of a queue that was never initialized or is exhausted.
var ErrSessionNotActive = errors.New("session not active")

// ErrOutcomeNotExpected indicates an outcome for a question that is not awaiting one.
var ErrOutcomeNotExpected = errors.New("outcome not expected for question")

// Queue holds pending questions and the missed backlog.
type Queue struct {
	interval int
	shuffler generator.Shuffler

	pending  []model.Question
	backlog  []model.Question
	answered int

	active      bool
	outstanding *model.Question
}

// New returns an inactive queue. Call Initialize before Next.
func New(interval int, shuffler generator.Shuffler) (*Queue, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("spaced interval must be > 0, got %d", interval)
	}
	if shuffler == nil {
		shuffler = generator.New()
	}
	return &Queue{interval: interval, shuffler: shuffler}, nil
}

// Initialize loads a shuffled copy of questions and resets all counters.
func (q *Queue) Initialize(questions []model.Question) {
	q.pending = generator.ShuffledCopy(q.shuffler, questions)
	q.backlog = nil
	q.answered = 0
	q.outstanding = nil
	q.active = true
}

// Next pops the front of the pending sequence. ok is false once nothing is pending,
// after which the queue stays inactive until re-initialized.
func (q *Queue) Next() (model.Question, bool, error) {
	if !q.active {
		return model.Question{}, false, ErrSessionNotActive
	}
	if q.outstanding != nil {
		return model.Question{}, false, fmt.Errorf("question %d: %w", q.outstanding.ID, ErrOutcomeNotExpected)
	}
	if len(q.pending) == 0 {
		q.active = false
		return model.Question{}, false, nil
	}
	next := q.pending[0]
	q.pending = q.pending[1:]
	q.outstanding = &next
	return next, true, nil
}

// RecordOutcome registers the result for the question last returned by Next.
// Every interval-th answer moves the oldest miss to position 1 of pending.
func (q *Queue) RecordOutcome(question model.Question, correct bool) error {
	if !q.active {
		return ErrSessionNotActive
	}
	if q.outstanding == nil || q.outstanding.ID != question.ID {
		return fmt.Errorf("question %d: %w", question.ID, ErrOutcomeNotExpected)
	}
	q.outstanding = nil
	q.answered++
	if !correct {
		q.backlog = append(q.backlog, question)
	}
	if q.answered%q.interval == 0 && len(q.backlog) > 0 {
		reinject := q.backlog[0]
		q.backlog = q.backlog[1:]
		q.insertPending(min(1, len(q.pending)), reinject)
	}
	return nil
}

func (q *Queue) insertPending(pos int, question model.Question) {
	q.pending = append(q.pending, model.Question{})
	copy(q.pending[pos+1:], q.pending[pos:])
	q.pending[pos] = question
}

// Pending returns a copy of the pending sequence, front first.
func (q *Queue) Pending() []model.Question {
	return append([]model.Question(nil), q.pending...)
}

// Backlog returns a copy of the missed backlog, oldest first.
func (q *Queue) Backlog() []model.Question {
	return append([]model.Question(nil), q.backlog...)
}

// Answered returns the number of recorded outcomes.
func (q *Queue) Answered() int {
	return q.answered
}

// Interval returns the re-injection cadence.
func (q *Queue) Interval() int {
	return q.interval
}

// Active reports whether Next may be called.
func (q *Queue) Active() bool {
	return q.active
}
