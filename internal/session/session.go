// Package session runs a single quiz from start to a final score.
package session

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/asake/internal/evaluator"
	"github.com/verte-zerg/asake/internal/generator"
	"github.com/verte-zerg/asake/internal/model"
	"github.com/verte-zerg/asake/internal/queue"
)

// State is the lifecycle stage of a session.
type State int

const (
	NotStarted State = iota
	InProgress
	Completed
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case InProgress:
		return "in progress"
	case Completed:
		return "completed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	// ErrEmptyUsername is returned by Start for a blank username.
	ErrEmptyUsername = errors.New("username is empty")
	// ErrNoQuestions is returned by Start for an empty question set.
	ErrNoQuestions = errors.New("no questions")
	// ErrSessionNotActive aliases the queue error so callers can match either.
	ErrSessionNotActive = queue.ErrSessionNotActive
	// ErrOutcomeNotExpected aliases the queue error for mismatched submissions.
	ErrOutcomeNotExpected = queue.ErrOutcomeNotExpected
)

// Recorder receives finished session results.
type Recorder interface {
	Record(ctx context.Context, result model.SessionResult) error
}

// Config tunes scheduling and scoring.
type Config struct {
	SpacedInterval int
	Shuffler       generator.Shuffler
	Now            func() time.Time
}

// Outcome is the response to a submitted answer.
type Outcome struct {
	Correct     bool
	Explanation string
	Next        *model.Question
	Result      *model.SessionResult
}

// Session orchestrates one quiz run. It is not safe for concurrent use.
type Session struct {
	cfg      Config
	recorder Recorder
	queue    *queue.Queue

	id       string
	state    State
	username string
	total    int
	correct  int
	credited map[int]struct{}
	current  *model.Question
	result   *model.SessionResult
}

// New builds a session in the NotStarted state. recorder may be nil.
func New(cfg Config, recorder Recorder) (*Session, error) {
	if cfg.SpacedInterval == 0 {
		cfg.SpacedInterval = queue.DefaultInterval
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	q, err := queue.New(cfg.SpacedInterval, cfg.Shuffler)
	if err != nil {
		return nil, err
	}
	return &Session{
		cfg:      cfg,
		recorder: recorder,
		queue:    q,
		id:       uuid.NewString(),
	}, nil
}

// Start validates input, shuffles questions and returns the first one.
func (s *Session) Start(_ context.Context, username string, questions []model.Question) (model.Question, error) {
	if s.state != NotStarted {
		return model.Question{}, fmt.Errorf("start in state %s: %w", s.state, ErrSessionNotActive)
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return model.Question{}, ErrEmptyUsername
	}
	if len(questions) == 0 {
		return model.Question{}, ErrNoQuestions
	}
	s.username = username
	s.total = len(questions)
	s.correct = 0
	s.credited = map[int]struct{}{}
	s.queue.Initialize(questions)

	first, ok, err := s.queue.Next()
	if err != nil {
		return model.Question{}, err
	}
	if !ok {
		return model.Question{}, ErrNoQuestions
	}
	s.state = InProgress
	s.current = &first
	return first, nil
}

// Submit judges an answer to the current question and advances the queue.
// On the final answer the session completes and the result goes to the recorder;
// a recorder error is returned alongside the outcome, and Result stays available.
func (s *Session) Submit(ctx context.Context, questionID int, answer evaluator.Answer) (Outcome, error) {
	if s.state != InProgress {
		return Outcome{}, fmt.Errorf("submit in state %s: %w", s.state, ErrSessionNotActive)
	}
	q := *s.current
	if q.ID != questionID {
		return Outcome{}, fmt.Errorf("current question is %d, got %d: %w", q.ID, questionID, ErrOutcomeNotExpected)
	}
	correct, err := evaluator.Evaluate(q, answer)
	if err != nil {
		return Outcome{}, err
	}
	if correct {
		s.credit(q.ID)
	}
	if err := s.queue.RecordOutcome(q, correct); err != nil {
		return Outcome{}, err
	}

	out := Outcome{Correct: correct, Explanation: q.Explanation}
	next, ok, err := s.queue.Next()
	if err != nil {
		return Outcome{}, err
	}
	if ok {
		s.current = &next
		out.Next = &next
		return out, nil
	}

	s.complete()
	out.Result = s.Result()
	if s.recorder != nil {
		if err := s.recorder.Record(ctx, *s.result); err != nil {
			return out, fmt.Errorf("record session result: %w", err)
		}
	}
	return out, nil
}

// credit counts at most one correct answer per question id.
func (s *Session) credit(id int) {
	if _, ok := s.credited[id]; ok {
		return
	}
	s.credited[id] = struct{}{}
	s.correct++
}

func (s *Session) complete() {
	s.state = Completed
	s.current = nil
	s.result = &model.SessionResult{
		SessionID:      s.id,
		Username:       s.username,
		TotalQuestions: s.total,
		CorrectCount:   s.correct,
		Answered:       s.queue.Answered(),
		ScorePercent:   ScorePercent(s.correct, s.total),
		Timestamp:      s.cfg.Now(),
	}
}

// ScorePercent rounds correct/total to a whole percentage.
func ScorePercent(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

// Result returns a copy of the final result, or nil before completion.
func (s *Session) Result() *model.SessionResult {
	if s.result == nil {
		return nil
	}
	res := *s.result
	return &res
}

// Current returns the question awaiting an answer, or nil.
func (s *Session) Current() *model.Question {
	if s.current == nil {
		return nil
	}
	q := *s.current
	return &q
}

// State returns the lifecycle stage.
func (s *Session) State() State { return s.state }

// ID returns the session identifier carried into the result.
func (s *Session) ID() string { return s.id }

// Username returns the trimmed username given to Start.
func (s *Session) Username() string { return s.username }

// Total returns the size of the question set the session started with.
func (s *Session) Total() int { return s.total }

// Correct returns the credited correct answers so far.
func (s *Session) Correct() int { return s.correct }

// Answered returns the number of answers submitted so far.
func (s *Session) Answered() int { return s.queue.Answered() }

// Remaining returns how many questions are queued after the current one.
func (s *Session) Remaining() int { return len(s.queue.Pending()) }
