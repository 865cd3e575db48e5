package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/verte-zerg/asake/internal/evaluator"
	"github.com/verte-zerg/asake/internal/generator"
	"github.com/verte-zerg/asake/internal/model"
)

type keepOrder struct{}

func (keepOrder) Shuffle(int, func(i, j int)) {}

type memRecorder struct {
	results []model.SessionResult
	err     error
}

func (r *memRecorder) Record(_ context.Context, result model.SessionResult) error {
	if r.err != nil {
		return r.err
	}
	r.results = append(r.results, result)
	return nil
}

func trueFalseSet(n int) []model.Question {
	out := make([]model.Question, n)
	for i := range out {
		out[i] = model.Question{ID: i + 1, Variant: model.TrueFalse, CorrectTruth: true, Explanation: "because"}
	}
	return out
}

var fixedNow = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

func newSession(t *testing.T, interval int, rec Recorder) *Session {
	t.Helper()
	s, err := New(Config{
		SpacedInterval: interval,
		Shuffler:       keepOrder{},
		Now:            func() time.Time { return fixedNow },
	}, rec)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s
}

// play answers every presented question with answerFor and returns the final outcome.
func play(t *testing.T, s *Session, first model.Question, answerFor func(q model.Question, seen int) evaluator.Answer) Outcome {
	t.Helper()
	ctx := context.Background()
	current := first
	seen := map[int]int{}
	for i := 0; i < 100; i++ {
		seen[current.ID]++
		out, err := s.Submit(ctx, current.ID, answerFor(current, seen[current.ID]))
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		if out.Result != nil {
			return out
		}
		current = *out.Next
	}
	t.Fatalf("session did not finish")
	return Outcome{}
}

func TestStartValidation(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, 5, nil)
	if _, err := s.Start(ctx, "   ", trueFalseSet(2)); !errors.Is(err, ErrEmptyUsername) {
		t.Fatalf("expected empty username error, got %v", err)
	}
	if _, err := s.Start(ctx, "ada", nil); !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("expected no questions error, got %v", err)
	}
	if s.State() != NotStarted {
		t.Fatalf("expected session to stay not started, got %s", s.State())
	}
	first, err := s.Start(ctx, "  ada ", trueFalseSet(2))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if first.ID != 1 || s.State() != InProgress || s.Username() != "ada" {
		t.Fatalf("unexpected start state: first=%d state=%s user=%q", first.ID, s.State(), s.Username())
	}
	if _, err := s.Start(ctx, "ada", trueFalseSet(2)); !errors.Is(err, ErrSessionNotActive) {
		t.Fatalf("expected restart to fail, got %v", err)
	}
}

func TestSubmitBeforeStart(t *testing.T) {
	s := newSession(t, 5, nil)
	if _, err := s.Submit(context.Background(), 1, evaluator.Truth(true)); !errors.Is(err, ErrSessionNotActive) {
		t.Fatalf("expected not active error, got %v", err)
	}
}

func TestAllCorrectScoresHundred(t *testing.T) {
	rec := &memRecorder{}
	s := newSession(t, 5, rec)
	first, err := s.Start(context.Background(), "ada", trueFalseSet(3))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	out := play(t, s, first, func(model.Question, int) evaluator.Answer { return evaluator.Truth(true) })
	if out.Result.ScorePercent != 100 || out.Result.CorrectCount != 3 {
		t.Fatalf("unexpected result: %+v", out.Result)
	}
	if s.State() != Completed {
		t.Fatalf("expected completed, got %s", s.State())
	}
	if len(rec.results) != 1 {
		t.Fatalf("expected one recorded result, got %d", len(rec.results))
	}
	got := rec.results[0]
	if got.Username != "ada" || got.TotalQuestions != 3 || !got.Timestamp.Equal(fixedNow) || got.SessionID != s.ID() {
		t.Fatalf("unexpected recorded result: %+v", got)
	}
}

func TestOneOfThreeScoresThirtyThree(t *testing.T) {
	s := newSession(t, 5, nil)
	first, err := s.Start(context.Background(), "ada", trueFalseSet(3))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	out := play(t, s, first, func(q model.Question, _ int) evaluator.Answer {
		return evaluator.Truth(q.ID == 1)
	})
	if out.Result.ScorePercent != 33 || out.Result.CorrectCount != 1 {
		t.Fatalf("unexpected result: %+v", out.Result)
	}
}

func TestMissedQuestionRepeatsAndCreditsOnce(t *testing.T) {
	s := newSession(t, 1, nil)
	first, err := s.Start(context.Background(), "ada", trueFalseSet(2))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	out := play(t, s, first, func(_ model.Question, seen int) evaluator.Answer {
		return evaluator.Truth(seen > 1)
	})
	if out.Result.CorrectCount != 2 || out.Result.ScorePercent != 100 {
		t.Fatalf("expected full credit after repeats, got %+v", out.Result)
	}
	if out.Result.Answered != 4 {
		t.Fatalf("expected 4 answers, got %d", out.Result.Answered)
	}
}

func TestScoreNeverExceedsHundred(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		s, err := New(Config{SpacedInterval: 2, Shuffler: generator.NewSeeded(seed)}, nil)
		if err != nil {
			t.Fatalf("new: %v", err)
		}
		first, err := s.Start(context.Background(), "ada", trueFalseSet(6))
		if err != nil {
			t.Fatalf("start: %v", err)
		}
		out := play(t, s, first, func(q model.Question, seen int) evaluator.Answer {
			return evaluator.Truth((q.ID+seen+int(seed))%3 != 0)
		})
		if out.Result.CorrectCount > out.Result.TotalQuestions || out.Result.ScorePercent > 100 {
			t.Fatalf("seed %d: score exceeds total: %+v", seed, out.Result)
		}
	}
}

func TestSubmitWrongQuestion(t *testing.T) {
	s := newSession(t, 5, nil)
	first, err := s.Start(context.Background(), "ada", trueFalseSet(2))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := s.Submit(context.Background(), first.ID+1, evaluator.Truth(true)); !errors.Is(err, ErrOutcomeNotExpected) {
		t.Fatalf("expected outcome error, got %v", err)
	}
	if s.Answered() != 0 {
		t.Fatalf("rejected submission must not count")
	}
}

func TestSubmitAfterCompletion(t *testing.T) {
	s := newSession(t, 5, nil)
	first, err := s.Start(context.Background(), "ada", trueFalseSet(1))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := s.Submit(context.Background(), first.ID, evaluator.Truth(true)); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := s.Submit(context.Background(), first.ID, evaluator.Truth(true)); !errors.Is(err, ErrSessionNotActive) {
		t.Fatalf("expected not active error, got %v", err)
	}
}

func TestRecorderFailureKeepsResult(t *testing.T) {
	rec := &memRecorder{err: errors.New("disk full")}
	s := newSession(t, 5, rec)
	first, err := s.Start(context.Background(), "ada", trueFalseSet(1))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	out, err := s.Submit(context.Background(), first.ID, evaluator.Truth(true))
	if err == nil || !errors.Is(err, rec.err) {
		t.Fatalf("expected recorder error, got %v", err)
	}
	if out.Result == nil || s.Result() == nil || s.Result().ScorePercent != 100 {
		t.Fatalf("expected result to survive recorder failure: %+v", out.Result)
	}
}

func TestInvalidVariantIsFatal(t *testing.T) {
	s := newSession(t, 5, nil)
	bad := []model.Question{{ID: 1, Variant: "essay"}}
	first, err := s.Start(context.Background(), "ada", bad)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := s.Submit(context.Background(), first.ID, evaluator.Text("x")); !errors.Is(err, evaluator.ErrInvalidQuestionVariant) {
		t.Fatalf("expected invalid variant error, got %v", err)
	}
}

func TestScorePercentRounding(t *testing.T) {
	cases := []struct {
		correct, total, want int
	}{
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
		{1, 8, 13},
		{0, 4, 0},
		{0, 0, 0},
	}
	for _, tc := range cases {
		if got := ScorePercent(tc.correct, tc.total); got != tc.want {
			t.Fatalf("ScorePercent(%d, %d) = %d, want %d", tc.correct, tc.total, got, tc.want)
		}
	}
}
