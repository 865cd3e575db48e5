package queue

import (
	"errors"
	"fmt"
	"testing"

	"github.com/verte-zerg/asake/internal/generator"
	"github.com/verte-zerg/asake/internal/model"
)

type keepOrder struct{}

func (keepOrder) Shuffle(int, func(i, j int)) {}

func makeQuestions(n int) []model.Question {
	out := make([]model.Question, n)
	for i := range out {
		out[i] = model.Question{ID: i + 1, Variant: model.TrueFalse, Prompt: fmt.Sprintf("q%d", i+1)}
	}
	return out
}

func ids(questions []model.Question) []int {
	out := make([]int, len(questions))
	for i, q := range questions {
		out[i] = q.ID
	}
	return out
}

func mustNext(t *testing.T, q *Queue) model.Question {
	t.Helper()
	next, ok, err := q.Next()
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if !ok {
		t.Fatalf("expected a pending question")
	}
	return next
}

func TestNewRejectsNonPositiveInterval(t *testing.T) {
	for _, interval := range []int{0, -3} {
		if _, err := New(interval, keepOrder{}); err == nil {
			t.Fatalf("expected error for interval %d", interval)
		}
	}
}

func TestNextBeforeInitialize(t *testing.T) {
	q, err := New(DefaultInterval, keepOrder{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, _, err := q.Next(); !errors.Is(err, ErrSessionNotActive) {
		t.Fatalf("expected not active error, got %v", err)
	}
}

func TestDrainYieldsEachQuestionOnce(t *testing.T) {
	questions := makeQuestions(6)
	q, err := New(DefaultInterval, generator.NewSeeded(3))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	q.Initialize(questions)

	seen := map[int]int{}
	for range questions {
		next := mustNext(t, q)
		seen[next.ID]++
		if err := q.RecordOutcome(next, true); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	for _, question := range questions {
		if seen[question.ID] != 1 {
			t.Fatalf("expected question %d once, got %d", question.ID, seen[question.ID])
		}
	}
	if _, ok, err := q.Next(); err != nil || ok {
		t.Fatalf("expected empty signal, got ok=%v err=%v", ok, err)
	}
	if q.Active() {
		t.Fatalf("expected queue to be inactive after exhaustion")
	}
	if _, _, err := q.Next(); !errors.Is(err, ErrSessionNotActive) {
		t.Fatalf("expected not active error after exhaustion, got %v", err)
	}
}

func TestInitializeDoesNotMutateInput(t *testing.T) {
	questions := makeQuestions(5)
	q, _ := New(DefaultInterval, generator.NewSeeded(11))
	q.Initialize(questions)
	for i, question := range questions {
		if question.ID != i+1 {
			t.Fatalf("input reordered: %v", ids(questions))
		}
	}
}

func TestInitializeOrderIsUniform(t *testing.T) {
	questions := makeQuestions(3)
	q, _ := New(DefaultInterval, generator.NewSeeded(99))
	const trials = 30000
	counts := map[string]int{}
	for i := 0; i < trials; i++ {
		q.Initialize(questions)
		counts[fmt.Sprint(ids(q.Pending()))]++
	}
	if len(counts) != 6 {
		t.Fatalf("expected all 6 orders, got %v", counts)
	}
	expected := float64(trials) / 6
	chi := 0.0
	for _, c := range counts {
		d := float64(c) - expected
		chi += d * d / expected
	}
	if chi > 20.52 {
		t.Fatalf("orders not uniform (chi2=%.2f): %v", chi, counts)
	}
}

func TestMissReinjectedAtPositionOne(t *testing.T) {
	q, _ := New(2, keepOrder{})
	q.Initialize(makeQuestions(5))

	first := mustNext(t, q)
	if err := q.RecordOutcome(first, false); err != nil {
		t.Fatalf("record: %v", err)
	}
	if got := ids(q.Backlog()); len(got) != 1 || got[0] != 1 {
		t.Fatalf("expected backlog [1], got %v", got)
	}
	if got := ids(q.Pending()); fmt.Sprint(got) != "[2 3 4 5]" {
		t.Fatalf("unexpected pending before interval: %v", got)
	}

	second := mustNext(t, q)
	if err := q.RecordOutcome(second, true); err != nil {
		t.Fatalf("record: %v", err)
	}
	if got := fmt.Sprint(ids(q.Pending())); got != "[3 1 4 5]" {
		t.Fatalf("expected miss at position 1, got %s", got)
	}
	if len(q.Backlog()) != 0 {
		t.Fatalf("expected empty backlog after re-injection")
	}
}

func TestReinjectionWaitsForIntervalMultiple(t *testing.T) {
	const k = 3
	q, _ := New(k, keepOrder{})
	q.Initialize(makeQuestions(8))

	missed := mustNext(t, q)
	if err := q.RecordOutcome(missed, false); err != nil {
		t.Fatalf("record: %v", err)
	}
	for answered := 2; answered <= k; answered++ {
		for _, p := range q.Pending() {
			if p.ID == missed.ID {
				t.Fatalf("miss reappeared early at answer %d", answered-1)
			}
		}
		next := mustNext(t, q)
		if err := q.RecordOutcome(next, true); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	pending := q.Pending()
	if len(pending) < 2 || pending[1].ID != missed.ID {
		t.Fatalf("expected miss at position 1 after %d answers, got %v", k, ids(pending))
	}
	count := 0
	for _, p := range pending {
		if p.ID == missed.ID {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected miss exactly once in pending, got %d", count)
	}
}

func TestBacklogIsFIFO(t *testing.T) {
	q, _ := New(3, keepOrder{})
	q.Initialize(makeQuestions(6))
	for i := 0; i < 3; i++ {
		next := mustNext(t, q)
		if err := q.RecordOutcome(next, i == 2); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	if got := fmt.Sprint(ids(q.Pending())); got != "[4 1 5 6]" {
		t.Fatalf("expected oldest miss first, got %s", got)
	}
	if got := fmt.Sprint(ids(q.Backlog())); got != "[2]" {
		t.Fatalf("expected remaining backlog [2], got %s", got)
	}
}

func TestReinjectionIntoEmptyPending(t *testing.T) {
	q, _ := New(1, keepOrder{})
	q.Initialize(makeQuestions(1))

	only := mustNext(t, q)
	if err := q.RecordOutcome(only, false); err != nil {
		t.Fatalf("record: %v", err)
	}
	again := mustNext(t, q)
	if again.ID != only.ID {
		t.Fatalf("expected missed question again, got %d", again.ID)
	}
	if err := q.RecordOutcome(again, true); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, ok, err := q.Next(); ok || err != nil {
		t.Fatalf("expected exhaustion, got ok=%v err=%v", ok, err)
	}
}

func TestRecordOutcomeContract(t *testing.T) {
	q, _ := New(DefaultInterval, keepOrder{})
	q.Initialize(makeQuestions(3))

	if err := q.RecordOutcome(model.Question{ID: 1}, true); !errors.Is(err, ErrOutcomeNotExpected) {
		t.Fatalf("expected outcome error before next, got %v", err)
	}
	next := mustNext(t, q)
	if _, _, err := q.Next(); !errors.Is(err, ErrOutcomeNotExpected) {
		t.Fatalf("expected outcome error for unrecorded question, got %v", err)
	}
	if err := q.RecordOutcome(model.Question{ID: next.ID + 1}, true); !errors.Is(err, ErrOutcomeNotExpected) {
		t.Fatalf("expected outcome error for foreign question, got %v", err)
	}
	if err := q.RecordOutcome(next, true); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := q.RecordOutcome(next, true); !errors.Is(err, ErrOutcomeNotExpected) {
		t.Fatalf("expected outcome error on double record, got %v", err)
	}
	if q.Answered() != 1 {
		t.Fatalf("expected 1 answered, got %d", q.Answered())
	}
}
