package session

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cucumber/godog"

	"github.com/verte-zerg/asake/internal/evaluator"
	"github.com/verte-zerg/asake/internal/generator"
	"github.com/verte-zerg/asake/internal/model"
)

// TestSessionFeatures runs the quiz session feature scenarios.
func TestSessionFeatures(t *testing.T) {
	featurePath := filepath.Join("..", "..", "features", "quiz_session.feature")
	suite := godog.TestSuite{
		Name:                "quiz-session",
		ScenarioInitializer: InitializeSessionScenario,
		Options: &godog.Options{
			Format:    "pretty",
			Paths:     []string{featurePath},
			Strict:    true,
			TestingT:  t,
			Randomize: 0,
		},
	}
	if suite.Run() != 0 {
		t.Fatalf("non-zero godog status")
	}
}

// InitializeSessionScenario wires steps for quiz session scenarios.
func InitializeSessionScenario(ctx *godog.ScenarioContext) {
	state := &sessionScenarioState{}
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		state.reset()
		return ctx, nil
	})

	ctx.Step(`^questions are presented in file order$`, state.givenFileOrder)
	ctx.Step(`^a spaced interval of (\d+)$`, state.givenInterval)
	ctx.Step(`^a set of (\d+) true/false questions$`, state.givenQuestions)
	ctx.Step(`^"([^"]*)" starts the quiz$`, state.whenStarts)
	ctx.Step(`^every question is answered correctly$`, state.whenAllCorrect)
	ctx.Step(`^only question (\d+) is answered correctly$`, state.whenOnlyOneCorrect)
	ctx.Step(`^the current question is answered (correctly|incorrectly)$`, state.whenCurrentAnswered)
	ctx.Step(`^the quiz is completed$`, state.thenCompleted)
	ctx.Step(`^the score is (\d+) percent$`, state.thenScore)
	ctx.Step(`^(\d+) answers were credited$`, state.thenCredited)
	ctx.Step(`^the result for "([^"]*)" was recorded$`, state.thenRecorded)
	ctx.Step(`^the current question is (\d+)$`, state.thenCurrent)
	ctx.Step(`^starting fails with "([^"]*)"$`, state.thenStartFails)
}

type sessionScenarioState struct {
	shuffler  generator.Shuffler
	interval  int
	questions []model.Question
	recorder  *memRecorder
	session   *Session
	startErr  error
	outcome   Outcome
}

// reset clears scenario state.
func (s *sessionScenarioState) reset() {
	s.shuffler = nil
	s.interval = 0
	s.questions = nil
	s.recorder = &memRecorder{}
	s.session = nil
	s.startErr = nil
	s.outcome = Outcome{}
}

func (s *sessionScenarioState) givenFileOrder() error {
	s.shuffler = keepOrder{}
	return nil
}

func (s *sessionScenarioState) givenInterval(n int) error {
	s.interval = n
	return nil
}

func (s *sessionScenarioState) givenQuestions(n int) error {
	s.questions = trueFalseSet(n)
	return nil
}

func (s *sessionScenarioState) whenStarts(name string) error {
	sess, err := New(Config{SpacedInterval: s.interval, Shuffler: s.shuffler}, s.recorder)
	if err != nil {
		return err
	}
	s.session = sess
	_, s.startErr = sess.Start(context.Background(), name, s.questions)
	return nil
}

func (s *sessionScenarioState) answerCurrent(correct bool) error {
	current := s.session.Current()
	if current == nil {
		return fmt.Errorf("no current question")
	}
	out, err := s.session.Submit(context.Background(), current.ID, evaluator.Truth(correct == current.CorrectTruth))
	if err != nil {
		return err
	}
	s.outcome = out
	return nil
}

func (s *sessionScenarioState) answerAll(correctFor func(id int) bool) error {
	for s.session.State() == InProgress {
		if err := s.answerCurrent(correctFor(s.session.Current().ID)); err != nil {
			return err
		}
	}
	return nil
}

func (s *sessionScenarioState) whenAllCorrect() error {
	return s.answerAll(func(int) bool { return true })
}

func (s *sessionScenarioState) whenOnlyOneCorrect(id int) error {
	return s.answerAll(func(current int) bool { return current == id })
}

func (s *sessionScenarioState) whenCurrentAnswered(how string) error {
	return s.answerCurrent(how == "correctly")
}

func (s *sessionScenarioState) thenCompleted() error {
	if s.session.State() != Completed {
		return fmt.Errorf("expected completed session, got %s", s.session.State())
	}
	return nil
}

func (s *sessionScenarioState) thenScore(want int) error {
	res := s.session.Result()
	if res == nil {
		return fmt.Errorf("session has no result")
	}
	if res.ScorePercent != want {
		return fmt.Errorf("expected score %d, got %d", want, res.ScorePercent)
	}
	return nil
}

func (s *sessionScenarioState) thenCredited(want int) error {
	if s.session.Correct() != want {
		return fmt.Errorf("expected %d credited answers, got %d", want, s.session.Correct())
	}
	return nil
}

func (s *sessionScenarioState) thenRecorded(name string) error {
	if len(s.recorder.results) != 1 {
		return fmt.Errorf("expected one recorded result, got %d", len(s.recorder.results))
	}
	if got := s.recorder.results[0].Username; got != name {
		return fmt.Errorf("expected result for %q, got %q", name, got)
	}
	return nil
}

func (s *sessionScenarioState) thenCurrent(id int) error {
	current := s.session.Current()
	if current == nil {
		return fmt.Errorf("no current question")
	}
	if current.ID != id {
		return fmt.Errorf("expected current question %d, got %d", id, current.ID)
	}
	return nil
}

func (s *sessionScenarioState) thenStartFails(msg string) error {
	if s.startErr == nil {
		return fmt.Errorf("expected start to fail")
	}
	if !strings.Contains(s.startErr.Error(), msg) {
		return fmt.Errorf("expected error containing %q, got %q", msg, s.startErr.Error())
	}
	return nil
}
