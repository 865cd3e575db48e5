// Package evaluator judges answers against questions.
package evaluator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/verte-zerg/asake/internal/model"
)

// ErrInvalidQuestionVariant indicates a question with an unknown variant.
var ErrInvalidQuestionVariant = errors.New("invalid question variant")

// ErrAnswerKindMismatch indicates an answer shaped for a different variant.
var ErrAnswerKindMismatch = errors.New("answer kind does not match question variant")

// Answer is a raw user answer for one of the question variants.
type Answer struct {
	kind   model.Variant
	choice int
	truth  bool
	text   string
}

// Choice builds a multiple-choice answer from an option index.
func Choice(index int) Answer {
	return Answer{kind: model.MultipleChoice, choice: index}
}

// Truth builds a true/false answer.
func Truth(value bool) Answer {
	return Answer{kind: model.TrueFalse, truth: value}
}

// Text builds a fill-in answer from raw input.
func Text(raw string) Answer {
	return Answer{kind: model.FillIn, text: raw}
}

// Kind returns the variant the answer was built for.
func (a Answer) Kind() model.Variant {
	return a.kind
}

// String renders the answer for logs.
func (a Answer) String() string {
	switch a.kind {
	case model.MultipleChoice:
		return fmt.Sprintf("choice %d", a.choice)
	case model.TrueFalse:
		return fmt.Sprintf("%t", a.truth)
	case model.FillIn:
		return fmt.Sprintf("%q", a.text)
	default:
		return "<empty>"
	}
}

// NormalizeText trims whitespace and lowercases text for matching.
func NormalizeText(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// Evaluate reports whether a is a correct answer to q.
func Evaluate(q model.Question, a Answer) (bool, error) {
	if !q.Variant.Valid() {
		return false, fmt.Errorf("question %d: %w %q", q.ID, ErrInvalidQuestionVariant, q.Variant)
	}
	if a.kind != q.Variant {
		return false, fmt.Errorf("question %d expects %s, got %s: %w", q.ID, q.Variant, a.kind, ErrAnswerKindMismatch)
	}
	switch q.Variant {
	case model.MultipleChoice:
		return a.choice == q.CorrectIndex, nil
	case model.TrueFalse:
		return a.truth == q.CorrectTruth, nil
	default:
		val := NormalizeText(a.text)
		for _, accepted := range q.AcceptedAnswers {
			if val == accepted {
				return true, nil
			}
		}
		return false, nil
	}
}
