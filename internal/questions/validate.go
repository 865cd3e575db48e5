package questions

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/verte-zerg/asake/internal/evaluator"
	"github.com/verte-zerg/asake/internal/model"
)

// Issue captures a validation problem in a question file.
type Issue struct {
	Field   string
	Message string
	Err     error
}

// ValidationError reports one or more validation issues.
type ValidationError struct {
	Issues []Issue
}

// Error returns a readable message for validation failures.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return ""
	}
	parts := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		parts = append(parts, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return fmt.Sprintf("question file validation failed: %s", strings.Join(parts, "; "))
}

// Unwrap exposes the sentinel errors attached to issues.
func (err *ValidationError) Unwrap() []error {
	var errs []error
	for _, issue := range err.Issues {
		if issue.Err != nil {
			errs = append(errs, issue.Err)
		}
	}
	return errs
}

type issueCollector struct {
	issues []Issue
}

func (collector *issueCollector) add(field, message string) {
	collector.issues = append(collector.issues, Issue{Field: field, Message: message})
}

func (collector *issueCollector) addErr(field string, err error) {
	collector.issues = append(collector.issues, Issue{Field: field, Message: err.Error(), Err: err})
}

func (collector *issueCollector) result() error {
	if len(collector.issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: collector.issues}
}

// normalize trims text, converts the variant-specific answer and validates the set.
func normalize(raw []fileQuestion) ([]model.Question, error) {
	collector := &issueCollector{}
	if len(raw) == 0 {
		collector.add("questions", "must include at least one entry")
	}

	seenIDs := map[int]struct{}{}
	out := make([]model.Question, 0, len(raw))
	for i, fq := range raw {
		prefix := fmt.Sprintf("questions[%d]", i)
		q := model.Question{
			ID:          fq.ID,
			Variant:     model.Variant(strings.ToLower(strings.TrimSpace(fq.Type))),
			Prompt:      strings.TrimSpace(fq.Question),
			Topic:       strings.TrimSpace(fq.Topic),
			Explanation: strings.TrimSpace(fq.Explanation),
		}

		if q.ID <= 0 {
			collector.add(prefix+".id", "must be a positive integer")
		} else if _, exists := seenIDs[q.ID]; exists {
			collector.add(prefix+".id", fmt.Sprintf("duplicate id %d", q.ID))
		} else {
			seenIDs[q.ID] = struct{}{}
		}
		if q.Prompt == "" {
			collector.add(prefix+".question", "is required")
		}

		switch q.Variant {
		case model.MultipleChoice:
			q.Options = trimAll(fq.Options)
			if len(q.Options) < 2 {
				collector.add(prefix+".options", "must include at least two entries")
			}
			for optIndex, opt := range q.Options {
				if opt == "" {
					collector.add(fmt.Sprintf("%s.options[%d]", prefix, optIndex), "is required")
				}
			}
			idx, ok := toInt(fq.Correct)
			switch {
			case !ok:
				collector.add(prefix+".correct", "must be an option index")
			case idx < 0 || idx >= len(q.Options):
				collector.add(prefix+".correct", fmt.Sprintf("index %d out of range", idx))
			default:
				q.CorrectIndex = idx
			}
		case model.TrueFalse:
			if len(fq.Options) > 0 {
				collector.add(prefix+".options", "not allowed for tf questions")
			}
			truth, ok := fq.Correct.(bool)
			if !ok {
				collector.add(prefix+".correct", "must be true or false")
			}
			q.CorrectTruth = truth
		case model.FillIn:
			if len(fq.Options) > 0 {
				collector.add(prefix+".options", "not allowed for fill questions")
			}
			accepted, ok := toStrings(fq.Correct)
			if !ok {
				collector.add(prefix+".correct", "must be a string or a list of strings")
			}
			for _, a := range accepted {
				if a = evaluator.NormalizeText(a); a != "" {
					q.AcceptedAnswers = append(q.AcceptedAnswers, a)
				}
			}
			if ok && len(q.AcceptedAnswers) == 0 {
				collector.add(prefix+".correct", "must include at least one accepted answer")
			}
		default:
			collector.addErr(prefix+".type", fmt.Errorf("%w %q (want mc, tf or fill)", evaluator.ErrInvalidQuestionVariant, fq.Type))
		}
		out = append(out, q)
	}

	if err := collector.result(); err != nil {
		return nil, err
	}
	return out, nil
}

// IsValidation reports whether err carries validation issues.
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.TrimSpace(v))
	}
	return out
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

func toStrings(v any) ([]string, bool) {
	switch t := v.(type) {
	case string:
		return []string{t}, true
	case []string:
		return t, true
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}
