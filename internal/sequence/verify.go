// Package sequence checks submitted orderings of activity steps.
package sequence

import "fmt"

// Report is the per-position verdict for a submission.
type Report struct {
	PerPositionCorrect []bool
	CorrectCount       int
	Total              int
	IsPerfect          bool
}

// Verify compares submission to reference slot by slot. Missing slots count as
// mismatches and slots beyond the reference length are ignored. Neither input is modified.
func Verify(reference, submission []string) Report {
	report := Report{
		PerPositionCorrect: make([]bool, len(reference)),
		Total:              len(reference),
	}
	for i, want := range reference {
		if i < len(submission) && submission[i] == want {
			report.PerPositionCorrect[i] = true
			report.CorrectCount++
		}
	}
	report.IsPerfect = report.CorrectCount == report.Total
	return report
}

// Message returns the learner-facing summary for the report.
func (r Report) Message(perfect string) string {
	if r.IsPerfect {
		return perfect
	}
	return fmt.Sprintf("You got %d/%d steps correct.", r.CorrectCount, r.Total)
}
