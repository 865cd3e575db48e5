// Package model defines shared data structures.
package model

import "time"

// Variant is the answer format of a question.
type Variant string

// Question variants, spelled as in question files.
const (
	MultipleChoice Variant = "mc"
	TrueFalse      Variant = "tf"
	FillIn         Variant = "fill"
)

// Valid reports whether v is a known variant.
func (v Variant) Valid() bool {
	switch v {
	case MultipleChoice, TrueFalse, FillIn:
		return true
	default:
		return false
	}
}

// Question is a loaded quiz question. It is not modified after loading.
type Question struct {
	ID          int
	Variant     Variant
	Prompt      string
	Topic       string
	Explanation string
	Options     []string

	// Exactly one of these is meaningful, depending on Variant.
	CorrectIndex    int
	CorrectTruth    bool
	AcceptedAnswers []string
}

// Config defines quiz settings.
type Config struct {
	Username       string
	QuestionsPath  string
	SeedPath       string
	SpacedInterval int
	FeedbackDelay  time.Duration
	Seed           int64
}

// SessionResult captures a completed quiz session.
type SessionResult struct {
	SessionID      string
	Username       string
	TotalQuestions int
	CorrectCount   int
	Answered       int
	ScorePercent   int
	Timestamp      time.Time
}

// ScoreRecord is one scoreboard row as persisted.
type ScoreRecord struct {
	Name      string `json:"name"`
	Score     int    `json:"score"`
	Date      string `json:"date"`
	Total     int    `json:"total,omitempty"`
	Correct   int    `json:"correct,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// Activity is an ordered-step exercise.
type Activity struct {
	ID      string
	Title   string
	Perfect string
	Steps   []string
}
