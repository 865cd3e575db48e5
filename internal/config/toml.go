// Package config provides configuration helpers and TOML parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/asake/internal/model"
)

// DefaultFeedbackDelay is how long answer feedback stays on screen.
const DefaultFeedbackDelay = 1200 * time.Millisecond

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Quiz       QuizConfig       `toml:"quiz"`
	Activities []ActivityConfig `toml:"activities"`
}

// QuizConfig maps quiz-related settings.
type QuizConfig struct {
	SpacedInterval *int    `toml:"spaced-interval"`
	Questions      *string `toml:"questions"`
	ScoreboardSeed *string `toml:"scoreboard-seed"`
	FeedbackDelay  *string `toml:"feedback-delay"`
}

// ActivityConfig maps one [[activities]] table.
type ActivityConfig struct {
	ID      string   `toml:"id"`
	Title   string   `toml:"title"`
	Perfect string   `toml:"perfect"`
	Steps   []string `toml:"steps"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return FileConfig{}, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return FileConfig{}, err
	}
	return cfg, nil
}

// Validate checks value ranges that TOML decoding cannot.
func (c FileConfig) Validate() error {
	var errs []error
	if c.Quiz.SpacedInterval != nil && *c.Quiz.SpacedInterval <= 0 {
		errs = append(errs, fmt.Errorf("quiz.spaced-interval must be > 0, got %d", *c.Quiz.SpacedInterval))
	}
	if c.Quiz.FeedbackDelay != nil {
		if _, err := ParseDelay(*c.Quiz.FeedbackDelay); err != nil {
			errs = append(errs, fmt.Errorf("quiz.feedback-delay: %w", err))
		}
	}
	for i, a := range c.Activities {
		if strings.TrimSpace(a.ID) == "" {
			errs = append(errs, fmt.Errorf("activities[%d].id is required", i))
		}
		if len(a.Steps) < 2 {
			errs = append(errs, fmt.Errorf("activities[%d].steps needs at least 2 entries", i))
		}
	}
	return errors.Join(errs...)
}

// ParseDelay parses a feedback delay such as "1200ms" or "2s".
func ParseDelay(raw string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("delay must not be negative")
	}
	return d, nil
}

// ToActivities converts configured activities, filling the title and perfect
// message when left blank.
func (c FileConfig) ToActivities() []model.Activity {
	out := make([]model.Activity, 0, len(c.Activities))
	for _, a := range c.Activities {
		id := strings.TrimSpace(a.ID)
		title := strings.TrimSpace(a.Title)
		if title == "" {
			title = id
		}
		perfect := strings.TrimSpace(a.Perfect)
		if perfect == "" {
			perfect = "Perfect order!"
		}
		out = append(out, model.Activity{
			ID:      id,
			Title:   title,
			Perfect: perfect,
			Steps:   append([]string(nil), a.Steps...),
		})
	}
	return out
}

// Template is the commented config written by `asake config`.
const Template = `# asake configuration

[quiz]
# Every N answered questions the oldest missed question is asked again.
spaced-interval = 5
# Question file (YAML, or JSON when the name ends in .json).
# questions = "~/.config/asake/questions.yaml"
# Scoreboard used when nothing has been saved yet.
# scoreboard-seed = "/path/to/scoreboard.json"
# How long answer feedback stays on screen.
feedback-delay = "1200ms"

# Extra ordering activities. An id matching a built-in replaces it.
# [[activities]]
# id = "mask"
# title = "Putting on a mask"
# perfect = "Perfect mask routine!"
# steps = [
#   "Clean your hands.",
#   "Check the mask for damage.",
#   "Cover mouth and nose.",
#   "Pinch the nose strip.",
# ]
`
