package sequence

import (
	"errors"
	"fmt"
	"strings"

	"github.com/verte-zerg/asake/internal/generator"
	"github.com/verte-zerg/asake/internal/model"
)

// ErrActivityNotFound is returned when no activity matches an id.
var ErrActivityNotFound = errors.New("activity not found")

// DefaultActivities returns the built-in activities.
func DefaultActivities() []model.Activity {
	return []model.Activity{
		{
			ID:      "hand-washing",
			Title:   "Hand washing",
			Perfect: "Perfect handwashing order!",
			Steps: []string{
				"Wet your hands with clean running water.",
				"Apply enough soap to cover all surfaces.",
				"Rub hands together for at least 20 seconds.",
				"Rinse thoroughly under clean water.",
				"Dry hands with a clean towel.",
			},
		},
		{
			ID:      "brushing",
			Title:   "Tooth brushing",
			Perfect: "Perfect brushing order!",
			Steps: []string{
				"Apply fluoride toothpaste to a soft-bristled brush.",
				"Angle bristles toward the gumline and brush gently in circles.",
				"Brush outer, inner, and chewing surfaces of teeth.",
				"Brush your tongue and rinse your mouth.",
				"Rinse and store toothbrush properly.",
			},
		},
	}
}

// Merge overlays configured activities on the defaults; a configured id replaces
// the default with the same id, new ids are appended.
func Merge(defaults, configured []model.Activity) []model.Activity {
	out := append([]model.Activity(nil), defaults...)
	index := make(map[string]int, len(out))
	for i, a := range out {
		index[a.ID] = i
	}
	for _, a := range configured {
		if i, ok := index[a.ID]; ok {
			out[i] = a
			continue
		}
		index[a.ID] = len(out)
		out = append(out, a)
	}
	return out
}

// Find returns the activity with the given id.
func Find(activities []model.Activity, id string) (model.Activity, error) {
	id = strings.TrimSpace(id)
	for _, a := range activities {
		if a.ID == id {
			return a, nil
		}
	}
	return model.Activity{}, fmt.Errorf("%w: %q", ErrActivityNotFound, id)
}

// Validate checks that an activity can be played.
func Validate(a model.Activity) error {
	if strings.TrimSpace(a.ID) == "" {
		return fmt.Errorf("activity id is required")
	}
	if len(a.Steps) < 2 {
		return fmt.Errorf("activity %q needs at least 2 steps", a.ID)
	}
	seen := make(map[string]struct{}, len(a.Steps))
	for i, step := range a.Steps {
		if strings.TrimSpace(step) == "" {
			return fmt.Errorf("activity %q: step %d is empty", a.ID, i+1)
		}
		if _, ok := seen[step]; ok {
			return fmt.Errorf("activity %q: duplicate step %q", a.ID, step)
		}
		seen[step] = struct{}{}
	}
	return nil
}

// Present returns the activity steps in a random order for the item tray.
func Present(a model.Activity, s generator.Shuffler) []string {
	return generator.ShuffledCopy(s, a.Steps)
}

// Check verifies a submission against the activity's reference order.
func Check(a model.Activity, submission []string) Report {
	return Verify(a.Steps, submission)
}
