// Package generator provides the random orderings used by quizzes and activities.
package generator

import (
	"math/rand"
	"time"
)

// Shuffler permutes n elements through the swap callback.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// Generator produces uniformly random permutations.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Generator with a fixed seed, for reproducible orderings.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Shuffle runs a Fisher-Yates pass over n elements.
func (g *Generator) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := g.rnd.Intn(i + 1)
		swap(i, j)
	}
}

// ShuffledCopy returns a shuffled copy of items, leaving items untouched.
func ShuffledCopy[T any](s Shuffler, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	s.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
