package generator

import (
	"math"
	"strings"
	"testing"
)

func TestShuffledCopyKeepsInput(t *testing.T) {
	items := []string{"a", "b", "c", "d"}
	out := ShuffledCopy(NewSeeded(1), items)
	if strings.Join(items, "") != "abcd" {
		t.Fatalf("input was mutated: %v", items)
	}
	if len(out) != len(items) {
		t.Fatalf("expected %d items, got %d", len(items), len(out))
	}
	seen := map[string]int{}
	for _, s := range out {
		seen[s]++
	}
	for _, s := range items {
		if seen[s] != 1 {
			t.Fatalf("expected %q exactly once, got %d", s, seen[s])
		}
	}
}

func TestShuffleSameSeedSameOrder(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8}
	a := ShuffledCopy(NewSeeded(42), items)
	b := ShuffledCopy(NewSeeded(42), items)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("expected identical orders, got %v and %v", a, b)
		}
	}
}

func TestShuffleUniform(t *testing.T) {
	gen := NewSeeded(7)
	items := []string{"a", "b", "c"}
	const trials = 60000
	counts := map[string]int{}
	for i := 0; i < trials; i++ {
		counts[strings.Join(ShuffledCopy(gen, items), "")]++
	}
	if len(counts) != 6 {
		t.Fatalf("expected 6 permutations, got %d: %v", len(counts), counts)
	}
	expected := float64(trials) / 6
	chi := 0.0
	for _, c := range counts {
		d := float64(c) - expected
		chi += d * d / expected
	}
	// 5 degrees of freedom, p=0.001 critical value is 20.52.
	if chi > 20.52 || math.IsNaN(chi) {
		t.Fatalf("permutation counts not uniform (chi2=%.2f): %v", chi, counts)
	}
}
