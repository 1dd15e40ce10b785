// Package reorder arranges scored items so the most relevant ones sit at
// both ends of the sequence and the least relevant ones in the middle.
package reorder

import (
	"cmp"
	"errors"
	"slices"
)

// ErrLengthMismatch is returned when items and scores differ in length.
var ErrLengthMismatch = errors.New("reorder: items and scores length mismatch")

// Reorder sorts items by descending score and redistributes them
// ends-first: rank 1 first, rank 2 last, rank 3 second, rank 4 second to
// last, and so on inward. Equal scores keep their input order.
func Reorder[T any](items []T, scores []float64) ([]T, error) {
	if len(items) != len(scores) {
		return nil, ErrLengthMismatch
	}
	order := SortByScore(scores)
	sorted := make([]T, len(order))
	for i, idx := range order {
		sorted[i] = items[idx]
	}
	return EndsFirst(sorted), nil
}

// SortByScore returns the input positions ordered by descending score.
// The sort is stable and NaN scores sort after every number.
func SortByScore(scores []float64) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(scores[b], scores[a])
	})
	return order
}

// EndsFirst redistributes a relevance-sorted slice: even positions of the
// walk fill from the front, odd positions from the back.
func EndsFirst[T any](sorted []T) []T {
	n := len(sorted)
	out := make([]T, n)
	front, back := 0, n-1
	for i, item := range sorted {
		if i%2 == 0 {
			out[front] = item
			front++
		} else {
			out[back] = item
			back--
		}
	}
	return out
}
