// Package interval implements the small amount of interval algebra needed for
// calendar analysis: overlap tests on half-open spans of time, and union and
// complement of closed integer-like intervals.
package interval

import (
	"cmp"
	"slices"
	"time"
)

// Span is the half-open time interval [Start, End).
type Span struct {
	Start time.Time
	End   time.Time
}

// Empty reports whether the span contains no instant.
func (s Span) Empty() bool {
	return !s.Start.Before(s.End)
}

// Overlaps reports whether s and o share at least one instant.
// A span ending exactly when the other begins does not overlap it.
func (s Span) Overlaps(o Span) bool {
	if s.Empty() || o.Empty() {
		return false
	}
	return s.Start.Before(o.End) && o.Start.Before(s.End)
}

// Closed is the closed interval [Lo, Hi].
type Closed[T cmp.Ordered] struct {
	Lo T
	Hi T
}

// Union merges the given closed intervals into a sorted list of disjoint ones.
// Intervals that overlap or touch at an endpoint are merged. Intervals with
// Lo > Hi are empty and ignored. The input is not modified.
func Union[T cmp.Ordered](intervals []Closed[T]) []Closed[T] {
	sorted := make([]Closed[T], 0, len(intervals))
	for _, iv := range intervals {
		if iv.Lo > iv.Hi {
			continue
		}
		sorted = append(sorted, iv)
	}
	slices.SortFunc(sorted, func(a, b Closed[T]) int {
		return cmp.Compare(a.Lo, b.Lo)
	})

	var merged []Closed[T]
	for _, iv := range sorted {
		if n := len(merged); n > 0 && iv.Lo <= merged[n-1].Hi {
			merged[n-1].Hi = max(merged[n-1].Hi, iv.Hi)
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// Gaps returns the bounded pieces of the complement of a union produced by
// Union, in ascending order. Each gap is the open interval (Lo, Hi) between two
// consecutive merged intervals; the unbounded pieces before the first and
// after the last interval are never returned.
func Gaps[T cmp.Ordered](union []Closed[T]) []Closed[T] {
	if len(union) < 2 {
		return nil
	}
	gaps := make([]Closed[T], 0, len(union)-1)
	for i := 1; i < len(union); i++ {
		gaps = append(gaps, Closed[T]{Lo: union[i-1].Hi, Hi: union[i].Lo})
	}
	return gaps
}
