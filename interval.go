package subranges

import (
	"fmt"
	"iter"
)

// Interval is a half-open range [Start, End) of int64 addresses.
// It is an immutable value; all methods return new Intervals.
type Interval struct {
	Start int64 // inclusive
	End   int64 // exclusive
}

// NewInterval builds an Interval from a (start, end) pair, rejecting
// pairs where start is greater than end.
func NewInterval(start, end int64) (Interval, error) {
	if start > end {
		return Interval{}, fmt.Errorf("%w: start %d is greater than end %d", ErrInvalidInterval, start, end)
	}
	return Interval{Start: start, End: end}, nil
}

// Length returns the number of addresses the interval covers.
func (r Interval) Length() int64 {
	return r.End - r.Start
}

func (r Interval) IsEmpty() bool {
	return r.End == r.Start
}

// Contains reports whether p falls within the interval.
func (r Interval) Contains(p int64) bool {
	return p >= r.Start && p < r.End
}

// Less orders intervals by ascending start address.
func (r Interval) Less(other Interval) bool {
	return r.Start < other.Start
}

func (r Interval) Overlaps(other Interval) bool {
	return r.Start < other.End && other.Start < r.End
}

func (r Interval) Adjacent(other Interval) bool {
	return r.End == other.Start || other.End == r.Start
}

// Union returns the smallest interval covering both r and other,
// including any gap between them.
func (r Interval) Union(other Interval) Interval {
	start := r.Start
	if other.Start < start {
		start = other.Start
	}
	end := r.End
	if other.End > end {
		end = other.End
	}
	return Interval{Start: start, End: end}
}

// Merge returns the union of two overlapping or adjacent intervals.
func (r Interval) Merge(other Interval) Interval {
	if !r.Overlaps(other) && !r.Adjacent(other) {
		panic("cannot merge non-overlapping, non-adjacent intervals")
	}
	return r.Union(other)
}

// TryMerge is Merge for intervals that may not touch; ok is false when
// the intervals neither overlap nor are adjacent.
func (r Interval) TryMerge(other Interval) (merged Interval, ok bool) {
	if !r.Overlaps(other) && !r.Adjacent(other) {
		return Interval{}, false
	}
	return r.Union(other), true
}

// Split cuts the interval at Start+length, returning the front part of
// the given length and the remainder.
func (r Interval) Split(length int64) (front, back Interval) {
	if length < 0 || length > r.Length() {
		panic("split length must be within [0, Length()]")
	}
	mid := r.Start + length
	return Interval{Start: r.Start, End: mid}, Interval{Start: mid, End: r.End}
}

// Points iterates the addresses covered by the interval in ascending order.
func (r Interval) Points() iter.Seq[int64] {
	return func(yield func(int64) bool) {
		for p := r.Start; p < r.End; p++ {
			if !yield(p) {
				return
			}
		}
	}
}

func (r Interval) String() string {
	return fmt.Sprintf("[%d, %d)", r.Start, r.End)
}
