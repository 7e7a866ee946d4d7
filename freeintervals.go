package subranges

import (
	"encoding/binary"
	"fmt"
	"iter"
	"math"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/google/btree"
)

const btreeDegree = 32

// freeIntervalByLength keys the secondary index that orders free
// intervals by length, then by start address.
type freeIntervalByLength struct {
	length int64
	start  int64
}

// FreeIntervalSet tracks the free, pairwise-disjoint, pairwise-non-adjacent
// half-open intervals of an address space. Take operations remove
// intervals for the caller's use; Insert returns them, coalescing with
// any adjacent free interval. It is not thread-safe.
type FreeIntervalSet struct {
	freeSpace int64

	// byStart orders free intervals by start address, supporting the
	// neighbor queries that keep the no-adjacent-intervals invariant.
	byStart *btree.BTreeG[Interval]
	// byLength orders free intervals by (length, start) so an exact-fit
	// lookup finds the lowest-start match without a full scan.
	byLength *btree.BTreeG[freeIntervalByLength]
}

// NewFreeIntervalSet creates a set containing exactly seed, or an empty
// set when seed has zero length.
func NewFreeIntervalSet(seed Interval) *FreeIntervalSet {
	s := &FreeIntervalSet{
		byStart: btree.NewG(btreeDegree, func(a, b Interval) bool {
			return a.Start < b.Start
		}),
		byLength: btree.NewG(btreeDegree, func(a, b freeIntervalByLength) bool {
			if a.length != b.length {
				return a.length < b.length
			}
			return a.start < b.start
		}),
	}
	if seed.Length() > 0 {
		s.addFree(seed)
	}
	return s
}

func (s *FreeIntervalSet) addFree(r Interval) {
	if r.Length() == 0 {
		return
	}
	s.byStart.ReplaceOrInsert(r)
	s.byLength.ReplaceOrInsert(freeIntervalByLength{length: r.Length(), start: r.Start})
	s.freeSpace += r.Length()
}

func (s *FreeIntervalSet) removeFree(r Interval) {
	s.byStart.Delete(r)
	s.byLength.Delete(freeIntervalByLength{length: r.Length(), start: r.Start})
	s.freeSpace -= r.Length()
}

// TakeExact removes and returns the lowest-start free interval whose
// length equals the request exactly. Larger intervals are never split;
// if no interval matches, ErrNotFound is returned and the set is
// unchanged.
func (s *FreeIntervalSet) TakeExact(length int64) (Interval, error) {
	if length <= 0 {
		return Interval{}, fmt.Errorf("%w: length %d", ErrInvalidArgument, length)
	}

	var found freeIntervalByLength
	var ok bool
	s.byLength.AscendGreaterOrEqual(freeIntervalByLength{length: length, start: math.MinInt64}, func(item freeIntervalByLength) bool {
		found = item
		ok = true
		return false // stop
	})
	if !ok || found.length != length {
		return Interval{}, ErrNotFound
	}

	taken := Interval{Start: found.start, End: found.start + found.length}
	s.removeFree(taken)
	return taken, nil
}

// TakeExactAligned removes a length-sized interval whose start is a
// multiple of alignment, splitting a free interval if needed. The scan
// is first-fit by ascending start; front and back remainders of a split
// go back into the set through the same coalescing path as Insert.
func (s *FreeIntervalSet) TakeExactAligned(length, alignment int64) (Interval, error) {
	if length <= 0 || alignment < 1 {
		return Interval{}, fmt.Errorf("%w: length %d, alignment %d", ErrInvalidArgument, length, alignment)
	}

	var candidate Interval
	var alignedStart int64
	var ok bool
	s.byStart.Ascend(func(item Interval) bool {
		// a < item.Start means aligning up wrapped past MaxInt64. Once
		// wrap is excluded, item.End-a cannot overflow, unlike a+length.
		a := alignUp(item.Start, alignment)
		if a >= item.Start && item.End-a >= length {
			candidate = item
			alignedStart = a
			ok = true
			return false // stop
		}
		return true
	})
	if !ok {
		return Interval{}, ErrNotFound
	}

	s.removeFree(candidate)
	taken := Interval{Start: alignedStart, End: alignedStart + length}
	if alignedStart > candidate.Start {
		s.mergeInsert(Interval{Start: candidate.Start, End: alignedStart})
	}
	if taken.End < candidate.End {
		s.mergeInsert(Interval{Start: taken.End, End: candidate.End})
	}
	return taken, nil
}

// Insert returns an interval to the free set, merging it with any
// adjacent free interval. Inserting a zero-length interval is a no-op.
// An interval overlapping existing free space is rejected with
// ErrOverlap (double free or corrupted bookkeeping) and leaves the set
// unchanged.
func (s *FreeIntervalSet) Insert(r Interval) error {
	if r.End < r.Start {
		return fmt.Errorf("%w: %v", ErrInvalidInterval, r)
	}
	if r.Length() == 0 {
		return nil
	}

	var overlap Interval
	var found bool
	s.byStart.DescendLessOrEqual(Interval{Start: r.Start}, func(item Interval) bool {
		if item.End > r.Start {
			overlap = item
			found = true
		}
		return false
	})
	if !found {
		s.byStart.AscendGreaterOrEqual(Interval{Start: r.Start}, func(item Interval) bool {
			if item.Start < r.End {
				overlap = item
				found = true
			}
			return false
		})
	}
	if found {
		return fmt.Errorf("%w: %v overlaps free %v", ErrOverlap, r, overlap)
	}

	s.mergeInsert(r)
	return nil
}

// mergeInsert adds r, absorbing the free interval ending at r.Start
// and/or the one starting at r.End. The caller guarantees r has
// positive length and overlaps nothing in the set.
func (s *FreeIntervalSet) mergeInsert(r Interval) {
	merged := r

	var before Interval
	var foundBefore bool
	s.byStart.DescendLessOrEqual(Interval{Start: r.Start}, func(item Interval) bool {
		if item.End == r.Start {
			before = item
			foundBefore = true
		}
		return false
	})
	if foundBefore {
		s.removeFree(before)
		merged = merged.Merge(before)
	}

	// The less function compares starts only, so Get finds the interval
	// starting exactly at r.End if one exists.
	if after, foundAfter := s.byStart.Get(Interval{Start: r.End}); foundAfter {
		s.removeFree(after)
		merged = merged.Merge(after)
	}

	s.addFree(merged)
}

// Len reports the number of free intervals in the set.
func (s *FreeIntervalSet) Len() int {
	return s.byStart.Len()
}

// FreeSpace reports the total number of free addresses.
func (s *FreeIntervalSet) FreeSpace() int64 {
	return s.freeSpace
}

// All iterates the free intervals in ascending start order.
func (s *FreeIntervalSet) All() iter.Seq[Interval] {
	return func(yield func(Interval) bool) {
		s.byStart.Ascend(func(item Interval) bool {
			return yield(item)
		})
	}
}

// Clear removes every free interval from the set.
func (s *FreeIntervalSet) Clear() {
	s.byStart.Clear(false)
	s.byLength.Clear(false)
	s.freeSpace = 0
}

// Checksum returns a fingerprint of the set's contents. Two sets
// holding the same intervals have the same checksum, which makes
// state comparison cheap without materializing both sets.
func (s *FreeIntervalSet) Checksum() uint64 {
	h := xxhash.New()
	var buf [16]byte
	s.byStart.Ascend(func(item Interval) bool {
		binary.LittleEndian.PutUint64(buf[0:8], uint64(item.Start))
		binary.LittleEndian.PutUint64(buf[8:16], uint64(item.End))
		h.Write(buf[:])
		return true
	})
	return h.Sum64()
}

func (s *FreeIntervalSet) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	s.byStart.Ascend(func(item Interval) bool {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		sb.WriteString(item.String())
		return true
	})
	sb.WriteByte('}')
	return sb.String()
}

// alignUp returns the smallest multiple of align that is >= v. When no
// such multiple fits in int64 the addition wraps and the result is
// less than v; callers must reject that case.
func alignUp(v, align int64) int64 {
	rem := v % align
	switch {
	case rem == 0:
		return v
	case rem < 0:
		return v - rem
	default:
		return v + align - rem
	}
}
