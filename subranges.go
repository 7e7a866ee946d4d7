// Package subranges hands out non-overlapping integer subranges of an
// initial address range and reclaims them without external
// fragmentation bookkeeping. Addresses are abstract int64 offsets
// (memory pool slots, disk extents, id spaces).
package subranges

// Subranges owns a pool of free space seeded from a single range and
// provides exact-fit and aligned-fit allocation out of it. It is not
// thread-safe.
type Subranges struct {
	free *FreeIntervalSet
}

// New creates a pool whose free space is exactly r.
func New(r Interval) *Subranges {
	return &Subranges{free: NewFreeIntervalSet(r)}
}

// TakeFreeSubrange allocates a subrange of exactly the given length.
// Returns ErrNotFound when no free interval has that exact length.
func (s *Subranges) TakeFreeSubrange(length int64) (Interval, error) {
	return s.free.TakeExact(length)
}

// TakeAlignedSubrange allocates a subrange of the given length whose
// start is a multiple of alignment, splitting free space as needed.
func (s *Subranges) TakeAlignedSubrange(length, alignment int64) (Interval, error) {
	return s.free.TakeExactAligned(length, alignment)
}

// EraseSubrange returns a previously taken subrange to the pool.
func (s *Subranges) EraseSubrange(r Interval) error {
	return s.free.Insert(r)
}

// Free exposes the underlying free-interval set for inspection.
func (s *Subranges) Free() *FreeIntervalSet {
	return s.free
}
