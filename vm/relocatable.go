package vm

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrOffsetOverflow is returned when address arithmetic leaves [0, MaxInt).
	ErrOffsetOverflow = errors.New("offset overflow")
	// ErrSegmentMismatch is returned when two addresses of different segments are combined.
	ErrSegmentMismatch = errors.New("segment mismatch")
)

// Relocatable is an address in segmented memory: a segment index and an
// offset inside that segment. Offsets are relocated to absolute addresses
// only once the run is over.
type Relocatable struct {
	Segment int
	Offset  int
}

// NewRelocatable returns the address segment:offset.
func NewRelocatable(segment, offset int) Relocatable {
	return Relocatable{Segment: segment, Offset: offset}
}

// Add returns r + delta. delta may be negative; the result must stay in
// the same segment with a non negative offset.
func (r Relocatable) Add(delta int) (Relocatable, error) {
	if (delta > 0 && r.Offset > math.MaxInt-delta) || r.Offset+delta < 0 {
		return Relocatable{}, fmt.Errorf("%s + %d: %w", r, delta, ErrOffsetOverflow)
	}
	return Relocatable{Segment: r.Segment, Offset: r.Offset + delta}, nil
}

// Sub returns the distance r - other; both must belong to the same segment.
func (r Relocatable) Sub(other Relocatable) (int, error) {
	if r.Segment != other.Segment {
		return 0, fmt.Errorf("%s - %s: %w", r, other, ErrSegmentMismatch)
	}
	return r.Offset - other.Offset, nil
}

func (r Relocatable) String() string {
	return fmt.Sprintf("%d:%d", r.Segment, r.Offset)
}
