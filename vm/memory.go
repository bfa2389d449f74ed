package vm

import (
	"errors"
	"fmt"

	"github.com/chunkproc/cairohints/felt"
)

var (
	// ErrUnknownSegment is returned when an address points to a segment that was never allocated.
	ErrUnknownSegment = errors.New("unknown segment")
	// ErrInconsistentMemory is returned when a written cell would change value.
	ErrInconsistentMemory = errors.New("inconsistent memory assignment")
	// ErrMissingCell is returned when reading a cell that was never written.
	ErrMissingCell = errors.New("memory cell is not set")
	// ErrUnexpectedKind is returned when a cell holds a felt where an address was expected, or the reverse.
	ErrUnexpectedKind = errors.New("unexpected cell kind")
)

// Memory is a segmented, write-once memory. Segments are append-only:
// new ones are only ever added at the end, cells never change once set.
type Memory struct {
	segments [][]*Value
}

// NewMemory returns an empty memory with no segment.
func NewMemory() *Memory {
	return &Memory{}
}

// NumSegments returns the number of allocated segments.
func (m *Memory) NumSegments() int {
	return len(m.segments)
}

// AddSegment allocates a new empty segment and returns its base address.
func (m *Memory) AddSegment() Relocatable {
	m.segments = append(m.segments, nil)
	return Relocatable{Segment: len(m.segments) - 1}
}

// SegmentSize returns the number of cells up to the last written one.
func (m *Memory) SegmentSize(segment int) int {
	if segment < 0 || segment >= len(m.segments) {
		return 0
	}
	return len(m.segments[segment])
}

// CheckInsert returns the error Insert would return, without writing.
// The boolean is true when the cell already holds v.
func (m *Memory) CheckInsert(addr Relocatable, v Value) (bool, error) {
	if addr.Segment < 0 || addr.Segment >= len(m.segments) {
		return false, fmt.Errorf("write at %s: %w", addr, ErrUnknownSegment)
	}
	if addr.Offset < 0 {
		return false, fmt.Errorf("write at %s: %w", addr, ErrOffsetOverflow)
	}
	seg := m.segments[addr.Segment]
	if addr.Offset < len(seg) && seg[addr.Offset] != nil {
		if seg[addr.Offset].Equal(v) {
			return true, nil
		}
		return false, fmt.Errorf("write %s at %s, cell holds %s: %w", v, addr, seg[addr.Offset], ErrInconsistentMemory)
	}
	return false, nil
}

// Insert writes v at addr.
func (m *Memory) Insert(addr Relocatable, v Value) error {
	present, err := m.CheckInsert(addr, v)
	if err != nil || present {
		return err
	}
	seg := m.segments[addr.Segment]
	if addr.Offset >= len(seg) {
		grown := make([]*Value, addr.Offset+1)
		copy(grown, seg)
		seg = grown
		m.segments[addr.Segment] = seg
	}
	cell := v
	seg[addr.Offset] = &cell
	return nil
}

// Get returns the value at addr, if set.
func (m *Memory) Get(addr Relocatable) (Value, bool) {
	if addr.Segment < 0 || addr.Segment >= len(m.segments) {
		return Value{}, false
	}
	seg := m.segments[addr.Segment]
	if addr.Offset < 0 || addr.Offset >= len(seg) || seg[addr.Offset] == nil {
		return Value{}, false
	}
	return *seg[addr.Offset], true
}

// GetFelt returns the field element at addr.
func (m *Memory) GetFelt(addr Relocatable) (felt.Felt, error) {
	v, ok := m.Get(addr)
	if !ok {
		return felt.Felt{}, fmt.Errorf("read %s: %w", addr, ErrMissingCell)
	}
	f, ok := v.Felt()
	if !ok {
		return felt.Felt{}, kindError(addr, "felt", v)
	}
	return f, nil
}

// GetRelocatable returns the address stored at addr.
func (m *Memory) GetRelocatable(addr Relocatable) (Relocatable, error) {
	v, ok := m.Get(addr)
	if !ok {
		return Relocatable{}, fmt.Errorf("read %s: %w", addr, ErrMissingCell)
	}
	r, ok := v.Relocatable()
	if !ok {
		return Relocatable{}, kindError(addr, "relocatable", v)
	}
	return r, nil
}

// GetContinuousRange returns the n consecutive values starting at addr.
// Every cell in the range must be set. The result grows with the cells
// read, so n may exceed what memory holds.
func (m *Memory) GetContinuousRange(addr Relocatable, n int) ([]Value, error) {
	var res []Value
	for i := 0; i < n; i++ {
		a, err := addr.Add(i)
		if err != nil {
			return nil, err
		}
		v, ok := m.Get(a)
		if !ok {
			return nil, fmt.Errorf("range %s+%d: read %s: %w", addr, n, a, ErrMissingCell)
		}
		res = append(res, v)
	}
	return res, nil
}

// GetFeltRange is GetContinuousRange restricted to field elements.
func (m *Memory) GetFeltRange(addr Relocatable, n int) ([]felt.Felt, error) {
	values, err := m.GetContinuousRange(addr, n)
	if err != nil {
		return nil, err
	}
	res := make([]felt.Felt, n)
	for i, v := range values {
		f, ok := v.Felt()
		if !ok {
			a, _ := addr.Add(i)
			return nil, kindError(a, "felt", v)
		}
		res[i] = f
	}
	return res, nil
}
