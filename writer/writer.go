// Package writer stages structured writes into VM memory and commits them
// at once. Nothing reaches memory before Commit, so a hint that fails half
// way leaves memory exactly as it found it.
package writer

import (
	"fmt"

	"github.com/chunkproc/cairohints/felt"
	"github.com/chunkproc/cairohints/vm"
)

type cell struct {
	addr  vm.Relocatable
	value vm.Value
}

// Writer accumulates writes against a memory. Each Write* call is atomic:
// it validates every target cell first and stages nothing on error.
//
// Segments allocated by WriteJaggedArray are reserved at staging time, as
// the indices following the last segment of memory, and added on Commit.
// Memory must not gain segments between New and Commit.
type Writer struct {
	mem         *vm.Memory
	base        int // first reserved segment index
	newSegments int // number of reserved segments
	cells       []cell
	staged      map[vm.Relocatable]int // index in cells
}

// New returns a writer over mem.
func New(mem *vm.Memory) *Writer {
	return &Writer{
		mem:    mem,
		base:   mem.NumSegments(),
		staged: make(map[vm.Relocatable]int),
	}
}

// WriteScalar writes one field element at addr.
func (w *Writer) WriteScalar(addr vm.Relocatable, v felt.Felt) error {
	return w.stage([]cell{{addr, vm.FeltValue(v)}}, 0)
}

// WriteValue writes one cell value (felt or relocatable) at addr.
func (w *Writer) WriteValue(addr vm.Relocatable, v vm.Value) error {
	return w.stage([]cell{{addr, v}}, 0)
}

// WriteStruct writes the members of a struct at consecutive addresses from
// base, in the given order. The order must match the struct layout; for a
// Uint256 that is [low, high].
func (w *Writer) WriteStruct(base vm.Relocatable, members []felt.Felt) error {
	return w.WriteFlatArray(base, members)
}

// WriteFlatArray writes values at base, base+1, ...
func (w *Writer) WriteFlatArray(base vm.Relocatable, values []felt.Felt) error {
	batch, err := run(base, vm.Feltify(values))
	if err != nil {
		return err
	}
	return w.stage(batch, 0)
}

// WriteJaggedArray allocates one new segment per inner array, writes the
// inner elements from offset 0 of that segment, and stores the segment base
// at outer+i. It returns the allocated segment bases. Inner lengths are not
// recorded; callers write them as a separate flat array.
func (w *Writer) WriteJaggedArray(outer vm.Relocatable, arrays [][]felt.Felt) ([]vm.Relocatable, error) {
	bases := make([]vm.Relocatable, len(arrays))
	first := w.base + w.newSegments
	var batch []cell
	for i, arr := range arrays {
		bases[i] = vm.NewRelocatable(first+i, 0)
		slot, err := outer.Add(i)
		if err != nil {
			return nil, err
		}
		batch = append(batch, cell{slot, vm.RelocatableValue(bases[i])})
		inner, err := run(bases[i], vm.Feltify(arr))
		if err != nil {
			return nil, err
		}
		batch = append(batch, inner...)
	}
	if err := w.stage(batch, len(arrays)); err != nil {
		return nil, err
	}
	return bases, nil
}

// Len returns the number of staged cells.
func (w *Writer) Len() int {
	return len(w.cells)
}

// Commit allocates the reserved segments and writes every staged cell.
// It returns the number of cells written. On error memory is unchanged.
func (w *Writer) Commit() (int, error) {
	if w.mem.NumSegments() != w.base {
		return 0, fmt.Errorf("memory has %d segments, writer expected %d", w.mem.NumSegments(), w.base)
	}
	for _, c := range w.cells {
		if c.addr.Segment < w.base {
			if _, err := w.mem.CheckInsert(c.addr, c.value); err != nil {
				return 0, err
			}
		}
	}
	for i := 0; i < w.newSegments; i++ {
		w.mem.AddSegment()
	}
	for _, c := range w.cells {
		if err := w.mem.Insert(c.addr, c.value); err != nil {
			return 0, fmt.Errorf("commit: %w", err)
		}
	}
	n := len(w.cells)
	w.cells = nil
	w.newSegments = 0
	w.base = w.mem.NumSegments()
	w.staged = make(map[vm.Relocatable]int)
	return n, nil
}

// stage validates batch, which may target the nbSegments segments that
// follow the ones already reserved, then stages it.
func (w *Writer) stage(batch []cell, nbSegments int) error {
	limit := w.base + w.newSegments + nbSegments
	local := make(map[vm.Relocatable]vm.Value, len(batch))
	for _, c := range batch {
		if c.addr.Segment < 0 || c.addr.Segment >= limit {
			return fmt.Errorf("write at %s: %w", c.addr, vm.ErrUnknownSegment)
		}
		if c.addr.Offset < 0 {
			return fmt.Errorf("write at %s: %w", c.addr, vm.ErrOffsetOverflow)
		}
		if prev, ok := local[c.addr]; ok && !prev.Equal(c.value) {
			return fmt.Errorf("write %s at %s, batch also writes %s: %w", c.value, c.addr, prev, vm.ErrInconsistentMemory)
		}
		local[c.addr] = c.value
		if i, ok := w.staged[c.addr]; ok {
			if !w.cells[i].value.Equal(c.value) {
				return fmt.Errorf("write %s at %s, already staged %s: %w", c.value, c.addr, w.cells[i].value, vm.ErrInconsistentMemory)
			}
			continue
		}
		if c.addr.Segment < w.base {
			if _, err := w.mem.CheckInsert(c.addr, c.value); err != nil {
				return err
			}
		}
	}
	w.newSegments += nbSegments
	for _, c := range batch {
		if _, ok := w.staged[c.addr]; ok {
			continue
		}
		w.staged[c.addr] = len(w.cells)
		w.cells = append(w.cells, c)
	}
	return nil
}

func run(base vm.Relocatable, values []vm.Value) ([]cell, error) {
	batch := make([]cell, len(values))
	for i, v := range values {
		addr, err := base.Add(i)
		if err != nil {
			return nil, err
		}
		batch[i] = cell{addr, v}
	}
	return batch, nil
}
