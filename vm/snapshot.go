package vm

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/fxamacker/cbor/v2"

	"github.com/chunkproc/cairohints/felt"
)

type snapshotCell struct {
	Offset int    `cbor:"1,keyasint"`
	Felt   []byte `cbor:"2,keyasint,omitempty"` // big-endian, empty for zero
	Ptr    []int  `cbor:"3,keyasint,omitempty"` // [segment, offset]
}

type snapshot struct {
	Segments [][]snapshotCell `cbor:"1,keyasint"`
}

// MarshalBinary encodes the written cells of every segment with canonical
// CBOR. Two memories with the same content encode to the same bytes.
func (m *Memory) MarshalBinary() ([]byte, error) {
	s := snapshot{Segments: make([][]snapshotCell, len(m.segments))}
	for i, seg := range m.segments {
		cells := make([]snapshotCell, 0, len(seg))
		for off, c := range seg {
			if c == nil {
				continue
			}
			sc := snapshotCell{Offset: off}
			if r, ok := c.Relocatable(); ok {
				sc.Ptr = []int{r.Segment, r.Offset}
			} else {
				f, _ := c.Felt()
				sc.Felt = f.BigInt().Bytes()
			}
			cells = append(cells, sc)
		}
		s.Segments[i] = cells
	}

	encMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("cbor encoder: %w", err)
	}
	return encMode.Marshal(&s)
}

// UnmarshalBinary restores a memory encoded by MarshalBinary. The receiver
// must be empty.
func (m *Memory) UnmarshalBinary(data []byte) error {
	if len(m.segments) != 0 {
		return errors.New("unmarshal into a non empty memory")
	}
	var s snapshot
	if err := cbor.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("cbor decoding: %w", err)
	}
	for range s.Segments {
		m.AddSegment()
	}
	for i, cells := range s.Segments {
		for _, c := range cells {
			var v Value
			if len(c.Ptr) == 2 {
				v = RelocatableValue(NewRelocatable(c.Ptr[0], c.Ptr[1]))
			} else {
				f, err := felt.FromBigInt(new(big.Int).SetBytes(c.Felt))
				if err != nil {
					return fmt.Errorf("cell %d:%d: %w", i, c.Offset, err)
				}
				v = FeltValue(f)
			}
			if err := m.Insert(NewRelocatable(i, c.Offset), v); err != nil {
				return err
			}
		}
	}
	return nil
}
