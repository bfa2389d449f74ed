package vm

import (
	"fmt"

	"github.com/chunkproc/cairohints/felt"
)

// Value is the content of a memory cell: either a field element or a
// relocatable address.
type Value struct {
	rel   Relocatable
	felt  felt.Felt
	isRel bool
}

// FeltValue wraps a field element.
func FeltValue(f felt.Felt) Value {
	return Value{felt: f}
}

// RelocatableValue wraps an address.
func RelocatableValue(r Relocatable) Value {
	return Value{rel: r, isRel: true}
}

// IsRelocatable reports whether v holds an address.
func (v Value) IsRelocatable() bool {
	return v.isRel
}

// Felt returns the field element held by v.
func (v Value) Felt() (felt.Felt, bool) {
	return v.felt, !v.isRel
}

// Relocatable returns the address held by v.
func (v Value) Relocatable() (Relocatable, bool) {
	return v.rel, v.isRel
}

// Equal reports whether both values have the same kind and content.
func (v Value) Equal(o Value) bool {
	if v.isRel != o.isRel {
		return false
	}
	if v.isRel {
		return v.rel == o.rel
	}
	return v.felt.Equal(o.felt)
}

func (v Value) String() string {
	if v.isRel {
		return v.rel.String()
	}
	return v.felt.String()
}

// Feltify converts a slice of field elements to cell values.
func Feltify(fs []felt.Felt) []Value {
	res := make([]Value, len(fs))
	for i, f := range fs {
		res[i] = FeltValue(f)
	}
	return res
}

func expectedKind(v Value) string {
	if v.isRel {
		return "relocatable"
	}
	return "felt"
}

func kindError(addr Relocatable, want string, got Value) error {
	return fmt.Errorf("cell %s holds a %s, expected a %s: %w", addr, expectedKind(got), want, ErrUnexpectedKind)
}
