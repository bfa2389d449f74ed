package vm

import "fmt"

// Register identifies the base register of a reference.
type Register uint8

const (
	AP Register = iota
	FP
)

func (r Register) String() string {
	switch r {
	case AP:
		return "ap"
	case FP:
		return "fp"
	default:
		return fmt.Sprintf("register(%d)", uint8(r))
	}
}

// ApTracking locates ap relative to the start of a flow-tracking group;
// it is only meaningful for ap based references.
type ApTracking struct {
	Group  int
	Offset int
}

// Reference describes where a program variable lives at a given program
// point, as recorded by the compiler for every identifier a hint accesses:
//
//	[reg + Offset]      Inner == false
//	[[reg + Offset]]    Inner == true, the cell holds the variable address
//
// Dereference is true when the variable is the value stored at the address
// (felts, pointers) and false when the variable is the address itself
// (structs laid out in place).
type Reference struct {
	Register    Register
	Offset      int
	Inner       bool
	Dereference bool
	ApTracking  ApTracking
}

// HintData is what the VM hands to the hint processor at a suspension point
type HintData struct {
	Code       string               // hint source text, matched verbatim
	Ids        map[string]Reference // identifiers in scope, keyed by name (without "ids.")
	ApTracking ApTracking           // ap tracking at the hint location
}
