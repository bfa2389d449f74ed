// Package vm models the part of a Cairo virtual machine that hints interact
// with: segmented memory, the run context registers and the per hint
// reference data emitted by the compiler. It does not execute instructions.
package vm

// RunContext holds the program counter, allocation pointer and frame pointer.
type RunContext struct {
	PC Relocatable
	AP Relocatable
	FP Relocatable
}

// VirtualMachine is the state a hint can observe and mutate.
type VirtualMachine struct {
	Memory     *Memory
	RunContext RunContext
}

// New returns a machine with a program segment and an execution segment,
// the layout produced by a runner before the first step: pc points at the
// program base, ap and fp at the execution base.
func New() *VirtualMachine {
	mem := NewMemory()
	program := mem.AddSegment()
	execution := mem.AddSegment()
	return &VirtualMachine{
		Memory: mem,
		RunContext: RunContext{
			PC: program,
			AP: execution,
			FP: execution,
		},
	}
}
