// Package ids resolves the identifiers a hint refers to (ids.<name> in the
// hint text) to memory addresses and values, using the references the
// compiler recorded for the hint location.
package ids

import (
	"errors"
	"fmt"

	"github.com/chunkproc/cairohints/felt"
	"github.com/chunkproc/cairohints/vm"
)

var (
	// ErrUnknownIdentifier is returned for names with no reference at the hint location.
	ErrUnknownIdentifier = errors.New("unknown identifier")
	// ErrApTracking is returned when an ap based reference belongs to another tracking group.
	ErrApTracking = errors.New("ap tracking group mismatch")
)

// Resolver computes addresses of identifiers. It never writes memory.
type Resolver struct {
	vm   *vm.VirtualMachine
	data *vm.HintData
}

// NewResolver returns a resolver bound to the current machine state and
// the hint being executed.
func NewResolver(v *vm.VirtualMachine, data *vm.HintData) *Resolver {
	return &Resolver{vm: v, data: data}
}

func (r *Resolver) reference(name string) (vm.Reference, error) {
	ref, ok := r.data.Ids[name]
	if !ok {
		return vm.Reference{}, fmt.Errorf("ids.%s: %w", name, ErrUnknownIdentifier)
	}
	return ref, nil
}

// base returns the register value the reference is relative to. For ap
// based references ap is corrected by the number of cells allocated since
// the reference was taken, which requires both to share a tracking group.
func (r *Resolver) base(name string, ref vm.Reference) (vm.Relocatable, error) {
	switch ref.Register {
	case vm.FP:
		return r.vm.RunContext.FP, nil
	case vm.AP:
		hint := r.data.ApTracking
		if hint.Group != ref.ApTracking.Group {
			return vm.Relocatable{}, fmt.Errorf("ids.%s: reference group %d, hint group %d: %w",
				name, ref.ApTracking.Group, hint.Group, ErrApTracking)
		}
		ap, err := r.vm.RunContext.AP.Add(-(hint.Offset - ref.ApTracking.Offset))
		if err != nil {
			return vm.Relocatable{}, fmt.Errorf("ids.%s: %w", name, err)
		}
		return ap, nil
	default:
		return vm.Relocatable{}, fmt.Errorf("ids.%s: unsupported register %s", name, ref.Register)
	}
}

// Addr returns the address of the identifier.
func (r *Resolver) Addr(name string) (vm.Relocatable, error) {
	ref, err := r.reference(name)
	if err != nil {
		return vm.Relocatable{}, err
	}
	base, err := r.base(name, ref)
	if err != nil {
		return vm.Relocatable{}, err
	}
	addr, err := base.Add(ref.Offset)
	if err != nil {
		return vm.Relocatable{}, fmt.Errorf("ids.%s: %w", name, err)
	}
	if ref.Inner {
		addr, err = r.vm.Memory.GetRelocatable(addr)
		if err != nil {
			return vm.Relocatable{}, fmt.Errorf("ids.%s: %w", name, err)
		}
	}
	return addr, nil
}

// Ptr returns the address a pointer identifier points to. References that
// are not dereferenced denote the address itself.
func (r *Resolver) Ptr(name string) (vm.Relocatable, error) {
	ref, err := r.reference(name)
	if err != nil {
		return vm.Relocatable{}, err
	}
	addr, err := r.Addr(name)
	if err != nil {
		return vm.Relocatable{}, err
	}
	if !ref.Dereference {
		return addr, nil
	}
	ptr, err := r.vm.Memory.GetRelocatable(addr)
	if err != nil {
		return vm.Relocatable{}, fmt.Errorf("ids.%s: %w", name, err)
	}
	return ptr, nil
}

// Value returns the value of the identifier.
func (r *Resolver) Value(name string) (vm.Value, error) {
	ref, err := r.reference(name)
	if err != nil {
		return vm.Value{}, err
	}
	addr, err := r.Addr(name)
	if err != nil {
		return vm.Value{}, err
	}
	if !ref.Dereference {
		return vm.RelocatableValue(addr), nil
	}
	v, ok := r.vm.Memory.Get(addr)
	if !ok {
		return vm.Value{}, fmt.Errorf("ids.%s at %s: %w", name, addr, vm.ErrMissingCell)
	}
	return v, nil
}

// Felt returns the value of a felt identifier.
func (r *Resolver) Felt(name string) (felt.Felt, error) {
	v, err := r.Value(name)
	if err != nil {
		return felt.Felt{}, err
	}
	f, ok := v.Felt()
	if !ok {
		return felt.Felt{}, fmt.Errorf("ids.%s holds a relocatable: %w", name, vm.ErrUnexpectedKind)
	}
	return f, nil
}

// Uint256 reads a two limb struct identifier laid out as [low, high].
func (r *Resolver) Uint256(name string) (felt.Uint256, error) {
	addr, err := r.Addr(name)
	if err != nil {
		return felt.Uint256{}, err
	}
	limbs, err := r.vm.Memory.GetFeltRange(addr, 2)
	if err != nil {
		return felt.Uint256{}, fmt.Errorf("ids.%s: %w", name, err)
	}
	return felt.Uint256{Low: limbs[0], High: limbs[1]}, nil
}

// Has reports whether name is in scope.
func (r *Resolver) Has(name string) bool {
	_, ok := r.data.Ids[name]
	return ok
}
