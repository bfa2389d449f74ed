package test

import (
	"bytes"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/chunkproc/cairohints/felt"
	"github.com/chunkproc/cairohints/hint"
	"github.com/chunkproc/cairohints/input"
	"github.com/chunkproc/cairohints/vm"
)

// Engine runs hints against a scratch machine.
//
// Variables are laid out from fp upwards in declaration order, the way a
// compiler lays out locals; each declaration records the reference a
// compiler would emit for it, so hints resolve them exactly as in a run.
type Engine struct {
	vm     *vm.VirtualMachine
	inputs *input.Store
	ids    map[string]vm.Reference
	next   int // next free fp offset
	out    bytes.Buffer
	eOpts  engineOpts
}

type engineOpts struct {
	inputs     *input.Store
	apTracking vm.ApTracking
	log        zerolog.Logger
}

// TestEngineOption defines an option for the test engine.
type TestEngineOption func(e *engineOpts) error

// WithInputs is a test engine option which parses a JSON private input
// bundle. If not set, the bundle is empty.
func WithInputs(doc string) TestEngineOption {
	return func(e *engineOpts) error {
		s, err := input.ParseBytes([]byte(doc))
		if err != nil {
			return err
		}
		e.inputs = s
		return nil
	}
}

// WithStore is a test engine option which sets an already parsed bundle.
func WithStore(s *input.Store) TestEngineOption {
	return func(e *engineOpts) error {
		e.inputs = s
		return nil
	}
}

// WithLogger is a test engine option which sets the logger handed to hints.
func WithLogger(l zerolog.Logger) TestEngineOption {
	return func(e *engineOpts) error {
		e.log = l
		return nil
	}
}

// WithApTracking is a test engine option which sets the ap tracking data
// recorded at the hint location, for ap based references made with Declare.
func WithApTracking(group, offset int) TestEngineOption {
	return func(e *engineOpts) error {
		e.apTracking = vm.ApTracking{Group: group, Offset: offset}
		return nil
	}
}

// NewEngine returns an engine with an empty frame at the start of the
// execution segment.
func NewEngine(opts ...TestEngineOption) (*Engine, error) {
	e := &Engine{
		vm:  vm.New(),
		ids: make(map[string]vm.Reference),
		eOpts: engineOpts{
			log: zerolog.Nop(),
		},
	}
	for _, opt := range opts {
		if err := opt(&e.eOpts); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}
	e.inputs = e.eOpts.inputs
	if e.inputs == nil {
		e.inputs = input.New(nil)
	}
	return e, nil
}

func (e *Engine) alloc(size int) vm.Relocatable {
	addr, _ := e.vm.RunContext.FP.Add(e.next)
	e.next += size
	// ap follows the locals
	e.vm.RunContext.AP, _ = e.vm.RunContext.FP.Add(e.next)
	return addr
}

// Slot declares an unset felt variable and returns its address.
func (e *Engine) Slot(name string) vm.Relocatable {
	off := e.next
	addr := e.alloc(1)
	e.ids[name] = vm.Reference{Register: vm.FP, Offset: off, Dereference: true}
	return addr
}

// Felt declares a felt variable holding v.
func (e *Engine) Felt(name string, v uint64) vm.Relocatable {
	addr := e.Slot(name)
	if err := e.vm.Memory.Insert(addr, vm.FeltValue(felt.FromUint64(v))); err != nil {
		panic(err)
	}
	return addr
}

// Struct declares an unset struct variable of size cells laid out in place.
func (e *Engine) Struct(name string, size int) vm.Relocatable {
	off := e.next
	addr := e.alloc(size)
	e.ids[name] = vm.Reference{Register: vm.FP, Offset: off}
	return addr
}

// StructOf declares a struct variable holding members.
func (e *Engine) StructOf(name string, members ...uint64) vm.Relocatable {
	addr := e.Struct(name, len(members))
	for i, m := range members {
		a, _ := addr.Add(i)
		if err := e.vm.Memory.Insert(a, vm.FeltValue(felt.FromUint64(m))); err != nil {
			panic(err)
		}
	}
	return addr
}

// Pointer declares a pointer variable to a freshly allocated segment, as
// alloc() does, and returns the segment base.
func (e *Engine) Pointer(name string) vm.Relocatable {
	seg := e.vm.Memory.AddSegment()
	addr := e.Slot(name)
	if err := e.vm.Memory.Insert(addr, vm.RelocatableValue(seg)); err != nil {
		panic(err)
	}
	return seg
}

// PointerTo declares a pointer variable to a freshly allocated segment
// filled with values.
func (e *Engine) PointerTo(name string, values ...uint64) vm.Relocatable {
	seg := e.Pointer(name)
	for i, v := range values {
		a, _ := seg.Add(i)
		if err := e.vm.Memory.Insert(a, vm.FeltValue(felt.FromUint64(v))); err != nil {
			panic(err)
		}
	}
	return seg
}

// Declare records an arbitrary reference.
func (e *Engine) Declare(name string, ref vm.Reference) {
	e.ids[name] = ref
}

// VM returns the scratch machine.
func (e *Engine) VM() *vm.VirtualMachine {
	return e.vm
}

// Output returns what hints printed so far.
func (e *Engine) Output() string {
	return e.out.String()
}

// HintData returns the data the VM would hand over for code.
func (e *Engine) HintData(code string) *vm.HintData {
	refs := make(map[string]vm.Reference, len(e.ids))
	for k, v := range e.ids {
		refs[k] = v
	}
	return &vm.HintData{Code: code, Ids: refs, ApTracking: e.eOpts.apTracking}
}

// Context returns a hint context for code over the scratch machine.
func (e *Engine) Context(code string) *hint.Context {
	return hint.NewContext(e.vm, e.HintData(code), e.inputs, &e.out, e.eOpts.log)
}

// RunHint executes h under its first code, through a registry, so that
// panics and errors surface the way they do in a run.
func (e *Engine) RunHint(h hint.Hint) error {
	if len(h.Codes) == 0 {
		return fmt.Errorf("hint %s has no code", h.Name)
	}
	return e.RunCode(h, h.Codes[0])
}

// RunCode executes h under one of its codes.
func (e *Engine) RunCode(h hint.Hint, code string) error {
	r, err := hint.NewRegistry("test", h)
	if err != nil {
		return err
	}
	return r.Execute(e.Context(code))
}

// Snapshot returns the encoded memory, to compare states before and
// after a failing hint.
func (e *Engine) Snapshot() []byte {
	data, err := e.vm.Memory.MarshalBinary()
	if err != nil {
		panic(err)
	}
	return data
}
