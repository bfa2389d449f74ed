package hint

import (
	"fmt"
	"runtime/debug"
	"sort"
)

// Provider is one link of a dispatch chain.
type Provider interface {
	Name() string
	// Execute runs the hint matching ctx.Code(). A provider that does not
	// recognize the code returns an unwrapped *UnknownHintError.
	Execute(ctx *Context) error
}

type entry struct {
	code string
	hint *Hint
}

// Registry is an immutable set of hints indexed by code.
type Registry struct {
	name   string
	byID   map[ID]entry
	byName map[string]*Hint
}

// NewRegistry builds a registry. Codes and names must be unique within it.
func NewRegistry(name string, hints ...Hint) (*Registry, error) {
	r := &Registry{
		name:   name,
		byID:   make(map[ID]entry),
		byName: make(map[string]*Hint, len(hints)),
	}
	for i := range hints {
		h := hints[i]
		if h.Fn == nil {
			return nil, fmt.Errorf("registry %s: hint %s has no function", name, h.Name)
		}
		if len(h.Codes) == 0 {
			return nil, fmt.Errorf("registry %s: hint %s has no code", name, h.Name)
		}
		if _, ok := r.byName[h.Name]; ok {
			return nil, fmt.Errorf("registry %s: name %s: %w", name, h.Name, ErrDuplicateHint)
		}
		r.byName[h.Name] = &h
		for _, code := range h.Codes {
			id := UUID(code)
			if prev, ok := r.byID[id]; ok {
				return nil, fmt.Errorf("registry %s: %s and %s share code %s: %w", name, prev.hint.Name, h.Name, id, ErrDuplicateHint)
			}
			r.byID[id] = entry{code: code, hint: &h}
		}
	}
	return r, nil
}

// Name returns the registry name.
func (r *Registry) Name() string {
	return r.name
}

// Lookup returns the hint registered under the exact text code.
func (r *Registry) Lookup(code string) (*Hint, bool) {
	e, ok := r.byID[UUID(code)]
	if !ok || e.code != code {
		return nil, false
	}
	return e.hint, true
}

// ByName returns the hint registered with the given name.
func (r *Registry) ByName(name string) (*Hint, bool) {
	h, ok := r.byName[name]
	return h, ok
}

// Hints returns the registered hints sorted by name.
func (r *Registry) Hints() []*Hint {
	res := make([]*Hint, 0, len(r.byName))
	for _, h := range r.byName {
		res = append(res, h)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res
}

// Codes returns every registered code.
func (r *Registry) Codes() []string {
	res := make([]string, 0, len(r.byID))
	for _, e := range r.byID {
		res = append(res, e.code)
	}
	sort.Strings(res)
	return res
}

// Execute implements Provider.
func (r *Registry) Execute(ctx *Context) error {
	h, ok := r.Lookup(ctx.Code())
	if !ok {
		return &UnknownHintError{Code: ctx.Code()}
	}
	return call(h, ctx)
}

// call runs the hint, turning panics into errors.
func call(h *Hint, ctx *Context) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("hint %s: panic: %v\n%s", h.Name, p, debug.Stack())
		}
	}()
	if err = h.Fn(ctx); err != nil {
		return fmt.Errorf("hint %s: %w", h.Name, err)
	}
	return nil
}
