// Package processor is the boundary the VM calls into when it reaches a
// hint: it owns the private input and the dispatch chain, and runs one
// hint per ExecuteHint call.
//
// The built-in chain is, in priority order: the generic word hints, the
// print hints, the chunk processor input hints, then hints registered with
// WithExtraHints and providers added with WithProvider.
package processor

import (
	"fmt"
	"os"

	"github.com/chunkproc/cairohints/hint"
	"github.com/chunkproc/cairohints/hints/chunk"
	"github.com/chunkproc/cairohints/hints/diag"
	"github.com/chunkproc/cairohints/hints/words"
	"github.com/chunkproc/cairohints/input"
	"github.com/chunkproc/cairohints/logger"
	"github.com/chunkproc/cairohints/vm"
)

// HintProcessor executes hints against a VM. It is not safe for concurrent
// use; the VM runs hints one at a time.
type HintProcessor struct {
	inputs     *input.Store
	chain      *hint.Chain
	registries []*hint.Registry
	cfg        Config
}

// New returns a processor over the given private input.
func New(inputs *input.Store, opts ...Option) (*HintProcessor, error) {
	cfg := Config{
		Logger: *logger.Logger(),
		Output: os.Stdout,
	}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}
	if inputs == nil {
		inputs = input.New(nil)
	}
	if cfg.Schema != nil {
		if err := inputs.Validate(cfg.Schema); err != nil {
			return nil, err
		}
	}

	p := &HintProcessor{inputs: inputs, cfg: cfg}
	for _, set := range []struct {
		name  string
		hints []hint.Hint
	}{
		{"words", words.GetHints()},
		{"diag", diag.GetHints()},
		{"chunk", chunk.GetHints()},
	} {
		r, err := hint.NewRegistry(set.name, set.hints...)
		if err != nil {
			return nil, err
		}
		p.registries = append(p.registries, r)
	}

	if len(cfg.ExtraHints) > 0 {
		for _, h := range cfg.ExtraHints {
			for _, code := range h.Codes {
				if prev, ok := p.lookup(code); ok {
					return nil, fmt.Errorf("extra hint %s: code of built-in hint %s: %w", h.Name, prev.Name, hint.ErrDuplicateHint)
				}
			}
		}
		r, err := hint.NewRegistry("extra", cfg.ExtraHints...)
		if err != nil {
			return nil, err
		}
		p.registries = append(p.registries, r)
	}

	providers := make([]hint.Provider, 0, len(p.registries)+len(cfg.Providers))
	for _, r := range p.registries {
		providers = append(providers, r)
	}
	providers = append(providers, cfg.Providers...)
	p.chain = hint.NewChain(providers...)

	return p, nil
}

func (p *HintProcessor) lookup(code string) (*hint.Hint, bool) {
	for _, r := range p.registries {
		if h, ok := r.Lookup(code); ok {
			return h, true
		}
	}
	return nil, false
}

// hintName names the hint for logs and stats. Codes handled by a custom
// provider are named by their identifier.
func (p *HintProcessor) hintName(code string) string {
	if h, ok := p.lookup(code); ok {
		return h.Name
	}
	return hint.UUID(code).String()
}

// ExecuteHint runs the hint recorded in data against v. Any error is
// terminal for the run; on error no memory cell has been written.
func (p *HintProcessor) ExecuteHint(v *vm.VirtualMachine, data *vm.HintData) error {
	name := p.hintName(data.Code)
	log := p.cfg.Logger.With().Str("hint", name).Logger()

	ctx := hint.NewContext(v, data, p.inputs, p.cfg.Output, log)
	provider, err := p.chain.Execute(ctx)
	if p.cfg.Stats != nil {
		p.cfg.Stats.Add(name, ctx.Written(), err != nil)
	}
	if err != nil {
		log.Error().Err(err).Str("provider", provider).Str("pc", v.RunContext.PC.String()).Msg("hint failed")
		return err
	}
	log.Debug().Str("provider", provider).Int("cells", ctx.Written()).Msg("hint executed")
	return nil
}

// Inputs returns the private input the processor was built with.
func (p *HintProcessor) Inputs() *input.Store {
	return p.inputs
}

// Providers returns the dispatch chain in priority order.
func (p *HintProcessor) Providers() []hint.Provider {
	return p.chain.Providers()
}

// HintByName returns a registered hint by name, searching the registries
// in priority order.
func (p *HintProcessor) HintByName(name string) (*hint.Hint, bool) {
	for _, r := range p.registries {
		if h, ok := r.ByName(name); ok {
			return h, true
		}
	}
	return nil, false
}
