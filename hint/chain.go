package hint

import (
	"errors"
	"fmt"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Chain dispatches a hint to the first provider that recognizes it.
type Chain struct {
	providers []Provider
}

// NewChain composes providers in priority order.
func NewChain(providers ...Provider) *Chain {
	return &Chain{providers: append([]Provider(nil), providers...)}
}

// Providers returns the providers in priority order.
func (c *Chain) Providers() []Provider {
	return append([]Provider(nil), c.providers...)
}

// Execute tries each provider in order. Only an unwrapped *UnknownHintError
// moves on to the next provider; any other error is returned as is. When no
// provider recognizes the code the result is an *UnknownHintError.
//
// It returns the name of the provider that handled the hint.
func (c *Chain) Execute(ctx *Context) (string, error) {
	for _, p := range c.providers {
		err := p.Execute(ctx)
		if u, ok := err.(*UnknownHintError); ok && u.Code == ctx.Code() {
			continue
		}
		if err != nil {
			return p.Name(), fmt.Errorf("%s: %w", p.Name(), err)
		}
		return p.Name(), nil
	}
	return "", &UnknownHintError{Code: ctx.Code(), Suggestion: c.suggest(ctx.Code())}
}

type codeLister interface {
	Codes() []string
}

// suggest returns the registered code with the smallest edit distance to
// code, if that distance is small compared to the code length.
func (c *Chain) suggest(code string) string {
	best, bestDist := "", -1
	for _, p := range c.providers {
		l, ok := p.(codeLister)
		if !ok {
			continue
		}
		for _, candidate := range l.Codes() {
			d := fuzzy.LevenshteinDistance(code, candidate)
			if bestDist < 0 || d < bestDist {
				best, bestDist = candidate, d
			}
		}
	}
	if bestDist < 0 || bestDist > len(code)/8+2 {
		return ""
	}
	return best
}

// IsUnknown reports whether err reports an unrecognized hint.
func IsUnknown(err error) bool {
	return errors.Is(err, ErrUnknownHint)
}
