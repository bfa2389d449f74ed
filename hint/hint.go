// Package hint contains hint definitions, registries and the dispatch chain.
//
// A hint is native code that runs when the VM reaches a program point
// annotated with a hint. The VM only knows the hint by its source text, so
// a hint is registered under every exact text it may appear as; matching
// is byte for byte, there is no trimming or pattern matching.
//
// Registries are built once, are immutable, and are composed in a fixed
// priority order by a Chain:
//
//	lib, _ := hint.NewRegistry("lib", words.GetHints()...)
//	domain, _ := hint.NewRegistry("chunk_processor", chunk.GetHints()...)
//	chain := hint.NewChain(lib, domain)
//	provider, err := chain.Execute(ctx)
package hint

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// ID is the canonical identifier of a hint code, computed once at
// registration as the blake2b-256 digest of the exact source text.
type ID [blake2b.Size256]byte

// UUID returns the ID of a hint source text.
func UUID(code string) ID {
	return blake2b.Sum256([]byte(code))
}

func (id ID) String() string {
	return hex.EncodeToString(id[:8])
}

// Function is the signature of a hint implementation.
type Function func(ctx *Context) error

// Hint binds a native function to the source texts it is registered under.
type Hint struct {
	Name  string   // stable name, used in logs and run scripts
	Codes []string // exact source texts
	Fn    Function
}

// NewHint returns a hint registered under each of codes.
func NewHint(name string, fn Function, codes ...string) Hint {
	return Hint{Name: name, Codes: codes, Fn: fn}
}
