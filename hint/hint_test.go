package hint

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/chunkproc/cairohints/input"
	"github.com/chunkproc/cairohints/vm"
)

func newContext(code string) *Context {
	return NewContext(vm.New(), &vm.HintData{Code: code}, input.New(nil), nil, zerolog.Nop())
}

func recorder(calls *[]string, tag string) Function {
	return func(*Context) error {
		*calls = append(*calls, tag)
		return nil
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	assert := require.New(t)
	noop := func(*Context) error { return nil }

	_, err := NewRegistry("r", NewHint("a", noop, "x = 1"), NewHint("b", noop, "x = 1"))
	assert.ErrorIs(err, ErrDuplicateHint)

	_, err = NewRegistry("r", NewHint("a", noop, "x = 1"), NewHint("a", noop, "x = 2"))
	assert.ErrorIs(err, ErrDuplicateHint)

	_, err = NewRegistry("r", NewHint("a", noop, "x = 1", "x = 1"))
	assert.ErrorIs(err, ErrDuplicateHint)

	_, err = NewRegistry("r", NewHint("a", nil, "x = 1"))
	assert.Error(err)

	_, err = NewRegistry("r", NewHint("a", noop))
	assert.Error(err)
}

func TestLookupIsExact(t *testing.T) {
	assert := require.New(t)
	noop := func(*Context) error { return nil }
	r, err := NewRegistry("r", NewHint("a", noop, "x = 1", "x=1"))
	assert.NoError(err)

	_, ok := r.Lookup("x = 1")
	assert.True(ok)
	_, ok = r.Lookup("x=1")
	assert.True(ok)
	_, ok = r.Lookup("x = 1 ")
	assert.False(ok)
	_, ok = r.Lookup(" x = 1")
	assert.False(ok)
	_, ok = r.Lookup("X = 1")
	assert.False(ok)

	h, ok := r.ByName("a")
	assert.True(ok)
	assert.Len(h.Codes, 2)
	assert.Equal([]string{"x = 1", "x=1"}, r.Codes())
	assert.Len(r.Hints(), 1)
}

func TestChainFallbackOrder(t *testing.T) {
	assert := require.New(t)
	var calls []string

	first, err := NewRegistry("first", NewHint("y", recorder(&calls, "first"), "y"))
	assert.NoError(err)
	second, err := NewRegistry("second",
		NewHint("x", recorder(&calls, "second"), "x"),
		NewHint("y", recorder(&calls, "second-y"), "y"),
	)
	assert.NoError(err)
	chain := NewChain(first, second)

	name, err := chain.Execute(newContext("x"))
	assert.NoError(err)
	assert.Equal("second", name)
	assert.Equal([]string{"second"}, calls)

	// first registry wins on shared codes
	name, err = chain.Execute(newContext("y"))
	assert.NoError(err)
	assert.Equal("first", name)
	assert.Equal([]string{"second", "first"}, calls)

	_, err = chain.Execute(newContext("z"))
	assert.ErrorIs(err, ErrUnknownHint)
	assert.True(IsUnknown(err))
	var u *UnknownHintError
	assert.ErrorAs(err, &u)
	assert.Equal("z", u.Code)
	assert.Len(calls, 2)
}

func TestChainStopsOnHandlerFailure(t *testing.T) {
	assert := require.New(t)
	boom := errors.New("boom")
	var calls []string

	failing, err := NewRegistry("failing", NewHint("x", func(*Context) error { return boom }, "x"))
	assert.NoError(err)
	// a handler failing with an unknown hint error is still a failure
	nested, err := NewRegistry("nested", NewHint("y", func(*Context) error {
		return &UnknownHintError{Code: "y"}
	}, "y"))
	assert.NoError(err)
	fallback, err := NewRegistry("fallback",
		NewHint("x", recorder(&calls, "x"), "x"),
		NewHint("y", recorder(&calls, "y"), "y"),
	)
	assert.NoError(err)
	chain := NewChain(failing, nested, fallback)

	name, err := chain.Execute(newContext("x"))
	assert.ErrorIs(err, boom)
	assert.Equal("failing", name)

	name, err = chain.Execute(newContext("y"))
	assert.Error(err)
	assert.Equal("nested", name)
	assert.Empty(calls)
}

func TestPanicBecomesError(t *testing.T) {
	assert := require.New(t)
	r, err := NewRegistry("r", NewHint("p", func(*Context) error { panic("bad") }, "p"))
	assert.NoError(err)

	err = r.Execute(newContext("p"))
	assert.Error(err)
	assert.Contains(err.Error(), "panic: bad")
}

func TestUnknownHintSuggestion(t *testing.T) {
	assert := require.New(t)
	noop := func(*Context) error { return nil }
	code := "ids.a = program_input['a']\nids.b = program_input['b']"
	r, err := NewRegistry("r", NewHint("ab", noop, code))
	assert.NoError(err)
	chain := NewChain(r)

	_, err = chain.Execute(newContext(code + " "))
	var u *UnknownHintError
	assert.ErrorAs(err, &u)
	assert.Equal(code, u.Suggestion)

	_, err = chain.Execute(newContext("print(1)"))
	assert.ErrorAs(err, &u)
	assert.Empty(u.Suggestion)
}

func TestUUID(t *testing.T) {
	assert := require.New(t)
	assert.Equal(UUID("a"), UUID("a"))
	assert.NotEqual(UUID("a"), UUID("a "))
	assert.Len(UUID("a").String(), 16)
}
