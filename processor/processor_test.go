package processor

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/chunkproc/cairohints/felt"
	"github.com/chunkproc/cairohints/hint"
	"github.com/chunkproc/cairohints/hints/chunk"
	"github.com/chunkproc/cairohints/hints/diag"
	"github.com/chunkproc/cairohints/input"
	"github.com/chunkproc/cairohints/internal/stats"
	"github.com/chunkproc/cairohints/test"
)

func newProcessor(t *testing.T, doc string, opts ...Option) *HintProcessor {
	t.Helper()
	s, err := input.ParseBytes([]byte(doc))
	require.NoError(t, err)
	opts = append([]Option{WithLogger(zerolog.Nop()), WithOutput(&bytes.Buffer{})}, opts...)
	p, err := New(s, opts...)
	require.NoError(t, err)
	return p
}

func TestReadInputEndToEnd(t *testing.T) {
	assert := require.New(t)

	p := newProcessor(t, `{"from_block_number_high": 100, "mmr_last_root_poseidon": "200"}`)
	e, err := test.NewEngine()
	assert.NoError(err)
	high := e.Slot("from_block_number_high")
	e.Slot("to_block_number_low")
	e.Slot("mmr_offset")
	root := e.Slot("mmr_last_root_poseidon")
	e.Struct("mmr_last_root_keccak", 2)
	e.Struct("block_n_plus_one_parent_hash_little", 2)

	assert.NoError(p.ExecuteHint(e.VM(), e.HintData(chunk.ReadInput)))

	v, err := e.VM().Memory.GetFelt(high)
	assert.NoError(err)
	assert.True(v.Equal(felt.FromUint64(0x64)))
	v, err = e.VM().Memory.GetFelt(root)
	assert.NoError(err)
	assert.True(v.Equal(felt.FromUint64(0xc8)))
}

func TestUnknownHintLeavesMemoryUnchanged(t *testing.T) {
	assert := require.New(t)

	p := newProcessor(t, `{"from_block_number_high": 100}`)
	e, err := test.NewEngine()
	assert.NoError(err)
	e.Slot("from_block_number_high")
	before := e.Snapshot()

	// one trailing space away from a registered code
	err = p.ExecuteHint(e.VM(), e.HintData(chunk.ReadInput+" "))
	assert.ErrorIs(err, hint.ErrUnknownHint)

	var unknown *hint.UnknownHintError
	assert.True(errors.As(err, &unknown))
	assert.Equal(chunk.ReadInput, unknown.Suggestion)
	assert.Equal(before, e.Snapshot())
}

func TestExtraHintsFallback(t *testing.T) {
	assert := require.New(t)

	var calls int
	extra := hint.NewHint("count", func(ctx *hint.Context) error {
		calls++
		return nil
	}, "count()")
	p := newProcessor(t, `{}`, WithExtraHints(extra))

	e, err := test.NewEngine()
	assert.NoError(err)
	assert.NoError(p.ExecuteHint(e.VM(), e.HintData("count()")))
	assert.Equal(1, calls)

	names := make([]string, 0)
	for _, pr := range p.Providers() {
		names = append(names, pr.Name())
	}
	assert.Equal([]string{"words", "diag", "chunk", "extra"}, names)

	h, ok := p.HintByName("count")
	assert.True(ok)
	assert.Equal("count", h.Name)
}

func TestExtraHintCollidingWithBuiltin(t *testing.T) {
	assert := require.New(t)

	noop := func(*hint.Context) error { return nil }
	_, err := New(input.New(nil), WithLogger(zerolog.Nop()), WithExtraHints(hint.NewHint("mine", noop, diag.PrintFinal)))
	assert.ErrorIs(err, hint.ErrDuplicateHint)

	_, err = New(input.New(nil), WithLogger(zerolog.Nop()), WithExtraHints(
		hint.NewHint("a", noop, "x"),
		hint.NewHint("b", noop, "x"),
	))
	assert.ErrorIs(err, hint.ErrDuplicateHint)
}

type recordingProvider struct {
	calls []string
}

func (r *recordingProvider) Name() string { return "recording" }

func (r *recordingProvider) Execute(ctx *hint.Context) error {
	r.calls = append(r.calls, ctx.Code())
	if ctx.Code() != "custom" {
		return &hint.UnknownHintError{Code: ctx.Code()}
	}
	return nil
}

func TestFailingHandlerDoesNotFallThrough(t *testing.T) {
	assert := require.New(t)

	last := &recordingProvider{}
	// read_input_prev requires peaks, the bundle has none
	p := newProcessor(t, `{}`, WithProvider(last))
	e, err := test.NewEngine()
	assert.NoError(err)
	e.Pointer("previous_peaks_values_poseidon")
	e.Pointer("previous_peaks_values_keccak")
	before := e.Snapshot()

	err = p.ExecuteHint(e.VM(), e.HintData(chunk.ReadInputPrev))
	assert.ErrorIs(err, input.ErrMissingField)
	assert.False(hint.IsUnknown(err))
	assert.Empty(last.calls)
	assert.Equal(before, e.Snapshot())

	assert.NoError(p.ExecuteHint(e.VM(), e.HintData("custom")))
	assert.Equal([]string{"custom"}, last.calls)
}

func TestStatsAndLogging(t *testing.T) {
	assert := require.New(t)

	var logs bytes.Buffer
	s := stats.NewGlobalStats()
	p := newProcessor(t, `{"from_block_number_high": 1}`,
		WithStats(s),
		WithLogger(zerolog.New(&logs).Level(zerolog.DebugLevel)),
	)

	e, err := test.NewEngine()
	assert.NoError(err)
	e.Slot("from_block_number_high")
	e.Slot("to_block_number_low")
	e.Slot("mmr_offset")
	e.Slot("mmr_last_root_poseidon")
	e.Struct("mmr_last_root_keccak", 2)
	e.Struct("block_n_plus_one_parent_hash_little", 2)

	assert.NoError(p.ExecuteHint(e.VM(), e.HintData(chunk.ReadInput)))
	assert.Error(p.ExecuteHint(e.VM(), e.HintData("nope")))

	assert.Equal(stats.HintStats{NbCalls: 1, NbCells: 8}, s.Get("read_input"))
	assert.Equal(stats.HintStats{NbCalls: 1, NbFailures: 1}, s.Get(hint.UUID("nope").String()))

	lines := strings.Split(strings.TrimSpace(logs.String()), "\n")
	assert.Len(lines, 2)
	assert.Contains(lines[0], `"level":"debug"`)
	assert.Contains(lines[0], `"hint":"read_input"`)
	assert.Contains(lines[0], `"provider":"chunk"`)
	assert.Contains(lines[0], `"cells":8`)
	assert.Contains(lines[1], `"level":"error"`)
}

func TestPrintHintsUseOutput(t *testing.T) {
	assert := require.New(t)

	var out bytes.Buffer
	p := newProcessor(t, `{}`, WithOutput(&out))
	e, err := test.NewEngine()
	assert.NoError(err)
	e.Felt("new_mmr_root_poseidon", 1)
	e.StructOf("new_mmr_root_keccak", 2, 3)
	e.Felt("mmr_array_len", 4)
	e.Felt("mmr_offset", 5)

	assert.NoError(p.ExecuteHint(e.VM(), e.HintData(diag.PrintFinal)))
	assert.Equal("new root poseidon: 1\nnew root keccak: 2 3\nnew size: 9\n", out.String())
}

func TestSchemaOption(t *testing.T) {
	assert := require.New(t)

	schema, err := input.CompileSchema("chunk.json", input.ChunkProcessorSchema)
	assert.NoError(err)

	s, err := input.ParseBytes([]byte(`{"poseidon_mmr_last_peaks": []}`))
	assert.NoError(err)
	_, err = New(s, WithLogger(zerolog.Nop()), WithSchema(schema))
	assert.Error(err)

	s, err = input.ParseBytes([]byte(`{
		"poseidon_mmr_last_peaks": [1],
		"keccak_mmr_last_peaks": [[1, 2]],
		"block_headers_array": [[1]],
		"bytes_len_array": [8]
	}`))
	assert.NoError(err)
	_, err = New(s, WithLogger(zerolog.Nop()), WithSchema(schema))
	assert.NoError(err)
}

func TestOptionError(t *testing.T) {
	assert := require.New(t)

	failing := func(*Config) error { return errors.New("boom") }
	_, err := New(nil, failing)
	assert.EqualError(err, "apply option: boom")
}
