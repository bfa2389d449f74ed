package words

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"github.com/chunkproc/cairohints/felt"
	"github.com/chunkproc/cairohints/test"
	"github.com/chunkproc/cairohints/vm"
)

func run(t *testing.T, n int, word uint64) (*test.Engine, error) {
	t.Helper()
	e, err := test.NewEngine()
	require.NoError(t, err)
	e.Felt("word", word)
	return e, e.RunHint(GetHints()[n-MinBytes])
}

func bytesAt(t *testing.T, e *test.Engine, n int) []uint64 {
	t.Helper()
	fs, err := e.VM().Memory.GetFeltRange(e.VM().RunContext.AP, n)
	require.NoError(t, err)
	res := make([]uint64, n)
	for i, f := range fs {
		res[i], _ = f.Uint64()
	}
	return res
}

func TestCodes(t *testing.T) {
	assert := require.New(t)

	assert.Equal("word = ids.word\nassert word < 2**16\nword_bytes=word.to_bytes(2, byteorder='big')\nfor i in range(2):\n    memory[ap+i] = word_bytes[i]", Code(2))

	hints := GetHints()
	assert.Len(hints, 6)
	assert.Equal("write_2", hints[0].Name)
	assert.Equal("write_7", hints[5].Name)
	assert.Equal(Code(7), hints[5].Codes[0])
}

func TestWriteBytes(t *testing.T) {
	assert := require.New(t)

	e, err := run(t, 2, 0x1234)
	assert.NoError(err)
	assert.Equal([]uint64{0x12, 0x34}, bytesAt(t, e, 2))

	e, err = run(t, 5, 0x0102)
	assert.NoError(err)
	assert.Equal([]uint64{0, 0, 0, 1, 2}, bytesAt(t, e, 5))
}

func TestWriteBytesTooWide(t *testing.T) {
	assert := require.New(t)

	_, err := run(t, 2, 1<<16)
	assert.ErrorIs(err, ErrWordTooWide)

	_, err = run(t, 7, 1<<56)
	assert.ErrorIs(err, ErrWordTooWide)

	_, err = run(t, 7, 1<<56-1)
	assert.NoError(err)
}

func TestWriteBytesConflict(t *testing.T) {
	assert := require.New(t)

	e, err := test.NewEngine()
	assert.NoError(err)
	e.Felt("word", 0x0102)
	ap := e.VM().RunContext.AP
	next, _ := ap.Add(1)
	assert.NoError(e.VM().Memory.Insert(next, vm.FeltValue(felt.Zero)))
	before := e.Snapshot()

	assert.ErrorIs(e.RunHint(GetHints()[0]), vm.ErrInconsistentMemory)
	assert.Equal(before, e.Snapshot(), "ap+0 is not written when ap+1 conflicts")
}

func TestWriteBytesRecomposes(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("bytes recompose the word", prop.ForAll(
		func(n int, word uint64) bool {
			word &= 1<<(8*uint(n)) - 1
			e, err := run(t, n, word)
			if err != nil {
				return false
			}
			var got uint64
			for _, b := range bytesAt(t, e, n) {
				if b > 0xff {
					return false
				}
				got = got<<8 | b
			}
			return got == word
		},
		gen.IntRange(MinBytes, MaxBytes),
		gen.UInt64(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
