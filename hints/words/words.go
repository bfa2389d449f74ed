// Package words implements the hints that split a small word into its
// big endian bytes, written at ap.
package words

import (
	"errors"
	"fmt"

	"github.com/chunkproc/cairohints/felt"
	"github.com/chunkproc/cairohints/hint"
)

// ErrWordTooWide is returned when ids.word does not fit in the byte count.
var ErrWordTooWide = errors.New("word too wide")

// MinBytes and MaxBytes bound the registered write_<n> hints.
const (
	MinBytes = 2
	MaxBytes = 7
)

// Code returns the source text of the write_<n> hint.
func Code(n int) string {
	return fmt.Sprintf("word = ids.word\n"+
		"assert word < 2**%d\n"+
		"word_bytes=word.to_bytes(%d, byteorder='big')\n"+
		"for i in range(%d):\n"+
		"    memory[ap+i] = word_bytes[i]", 8*n, n, n)
}

// GetHints returns write_2 to write_7.
func GetHints() []hint.Hint {
	res := make([]hint.Hint, 0, MaxBytes-MinBytes+1)
	for n := MinBytes; n <= MaxBytes; n++ {
		res = append(res, hint.NewHint(fmt.Sprintf("write_%d", n), writeBytes(n), Code(n)))
	}
	return res
}

func writeBytes(n int) hint.Function {
	return func(ctx *hint.Context) error {
		word, err := ctx.Ids.Felt("word")
		if err != nil {
			return err
		}
		b := word.BigInt()
		if b.BitLen() > 8*n {
			return fmt.Errorf("ids.word = %s >= 2**%d: %w", word, 8*n, ErrWordTooWide)
		}
		raw := b.FillBytes(make([]byte, n))
		values := make([]felt.Felt, n)
		for i, c := range raw {
			values[i] = felt.FromUint64(uint64(c))
		}
		w := ctx.Writer()
		if err := w.WriteFlatArray(ctx.VM.RunContext.AP, values); err != nil {
			return err
		}
		return ctx.Commit(w)
	}
}

