// Package diag implements hints that only print: they read memory and
// write a human readable line per value to the diagnostic output.
package diag

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"

	"github.com/chunkproc/cairohints/hint"
)

const (
	PrintHash = "print(\"\\n\")\n" +
		"print_u256(ids.block_header_hash_little,f\"block_header_keccak_hash_{ids.index}\")\n" +
		"print_u256(ids.expected_block_hash,f\"expected_keccak_hash_{ids.index}\")"

	// PrintHashImport is PrintHash as emitted by programs that import the helper.
	PrintHashImport = "from tools.py.hints import print_u256\n" + PrintHash

	PrintFinal = "print(\"new root poseidon\", ids.new_mmr_root_poseidon)\n" +
		"print(\"new root keccak\", ids.new_mmr_root_keccak.low, ids.new_mmr_root_keccak.high)\n" +
		"print(\"new size\", ids.mmr_array_len + ids.mmr_offset)"

	PrintBlockHeader = "from tools.py.hints import print_block_header\n" +
		"print_block_header(memory, ids.block_headers_array, ids.bytes_len_array, ids.index)"

	PrintMMR = "from tools.py.hints import print_mmr\n" +
		"print_mmr(memory, ids.mmr_array, ids.mmr_array_len)"
)

// GetHints returns the printing hints.
func GetHints() []hint.Hint {
	return []hint.Hint{
		hint.NewHint("print_hash", printHash, PrintHash, PrintHashImport),
		hint.NewHint("print_final", printFinal, PrintFinal),
		hint.NewHint("print_block_header", printBlockHeader, PrintBlockHeader),
		hint.NewHint("print_mmr", printMMR, PrintMMR),
	}
}

func printHash(ctx *hint.Context) error {
	index, err := ctx.Ids.Felt("index")
	if err != nil {
		return err
	}
	got, err := ctx.Ids.Uint256("block_header_hash_little")
	if err != nil {
		return err
	}
	want, err := ctx.Ids.Uint256("expected_block_hash")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(ctx.Out, "\nblock_header_hash_little_%s, %s %s\nexpected_block_hash_%s, %s %s\n",
		index, got.Low, got.High, index, want.Low, want.High)
	return err
}

func printFinal(ctx *hint.Context) error {
	poseidon, err := ctx.Ids.Felt("new_mmr_root_poseidon")
	if err != nil {
		return err
	}
	keccak, err := ctx.Ids.Uint256("new_mmr_root_keccak")
	if err != nil {
		return err
	}
	n, err := ctx.Ids.Felt("mmr_array_len")
	if err != nil {
		return err
	}
	offset, err := ctx.Ids.Felt("mmr_offset")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(ctx.Out, "new root poseidon: %s\nnew root keccak: %s %s\nnew size: %s\n",
		poseidon, keccak.Low, keccak.High, n.Add(offset))
	return err
}

func smallInt(ctx *hint.Context, name string) (int, error) {
	f, err := ctx.Ids.Felt(name)
	if err != nil {
		return 0, err
	}
	u, ok := f.Uint64()
	if !ok || u > 1<<31 {
		return 0, fmt.Errorf("ids.%s = %s is not a valid length or index", name, f)
	}
	return int(u), nil
}

// printBlockHeader prints the RLP words of one header and the keccak hash
// of the bytes they encode. Words hold 8 bytes each, little endian; the
// last one is truncated to the byte length.
func printBlockHeader(ctx *hint.Context) error {
	index, err := smallInt(ctx, "index")
	if err != nil {
		return err
	}
	headers, err := ctx.Ids.Ptr("block_headers_array")
	if err != nil {
		return err
	}
	lengths, err := ctx.Ids.Ptr("bytes_len_array")
	if err != nil {
		return err
	}
	mem := ctx.VM.Memory

	slot, err := headers.Add(index)
	if err != nil {
		return err
	}
	rlp, err := mem.GetRelocatable(slot)
	if err != nil {
		return err
	}
	slot, err = lengths.Add(index)
	if err != nil {
		return err
	}
	f, err := mem.GetFelt(slot)
	if err != nil {
		return err
	}
	nBytes, ok := f.Uint64()
	if !ok || nBytes > 1<<24 {
		return fmt.Errorf("bytes_len_array[%d] = %s is not a byte length", index, f)
	}
	nFelts := int((nBytes + 7) / 8)
	words, err := mem.GetFeltRange(rlp, nFelts)
	if err != nil {
		return err
	}

	raw := make([]byte, 8*nFelts)
	texts := make([]string, nFelts)
	for i, w := range words {
		u, ok := w.Uint64()
		if !ok {
			return fmt.Errorf("block %d word %d = %s does not fit in 8 bytes", index, i, w)
		}
		binary.LittleEndian.PutUint64(raw[8*i:], u)
		texts[i] = w.String()
	}
	h := sha3.NewLegacyKeccak256()
	h.Write(raw[:nBytes])

	_, err = fmt.Fprintf(ctx.Out, "\nBLOCK %d :: bytes_len=%d || n_felts=%d\nRLP_felt = [%s]\nblock_hash = 0x%s\n",
		index, nBytes, nFelts, strings.Join(texts, ", "), hex.EncodeToString(h.Sum(nil)))
	return err
}

func printMMR(ctx *hint.Context) error {
	n, err := smallInt(ctx, "mmr_array_len")
	if err != nil {
		return err
	}
	base, err := ctx.Ids.Ptr("mmr_array")
	if err != nil {
		return err
	}
	values, err := ctx.VM.Memory.GetFeltRange(base, n)
	if err != nil {
		return err
	}
	texts := make([]string, len(values))
	for i, v := range values {
		texts[i] = v.Hex()
	}
	_, err = fmt.Fprintf(ctx.Out, "MMR :: mmr_array_len=%d\nmmr_values = [%s]\n", n, strings.Join(texts, ", "))
	return err
}
