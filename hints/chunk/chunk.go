// Package chunk implements the hints that load the private inputs of the
// block header chunk processor: the block range, the previous MMR roots
// and peaks, and the RLP encoded block headers.
package chunk

import (
	"fmt"

	"github.com/chunkproc/cairohints/felt"
	"github.com/chunkproc/cairohints/hint"
	"github.com/chunkproc/cairohints/input"
	"github.com/chunkproc/cairohints/vm"
)

const (
	ReadInput = "ids.from_block_number_high=program_input['from_block_number_high']\n" +
		"ids.to_block_number_low=program_input['to_block_number_low']\n" +
		"ids.mmr_offset=program_input['mmr_last_len'] \n" +
		"ids.mmr_last_root_poseidon=program_input['mmr_last_root_poseidon']\n" +
		"ids.mmr_last_root_keccak.low=program_input['mmr_last_root_keccak_low']\n" +
		"ids.mmr_last_root_keccak.high=program_input['mmr_last_root_keccak_high']\n" +
		"ids.block_n_plus_one_parent_hash_little.low = program_input['block_n_plus_one_parent_hash_little_low']\n" +
		"ids.block_n_plus_one_parent_hash_little.high = program_input['block_n_plus_one_parent_hash_little_high']"

	ReadInputPrev = "segments.write_arg(ids.previous_peaks_values_poseidon, program_input['poseidon_mmr_last_peaks']) \n" +
		"write_uint256_array(ids.previous_peaks_values_keccak, program_input['keccak_mmr_last_peaks'])"

	// ReadInputPrevImport is ReadInputPrev as emitted by programs that import the helper.
	ReadInputPrevImport = "from tools.py.hints import write_uint256_array\n" +
		"segments.write_arg(ids.previous_peaks_values_poseidon, program_input['poseidon_mmr_last_peaks']) \n" +
		"write_uint256_array(memory, ids.previous_peaks_values_keccak, program_input['keccak_mmr_last_peaks'])"

	ReadBlockHeaders = "block_headers_array = program_input['block_headers_array']\n" +
		"bytes_len_array = program_input['bytes_len_array']\n" +
		"segments.write_arg(ids.block_headers_array, block_headers_array)\n" +
		"segments.write_arg(ids.block_headers_array_bytes_len, bytes_len_array)"
)

// GetHints returns the chunk processor input hints.
func GetHints() []hint.Hint {
	return []hint.Hint{
		hint.NewHint("read_input", readInput, ReadInput),
		hint.NewHint("read_input_prev", readInputPrev, ReadInputPrev, ReadInputPrevImport),
		hint.NewHint("read_block_headers", readBlockHeaders, ReadBlockHeaders),
	}
}

// scalar binds a felt identifier to the bundle field it is read from.
// Optional fields are zero when absent.
type scalar struct {
	id       string
	field    string
	optional bool
}

// uint256 binds a [low, high] struct identifier to its two limb fields.
type uint256 struct {
	id        string
	low, high string
	optional  bool
}

var (
	inputScalars = []scalar{
		{id: "from_block_number_high", field: "from_block_number_high", optional: true},
		{id: "to_block_number_low", field: "to_block_number_low", optional: true},
		{id: "mmr_offset", field: "mmr_last_len", optional: true},
		{id: "mmr_last_root_poseidon", field: "mmr_last_root_poseidon", optional: true},
	}
	inputStructs = []uint256{
		{id: "mmr_last_root_keccak", low: "mmr_last_root_keccak_low", high: "mmr_last_root_keccak_high", optional: true},
		{
			id:       "block_n_plus_one_parent_hash_little",
			low:      "block_n_plus_one_parent_hash_little_low",
			high:     "block_n_plus_one_parent_hash_little_high",
			optional: true,
		},
	}
)

func decode(s *input.Store, field string, optional bool) (felt.Felt, error) {
	if optional {
		return s.FeltOrZero(field)
	}
	return s.Felt(field)
}

func readInput(ctx *hint.Context) error {
	// decode and resolve everything before the first write
	type target struct {
		addr   vm.Relocatable
		values []felt.Felt
	}
	var targets []target

	for _, sc := range inputScalars {
		v, err := decode(ctx.Inputs, sc.field, sc.optional)
		if err != nil {
			return err
		}
		addr, err := ctx.Ids.Addr(sc.id)
		if err != nil {
			return err
		}
		targets = append(targets, target{addr, []felt.Felt{v}})
	}
	for _, st := range inputStructs {
		low, err := decode(ctx.Inputs, st.low, st.optional)
		if err != nil {
			return err
		}
		high, err := decode(ctx.Inputs, st.high, st.optional)
		if err != nil {
			return err
		}
		u, err := felt.NewUint256(low, high)
		if err != nil {
			return fmt.Errorf("ids.%s: %w", st.id, err)
		}
		addr, err := ctx.Ids.Addr(st.id)
		if err != nil {
			return err
		}
		targets = append(targets, target{addr, u.Limbs()})
	}

	w := ctx.Writer()
	for _, t := range targets {
		if err := w.WriteStruct(t.addr, t.values); err != nil {
			return err
		}
	}
	return ctx.Commit(w)
}

func readInputPrev(ctx *hint.Context) error {
	poseidon, err := ctx.Inputs.Felts("poseidon_mmr_last_peaks")
	if err != nil {
		return err
	}
	keccak, err := ctx.Inputs.Uint256s("keccak_mmr_last_peaks")
	if err != nil {
		return err
	}
	poseidonPtr, err := ctx.Ids.Ptr("previous_peaks_values_poseidon")
	if err != nil {
		return err
	}
	keccakPtr, err := ctx.Ids.Ptr("previous_peaks_values_keccak")
	if err != nil {
		return err
	}

	w := ctx.Writer()
	if err := w.WriteFlatArray(poseidonPtr, poseidon); err != nil {
		return err
	}
	// Uint256 array: element i occupies cells 2i (low) and 2i+1 (high)
	for i, u := range keccak {
		addr, err := keccakPtr.Add(2 * i)
		if err != nil {
			return err
		}
		if err := w.WriteStruct(addr, u.Limbs()); err != nil {
			return err
		}
	}
	return ctx.Commit(w)
}

func readBlockHeaders(ctx *hint.Context) error {
	headers, err := ctx.Inputs.FeltMatrix("block_headers_array")
	if err != nil {
		return err
	}
	lengths, err := ctx.Inputs.Uint64s("bytes_len_array")
	if err != nil {
		return err
	}
	if len(lengths) != len(headers) {
		return &input.DecodeError{
			Field: "bytes_len_array",
			Err:   fmt.Errorf("%w: %d lengths for %d headers", input.ErrInvalidField, len(lengths), len(headers)),
		}
	}
	headersPtr, err := ctx.Ids.Ptr("block_headers_array")
	if err != nil {
		return err
	}
	lengthsPtr, err := ctx.Ids.Ptr("block_headers_array_bytes_len")
	if err != nil {
		return err
	}

	lens := make([]felt.Felt, len(lengths))
	for i, l := range lengths {
		lens[i] = felt.FromUint64(l)
	}

	w := ctx.Writer()
	segments, err := w.WriteJaggedArray(headersPtr, headers)
	if err != nil {
		return err
	}
	if err := w.WriteFlatArray(lengthsPtr, lens); err != nil {
		return err
	}
	if err := ctx.Commit(w); err != nil {
		return err
	}
	ctx.Log.Debug().Int("headers", len(headers)).Int("segments", len(segments)).Msg("block headers loaded")
	return nil
}
