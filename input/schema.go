package input

import (
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ChunkProcessorSchema describes the normalized bundle read by the chunk
// processor input hints. Range boundaries and previous roots are optional
// and may be null, peaks and headers are required.
const ChunkProcessorSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "$defs": {
    "numeral": {"type": "string", "pattern": "^0x[0-9a-f]+$"},
    "optional": {"oneOf": [{"$ref": "#/$defs/numeral"}, {"type": "null"}]},
    "numerals": {"type": "array", "items": {"$ref": "#/$defs/numeral"}},
    "uint256": {
      "oneOf": [
        {"$ref": "#/$defs/numeral"},
        {"type": "array", "items": {"$ref": "#/$defs/numeral"}, "minItems": 2, "maxItems": 2}
      ]
    }
  },
  "properties": {
    "from_block_number_high": {"$ref": "#/$defs/optional"},
    "to_block_number_low": {"$ref": "#/$defs/optional"},
    "mmr_last_len": {"$ref": "#/$defs/optional"},
    "mmr_last_root_poseidon": {"$ref": "#/$defs/optional"},
    "mmr_last_root_keccak_low": {"$ref": "#/$defs/optional"},
    "mmr_last_root_keccak_high": {"$ref": "#/$defs/optional"},
    "block_n_plus_one_parent_hash_little_low": {"$ref": "#/$defs/optional"},
    "block_n_plus_one_parent_hash_little_high": {"$ref": "#/$defs/optional"},
    "poseidon_mmr_last_peaks": {"$ref": "#/$defs/numerals"},
    "keccak_mmr_last_peaks": {"type": "array", "items": {"$ref": "#/$defs/uint256"}},
    "block_headers_array": {"type": "array", "items": {"$ref": "#/$defs/numerals"}},
    "bytes_len_array": {"$ref": "#/$defs/numerals"}
  },
  "required": [
    "poseidon_mmr_last_peaks",
    "keccak_mmr_last_peaks",
    "block_headers_array",
    "bytes_len_array"
  ]
}`

// CompileSchema compiles a JSON schema document; url only names the resource
// in error messages.
func CompileSchema(url, schema string) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(url, strings.NewReader(schema)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	return compiler.Compile(url)
}

// Validate checks the normalized bundle against schema.
func (s *Store) Validate(schema *jsonschema.Schema) error {
	if err := schema.Validate(map[string]any(s.fields)); err != nil {
		return fmt.Errorf("private input does not match schema: %w", err)
	}
	return nil
}
