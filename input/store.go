// Package input holds the private input bundle of a run and decodes its
// fields into field elements for the hints that consume them.
package input

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/chunkproc/cairohints/felt"
)

// Store is the normalized private input bundle. It is read-only once built.
type Store struct {
	fields map[string]any
}

// New normalizes doc and returns a store over it. doc must be a JSON object
// decoded into map[string]any, preferably with json.Decoder.UseNumber so
// that large integers keep their precision.
func New(doc map[string]any) *Store {
	if doc == nil {
		doc = map[string]any{}
	}
	return &Store{fields: Normalize(doc).(map[string]any)}
}

// Parse decodes a JSON object from r.
func Parse(r io.Reader) (*Store, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode private input: %w", err)
	}
	if dec.More() {
		return nil, errors.New("decode private input: trailing data after object")
	}
	return New(doc), nil
}

// ParseBytes is Parse over a byte slice.
func ParseBytes(data []byte) (*Store, error) {
	return Parse(bytes.NewReader(data))
}

// Load reads and parses the JSON file at path.
func Load(path string) (*Store, error) {
	f, err := os.Open(path) //#nosec G304 -- path is an operator supplied input file
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Has reports whether name is present with a non null value.
func (s *Store) Has(name string) bool {
	v, ok := s.fields[name]
	return ok && v != nil
}

// Fields returns the sorted top level field names.
func (s *Store) Fields() []string {
	names := make([]string, 0, len(s.fields))
	for k := range s.fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Raw returns the normalized tree. Callers must not modify it.
func (s *Store) Raw() map[string]any {
	return s.fields
}

// MarshalJSON encodes the normalized bundle.
func (s *Store) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.fields)
}

func (s *Store) lookup(name string) (any, error) {
	v, ok := s.fields[name]
	if !ok || v == nil {
		return nil, missing(name)
	}
	return v, nil
}

// Felt decodes a required field element.
func (s *Store) Felt(name string) (felt.Felt, error) {
	v, err := s.lookup(name)
	if err != nil {
		return felt.Felt{}, err
	}
	return decodeFelt(name, "", v)
}

// FeltOrZero decodes an optional field element: an absent or null field is
// zero, a present but malformed one is still an error.
func (s *Store) FeltOrZero(name string) (felt.Felt, error) {
	if !s.Has(name) {
		return felt.Zero, nil
	}
	return s.Felt(name)
}

// Uint64 decodes a required integer that must fit in 64 bits.
func (s *Store) Uint64(name string) (uint64, error) {
	f, err := s.Felt(name)
	if err != nil {
		return 0, err
	}
	u, ok := f.Uint64()
	if !ok {
		return 0, invalid(name, "", fmt.Errorf("%s does not fit in 64 bits", f.Hex()))
	}
	return u, nil
}

// Felts decodes a required flat array.
func (s *Store) Felts(name string) ([]felt.Felt, error) {
	v, err := s.lookup(name)
	if err != nil {
		return nil, err
	}
	return decodeFelts(name, "", v)
}

// Uint64s decodes a required flat array of 64-bit integers.
func (s *Store) Uint64s(name string) ([]uint64, error) {
	fs, err := s.Felts(name)
	if err != nil {
		return nil, err
	}
	res := make([]uint64, len(fs))
	for i, f := range fs {
		u, ok := f.Uint64()
		if !ok {
			return nil, invalid(name, fmt.Sprintf("[%d]", i), fmt.Errorf("%s does not fit in 64 bits", f.Hex()))
		}
		res[i] = u
	}
	return res, nil
}

// FeltMatrix decodes a required array of arrays; inner lengths may differ.
func (s *Store) FeltMatrix(name string) ([][]felt.Felt, error) {
	v, err := s.lookup(name)
	if err != nil {
		return nil, err
	}
	outer, ok := v.([]any)
	if !ok {
		return nil, invalid(name, "", fmt.Errorf("expected an array, got %T", v))
	}
	res := make([][]felt.Felt, len(outer))
	for i, e := range outer {
		inner, err := decodeFelts(name, fmt.Sprintf("[%d]", i), e)
		if err != nil {
			return nil, err
		}
		res[i] = inner
	}
	return res, nil
}

// Uint256s decodes a required array of 256-bit values. Each element is
// either a [low, high] pair of 128-bit limbs or a single numeral that is
// split into limbs.
func (s *Store) Uint256s(name string) ([]felt.Uint256, error) {
	v, err := s.lookup(name)
	if err != nil {
		return nil, err
	}
	outer, ok := v.([]any)
	if !ok {
		return nil, invalid(name, "", fmt.Errorf("expected an array, got %T", v))
	}
	res := make([]felt.Uint256, len(outer))
	for i, e := range outer {
		path := fmt.Sprintf("[%d]", i)
		if text, ok := e.(string); ok {
			n, ok := felt.ParseInteger(text)
			if !ok || explicitPlus(text) {
				return nil, invalid(name, path, fmt.Errorf("%q: %w", text, felt.ErrSyntax))
			}
			u, err := felt.SplitUint256(n)
			if err != nil {
				return nil, invalid(name, path, err)
			}
			res[i] = u
			continue
		}
		limbs, err := decodeFelts(name, path, e)
		if err != nil {
			return nil, err
		}
		if len(limbs) != 2 {
			return nil, invalid(name, path, fmt.Errorf("expected [low, high], got %d limbs", len(limbs)))
		}
		u, err := felt.NewUint256(limbs[0], limbs[1])
		if err != nil {
			return nil, invalid(name, path, err)
		}
		res[i] = u
	}
	return res, nil
}

func decodeFelt(name, path string, v any) (felt.Felt, error) {
	var text string
	switch t := v.(type) {
	case string:
		text = t
	case json.Number:
		text = t.String()
	default:
		return felt.Felt{}, invalid(name, path, fmt.Errorf("expected a numeral, got %T", v))
	}
	if explicitPlus(text) {
		return felt.Felt{}, invalid(name, path, fmt.Errorf("%q: %w", text, felt.ErrSyntax))
	}
	f, err := felt.FromString(text)
	if err != nil {
		return felt.Felt{}, invalid(name, path, err)
	}
	return f, nil
}

// explicitPlus reports a "+" signed numeral. Normalize leaves those
// untouched, so decoding must not accept them either.
func explicitPlus(text string) bool {
	return len(text) > 0 && text[0] == '+'
}

func decodeFelts(name, path string, v any) ([]felt.Felt, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, invalid(name, path, fmt.Errorf("expected an array, got %T", v))
	}
	res := make([]felt.Felt, len(arr))
	for i, e := range arr {
		f, err := decodeFelt(name, fmt.Sprintf("%s[%d]", path, i), e)
		if err != nil {
			return nil, err
		}
		res[i] = f
	}
	return res, nil
}
