package input

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/chunkproc/cairohints/felt"
)

// HexPrefix marks normalized numerals.
const HexPrefix = "0x"

// Normalize rewrites every numeric leaf of a decoded JSON tree into its
// canonical form: lower-case hexadecimal text with a 0x prefix. A leaf is
// numeric when it is a json.Number, a decimal string or a hex string that
// denotes a non negative integer. Every other leaf (negative or fractional
// numbers, non numeric text, booleans, null) is returned unchanged.
//
// Objects and arrays are rebuilt, the input tree is not modified.
func Normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		res := make(map[string]any, len(t))
		for k, e := range t {
			res[k] = Normalize(e)
		}
		return res
	case []any:
		res := make([]any, len(t))
		for i, e := range t {
			res[i] = Normalize(e)
		}
		return res
	case json.Number:
		if s, ok := canonical(string(t)); ok {
			return s
		}
		return t
	case string:
		if s, ok := canonical(t); ok {
			return s
		}
		return t
	case float64:
		// trees decoded without UseNumber
		if t >= 0 && t == math.Trunc(t) {
			if s, ok := canonical(strconv.FormatFloat(t, 'f', -1, 64)); ok {
				return s
			}
		}
		return t
	case int:
		if t >= 0 {
			return HexPrefix + strconv.FormatUint(uint64(t), 16)
		}
		return t
	case int64:
		if t >= 0 {
			return HexPrefix + strconv.FormatUint(uint64(t), 16)
		}
		return t
	case uint64:
		return HexPrefix + strconv.FormatUint(t, 16)
	default:
		return v
	}
}

func canonical(s string) (string, bool) {
	if s == "" || s[0] == '+' || s[0] == '-' {
		return "", false
	}
	n, ok := felt.ParseInteger(s)
	if !ok || n.Sign() < 0 {
		return "", false
	}
	return HexPrefix + n.Text(16), true
}
