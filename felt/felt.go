// Package felt implements field elements of the Cairo prime field
// p = 2^251 + 17*2^192 + 1, backed by gnark-crypto's stark-curve base field.
package felt

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/stark-curve/fp"
)

var (
	// ErrOverflow is returned when a value is not smaller than the field modulus.
	ErrOverflow = errors.New("value exceeds field modulus")
	// ErrNegative is returned for negative integers; the decoding layer never reduces them.
	ErrNegative = errors.New("negative value")
	// ErrSyntax is returned for text that is not a decimal or 0x-prefixed hex integer.
	ErrSyntax = errors.New("invalid numeral")
)

var modulus = fp.Modulus()

// Modulus returns a copy of the field modulus.
func Modulus() *big.Int {
	return new(big.Int).Set(modulus)
}

// Felt is an element of the Cairo prime field. The zero value is 0.
type Felt struct {
	e fp.Element
}

// Zero is the additive identity.
var Zero Felt

// FromUint64 returns v as a field element.
func FromUint64(v uint64) Felt {
	var f Felt
	f.e.SetUint64(v)
	return f
}

// FromBigInt returns v as a field element. v must be in [0, p).
func FromBigInt(v *big.Int) (Felt, error) {
	var f Felt
	if v.Sign() < 0 {
		return f, fmt.Errorf("%s: %w", v.String(), ErrNegative)
	}
	if v.Cmp(modulus) >= 0 {
		return f, fmt.Errorf("0x%s: %w", v.Text(16), ErrOverflow)
	}
	f.e.SetBigInt(v)
	return f, nil
}

// FromString parses a decimal or 0x-prefixed hexadecimal integer.
func FromString(s string) (Felt, error) {
	v, ok := ParseInteger(s)
	if !ok {
		return Felt{}, fmt.Errorf("%q: %w", s, ErrSyntax)
	}
	return FromBigInt(v)
}

// ParseInteger parses s as an arbitrary precision integer written either
// in decimal or in hexadecimal with a 0x / 0X prefix. Signs are accepted so
// that callers can tell a negative number from a non-numeric string.
func ParseInteger(s string) (*big.Int, bool) {
	if s == "" {
		return nil, false
	}
	neg := false
	body := s
	switch body[0] {
	case '-':
		neg = true
		body = body[1:]
	case '+':
		body = body[1:]
	}
	base := 10
	if strings.HasPrefix(body, "0x") || strings.HasPrefix(body, "0X") {
		base = 16
		body = body[2:]
	}
	if body == "" || strings.ContainsAny(body, "_+-") {
		return nil, false
	}
	v, ok := new(big.Int).SetString(body, base)
	if !ok {
		return nil, false
	}
	if neg {
		v.Neg(v)
	}
	return v, true
}

// BigInt returns the canonical (non Montgomery) integer value of f.
func (f Felt) BigInt() *big.Int {
	return f.e.BigInt(new(big.Int))
}

// Uint64 returns f as an uint64 and whether it fits.
func (f Felt) Uint64() (uint64, bool) {
	b := f.BigInt()
	if !b.IsUint64() {
		return 0, false
	}
	return b.Uint64(), true
}

// Add returns f + g mod p.
func (f Felt) Add(g Felt) Felt {
	var r Felt
	r.e.Add(&f.e, &g.e)
	return r
}

// Equal reports whether f == g.
func (f Felt) Equal(g Felt) bool {
	return f.e.Equal(&g.e)
}

// IsZero reports whether f == 0.
func (f Felt) IsZero() bool {
	return f.e.IsZero()
}

// String returns the decimal representation of f.
func (f Felt) String() string {
	return f.BigInt().String()
}

// Hex returns the 0x-prefixed lower-case hexadecimal representation of f.
func (f Felt) Hex() string {
	return "0x" + f.BigInt().Text(16)
}

// MarshalText implements encoding.TextMarshaler using the hex form.
func (f Felt) MarshalText() ([]byte, error) {
	return []byte(f.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler; it accepts decimal and hex.
func (f *Felt) UnmarshalText(text []byte) error {
	v, err := FromString(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}
