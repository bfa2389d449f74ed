package felt

import (
	"errors"
	"fmt"
	"math/big"
)

// ErrUint256Range is returned when a value does not fit in 256 bits.
var ErrUint256Range = errors.New("value does not fit in 256 bits")

var mask128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

// Uint256 is a 256-bit value split in two 128-bit limbs. In memory the low
// limb is stored first, the high limb right after it.
type Uint256 struct {
	Low  Felt
	High Felt
}

// SplitUint256 splits v into its low and high 128-bit limbs.
func SplitUint256(v *big.Int) (Uint256, error) {
	if v.Sign() < 0 || v.BitLen() > 256 {
		return Uint256{}, fmt.Errorf("0x%s: %w", v.Text(16), ErrUint256Range)
	}
	low := new(big.Int).And(v, mask128)
	high := new(big.Int).Rsh(v, 128)
	// both limbs are < 2^128 < p
	l, _ := FromBigInt(low)
	h, _ := FromBigInt(high)
	return Uint256{Low: l, High: h}, nil
}

// NewUint256 builds a value from its limbs; each limb must fit in 128 bits.
func NewUint256(low, high Felt) (Uint256, error) {
	if low.BigInt().BitLen() > 128 || high.BigInt().BitLen() > 128 {
		return Uint256{}, fmt.Errorf("limb wider than 128 bits: %w", ErrUint256Range)
	}
	return Uint256{Low: low, High: high}, nil
}

// BigInt joins the limbs: low + high * 2^128.
func (u Uint256) BigInt() *big.Int {
	r := u.High.BigInt()
	r.Lsh(r, 128)
	return r.Add(r, u.Low.BigInt())
}

// Limbs returns the limbs in memory layout order.
func (u Uint256) Limbs() []Felt {
	return []Felt{u.Low, u.High}
}

// Hex returns the joined value as 0x-prefixed hex.
func (u Uint256) Hex() string {
	return "0x" + u.BigInt().Text(16)
}
