// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package wad implements 1e18 scaled fixed-point arithmetic.
//
// Products are computed in 256 bits and stored values are bounded to 128 bits,
// so a stake amount or reward deposit of the full uint64 range can never wrap.
// Any result that does not fit fails with reverts.ErrArithmeticOverflow.
package wad

import (
	"github.com/holiman/uint256"

	"github.com/chiefstaker/chiefstaker/builtin/reverts"
)

var (
	// WAD is the fixed-point scale factor, 10^18.
	WAD = uint256.NewInt(1e18)
	// MaxStored is the largest value a stored fixed-point number may hold (2^128 - 1).
	MaxStored = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 128), uint256.NewInt(1))
)

// MulDiv computes value * scale / denominator, rounding down.
func MulDiv(value, scale, denominator *uint256.Int) (*uint256.Int, error) {
	if denominator.IsZero() {
		return nil, reverts.ErrDivisionByZero
	}
	product, overflow := new(uint256.Int).MulOverflow(value, scale)
	if overflow {
		return nil, reverts.ErrArithmeticOverflow
	}
	quotient := product.Div(product, denominator)
	if quotient.Gt(MaxStored) {
		return nil, reverts.ErrArithmeticOverflow
	}
	return quotient, nil
}

// Div computes a * WAD / b, the quotient of two WAD scaled values.
func Div(a, b *uint256.Int) (*uint256.Int, error) {
	return MulDiv(a, WAD, b)
}

// Scale returns amount * WAD.
func Scale(amount uint64) (*uint256.Int, error) {
	return MulDiv(uint256.NewInt(amount), WAD, uint256.NewInt(1))
}

// CheckedAdd returns a + b, failing when the sum exceeds the stored width.
func CheckedAdd(a, b *uint256.Int) (*uint256.Int, error) {
	sum, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow || sum.Gt(MaxStored) {
		return nil, reverts.ErrArithmeticOverflow
	}
	return sum, nil
}

// RewardPerShare returns the accumulator increment for distributing amount over
// totalStaked units of maximum weight: (amount * WAD) * WAD / (totalStaked * WAD).
func RewardPerShare(amount, totalStaked uint64) (*uint256.Int, error) {
	if totalStaked == 0 {
		return nil, reverts.ErrDivisionByZero
	}
	amountWad, err := Scale(amount)
	if err != nil {
		return nil, err
	}
	totalWad, err := Scale(totalStaked)
	if err != nil {
		return nil, err
	}
	return Div(amountWad, totalWad)
}

// Accrued returns amount * (acc - snapshot) / WAD, the reward earned by amount
// units of principal since snapshot. A snapshot ahead of acc accrues nothing.
func Accrued(amount uint64, acc, snapshot *uint256.Int) (uint64, error) {
	if snapshot == nil {
		snapshot = new(uint256.Int)
	}
	if acc == nil || !acc.Gt(snapshot) {
		return 0, nil
	}
	delta := new(uint256.Int).Sub(acc, snapshot)
	owed, err := MulDiv(uint256.NewInt(amount), delta, WAD)
	if err != nil {
		return 0, err
	}
	if !owed.IsUint64() {
		return 0, reverts.ErrArithmeticOverflow
	}
	return owed.Uint64(), nil
}
