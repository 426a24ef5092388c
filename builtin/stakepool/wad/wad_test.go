// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package wad

import (
	"math"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chiefstaker/chiefstaker/builtin/reverts"
)

func TestMulDiv(t *testing.T) {
	res, err := MulDiv(uint256.NewInt(500), WAD, uint256.NewInt(1000))
	require.NoError(t, err)
	assert.Equal(t, uint256.NewInt(5e17), res)

	// rounds down
	res, err = MulDiv(uint256.NewInt(10), uint256.NewInt(1), uint256.NewInt(3))
	require.NoError(t, err)
	assert.Equal(t, uint64(3), res.Uint64())

	_, err = MulDiv(uint256.NewInt(1), WAD, new(uint256.Int))
	assert.ErrorIs(t, err, reverts.ErrDivisionByZero)
}

func TestMulDivOverflow(t *testing.T) {
	// the product exceeds 256 bits
	huge := new(uint256.Int).Lsh(uint256.NewInt(1), 200)
	_, err := MulDiv(huge, WAD, uint256.NewInt(1))
	assert.ErrorIs(t, err, reverts.ErrArithmeticOverflow)

	// the product fits but the quotient exceeds the stored width
	_, err = MulDiv(MaxStored, uint256.NewInt(2), uint256.NewInt(1))
	assert.ErrorIs(t, err, reverts.ErrArithmeticOverflow)

	res, err := MulDiv(MaxStored, uint256.NewInt(2), uint256.NewInt(2))
	require.NoError(t, err)
	assert.Equal(t, MaxStored, res)
}

func TestCheckedAdd(t *testing.T) {
	sum, err := CheckedAdd(uint256.NewInt(1), uint256.NewInt(2))
	require.NoError(t, err)
	assert.Equal(t, uint64(3), sum.Uint64())

	_, err = CheckedAdd(MaxStored, uint256.NewInt(1))
	assert.ErrorIs(t, err, reverts.ErrArithmeticOverflow)

	max256 := new(uint256.Int).SetAllOne()
	_, err = CheckedAdd(max256, uint256.NewInt(1))
	assert.ErrorIs(t, err, reverts.ErrArithmeticOverflow)
}

func TestRewardPerShare(t *testing.T) {
	rps, err := RewardPerShare(500, 1000)
	require.NoError(t, err)
	assert.Equal(t, uint256.NewInt(5e17), rps)

	// full uint64 range does not overflow the intermediate width
	rps, err = RewardPerShare(math.MaxUint64, 1)
	require.NoError(t, err)
	expected := new(uint256.Int).Mul(uint256.NewInt(math.MaxUint64), WAD)
	assert.Equal(t, expected, rps)

	_, err = RewardPerShare(1, 0)
	assert.ErrorIs(t, err, reverts.ErrDivisionByZero)
}

func TestAccrued(t *testing.T) {
	acc := uint256.NewInt(5e17)

	owed, err := Accrued(200, acc, new(uint256.Int))
	require.NoError(t, err)
	assert.Equal(t, uint64(100), owed)

	owed, err = Accrued(200, acc, acc)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), owed)

	owed, err = Accrued(200, uint256.NewInt(1), uint256.NewInt(2))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), owed, "snapshot ahead of acc accrues nothing")

	owed, err = Accrued(200, acc, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), owed)

	_, err = Accrued(math.MaxUint64, MaxStored, new(uint256.Int))
	assert.ErrorIs(t, err, reverts.ErrArithmeticOverflow)
}
