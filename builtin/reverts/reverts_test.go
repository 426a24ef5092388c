// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestIsRevertErr(t *testing.T) {
	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr("not an error"))
	assert.False(t, IsRevertErr(errors.New("plain")))
	assert.True(t, IsRevertErr(New("custom")))
	assert.True(t, IsRevertErr(errors.Wrap(ErrStakeLocked, "request unstake")))
}

func TestRevertIs(t *testing.T) {
	wrapped := errors.WithMessage(ErrZeroAmount, "deposit")
	assert.ErrorIs(t, wrapped, ErrZeroAmount)
	assert.NotErrorIs(t, wrapped, ErrStakeLocked)

	rev, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "ZeroAmount", rev.Code())
	assert.Equal(t, CategoryInput, rev.Category())
	assert.Equal(t, "input", rev.Category().String())
}

func TestCategories(t *testing.T) {
	assert.Equal(t, CategoryArithmetic, ErrArithmeticOverflow.Category())
	assert.Equal(t, CategoryAuthorization, ErrAuthorityRenounced.Category())
	assert.Equal(t, CategoryState, ErrInvalidPoolAddress.Category())
	assert.Equal(t, CategoryBusiness, ErrPendingUnstakeExists.Category())
	assert.Equal(t, "unknown", Category(0).String())
}
