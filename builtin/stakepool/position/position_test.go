// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package position

import (
	"math"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chiefstaker/chiefstaker/builtin/record"
	"github.com/chiefstaker/chiefstaker/builtin/reverts"
	"github.com/chiefstaker/chiefstaker/chief"
	"github.com/chiefstaker/chiefstaker/lvldb"
	"github.com/chiefstaker/chiefstaker/state"
)

var (
	owner = chief.BytesToAddress([]byte("owner"))
	pool  = chief.BytesToAddress([]byte("pool"))
)

func staked(t *testing.T, amount uint64, now int64) *Position {
	p := New(owner, pool, new(uint256.Int))
	require.NoError(t, p.AddStake(amount, now))
	return p
}

func TestOwed(t *testing.T) {
	p := staked(t, 200, 0)
	owed, err := p.Owed(uint256.NewInt(5e17))
	assert.NoError(t, err)
	assert.Equal(t, uint64(100), owed)

	p.Snapshot(uint256.NewInt(5e17))
	owed, err = p.Owed(uint256.NewInt(5e17))
	assert.NoError(t, err)
	assert.Zero(t, owed)
}

func TestLifecycle(t *testing.T) {
	p := staked(t, 100, 1000)
	assert.Equal(t, StatusStaked, p.Status())

	assert.ErrorIs(t, p.RequestUnstake(0, 1000, 0), reverts.ErrZeroAmount)
	assert.ErrorIs(t, p.RequestUnstake(101, 1000, 0), reverts.ErrInsufficientStake)

	// lock boundary
	assert.ErrorIs(t, p.RequestUnstake(40, 1059, 60), reverts.ErrStakeLocked)
	require.NoError(t, p.RequestUnstake(40, 1060, 60))
	assert.Equal(t, StatusCooldownPending, p.Status())

	// a single pending request
	assert.ErrorIs(t, p.RequestUnstake(1, 5000, 60), reverts.ErrPendingUnstakeExists)
	assert.ErrorIs(t, p.RequestUnstake(100, 5000, 0), reverts.ErrPendingUnstakeExists)

	before := *p
	assert.ErrorIs(t, p.CheckCompleteUnstake(1160, 101), reverts.ErrCooldownNotElapsed)
	assert.NoError(t, p.CheckCompleteUnstake(1161, 101))
	assert.Equal(t, before, *p)

	_, err := p.CompleteUnstake(1160, 101)
	assert.ErrorIs(t, err, reverts.ErrCooldownNotElapsed)
	released, err := p.CompleteUnstake(1161, 101)
	require.NoError(t, err)
	assert.Equal(t, uint64(40), released)
	assert.Equal(t, uint64(60), p.Amount)
	assert.Equal(t, StatusStaked, p.Status())

	_, err = p.CompleteUnstake(9999, 0)
	assert.ErrorIs(t, err, reverts.ErrNoPendingUnstake)

	require.NoError(t, p.RequestUnstake(60, 2000, 60))
	require.NoError(t, p.CancelUnstake())
	assert.ErrorIs(t, p.CancelUnstake(), reverts.ErrNoPendingUnstake)

	require.NoError(t, p.RequestUnstake(60, 2000, 60))
	released, err = p.CompleteUnstake(2000, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(60), released)
	assert.Equal(t, StatusEmpty, p.Status())
}

func TestLockRestartsOnStake(t *testing.T) {
	p := staked(t, 10, 0)
	require.NoError(t, p.AddStake(5, 100))
	assert.ErrorIs(t, p.RequestUnstake(1, 150, 60), reverts.ErrStakeLocked)
	assert.NoError(t, p.RequestUnstake(1, 160, 60))
}

func TestAddStakeOverflow(t *testing.T) {
	p := staked(t, math.MaxUint64, 0)
	assert.ErrorIs(t, p.AddStake(1, 1), reverts.ErrArithmeticOverflow)
	assert.Equal(t, uint64(0), p.LastStakeTime)
}

func TestCheck(t *testing.T) {
	p := New(owner, pool, new(uint256.Int))
	assert.NoError(t, p.Check(owner, pool))
	assert.ErrorIs(t, p.Check(pool, pool), reverts.ErrInvalidOwner)
	assert.ErrorIs(t, p.Check(owner, owner), reverts.ErrInvalidPool)
}

func TestMaturedWeight(t *testing.T) {
	assert.Equal(t, uint64(0), MaturedWeight(1000, 0, 60))
	assert.Equal(t, uint64(500), MaturedWeight(1000, 60, 60))
	assert.Equal(t, uint64(999), MaturedWeight(1000, 60_000, 60))
	assert.Equal(t, uint64(0), MaturedWeight(1000, 0, 0))
	// full range amounts do not wrap
	assert.Equal(t, uint64(math.MaxUint64/2), MaturedWeight(math.MaxUint64, 10, 10))

	p := staked(t, 1000, 100)
	assert.Equal(t, uint64(500), p.Weight(160, 60))
}

func TestService(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	st := state.New(db)
	svc := NewService(record.NewContext(chief.StakePoolProgram, st))
	addr := Address(pool, owner)

	_, err = svc.Load(addr, owner, pool)
	assert.ErrorIs(t, err, reverts.ErrNotInitialized)

	require.NoError(t, st.CreateAccount(addr, chief.StakePoolProgram, make([]byte, Space)))
	p := staked(t, 5, 9)
	require.NoError(t, svc.Update(addr, p))

	loaded, err := svc.Load(addr, owner, pool)
	require.NoError(t, err)
	assert.Equal(t, p, loaded)

	_, err = svc.Load(addr, pool, pool)
	assert.ErrorIs(t, err, reverts.ErrInvalidOwner)

	// a copy of the record elsewhere is not the owner's position
	copied := chief.BytesToAddress([]byte("copied position"))
	data, err := st.GetData(addr)
	require.NoError(t, err)
	require.NoError(t, st.CreateAccount(copied, chief.StakePoolProgram, data))
	_, err = svc.Load(copied, owner, pool)
	assert.ErrorIs(t, err, reverts.ErrInvalidPoolAddress)
}
