// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"math"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chiefstaker/chiefstaker/builtin/record"
	"github.com/chiefstaker/chiefstaker/builtin/reverts"
	"github.com/chiefstaker/chiefstaker/builtin/stakepool/wad"
	"github.com/chiefstaker/chiefstaker/chief"
	"github.com/chiefstaker/chiefstaker/lvldb"
	"github.com/chiefstaker/chiefstaker/state"
)

var (
	mint      = chief.BytesToAddress([]byte("mint"))
	authority = chief.BytesToAddress([]byte("authority"))
)

func newPool(t *testing.T) *Pool {
	p, err := New(mint, authority, 3600, 100)
	require.NoError(t, err)
	return p
}

func TestNew(t *testing.T) {
	for _, tau := range []uint64{0, MinMaturationPeriod - 1, MaxMaturationPeriod + 1} {
		_, err := New(mint, authority, tau, 0)
		assert.ErrorIs(t, err, reverts.ErrInvalidConfiguration, "tau %d", tau)
	}
	for _, tau := range []uint64{MinMaturationPeriod, MaxMaturationPeriod} {
		_, err := New(mint, authority, tau, 0)
		assert.NoError(t, err)
	}

	p := newPool(t)
	assert.Equal(t, Address(mint), p.RewardReserve)
	assert.Equal(t, VaultAddress(Address(mint)), p.Vault)
	assert.True(t, p.Acc().IsZero())
	assert.Equal(t, uint64(100), p.LastUpdateTime)
	assert.True(t, p.Initialized)
}

func TestDistribute(t *testing.T) {
	p := newPool(t)

	// nothing staked: deferred
	ok, err := p.Distribute(500, 200)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, p.Acc().IsZero())
	assert.Equal(t, uint64(100), p.LastUpdateTime)

	require.NoError(t, p.AddStake(1000))
	ok, err = p.Distribute(500, 200)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint256.NewInt(5e17), p.Acc())
	assert.Equal(t, uint64(200), p.LastUpdateTime)

	// the accumulator only grows
	ok, err = p.Distribute(1, 300)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, p.Acc().Gt(uint256.NewInt(5e17)))
}

func TestDistributeOverflow(t *testing.T) {
	p := newPool(t)
	require.NoError(t, p.AddStake(1))
	p.AccRewardPerWeightedShare = new(uint256.Int).Set(wad.MaxStored)
	before := *p

	_, err := p.Distribute(math.MaxUint64, 500)
	assert.ErrorIs(t, err, reverts.ErrArithmeticOverflow)
	assert.Equal(t, before, *p)
}

func TestStakeTotals(t *testing.T) {
	p := newPool(t)
	require.NoError(t, p.AddStake(10))
	assert.ErrorIs(t, p.AddStake(math.MaxUint64), reverts.ErrArithmeticOverflow)
	assert.ErrorIs(t, p.SubStake(11), reverts.ErrInsufficientStake)
	require.NoError(t, p.SubStake(10))
	assert.Zero(t, p.TotalStaked)
}

func TestReserveMath(t *testing.T) {
	assert.Equal(t, uint64(0), Available(5, 10))
	assert.Equal(t, uint64(5), Available(15, 10))

	p := newPool(t)
	p.LastSyncedLamports = 40
	assert.Equal(t, uint64(10), p.Undistributed(50))
	assert.Equal(t, uint64(0), p.Undistributed(30))
}

func TestSettingsAndAuthority(t *testing.T) {
	p := newPool(t)
	signedBy := func(addrs ...chief.Address) func(chief.Address) bool {
		return func(a chief.Address) bool {
			for _, x := range addrs {
				if x == a {
					return true
				}
			}
			return false
		}
	}

	assert.ErrorIs(t, p.CheckAuthority(signedBy()), reverts.ErrInvalidAuthority)
	assert.NoError(t, p.CheckAuthority(signedBy(authority)))

	lock := uint64(60)
	p.Apply(Settings{LockDurationSeconds: &lock})
	assert.Equal(t, uint64(60), p.LockDurationSeconds)
	assert.Zero(t, p.MinStakeAmount)
	assert.Zero(t, p.UnstakeCooldownSeconds)

	p.Renounce()
	assert.True(t, p.Authority.IsZero())
	assert.ErrorIs(t, p.CheckAuthority(signedBy(authority)), reverts.ErrAuthorityRenounced)
	// the zero address never regains control
	assert.ErrorIs(t, p.CheckAuthority(signedBy(chief.Address{})), reverts.ErrAuthorityRenounced)
}

func TestService(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	st := state.New(db)
	svc := NewService(record.NewContext(chief.StakePoolProgram, st))
	addr := Address(mint)

	_, err = svc.Load(addr)
	assert.ErrorIs(t, err, reverts.ErrNotInitialized)

	require.NoError(t, st.CreateAccount(addr, chief.StakePoolProgram, make([]byte, Space)))
	p := newPool(t)
	require.NoError(t, p.AddStake(7))
	require.NoError(t, svc.Update(addr, p))

	loaded, err := svc.Load(addr)
	require.NoError(t, err)
	assert.Equal(t, p, loaded)

	// the same record somewhere else is not the canonical pool
	other := chief.DeriveAddress(chief.StakePoolProgram, []byte("elsewhere"))
	require.NoError(t, st.CreateAccount(other, chief.StakePoolProgram, make([]byte, Space)))
	require.NoError(t, svc.Update(other, p))
	_, err = svc.Load(other)
	assert.ErrorIs(t, err, reverts.ErrInvalidPoolAddress)
}
