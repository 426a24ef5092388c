// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakepool

import (
	"github.com/pkg/errors"

	"github.com/chiefstaker/chiefstaker/builtin/reverts"
	"github.com/chiefstaker/chiefstaker/builtin/stakepool/pool"
	"github.com/chiefstaker/chiefstaker/builtin/stakepool/position"
	"github.com/chiefstaker/chiefstaker/builtin/stakepool/wad"
	"github.com/chiefstaker/chiefstaker/chief"
)

// GetPool returns the initialized pool at poolAddr.
func (sp *StakePool) GetPool(poolAddr chief.Address) (*pool.Pool, error) {
	return sp.pools.Load(poolAddr)
}

// GetPosition returns the position of owner in the pool.
func (sp *StakePool) GetPosition(poolAddr, owner chief.Address) (*position.Position, error) {
	if _, err := sp.pools.Load(poolAddr); err != nil {
		return nil, err
	}
	return sp.positions.Load(position.Address(poolAddr, owner), owner, poolAddr)
}

// PositionState returns the lifecycle state of owner's position. A position that
// was never created is Empty.
func (sp *StakePool) PositionState(poolAddr, owner chief.Address) (position.Status, error) {
	pos, err := sp.GetPosition(poolAddr, owner)
	if err != nil {
		if errors.Is(err, reverts.ErrNotInitialized) {
			return position.StatusEmpty, nil
		}
		return position.StatusEmpty, err
	}
	return pos.Status(), nil
}

// Undistributed returns the lamports held by the pool above its rent floor that
// are not yet folded into the accumulator.
func (sp *StakePool) Undistributed(poolAddr chief.Address) (uint64, error) {
	p, err := sp.pools.Load(poolAddr)
	if err != nil {
		return 0, err
	}
	available, err := sp.available(poolAddr)
	if err != nil {
		return 0, err
	}
	return p.Undistributed(available), nil
}

// PendingRewards previews what ClaimRewards would pay owner after a sync.
func (sp *StakePool) PendingRewards(poolAddr, owner chief.Address) (uint64, error) {
	p, err := sp.pools.Load(poolAddr)
	if err != nil {
		return 0, err
	}
	pos, err := sp.positions.Load(position.Address(poolAddr, owner), owner, poolAddr)
	if err != nil {
		if errors.Is(err, reverts.ErrNotInitialized) {
			return 0, nil
		}
		return 0, err
	}
	available, err := sp.available(poolAddr)
	if err != nil {
		return 0, err
	}

	acc := p.Acc()
	synced := p.LastSyncedLamports
	if fresh := p.Undistributed(available); fresh > 0 && p.TotalStaked > 0 {
		rps, err := wad.RewardPerShare(fresh, p.TotalStaked)
		if err != nil {
			return 0, err
		}
		if acc, err = wad.CheckedAdd(acc, rps); err != nil {
			return 0, err
		}
		synced = available
	}
	owed, err := pos.Owed(acc)
	if err != nil {
		return 0, err
	}
	return min(owed, available, synced), nil
}
