// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakepool

import (
	"math"

	"github.com/chiefstaker/chiefstaker/builtin/reverts"
	"github.com/chiefstaker/chiefstaker/builtin/stakepool/pool"
	"github.com/chiefstaker/chiefstaker/builtin/stakepool/position"
	"github.com/chiefstaker/chiefstaker/builtin/system"
	"github.com/chiefstaker/chiefstaker/chief"
)

// DepositRewards transfers amount lamports from depositor into the pool and
// distributes them, together with anything that arrived out of band, over the
// current stake. With nothing staked the lamports are kept for later.
func (sp *StakePool) DepositRewards(depositor, poolAddr chief.Address, amount uint64) (err error) {
	defer sp.observe("depositRewards", &err)

	if amount == 0 {
		return reverts.ErrZeroAmount
	}
	if err := sp.env.RequireSigner(depositor); err != nil {
		return err
	}
	p, err := sp.pools.Load(poolAddr)
	if err != nil {
		return err
	}

	if p.TotalStaked == 0 {
		if err := system.Transfer(sp.env, depositor, poolAddr, amount); err != nil {
			return err
		}
		logger.Info("rewards deferred, no stake", "pool", poolAddr, "amount", amount)
		return nil
	}

	available, err := sp.available(poolAddr)
	if err != nil {
		return err
	}
	undistributed := p.Undistributed(available)
	if undistributed > math.MaxUint64-amount {
		return reverts.ErrArithmeticOverflow
	}
	total := amount + undistributed
	if _, err := p.Distribute(total, sp.env.Now()); err != nil {
		return err
	}

	if err := sp.checkpoint(func() error {
		if err := system.Transfer(sp.env, depositor, poolAddr, amount); err != nil {
			return err
		}
		// measured after the transfer, so a following sync sees nothing new
		if p.LastSyncedLamports, err = sp.available(poolAddr); err != nil {
			return err
		}
		return sp.pools.Update(poolAddr, p)
	}); err != nil {
		return err
	}

	metricDistributed().AddUint64(total)
	logger.Info("rewards deposited", "pool", poolAddr,
		"amount", amount,
		"distributed", total,
		"totalStaked", p.TotalStaked,
		"acc", p.Acc(),
	)
	return nil
}

// SyncRewards distributes lamports that reached the pool outside DepositRewards.
// Anyone may call it. Nothing new, or nothing staked, is a successful no-op.
func (sp *StakePool) SyncRewards(poolAddr chief.Address) (synced uint64, err error) {
	defer sp.observe("syncRewards", &err)

	p, err := sp.pools.Load(poolAddr)
	if err != nil {
		return 0, err
	}
	if synced, err = sp.fold(poolAddr, p); err != nil {
		return 0, err
	}
	if synced == 0 {
		logger.Debug("no new rewards to sync", "pool", poolAddr, "totalStaked", p.TotalStaked)
		return 0, nil
	}
	if err := sp.pools.Update(poolAddr, p); err != nil {
		return 0, err
	}

	logger.Info("rewards synced", "pool", poolAddr, "amount", synced, "acc", p.Acc())
	return synced, nil
}

// settle pays the owner what the position accrued since its snapshot and
// advances the snapshot. The payout is bounded by the lamports already
// accounted for, which are reduced by the amount paid.
func (sp *StakePool) settle(poolAddr chief.Address, p *pool.Pool, pos *position.Position) (uint64, error) {
	acc := p.Acc()
	owed, err := pos.Owed(acc)
	if err != nil {
		return 0, err
	}
	pos.Snapshot(acc)
	if owed == 0 {
		return 0, nil
	}
	available, err := sp.available(poolAddr)
	if err != nil {
		return 0, err
	}
	paid := min(owed, available, p.LastSyncedLamports)
	if paid < owed {
		logger.Warn("reward payout short", "pool", poolAddr, "owner", pos.Owner, "owed", owed, "paid", paid)
	}
	if err := system.TransferOwned(sp.env, chief.StakePoolProgram, poolAddr, pos.Owner, paid); err != nil {
		return 0, err
	}
	p.LastSyncedLamports -= paid

	metricPaid().AddUint64(paid)
	return paid, nil
}

// ClaimRewards pays the accrued reward of the owner's position.
func (sp *StakePool) ClaimRewards(owner, poolAddr, posAddr chief.Address) (paid uint64, err error) {
	defer sp.observe("claimRewards", &err)

	if err := sp.env.RequireSigner(owner); err != nil {
		return 0, err
	}
	p, err := sp.pools.Load(poolAddr)
	if err != nil {
		return 0, err
	}
	pos, err := sp.positions.Load(posAddr, owner, poolAddr)
	if err != nil {
		return 0, err
	}
	if err := sp.checkpoint(func() (err error) {
		if paid, err = sp.settle(poolAddr, p, pos); err != nil {
			return err
		}
		if err := sp.positions.Update(posAddr, pos); err != nil {
			return err
		}
		return sp.pools.Update(poolAddr, p)
	}); err != nil {
		return 0, err
	}

	logger.Info("rewards claimed", "pool", poolAddr, "owner", owner, "paid", paid)
	return paid, nil
}
