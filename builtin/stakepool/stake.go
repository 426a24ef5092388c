// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakepool

import (
	"github.com/chiefstaker/chiefstaker/builtin/reverts"
	"github.com/chiefstaker/chiefstaker/builtin/stakepool/position"
	"github.com/chiefstaker/chiefstaker/builtin/system"
	"github.com/chiefstaker/chiefstaker/builtin/token"
	"github.com/chiefstaker/chiefstaker/chief"
)

// Stake moves amount tokens from the owner's associated token account into the
// pool vault. The position is created on first stake, paid by the owner, and any
// reward it accrued so far is settled before the principal changes.
// It returns the position address.
func (sp *StakePool) Stake(owner, poolAddr chief.Address, amount uint64) (posAddr chief.Address, err error) {
	defer sp.observe("stake", &err)

	if amount == 0 {
		return chief.Address{}, reverts.ErrZeroAmount
	}
	if err := sp.env.RequireSigner(owner); err != nil {
		return chief.Address{}, err
	}
	p, err := sp.pools.Load(poolAddr)
	if err != nil {
		return chief.Address{}, err
	}
	if p.MinStakeAmount > 0 && amount < p.MinStakeAmount {
		return chief.Address{}, reverts.ErrBelowMinimumStake
	}

	posAddr = position.Address(poolAddr, owner)
	pos, err := sp.positions.Get(posAddr)
	if err != nil {
		return chief.Address{}, err
	}
	if pos != nil {
		if err := pos.Check(owner, poolAddr); err != nil {
			return chief.Address{}, err
		}
	}
	ata := token.AssociatedAddress(owner, p.Mint)
	holding, err := token.GetAccount(sp.env.State(), ata)
	if err != nil {
		return chief.Address{}, err
	}
	if holding.Amount < amount {
		return chief.Address{}, reverts.ErrInsufficientFunds
	}

	if err := sp.checkpoint(func() error {
		// lamports already waiting belong to the current stakers
		if _, err := sp.fold(poolAddr, p); err != nil {
			return err
		}
		if pos == nil {
			if err := system.CreateAccount(sp.env.WithSigner(posAddr), owner, posAddr, chief.StakePoolProgram, position.Space); err != nil {
				return err
			}
			pos = position.New(owner, poolAddr, p.Acc())
		} else if _, err := sp.settle(poolAddr, p, pos); err != nil {
			return err
		}

		credited, err := token.Transfer(sp.env, ata, p.Vault, amount)
		if err != nil {
			return err
		}
		if credited != amount {
			return reverts.ErrUnsupportedAsset
		}
		if err := pos.AddStake(amount, sp.env.Now()); err != nil {
			return err
		}
		if err := p.AddStake(amount); err != nil {
			return err
		}
		pos.Snapshot(p.Acc())

		if err := sp.positions.Update(posAddr, pos); err != nil {
			return err
		}
		return sp.pools.Update(poolAddr, p)
	}); err != nil {
		return chief.Address{}, err
	}

	logger.Info("staked", "pool", poolAddr, "owner", owner, "amount", amount, "position", pos.Amount, "totalStaked", p.TotalStaked)
	return posAddr, nil
}

// RequestUnstake starts the cooldown for amount of the position's principal.
// The principal keeps earning rewards during cooldown.
func (sp *StakePool) RequestUnstake(owner, poolAddr, posAddr chief.Address, amount uint64) (err error) {
	defer sp.observe("requestUnstake", &err)

	if amount == 0 {
		return reverts.ErrZeroAmount
	}
	if err := sp.env.RequireSigner(owner); err != nil {
		return err
	}
	p, err := sp.pools.Load(poolAddr)
	if err != nil {
		return err
	}
	pos, err := sp.positions.Load(posAddr, owner, poolAddr)
	if err != nil {
		return err
	}
	if err := pos.RequestUnstake(amount, sp.env.Now(), p.LockDurationSeconds); err != nil {
		return err
	}
	if err := sp.positions.Update(posAddr, pos); err != nil {
		return err
	}

	logger.Info("unstake requested", "pool", poolAddr, "owner", owner, "amount", amount, "cooldown", p.UnstakeCooldownSeconds)
	return nil
}

// CancelUnstakeRequest drops the pending request, keeping the principal staked.
func (sp *StakePool) CancelUnstakeRequest(owner, poolAddr, posAddr chief.Address) (err error) {
	defer sp.observe("cancelUnstakeRequest", &err)

	if err := sp.env.RequireSigner(owner); err != nil {
		return err
	}
	if _, err := sp.pools.Load(poolAddr); err != nil {
		return err
	}
	pos, err := sp.positions.Load(posAddr, owner, poolAddr)
	if err != nil {
		return err
	}
	if err := pos.CancelUnstake(); err != nil {
		return err
	}
	if err := sp.positions.Update(posAddr, pos); err != nil {
		return err
	}

	logger.Info("unstake request cancelled", "pool", poolAddr, "owner", owner)
	return nil
}

// CompleteUnstake returns the requested principal to the owner's associated token
// account once the cooldown has elapsed, settling rewards first.
// It returns the amount withdrawn.
func (sp *StakePool) CompleteUnstake(owner, poolAddr, posAddr chief.Address) (withdrawn uint64, err error) {
	defer sp.observe("completeUnstake", &err)

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
	now := sp.env.Now()
	if err := pos.CheckCompleteUnstake(now, p.UnstakeCooldownSeconds); err != nil {
		return 0, err
	}

	if err := sp.checkpoint(func() (err error) {
		if _, err := sp.settle(poolAddr, p, pos); err != nil {
			return err
		}
		if withdrawn, err = pos.CompleteUnstake(now, p.UnstakeCooldownSeconds); err != nil {
			return err
		}
		if err := p.SubStake(withdrawn); err != nil {
			return err
		}
		if _, err := token.Transfer(sp.env.WithSigner(poolAddr), p.Vault, token.AssociatedAddress(owner, p.Mint), withdrawn); err != nil {
			return err
		}
		if err := sp.positions.Update(posAddr, pos); err != nil {
			return err
		}
		return sp.pools.Update(poolAddr, p)
	}); err != nil {
		return 0, err
	}

	logger.Info("unstaked", "pool", poolAddr, "owner", owner, "amount", withdrawn, "remaining", pos.Amount)
	return withdrawn, nil
}
