// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package position

import (
	"math"

	"github.com/holiman/uint256"

	"github.com/chiefstaker/chiefstaker/builtin/reverts"
	"github.com/chiefstaker/chiefstaker/builtin/stakepool/wad"
	"github.com/chiefstaker/chiefstaker/chief"
)

// Space is the allocated data size of a position account.
const Space = 192

var seedStake = []byte("stake")

// Address returns the position of owner in pool.
func Address(pool, owner chief.Address) chief.Address {
	return chief.DeriveAddress(chief.StakePoolProgram, seedStake, pool.Bytes(), owner.Bytes())
}

type Status uint8

const (
	StatusEmpty           = Status(iota) // no principal, no request
	StatusStaked                         // principal, no request
	StatusCooldownPending                // principal with a pending unstake request
)

func (s Status) String() string {
	switch s {
	case StatusStaked:
		return "staked"
	case StatusCooldownPending:
		return "cooldownPending"
	default:
		return "empty"
	}
}

// Position is the stake of one owner in one pool.
type Position struct {
	Owner         chief.Address
	Pool          chief.Address
	Amount        uint64
	LastStakeTime uint64
	// pool accumulator at the last settlement
	RewardSnapshot       *uint256.Int
	UnstakeRequestAmount uint64
	UnstakeRequestTime   uint64
	Initialized          bool
}

// New creates an empty position snapshotted at acc.
func New(owner, pool chief.Address, acc *uint256.Int) *Position {
	return &Position{
		Owner:          owner,
		Pool:           pool,
		RewardSnapshot: new(uint256.Int).Set(acc),
		Initialized:    true,
	}
}

// Status returns the lifecycle state.
func (p *Position) Status() Status {
	switch {
	case p.HasPendingRequest():
		return StatusCooldownPending
	case p.Amount > 0:
		return StatusStaked
	default:
		return StatusEmpty
	}
}

func (p *Position) HasPendingRequest() bool {
	return p.UnstakeRequestAmount > 0
}

// Owed returns the reward accrued since the last settlement against acc.
func (p *Position) Owed(acc *uint256.Int) (uint64, error) {
	return wad.Accrued(p.Amount, acc, p.RewardSnapshot)
}

// Snapshot marks the position settled at acc.
func (p *Position) Snapshot(acc *uint256.Int) {
	p.RewardSnapshot = new(uint256.Int).Set(acc)
}

// Check verifies the position belongs to owner in pool.
func (p *Position) Check(owner, pool chief.Address) error {
	if !p.Initialized {
		return reverts.ErrNotInitialized
	}
	if p.Owner != owner {
		return reverts.ErrInvalidOwner
	}
	if p.Pool != pool {
		return reverts.ErrInvalidPool
	}
	return nil
}

func elapsed(now int64, since uint64) uint64 {
	if now < 0 || uint64(now) < since {
		return 0
	}
	return uint64(now) - since
}

// AddStake adds principal. The caller settles rewards first.
func (p *Position) AddStake(amount uint64, now int64) error {
	if p.Amount > math.MaxUint64-amount {
		return reverts.ErrArithmeticOverflow
	}
	p.Amount += amount
	p.LastStakeTime = uint64(now)
	return nil
}

// RequestUnstake moves the position into cooldown for amount.
// The lock applies to the time since the position last received principal.
func (p *Position) RequestUnstake(amount uint64, now int64, lockDuration uint64) error {
	if amount == 0 {
		return reverts.ErrZeroAmount
	}
	if p.HasPendingRequest() {
		return reverts.ErrPendingUnstakeExists
	}
	if p.Amount < amount {
		return reverts.ErrInsufficientStake
	}
	if lockDuration > 0 && elapsed(now, p.LastStakeTime) < lockDuration {
		return reverts.ErrStakeLocked
	}
	p.UnstakeRequestAmount = amount
	p.UnstakeRequestTime = uint64(now)
	return nil
}

// CancelUnstake clears the pending request.
func (p *Position) CancelUnstake() error {
	if !p.HasPendingRequest() {
		return reverts.ErrNoPendingUnstake
	}
	p.UnstakeRequestAmount = 0
	p.UnstakeRequestTime = 0
	return nil
}

// CheckCompleteUnstake reports whether the pending request may be completed at now.
func (p *Position) CheckCompleteUnstake(now int64, cooldown uint64) error {
	if !p.HasPendingRequest() {
		return reverts.ErrNoPendingUnstake
	}
	if elapsed(now, p.UnstakeRequestTime) < cooldown {
		return reverts.ErrCooldownNotElapsed
	}
	if p.Amount < p.UnstakeRequestAmount {
		return reverts.ErrInsufficientStake
	}
	return nil
}

// CompleteUnstake releases the requested principal once the cooldown has passed.
// It returns the amount released. The caller settles rewards first.
func (p *Position) CompleteUnstake(now int64, cooldown uint64) (uint64, error) {
	if err := p.CheckCompleteUnstake(now, cooldown); err != nil {
		return 0, err
	}
	amount := p.UnstakeRequestAmount
	p.Amount -= amount
	p.UnstakeRequestAmount = 0
	p.UnstakeRequestTime = 0
	return amount, nil
}

// MaturedWeight is amount * elapsed / (elapsed + tau): the weight a stake has grown
// into after elapsed seconds. It is informational and never used to distribute rewards.
func MaturedWeight(amount, elapsed, tau uint64) uint64 {
	denom := new(uint256.Int).Add(uint256.NewInt(elapsed), uint256.NewInt(tau))
	if denom.IsZero() {
		return 0
	}
	w := new(uint256.Int).Mul(uint256.NewInt(amount), uint256.NewInt(elapsed))
	return w.Div(w, denom).Uint64()
}

// Weight returns the matured weight of the position at now.
func (p *Position) Weight(now int64, tau uint64) uint64 {
	return MaturedWeight(p.Amount, elapsed(now, p.LastStakeTime), tau)
}
