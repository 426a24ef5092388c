// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"math"

	"github.com/holiman/uint256"

	"github.com/chiefstaker/chiefstaker/builtin/reverts"
	"github.com/chiefstaker/chiefstaker/builtin/stakepool/wad"
	"github.com/chiefstaker/chiefstaker/chief"
)

// Maturation period bounds.
const (
	MinMaturationPeriod = uint64(60)
	MaxMaturationPeriod = uint64(10 * 365 * 24 * 60 * 60)
)

// Space is the allocated data size of a pool account.
const Space = 256

var (
	seedPool  = []byte("pool")
	seedVault = []byte("token_vault")
)

// Address returns the pool address of mint.
func Address(mint chief.Address) chief.Address {
	return chief.DeriveAddress(chief.StakePoolProgram, seedPool, mint.Bytes())
}

// VaultAddress returns the token vault holding the principal staked in pool.
func VaultAddress(pool chief.Address) chief.Address {
	return chief.DeriveAddress(chief.StakePoolProgram, seedVault, pool.Bytes())
}

// Pool is the ledger of one staked mint. The pool account itself is the reward
// reserve: rewards are held as its lamports.
type Pool struct {
	Mint          chief.Address
	Vault         chief.Address
	RewardReserve chief.Address
	Authority     chief.Address // zero once renounced

	TotalStaked uint64
	// cumulative lamports per unit of maximum weight, WAD scaled
	AccRewardPerWeightedShare *uint256.Int
	LastUpdateTime            uint64
	// lamports above the rent floor already folded into the accumulator
	LastSyncedLamports uint64

	MinStakeAmount          uint64
	LockDurationSeconds     uint64
	UnstakeCooldownSeconds  uint64
	MaturationPeriodSeconds uint64 // tau, fixed at creation

	Initialized        bool
	AuthorityRenounced bool
}

// New creates an initialized, empty pool.
func New(mint, authority chief.Address, tau uint64, now int64) (*Pool, error) {
	if tau < MinMaturationPeriod || tau > MaxMaturationPeriod {
		return nil, reverts.ErrInvalidConfiguration
	}
	addr := Address(mint)
	return &Pool{
		Mint:                      mint,
		Vault:                     VaultAddress(addr),
		RewardReserve:             addr,
		Authority:                 authority,
		AccRewardPerWeightedShare: new(uint256.Int),
		LastUpdateTime:            uint64(now),
		MaturationPeriodSeconds:   tau,
		Initialized:               true,
	}, nil
}

// Acc returns a copy of the accumulator.
func (p *Pool) Acc() *uint256.Int {
	if p.AccRewardPerWeightedShare == nil {
		return new(uint256.Int)
	}
	return new(uint256.Int).Set(p.AccRewardPerWeightedShare)
}

// Distribute folds amount newly observed lamports into the accumulator.
// With nothing staked it returns false and leaves the pool untouched, so the
// lamports stay unaccounted until a stake exists.
func (p *Pool) Distribute(amount uint64, now int64) (bool, error) {
	if p.TotalStaked == 0 {
		return false, nil
	}
	rps, err := wad.RewardPerShare(amount, p.TotalStaked)
	if err != nil {
		return false, err
	}
	acc, err := wad.CheckedAdd(p.Acc(), rps)
	if err != nil {
		return false, err
	}
	p.AccRewardPerWeightedShare = acc
	p.LastUpdateTime = uint64(now)
	return true, nil
}

// Available returns the reserve balance above the rent floor.
func Available(balance, floor uint64) uint64 {
	if balance < floor {
		return 0
	}
	return balance - floor
}

// Undistributed returns the lamports held above LastSyncedLamports.
func (p *Pool) Undistributed(available uint64) uint64 {
	if available < p.LastSyncedLamports {
		return 0
	}
	return available - p.LastSyncedLamports
}

// AddStake increases the total principal.
func (p *Pool) AddStake(amount uint64) error {
	if p.TotalStaked > math.MaxUint64-amount {
		return reverts.ErrArithmeticOverflow
	}
	p.TotalStaked += amount
	return nil
}

// SubStake decreases the total principal.
func (p *Pool) SubStake(amount uint64) error {
	if p.TotalStaked < amount {
		return reverts.ErrInsufficientStake
	}
	p.TotalStaked -= amount
	return nil
}

// Settings carries optional policy updates, nil fields are left unchanged.
type Settings struct {
	MinStakeAmount         *uint64
	LockDurationSeconds    *uint64
	UnstakeCooldownSeconds *uint64
}

// CheckAuthority fails unless signer may change the pool configuration.
func (p *Pool) CheckAuthority(isSigner func(chief.Address) bool) error {
	if p.AuthorityRenounced {
		return reverts.ErrAuthorityRenounced
	}
	if !isSigner(p.Authority) {
		return reverts.ErrInvalidAuthority
	}
	return nil
}

// Apply writes the set fields of s.
func (p *Pool) Apply(s Settings) {
	if s.MinStakeAmount != nil {
		p.MinStakeAmount = *s.MinStakeAmount
	}
	if s.LockDurationSeconds != nil {
		p.LockDurationSeconds = *s.LockDurationSeconds
	}
	if s.UnstakeCooldownSeconds != nil {
		p.UnstakeCooldownSeconds = *s.UnstakeCooldownSeconds
	}
}

// Renounce clears the authority for good.
func (p *Pool) Renounce() {
	p.Authority = chief.Address{}
	p.AuthorityRenounced = true
}
