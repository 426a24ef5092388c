// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"github.com/chiefstaker/chiefstaker/builtin/stakepool/pool"
	"github.com/chiefstaker/chiefstaker/builtin/stakepool/position"
	"github.com/chiefstaker/chiefstaker/chief"
)

// Pool for marshal pool ledger
type Pool struct {
	Address                   chief.Address `json:"address"`
	Mint                      chief.Address `json:"mint"`
	Vault                     chief.Address `json:"vault"`
	Authority                 chief.Address `json:"authority"`
	AuthorityRenounced        bool          `json:"authorityRenounced"`
	TotalStaked               uint64        `json:"totalStaked"`
	AccRewardPerWeightedShare string        `json:"accRewardPerWeightedShare"`
	LastUpdateTime            uint64        `json:"lastUpdateTime"`
	LastSyncedLamports        uint64        `json:"lastSyncedLamports"`
	Undistributed             uint64        `json:"undistributed"`
	MinStakeAmount            uint64        `json:"minStakeAmount"`
	LockDurationSeconds       uint64        `json:"lockDurationSeconds"`
	UnstakeCooldownSeconds    uint64        `json:"unstakeCooldownSeconds"`
	MaturationPeriodSeconds   uint64        `json:"maturationPeriodSeconds"`
}

func convertPool(addr chief.Address, p *pool.Pool, undistributed uint64) *Pool {
	return &Pool{
		Address:                   addr,
		Mint:                      p.Mint,
		Vault:                     p.Vault,
		Authority:                 p.Authority,
		AuthorityRenounced:        p.AuthorityRenounced,
		TotalStaked:               p.TotalStaked,
		AccRewardPerWeightedShare: p.Acc().Dec(),
		LastUpdateTime:            p.LastUpdateTime,
		LastSyncedLamports:        p.LastSyncedLamports,
		Undistributed:             undistributed,
		MinStakeAmount:            p.MinStakeAmount,
		LockDurationSeconds:       p.LockDurationSeconds,
		UnstakeCooldownSeconds:    p.UnstakeCooldownSeconds,
		MaturationPeriodSeconds:   p.MaturationPeriodSeconds,
	}
}

// Stake for marshal stake position
type Stake struct {
	Address              chief.Address `json:"address"`
	Owner                chief.Address `json:"owner"`
	Pool                 chief.Address `json:"pool"`
	Status               string        `json:"status"`
	Amount               uint64        `json:"amount"`
	LastStakeTime        uint64        `json:"lastStakeTime"`
	RewardSnapshot       string        `json:"rewardSnapshot"`
	UnstakeRequestAmount uint64        `json:"unstakeRequestAmount"`
	UnstakeRequestTime   uint64        `json:"unstakeRequestTime"`
	PendingRewards       uint64        `json:"pendingRewards"`
	MaturedWeight        uint64        `json:"maturedWeight"`
}

func convertStake(addr chief.Address, pos *position.Position, pending, weight uint64) *Stake {
	return &Stake{
		Address:              addr,
		Owner:                pos.Owner,
		Pool:                 pos.Pool,
		Status:               pos.Status().String(),
		Amount:               pos.Amount,
		LastStakeTime:        pos.LastStakeTime,
		RewardSnapshot:       pos.RewardSnapshot.Dec(),
		UnstakeRequestAmount: pos.UnstakeRequestAmount,
		UnstakeRequestTime:   pos.UnstakeRequestTime,
		PendingRewards:       pending,
		MaturedWeight:        weight,
	}
}

// InitializePool creates the pool of a mint.
type InitializePool struct {
	Authority        chief.Address `json:"authority"`
	Mint             chief.Address `json:"mint"`
	MaturationPeriod uint64        `json:"maturationPeriod"`
}

// DepositRewards adds lamports to a pool.
type DepositRewards struct {
	Depositor chief.Address `json:"depositor"`
	Amount    uint64        `json:"amount"`
}

// Settings updates the pool policy, absent fields are kept.
type Settings struct {
	Authority              chief.Address `json:"authority"`
	MinStakeAmount         *uint64       `json:"minStakeAmount"`
	LockDurationSeconds    *uint64       `json:"lockDurationSeconds"`
	UnstakeCooldownSeconds *uint64       `json:"unstakeCooldownSeconds"`
}

// Authority names the signing pool authority.
type Authority struct {
	Authority chief.Address `json:"authority"`
}

// StakeRequest adds principal to the owner's position.
type StakeRequest struct {
	Owner  chief.Address `json:"owner"`
	Amount uint64        `json:"amount"`
}

// UnstakeRequest starts the cooldown of amount.
type UnstakeRequest struct {
	Amount uint64 `json:"amount"`
}
