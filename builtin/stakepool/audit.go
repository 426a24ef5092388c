// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakepool

import (
	"fmt"
	"math"

	"github.com/chiefstaker/chiefstaker/builtin/stakepool/pool"
	"github.com/chiefstaker/chiefstaker/builtin/stakepool/position"
	"github.com/chiefstaker/chiefstaker/builtin/token"
	"github.com/chiefstaker/chiefstaker/chief"
)

// Index groups the accounts held by the stake pool program.
type Index struct {
	Pools     []chief.Address
	Positions map[chief.Address][]chief.Address // pool => positions
	// positions whose pool is not among Pools
	Orphans []chief.Address
}

// IndexAccounts sorts addrs into pools and positions. Accounts of other programs are skipped.
func (sp *StakePool) IndexAccounts(addrs []chief.Address) (*Index, error) {
	idx := &Index{Positions: make(map[chief.Address][]chief.Address)}
	known := make(map[chief.Address]bool)
	for _, addr := range addrs {
		acc, err := sp.env.State().GetAccount(addr)
		if err != nil {
			return nil, err
		}
		if acc.Owner != chief.StakePoolProgram {
			continue
		}
		switch len(acc.Data) {
		case pool.Space:
			idx.Pools = append(idx.Pools, addr)
			known[addr] = true
		case position.Space:
			pos, err := sp.positions.Get(addr)
			if err != nil {
				return nil, err
			}
			if pos != nil {
				idx.Positions[pos.Pool] = append(idx.Positions[pos.Pool], addr)
			}
		}
	}
	for p, positions := range idx.Positions {
		if !known[p] {
			idx.Orphans = append(idx.Orphans, positions...)
		}
	}
	return idx, nil
}

// AuditReport is the outcome of checking one pool ledger against its positions.
type AuditReport struct {
	Pool         chief.Address
	Positions    int
	SumStaked    uint64
	TotalStaked  uint64
	VaultBalance uint64
	Available    uint64
	LastSynced   uint64
	Violations   []string
}

func (r *AuditReport) OK() bool { return len(r.Violations) == 0 }

func (r *AuditReport) violate(format string, args ...any) {
	r.Violations = append(r.Violations, fmt.Sprintf(format, args...))
}

// Audit checks the ledger invariants of the pool at poolAddr, given every position of the pool.
func (sp *StakePool) Audit(poolAddr chief.Address, positions []chief.Address) (*AuditReport, error) {
	p, err := sp.pools.Load(poolAddr)
	if err != nil {
		return nil, err
	}
	available, err := sp.available(poolAddr)
	if err != nil {
		return nil, err
	}
	report := &AuditReport{
		Pool:        poolAddr,
		Positions:   len(positions),
		TotalStaked: p.TotalStaked,
		Available:   available,
		LastSynced:  p.LastSyncedLamports,
	}

	vault, err := token.GetAccount(sp.env.State(), p.Vault)
	if err != nil {
		return nil, err
	}
	report.VaultBalance = vault.Amount

	acc := p.Acc()
	for _, addr := range positions {
		pos, err := sp.positions.Get(addr)
		if err != nil {
			return nil, err
		}
		if pos == nil {
			report.violate("position %v is gone", addr)
			continue
		}
		if pos.Pool != poolAddr {
			report.violate("position %v belongs to pool %v", addr, pos.Pool)
			continue
		}
		if position.Address(poolAddr, pos.Owner) != addr {
			report.violate("position %v is not derived from owner %v", addr, pos.Owner)
		}
		if pos.Amount > math.MaxUint64-report.SumStaked {
			report.violate("staked sum overflows at position %v", addr)
		} else {
			report.SumStaked += pos.Amount
		}
		if pos.UnstakeRequestAmount > pos.Amount {
			report.violate("position %v requests %d of %d staked", addr, pos.UnstakeRequestAmount, pos.Amount)
		}
		if pos.RewardSnapshot != nil && pos.RewardSnapshot.Gt(acc) {
			report.violate("position %v snapshot is ahead of the accumulator", addr)
		}
	}

	if report.SumStaked != p.TotalStaked {
		report.violate("positions stake %d, pool records %d", report.SumStaked, p.TotalStaked)
	}
	if report.VaultBalance < p.TotalStaked {
		report.violate("vault holds %d, below the %d staked", report.VaultBalance, p.TotalStaked)
	}
	if p.LastSyncedLamports > available {
		report.violate("synced %d lamports, only %d available", p.LastSyncedLamports, available)
	}
	return report, nil
}
