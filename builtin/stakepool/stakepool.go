// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package stakepool implements staking pools that distribute lamport rewards to the
// holders of a staked token in proportion to their principal.
//
// Rewards are tracked with a lazy accumulator: every distribution adds
// amount*WAD/total_staked to the pool accumulator, and each position settles
// amount*(acc-snapshot)/WAD when its principal changes or when it claims.
// Deposits and out of band transfers are reconciled through the pool's measured
// balance, so any order of deposit, sync and stake calls distributes the same total.
package stakepool

import (
	"github.com/chiefstaker/chiefstaker/builtin/record"
	"github.com/chiefstaker/chiefstaker/builtin/reverts"
	"github.com/chiefstaker/chiefstaker/builtin/stakepool/pool"
	"github.com/chiefstaker/chiefstaker/builtin/stakepool/position"
	"github.com/chiefstaker/chiefstaker/chief"
	"github.com/chiefstaker/chiefstaker/log"
	"github.com/chiefstaker/chiefstaker/metrics"
	"github.com/chiefstaker/chiefstaker/xenv"
)

var (
	logger = log.WithContext("pkg", "stakepool")

	metricOperations  = metrics.LazyLoadCounterVec("stakepool_operations_total", []string{"op", "result"})
	metricDistributed = metrics.LazyLoadCounter("stakepool_distributed_lamports_total")
	metricPaid        = metrics.LazyLoadCounter("stakepool_paid_lamports_total")
)

// StakePool executes pool operations within one environment.
type StakePool struct {
	env       *xenv.Environment
	pools     *pool.Service
	positions *position.Service
}

// New create a StakePool bound to env.
func New(env *xenv.Environment) *StakePool {
	ctx := record.NewContext(chief.StakePoolProgram, env.State())
	return &StakePool{
		env:       env,
		pools:     pool.NewService(ctx),
		positions: position.NewService(ctx),
	}
}

// observe counts the outcome of op. Use as defer sp.observe("op", &err).
func (sp *StakePool) observe(op string, errp *error) {
	result := "success"
	if err := *errp; err != nil {
		if rev, ok := reverts.As(err); ok {
			result = rev.Code()
			logger.Debug("operation reverted", "op", op, "reason", rev.Error())
		} else {
			result = "error"
			logger.Warn("operation failed", "op", op, "err", err)
		}
	}
	metricOperations().AddWithLabel(1, map[string]string{"op": op, "result": result})
}

// floor returns the lamports the pool account must keep to stay allocated.
func (sp *StakePool) floor() uint64 {
	return sp.env.Rent().MinimumBalance(pool.Space)
}

// available returns the pool's lamports above the rent floor.
func (sp *StakePool) available(poolAddr chief.Address) (uint64, error) {
	balance, err := sp.env.State().GetBalance(poolAddr)
	if err != nil {
		return 0, err
	}
	return pool.Available(balance, sp.floor()), nil
}

// checkpoint runs fn against a state checkpoint and reverts every write fn made
// when it fails, so an operation never leaves partial changes in the environment.
func (sp *StakePool) checkpoint(fn func() error) error {
	st := sp.env.State()
	rev := st.NewCheckpoint()
	if err := fn(); err != nil {
		st.RevertTo(rev)
		return err
	}
	return nil
}

// fold distributes lamports that reached the pool since the last reconciliation
// over the current stake. It returns the amount distributed, 0 when nothing new
// arrived or nothing is staked. The caller persists p.
func (sp *StakePool) fold(poolAddr chief.Address, p *pool.Pool) (uint64, error) {
	available, err := sp.available(poolAddr)
	if err != nil {
		return 0, err
	}
	fresh := p.Undistributed(available)
	if fresh == 0 {
		return 0, nil
	}
	distributed, err := p.Distribute(fresh, sp.env.Now())
	if err != nil || !distributed {
		return 0, err
	}
	p.LastSyncedLamports = available
	metricDistributed().AddUint64(fresh)
	return fresh, nil
}
