// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/chiefstaker/chiefstaker/api/utils"
	"github.com/chiefstaker/chiefstaker/builtin/stakepool"
	"github.com/chiefstaker/chiefstaker/builtin/stakepool/pool"
	"github.com/chiefstaker/chiefstaker/builtin/stakepool/position"
	"github.com/chiefstaker/chiefstaker/chief"
	"github.com/chiefstaker/chiefstaker/runtime"
	"github.com/chiefstaker/chiefstaker/xenv"
)

type Pools struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Pools {
	return &Pools{rt}
}

func parseAddress(req *http.Request, key string) (chief.Address, error) {
	addr, err := chief.ParseAddress(mux.Vars(req)[key])
	if err != nil {
		return chief.Address{}, utils.BadRequest(errors.WithMessage(err, key))
	}
	return addr, nil
}

// poolOf returns the pool address named by the mint in the path.
func poolOf(req *http.Request) (chief.Address, error) {
	mint, err := parseAddress(req, "mint")
	if err != nil {
		return chief.Address{}, err
	}
	return pool.Address(mint), nil
}

func parseBody(req *http.Request, v any) error {
	if err := utils.ParseJSON(req.Body, v); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return nil
}

func (p *Pools) exec(req *http.Request, signers []chief.Address, fn func(sp *stakepool.StakePool) error) error {
	return p.rt.Execute(req.Context(), signers, func(env *xenv.Environment) error {
		return fn(stakepool.New(env))
	})
}

func (p *Pools) view(fn func(sp *stakepool.StakePool, env *xenv.Environment) error) error {
	return p.rt.View(func(env *xenv.Environment) error {
		return fn(stakepool.New(env), env)
	})
}

func (p *Pools) handleInitializePool(w http.ResponseWriter, req *http.Request) error {
	var body InitializePool
	if err := parseBody(req, &body); err != nil {
		return err
	}
	var addr chief.Address
	if err := p.exec(req, []chief.Address{body.Authority}, func(sp *stakepool.StakePool) (err error) {
		addr, err = sp.InitializePool(body.Authority, body.Mint, body.MaturationPeriod)
		return
	}); err != nil {
		return err
	}
	w.Header().Set("Content-Type", utils.JSONContentType)
	w.WriteHeader(http.StatusCreated)
	return utils.WriteJSON(w, utils.M{"pool": addr, "vault": pool.VaultAddress(addr)})
}

func (p *Pools) handleGetPool(w http.ResponseWriter, req *http.Request) error {
	poolAddr, err := poolOf(req)
	if err != nil {
		return err
	}
	var out *Pool
	if err := p.view(func(sp *stakepool.StakePool, _ *xenv.Environment) error {
		ledger, err := sp.GetPool(poolAddr)
		if err != nil {
			return err
		}
		undistributed, err := sp.Undistributed(poolAddr)
		if err != nil {
			return err
		}
		out = convertPool(poolAddr, ledger, undistributed)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (p *Pools) handleDepositRewards(w http.ResponseWriter, req *http.Request) error {
	poolAddr, err := poolOf(req)
	if err != nil {
		return err
	}
	var body DepositRewards
	if err := parseBody(req, &body); err != nil {
		return err
	}
	if err := p.exec(req, []chief.Address{body.Depositor}, func(sp *stakepool.StakePool) error {
		return sp.DepositRewards(body.Depositor, poolAddr, body.Amount)
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"deposited": body.Amount})
}

func (p *Pools) handleSyncRewards(w http.ResponseWriter, req *http.Request) error {
	poolAddr, err := poolOf(req)
	if err != nil {
		return err
	}
	var synced uint64
	if err := p.exec(req, nil, func(sp *stakepool.StakePool) (err error) {
		synced, err = sp.SyncRewards(poolAddr)
		return
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"synced": synced})
}

func (p *Pools) handleUpdateSettings(w http.ResponseWriter, req *http.Request) error {
	poolAddr, err := poolOf(req)
	if err != nil {
		return err
	}
	var body Settings
	if err := parseBody(req, &body); err != nil {
		return err
	}
	if err := p.exec(req, []chief.Address{body.Authority}, func(sp *stakepool.StakePool) error {
		return sp.UpdatePoolSettings(poolAddr, pool.Settings{
			MinStakeAmount:         body.MinStakeAmount,
			LockDurationSeconds:    body.LockDurationSeconds,
			UnstakeCooldownSeconds: body.UnstakeCooldownSeconds,
		})
	}); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (p *Pools) handleRenounceAuthority(w http.ResponseWriter, req *http.Request) error {
	poolAddr, err := poolOf(req)
	if err != nil {
		return err
	}
	var body Authority
	if err := parseBody(req, &body); err != nil {
		return err
	}
	if err := p.exec(req, []chief.Address{body.Authority}, func(sp *stakepool.StakePool) error {
		return sp.RenounceAuthority(poolAddr)
	}); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (p *Pools) handleTakeFeeOwnership(w http.ResponseWriter, req *http.Request) error {
	mint, err := parseAddress(req, "mint")
	if err != nil {
		return err
	}
	if err := p.exec(req, nil, func(sp *stakepool.StakePool) error {
		return sp.TakeFeeOwnership(pool.Address(mint), mint)
	}); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (p *Pools) handleGetStake(w http.ResponseWriter, req *http.Request) error {
	poolAddr, err := poolOf(req)
	if err != nil {
		return err
	}
	owner, err := parseAddress(req, "owner")
	if err != nil {
		return err
	}
	var out *Stake
	if err := p.view(func(sp *stakepool.StakePool, env *xenv.Environment) error {
		ledger, err := sp.GetPool(poolAddr)
		if err != nil {
			return err
		}
		pos, err := sp.GetPosition(poolAddr, owner)
		if err != nil {
			return err
		}
		pending, err := sp.PendingRewards(poolAddr, owner)
		if err != nil {
			return err
		}
		weight := pos.Weight(env.Now(), ledger.MaturationPeriodSeconds)
		out = convertStake(position.Address(poolAddr, owner), pos, pending, weight)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (p *Pools) handleStake(w http.ResponseWriter, req *http.Request) error {
	poolAddr, err := poolOf(req)
	if err != nil {
		return err
	}
	var body StakeRequest
	if err := parseBody(req, &body); err != nil {
		return err
	}
	var posAddr chief.Address
	if err := p.exec(req, []chief.Address{body.Owner}, func(sp *stakepool.StakePool) (err error) {
		posAddr, err = sp.Stake(body.Owner, poolAddr, body.Amount)
		return
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"position": posAddr, "staked": body.Amount})
}

func (p *Pools) handleRequestUnstake(w http.ResponseWriter, req *http.Request) error {
	poolAddr, err := poolOf(req)
	if err != nil {
		return err
	}
	owner, err := parseAddress(req, "owner")
	if err != nil {
		return err
	}
	var body UnstakeRequest
	if err := parseBody(req, &body); err != nil {
		return err
	}
	if err := p.exec(req, []chief.Address{owner}, func(sp *stakepool.StakePool) error {
		return sp.RequestUnstake(owner, poolAddr, position.Address(poolAddr, owner), body.Amount)
	}); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (p *Pools) handleCancelUnstake(w http.ResponseWriter, req *http.Request) error {
	poolAddr, err := poolOf(req)
	if err != nil {
		return err
	}
	owner, err := parseAddress(req, "owner")
	if err != nil {
		return err
	}
	if err := p.exec(req, []chief.Address{owner}, func(sp *stakepool.StakePool) error {
		return sp.CancelUnstakeRequest(owner, poolAddr, position.Address(poolAddr, owner))
	}); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (p *Pools) handleWithdraw(w http.ResponseWriter, req *http.Request) error {
	poolAddr, err := poolOf(req)
	if err != nil {
		return err
	}
	owner, err := parseAddress(req, "owner")
	if err != nil {
		return err
	}
	var withdrawn uint64
	if err := p.exec(req, []chief.Address{owner}, func(sp *stakepool.StakePool) (err error) {
		withdrawn, err = sp.CompleteUnstake(owner, poolAddr, position.Address(poolAddr, owner))
		return
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"withdrawn": withdrawn})
}

func (p *Pools) handleClaim(w http.ResponseWriter, req *http.Request) error {
	poolAddr, err := poolOf(req)
	if err != nil {
		return err
	}
	owner, err := parseAddress(req, "owner")
	if err != nil {
		return err
	}
	var paid uint64
	if err := p.exec(req, []chief.Address{owner}, func(sp *stakepool.StakePool) (err error) {
		paid, err = sp.ClaimRewards(owner, poolAddr, position.Address(poolAddr, owner))
		return
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"paid": paid})
}

func (p *Pools) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	for _, r := range []struct {
		method  string
		path    string
		handler utils.HandlerFunc
	}{
		{http.MethodPost, "", p.handleInitializePool},
		{http.MethodGet, "/{mint}", p.handleGetPool},
		{http.MethodPost, "/{mint}/rewards", p.handleDepositRewards},
		{http.MethodPost, "/{mint}/sync", p.handleSyncRewards},
		{http.MethodPut, "/{mint}/settings", p.handleUpdateSettings},
		{http.MethodPost, "/{mint}/renounce", p.handleRenounceAuthority},
		{http.MethodPost, "/{mint}/fee-ownership", p.handleTakeFeeOwnership},
		{http.MethodPost, "/{mint}/stakes", p.handleStake},
		{http.MethodGet, "/{mint}/stakes/{owner}", p.handleGetStake},
		{http.MethodPost, "/{mint}/stakes/{owner}/unstake-request", p.handleRequestUnstake},
		{http.MethodDelete, "/{mint}/stakes/{owner}/unstake-request", p.handleCancelUnstake},
		{http.MethodPost, "/{mint}/stakes/{owner}/withdraw", p.handleWithdraw},
		{http.MethodPost, "/{mint}/stakes/{owner}/claim", p.handleClaim},
	} {
		sub.Path(r.path).
			Methods(r.method).
			Name(r.method + " " + pathPrefix + r.path).
			HandlerFunc(utils.WrapHandlerFunc(r.handler))
	}
}
