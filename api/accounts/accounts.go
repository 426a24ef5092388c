// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/chiefstaker/chiefstaker/api/utils"
	"github.com/chiefstaker/chiefstaker/builtin/system"
	"github.com/chiefstaker/chiefstaker/builtin/token"
	"github.com/chiefstaker/chiefstaker/chief"
	"github.com/chiefstaker/chiefstaker/runtime"
	"github.com/chiefstaker/chiefstaker/xenv"
)

type Accounts struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Accounts {
	return &Accounts{rt}
}

func parseAddress(req *http.Request, key string) (chief.Address, error) {
	addr, err := chief.ParseAddress(mux.Vars(req)[key])
	if err != nil {
		return chief.Address{}, utils.BadRequest(errors.WithMessage(err, key))
	}
	return addr, nil
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req, "address")
	if err != nil {
		return err
	}
	var acc *Account
	if err := a.rt.View(func(env *xenv.Environment) error {
		raw, err := env.State().GetAccount(addr)
		if err != nil {
			return err
		}
		acc = &Account{
			Balance:    raw.Balance,
			Owner:      raw.Owner,
			DataLen:    len(raw.Data),
			RentExempt: env.Rent().IsExempt(raw.Balance, len(raw.Data)),
		}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, acc)
}

func (a *Accounts) handleGetTokenAccount(w http.ResponseWriter, req *http.Request) error {
	owner, err := parseAddress(req, "address")
	if err != nil {
		return err
	}
	mint, err := parseAddress(req, "mint")
	if err != nil {
		return err
	}
	addr := token.AssociatedAddress(owner, mint)
	var acc *TokenAccount
	if err := a.rt.View(func(env *xenv.Environment) error {
		ta, err := token.GetAccount(env.State(), addr)
		if err != nil {
			return err
		}
		acc = &TokenAccount{Address: addr, Mint: ta.Mint, Owner: ta.Owner, Amount: ta.Amount}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, acc)
}

func (a *Accounts) handleTransfer(w http.ResponseWriter, req *http.Request) error {
	from, err := parseAddress(req, "address")
	if err != nil {
		return err
	}
	var body Transfer
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := a.rt.Execute(req.Context(), []chief.Address{from}, func(env *xenv.Environment) error {
		return system.Transfer(env, from, body.To, body.Amount)
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"from": from, "to": body.To, "amount": body.Amount})
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
	sub.Path("/{address}/tokens/{mint}").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}/tokens/{mint}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetTokenAccount))
	sub.Path("/{address}/transfer").
		Methods(http.MethodPost).
		Name("POST /accounts/{address}/transfer").
		HandlerFunc(utils.WrapHandlerFunc(a.handleTransfer))
}
