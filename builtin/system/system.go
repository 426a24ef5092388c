// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package system moves the reward currency (lamports) and allocates accounts.
package system

import (
	"errors"

	"github.com/chiefstaker/chiefstaker/builtin/reverts"
	"github.com/chiefstaker/chiefstaker/chief"
	"github.com/chiefstaker/chiefstaker/log"
	"github.com/chiefstaker/chiefstaker/state"
	"github.com/chiefstaker/chiefstaker/xenv"
)

var logger = log.WithContext("pkg", "system")

// balanceErr maps state balance failures onto reverts.
func balanceErr(err error) error {
	switch {
	case errors.Is(err, state.ErrInsufficientBalance):
		return reverts.ErrInsufficientFunds
	case errors.Is(err, state.ErrBalanceOverflow):
		return reverts.ErrArithmeticOverflow
	default:
		return err
	}
}

func move(st *state.State, from, to chief.Address, amount uint64) error {
	if amount == 0 || from == to {
		return nil
	}
	if err := st.SubBalance(from, amount); err != nil {
		return balanceErr(err)
	}
	if err := st.AddBalance(to, amount); err != nil {
		return balanceErr(err)
	}
	return nil
}

// Transfer moves lamports out of a signer's plain account.
// Accounts carrying program data can only be debited by their owner program, see TransferOwned.
func Transfer(env *xenv.Environment, from, to chief.Address, amount uint64) error {
	if err := env.RequireSigner(from); err != nil {
		return err
	}
	data, err := env.State().GetData(from)
	if err != nil {
		return err
	}
	if len(data) > 0 {
		return reverts.ErrInvalidAccountOwner
	}
	if err := move(env.State(), from, to, amount); err != nil {
		return err
	}
	logger.Debug("transfer", "from", from, "to", to, "amount", amount)
	return nil
}

// TransferOwned moves lamports out of an account owned by program.
func TransferOwned(env *xenv.Environment, program, from, to chief.Address, amount uint64) error {
	owner, err := env.State().GetOwner(from)
	if err != nil {
		return err
	}
	if owner != program {
		return reverts.ErrInvalidAccountOwner
	}
	return move(env.State(), from, to, amount)
}

// CreateAccount allocates space zeroed bytes at addr owned by owner.
// The payer tops the account up to its rent exempt minimum; lamports already
// held by addr count towards it. Both payer and addr must sign.
func CreateAccount(env *xenv.Environment, payer, addr, owner chief.Address, space int) error {
	if err := env.RequireSigner(payer); err != nil {
		return err
	}
	if err := env.RequireSigner(addr); err != nil {
		return err
	}
	st := env.State()
	acc, err := st.GetAccount(addr)
	if err != nil {
		return err
	}
	if !acc.Owner.IsZero() || len(acc.Data) > 0 {
		return reverts.ErrAlreadyInitialized
	}
	if need := env.Rent().MinimumBalance(space); acc.Balance < need {
		if err := move(st, payer, addr, need-acc.Balance); err != nil {
			return err
		}
	}
	if err := st.CreateAccount(addr, owner, make([]byte, space)); err != nil {
		return err
	}
	logger.Debug("account created", "addr", addr, "owner", owner, "space", space)
	return nil
}
