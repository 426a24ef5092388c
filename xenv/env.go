// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"github.com/chiefstaker/chiefstaker/builtin/reverts"
	"github.com/chiefstaker/chiefstaker/chief"
	"github.com/chiefstaker/chiefstaker/rent"
	"github.com/chiefstaker/chiefstaker/state"
)

// Environment an env to execute a builtin program operation.
type Environment struct {
	state   *state.State
	rent    rent.Rent
	now     int64
	signers map[chief.Address]struct{}
}

// New create a new env.
func New(state *state.State, rent rent.Rent, now int64, signers ...chief.Address) *Environment {
	env := &Environment{
		state:   state,
		rent:    rent,
		now:     now,
		signers: make(map[chief.Address]struct{}, len(signers)),
	}
	for _, s := range signers {
		env.signers[s] = struct{}{}
	}
	return env
}

func (env *Environment) State() *state.State { return env.state }
func (env *Environment) Rent() rent.Rent     { return env.rent }

// Now returns the ledger clock in unix seconds.
func (env *Environment) Now() int64 { return env.now }

// IsSigner returns whether addr authorized the current operation.
func (env *Environment) IsSigner(addr chief.Address) bool {
	_, ok := env.signers[addr]
	return ok
}

// RequireSigner fails unless addr authorized the current operation.
func (env *Environment) RequireSigner(addr chief.Address) error {
	if !env.IsSigner(addr) {
		return reverts.ErrMissingRequiredSigner
	}
	return nil
}

// WithSigner returns an env sharing state and clock in which addr also signs.
// Programs use it to act for the addresses they derive.
func (env *Environment) WithSigner(addr chief.Address) *Environment {
	signers := make(map[chief.Address]struct{}, len(env.signers)+1)
	for s := range env.signers {
		signers[s] = struct{}{}
	}
	signers[addr] = struct{}{}
	return &Environment{
		state:   env.state,
		rent:    env.rent,
		now:     env.now,
		signers: signers,
	}
}
