// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"
	"math"

	"github.com/pkg/errors"

	"github.com/chiefstaker/chiefstaker/chief"
	"github.com/chiefstaker/chiefstaker/kv"
	"github.com/chiefstaker/chiefstaker/stackedmap"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrBalanceOverflow     = errors.New("balance overflow")
	ErrAccountExists       = errors.New("account already in use")
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// State manages the accounts touched by one operation.
// Reads fall through to the committed store, writes are staged in a journaled map
// and only reach the store through Stage().Commit.
type State struct {
	src kv.Getter
	sm  *stackedmap.StackedMap[chief.Address, *Account]
}

// New create state object reading committed accounts from src.
func New(src kv.Getter) *State {
	s := &State{src: src}
	s.sm = stackedmap.New(func(addr chief.Address) (*Account, bool, error) {
		a, err := loadAccount(s.src, addr)
		if err != nil {
			return nil, false, err
		}
		return a, true, nil
	})
	return s
}

// getAccount gets account by address. the returned account should not be modified.
func (s *State) getAccount(addr chief.Address) (*Account, error) {
	v, _, err := s.sm.Get(addr)
	if err != nil {
		return nil, &Error{err}
	}
	return v, nil
}

func (s *State) updateAccount(addr chief.Address, a *Account) {
	s.sm.Put(addr, a)
}

// GetAccount returns a copy of the account at the given address.
func (s *State) GetAccount(addr chief.Address) (*Account, error) {
	a, err := s.getAccount(addr)
	if err != nil {
		return nil, err
	}
	return a.copy(), nil
}

// Exists returns whether an account exists at the given address.
// See Account.IsEmpty()
func (s *State) Exists(addr chief.Address) (bool, error) {
	a, err := s.getAccount(addr)
	if err != nil {
		return false, err
	}
	return !a.IsEmpty(), nil
}

// GetBalance returns balance for the given address.
func (s *State) GetBalance(addr chief.Address) (uint64, error) {
	a, err := s.getAccount(addr)
	if err != nil {
		return 0, err
	}
	return a.Balance, nil
}

// SetBalance set balance for the given address.
func (s *State) SetBalance(addr chief.Address, balance uint64) error {
	a, err := s.getAccount(addr)
	if err != nil {
		return err
	}
	cpy := a.copy()
	cpy.Balance = balance
	s.updateAccount(addr, cpy)
	return nil
}

// AddBalance credits amount to the given address.
func (s *State) AddBalance(addr chief.Address, amount uint64) error {
	balance, err := s.GetBalance(addr)
	if err != nil {
		return err
	}
	if balance > math.MaxUint64-amount {
		return ErrBalanceOverflow
	}
	return s.SetBalance(addr, balance+amount)
}

// SubBalance debits amount from the given address.
func (s *State) SubBalance(addr chief.Address, amount uint64) error {
	balance, err := s.GetBalance(addr)
	if err != nil {
		return err
	}
	if balance < amount {
		return ErrInsufficientBalance
	}
	return s.SetBalance(addr, balance-amount)
}

// GetOwner returns the program owning the account.
func (s *State) GetOwner(addr chief.Address) (chief.Address, error) {
	a, err := s.getAccount(addr)
	if err != nil {
		return chief.Address{}, err
	}
	return a.Owner, nil
}

// GetData returns a copy of the account data.
func (s *State) GetData(addr chief.Address) ([]byte, error) {
	a, err := s.getAccount(addr)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), a.Data...), nil
}

// SetData replaces the account data.
func (s *State) SetData(addr chief.Address, data []byte) error {
	a, err := s.getAccount(addr)
	if err != nil {
		return err
	}
	cpy := a.copy()
	cpy.Data = append([]byte(nil), data...)
	s.updateAccount(addr, cpy)
	return nil
}

// CreateAccount assigns owner and allocates data for a fresh account.
// An account holding only balance may be created over; one with an owner or data may not.
func (s *State) CreateAccount(addr chief.Address, owner chief.Address, data []byte) error {
	a, err := s.getAccount(addr)
	if err != nil {
		return err
	}
	if !a.Owner.IsZero() || len(a.Data) > 0 {
		return ErrAccountExists
	}
	cpy := a.copy()
	cpy.Owner = owner
	cpy.Data = append([]byte(nil), data...)
	s.updateAccount(addr, cpy)
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
	if s.sm.Depth() == 0 {
		s.sm.Push()
	}
}

// Stage collects the latest value of every account written so far.
func (s *State) Stage() *Stage {
	changes := make(map[chief.Address]*Account)
	for _, entry := range s.sm.Journal() {
		changes[entry.Key] = entry.Value
	}
	return &Stage{changes: changes}
}
