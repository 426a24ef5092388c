// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/chiefstaker/chiefstaker/chief"
	"github.com/chiefstaker/chiefstaker/kv"
)

// Account is the on-disk representation of an account.
// RLP encoded objects are stored in the accounts bucket keyed by address.
type Account struct {
	Balance uint64        // reward currency units (lamports)
	Owner   chief.Address // program allowed to modify Data
	Data    []byte        // program defined record
}

// IsEmpty returns if an account is empty.
// An empty account has zero balance, no owner and no data.
func (a *Account) IsEmpty() bool {
	return a.Balance == 0 && a.Owner.IsZero() && len(a.Data) == 0
}

func (a *Account) copy() *Account {
	cpy := *a
	if a.Data != nil {
		cpy.Data = append([]byte(nil), a.Data...)
	}
	return &cpy
}

func emptyAccount() *Account {
	return &Account{}
}

// loadAccount load an account object by address from the getter.
// If the given address not found, an empty account returned.
func loadAccount(getter kv.Getter, addr chief.Address) (*Account, error) {
	data, err := getter.Get(addr.Bytes())
	if err != nil {
		if getter.IsNotFound(err) {
			return emptyAccount(), nil
		}
		return nil, errors.Wrap(err, "load account")
	}
	return DecodeAccount(data)
}

// DecodeAccount decodes an RLP encoded account.
func DecodeAccount(data []byte) (*Account, error) {
	var a Account
	if err := rlp.DecodeBytes(data, &a); err != nil {
		return nil, errors.Wrap(err, "decode account")
	}
	return &a, nil
}

// saveAccount writes the account, deleting the key for empty accounts.
func saveAccount(putter kv.Putter, addr chief.Address, a *Account) error {
	if a.IsEmpty() {
		return putter.Delete(addr.Bytes())
	}
	data, err := rlp.EncodeToBytes(a)
	if err != nil {
		return errors.Wrap(err, "encode account")
	}
	return putter.Put(addr.Bytes(), data)
}
