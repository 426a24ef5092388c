// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package record stores typed program records in account data.
package record

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/chiefstaker/chiefstaker/builtin/reverts"
	"github.com/chiefstaker/chiefstaker/chief"
	"github.com/chiefstaker/chiefstaker/state"
)

// Context binds a program to the state it operates on.
type Context struct {
	program chief.Address
	state   *state.State
}

func NewContext(program chief.Address, state *state.State) *Context {
	return &Context{program: program, state: state}
}

func (c *Context) Program() chief.Address { return c.program }
func (c *Context) State() *state.State    { return c.state }

// Record is an RLP encoded value kept in the fixed size data of a program owned account.
// The encoding is zero padded to the allocated size, so the account keeps a constant
// length and a constant rent floor for its whole life.
type Record[V any] struct {
	ctx  *Context
	addr chief.Address
}

func New[V any](ctx *Context, addr chief.Address) *Record[V] {
	return &Record[V]{ctx: ctx, addr: addr}
}

func (r *Record[V]) Address() chief.Address { return r.addr }

// Get decodes the record. It returns nil when the account holds no record yet.
func (r *Record[V]) Get() (*V, error) {
	acc, err := r.ctx.state.GetAccount(r.addr)
	if err != nil {
		return nil, err
	}
	if len(acc.Data) == 0 {
		return nil, nil
	}
	if acc.Owner != r.ctx.program {
		return nil, reverts.ErrInvalidAccountOwner
	}
	// allocated but never written
	if acc.Data[0] == 0 {
		return nil, nil
	}
	_, _, rest, err := rlp.Split(acc.Data)
	if err != nil {
		return nil, errors.Wrap(err, "split record")
	}
	var v V
	if err := rlp.DecodeBytes(acc.Data[:len(acc.Data)-len(rest)], &v); err != nil {
		return nil, errors.Wrap(err, "decode record")
	}
	return &v, nil
}

// Set encodes value into the allocated data of the account.
func (r *Record[V]) Set(value *V) error {
	acc, err := r.ctx.state.GetAccount(r.addr)
	if err != nil {
		return err
	}
	if acc.Owner != r.ctx.program {
		return reverts.ErrInvalidAccountOwner
	}
	enc, err := rlp.EncodeToBytes(value)
	if err != nil {
		return errors.Wrap(err, "encode record")
	}
	if len(enc) > len(acc.Data) {
		return errors.Errorf("record needs %d bytes, account has %d", len(enc), len(acc.Data))
	}
	data := make([]byte, len(acc.Data))
	copy(data, enc)
	return r.ctx.state.SetData(r.addr, data)
}
