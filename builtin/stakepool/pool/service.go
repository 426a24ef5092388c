// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/pkg/errors"

	"github.com/chiefstaker/chiefstaker/builtin/record"
	"github.com/chiefstaker/chiefstaker/builtin/reverts"
	"github.com/chiefstaker/chiefstaker/chief"
)

type Service struct {
	ctx *record.Context
}

func NewService(ctx *record.Context) *Service {
	return &Service{ctx: ctx}
}

// Get loads the pool at addr, returning nil if the account holds none.
func (s *Service) Get(addr chief.Address) (*Pool, error) {
	p, err := record.New[Pool](s.ctx, addr).Get()
	if err != nil {
		return nil, wrap(err, "failed to get pool")
	}
	return p, nil
}

// Load loads an initialized pool and checks that addr is the canonical address of its mint.
func (s *Service) Load(addr chief.Address) (*Pool, error) {
	p, err := s.Get(addr)
	if err != nil {
		return nil, err
	}
	if p == nil || !p.Initialized {
		return nil, reverts.ErrNotInitialized
	}
	if Address(p.Mint) != addr {
		return nil, reverts.ErrInvalidPoolAddress
	}
	return p, nil
}

// Update persists the whole pool record.
func (s *Service) Update(addr chief.Address, p *Pool) error {
	if err := record.New[Pool](s.ctx, addr).Set(p); err != nil {
		return wrap(err, "failed to set pool")
	}
	return nil
}

// wrap annotates infrastructure failures, reverts pass through untouched.
func wrap(err error, msg string) error {
	if reverts.IsRevertErr(err) {
		return err
	}
	return errors.Wrap(err, msg)
}
