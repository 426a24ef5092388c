// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package position

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

// Get loads the position at addr, returning nil if none was created.
func (s *Service) Get(addr chief.Address) (*Position, error) {
	p, err := record.New[Position](s.ctx, addr).Get()
	if err != nil {
		if reverts.IsRevertErr(err) {
			return nil, err
		}
		return nil, errors.Wrap(err, "failed to get position")
	}
	return p, nil
}

// Load loads the position at addr and checks it belongs to owner in pool and
// sits at the address derived from both.
func (s *Service) Load(addr, owner, pool chief.Address) (*Position, error) {
	p, err := s.Get(addr)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, reverts.ErrNotInitialized
	}
	if err := p.Check(owner, pool); err != nil {
		return nil, err
	}
	if addr != Address(pool, owner) {
		return nil, reverts.ErrInvalidPoolAddress
	}
	return p, nil
}

// Update persists the whole position record.
func (s *Service) Update(addr chief.Address, p *Position) error {
	if err := record.New[Position](s.ctx, addr).Set(p); err != nil {
		if reverts.IsRevertErr(err) {
			return err
		}
		return errors.Wrap(err, "failed to set position")
	}
	return nil
}
