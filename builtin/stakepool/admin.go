// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakepool

import (
	"github.com/chiefstaker/chiefstaker/builtin/feeshare"
	"github.com/chiefstaker/chiefstaker/builtin/reverts"
	"github.com/chiefstaker/chiefstaker/builtin/stakepool/pool"
	"github.com/chiefstaker/chiefstaker/builtin/system"
	"github.com/chiefstaker/chiefstaker/builtin/token"
	"github.com/chiefstaker/chiefstaker/chief"
)

// extensions whose behavior lets the vault balance drift from TotalStaked
var unsupportedExtensions = []token.Extension{
	token.ExtensionTransferFee,
	token.ExtensionPermanentDelegate,
	token.ExtensionTransferHook,
}

// InitializePool creates the pool of mint and its token vault, paid by authority.
// It returns the pool address.
func (sp *StakePool) InitializePool(authority, mintAddr chief.Address, tau uint64) (addr chief.Address, err error) {
	defer sp.observe("initializePool", &err)

	if err := sp.env.RequireSigner(authority); err != nil {
		return chief.Address{}, err
	}
	if tau < pool.MinMaturationPeriod || tau > pool.MaxMaturationPeriod {
		return chief.Address{}, reverts.ErrInvalidConfiguration
	}

	st := sp.env.State()
	owner, err := st.GetOwner(mintAddr)
	if err != nil {
		return chief.Address{}, err
	}
	if owner != chief.TokenProgram {
		return chief.Address{}, reverts.ErrInvalidPoolMint
	}
	mint, err := token.GetMint(st, mintAddr)
	if err != nil {
		return chief.Address{}, err
	}
	for _, ext := range unsupportedExtensions {
		if mint.HasExtension(ext) {
			logger.Info("mint rejected", "mint", mintAddr, "extension", ext)
			return chief.Address{}, reverts.ErrUnsupportedAsset
		}
	}

	addr = pool.Address(mintAddr)
	existing, err := sp.pools.Get(addr)
	if err != nil {
		return chief.Address{}, err
	}
	if existing != nil {
		return chief.Address{}, reverts.ErrAlreadyInitialized
	}

	p, err := pool.New(mintAddr, authority, tau, sp.env.Now())
	if err != nil {
		return chief.Address{}, err
	}
	if err := sp.checkpoint(func() error {
		if err := system.CreateAccount(sp.env.WithSigner(addr), authority, addr, chief.StakePoolProgram, pool.Space); err != nil {
			return err
		}
		if err := token.InitializeAccount(sp.env.WithSigner(p.Vault), authority, p.Vault, mintAddr, addr); err != nil {
			return err
		}
		return sp.pools.Update(addr, p)
	}); err != nil {
		return chief.Address{}, err
	}

	logger.Info("initialized staking pool", "mint", mintAddr, "pool", addr, "tau", tau)
	return addr, nil
}

// UpdatePoolSettings changes the pool policy. The pool authority signs.
func (sp *StakePool) UpdatePoolSettings(poolAddr chief.Address, settings pool.Settings) (err error) {
	defer sp.observe("updatePoolSettings", &err)

	p, err := sp.pools.Load(poolAddr)
	if err != nil {
		return err
	}
	if err := p.CheckAuthority(sp.env.IsSigner); err != nil {
		return err
	}
	p.Apply(settings)
	if err := sp.pools.Update(poolAddr, p); err != nil {
		return err
	}

	logger.Info("pool settings updated", "pool", poolAddr,
		"minStake", p.MinStakeAmount,
		"lock", p.LockDurationSeconds,
		"cooldown", p.UnstakeCooldownSeconds,
	)
	return nil
}

// RenounceAuthority clears the pool authority, freezing its settings.
func (sp *StakePool) RenounceAuthority(poolAddr chief.Address) (err error) {
	defer sp.observe("renounceAuthority", &err)

	p, err := sp.pools.Load(poolAddr)
	if err != nil {
		return err
	}
	if err := p.CheckAuthority(sp.env.IsSigner); err != nil {
		return err
	}
	previous := p.Authority
	p.Renounce()
	if err := sp.pools.Update(poolAddr, p); err != nil {
		return err
	}

	logger.Info("pool authority renounced", "pool", poolAddr, "previous", previous)
	return nil
}

// TakeFeeOwnership makes the pool the sole and permanent recipient of the mint's
// trading fees. The fee sharing authority must already have been handed to the pool.
// Anyone may call it.
func (sp *StakePool) TakeFeeOwnership(poolAddr, mintAddr chief.Address) (err error) {
	defer sp.observe("takeFeeOwnership", &err)

	p, err := sp.pools.Load(poolAddr)
	if err != nil {
		return err
	}
	if p.Mint != mintAddr {
		return reverts.ErrInvalidPoolMint
	}
	cfg, err := feeshare.GetConfig(sp.env.State(), mintAddr)
	if err != nil {
		return err
	}
	if cfg.AuthorityRevoked {
		return reverts.ErrFeeAuthorityRevoked
	}
	if cfg.Authority != poolAddr {
		return reverts.ErrFeeAuthorityNotPool
	}

	signed := sp.env.WithSigner(poolAddr)
	if err := sp.checkpoint(func() error {
		if err := feeshare.UpdateShares(signed, mintAddr, []feeshare.Shareholder{
			{Address: poolAddr, Bps: feeshare.TotalBps},
		}); err != nil {
			return err
		}
		return feeshare.RevokeAuthority(signed, mintAddr)
	}); err != nil {
		return err
	}

	logger.Info("pool owns trading fees", "pool", poolAddr, "mint", mintAddr)
	return nil
}
