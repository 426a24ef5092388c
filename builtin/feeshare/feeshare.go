// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package feeshare routes the trading fee revenue of a mint to its shareholders.
//
// Fees accrue as lamports in a per-mint fee vault. The config authority decides
// how they are split until it revokes itself, after which the split is final.
package feeshare

import (
	"github.com/chiefstaker/chiefstaker/builtin/record"
	"github.com/chiefstaker/chiefstaker/builtin/reverts"
	"github.com/chiefstaker/chiefstaker/builtin/system"
	"github.com/chiefstaker/chiefstaker/chief"
	"github.com/chiefstaker/chiefstaker/log"
	"github.com/chiefstaker/chiefstaker/state"
	"github.com/chiefstaker/chiefstaker/xenv"
)

// TotalBps is the sum every share split must reach.
const TotalBps = 10_000

const (
	ConfigSpace     = 512
	MaxShareholders = 10
)

var logger = log.WithContext("pkg", "feeshare")

// Shareholder receives Bps/10000 of distributed fees.
type Shareholder struct {
	Address chief.Address
	Bps     uint16
}

// SharingConfig is the fee split of a mint.
type SharingConfig struct {
	Mint             chief.Address
	Authority        chief.Address
	Shareholders     []Shareholder
	AuthorityRevoked bool
}

// ConfigAddress returns the sharing config address of mint.
func ConfigAddress(mint chief.Address) chief.Address {
	return chief.DeriveAddress(chief.FeeShareProgram, []byte("sharing-config"), mint.Bytes())
}

// VaultAddress returns the fee vault of mint.
func VaultAddress(mint chief.Address) chief.Address {
	return chief.DeriveAddress(chief.FeeShareProgram, []byte("fee-vault"), mint.Bytes())
}

func configRecord(st *state.State, mint chief.Address) *record.Record[SharingConfig] {
	return record.New[SharingConfig](record.NewContext(chief.FeeShareProgram, st), ConfigAddress(mint))
}

// GetConfig loads the sharing config of mint.
func GetConfig(st *state.State, mint chief.Address) (*SharingConfig, error) {
	cfg, err := configRecord(st, mint).Get()
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, reverts.ErrNotInitialized
	}
	return cfg, nil
}

func validateShares(shares []Shareholder) error {
	if len(shares) == 0 || len(shares) > MaxShareholders {
		return reverts.ErrInvalidShares
	}
	total := 0
	for _, s := range shares {
		total += int(s.Bps)
	}
	if total != TotalBps {
		return reverts.ErrInvalidShares
	}
	return nil
}

// CreateConfig sets up fee sharing for mint with authority as the sole shareholder.
func CreateConfig(env *xenv.Environment, payer, mint, authority chief.Address) error {
	cfgAddr := ConfigAddress(mint)
	if err := system.CreateAccount(env.WithSigner(cfgAddr), payer, cfgAddr, chief.FeeShareProgram, ConfigSpace); err != nil {
		return err
	}
	vault := VaultAddress(mint)
	if err := system.CreateAccount(env.WithSigner(vault), payer, vault, chief.FeeShareProgram, 0); err != nil {
		return err
	}
	return configRecord(env.State(), mint).Set(&SharingConfig{
		Mint:         mint,
		Authority:    authority,
		Shareholders: []Shareholder{{Address: authority, Bps: TotalBps}},
	})
}

func loadForAuthority(env *xenv.Environment, mint chief.Address) (*SharingConfig, error) {
	cfg, err := GetConfig(env.State(), mint)
	if err != nil {
		return nil, err
	}
	if cfg.AuthorityRevoked {
		return nil, reverts.ErrFeeAuthorityRevoked
	}
	if !env.IsSigner(cfg.Authority) {
		return nil, reverts.ErrMissingRequiredSigner
	}
	return cfg, nil
}

// UpdateShares replaces the split. The config authority signs.
func UpdateShares(env *xenv.Environment, mint chief.Address, shares []Shareholder) error {
	cfg, err := loadForAuthority(env, mint)
	if err != nil {
		return err
	}
	if err := validateShares(shares); err != nil {
		return err
	}
	cfg.Shareholders = append([]Shareholder(nil), shares...)
	if err := configRecord(env.State(), mint).Set(cfg); err != nil {
		return err
	}
	logger.Debug("shares updated", "mint", mint, "shareholders", len(shares))
	return nil
}

// TransferAuthority hands the config to a new authority.
func TransferAuthority(env *xenv.Environment, mint, newAuthority chief.Address) error {
	cfg, err := loadForAuthority(env, mint)
	if err != nil {
		return err
	}
	cfg.Authority = newAuthority
	return configRecord(env.State(), mint).Set(cfg)
}

// RevokeAuthority freezes the split for good.
func RevokeAuthority(env *xenv.Environment, mint chief.Address) error {
	cfg, err := loadForAuthority(env, mint)
	if err != nil {
		return err
	}
	cfg.AuthorityRevoked = true
	if err := configRecord(env.State(), mint).Set(cfg); err != nil {
		return err
	}
	logger.Info("fee sharing authority revoked", "mint", mint, "authority", cfg.Authority)
	return nil
}

// Distribute pays the fee vault balance above its rent floor out to the shareholders.
// Anyone may call it. Rounding dust stays in the vault. It returns the amount paid.
func Distribute(env *xenv.Environment, mint chief.Address) (uint64, error) {
	st := env.State()
	cfg, err := GetConfig(st, mint)
	if err != nil {
		return 0, err
	}
	vault := VaultAddress(mint)
	balance, err := st.GetBalance(vault)
	if err != nil {
		return 0, err
	}
	floor := env.Rent().MinimumBalance(0)
	if balance <= floor {
		return 0, nil
	}
	available := balance - floor

	var paid uint64
	for _, s := range cfg.Shareholders {
		bps := uint64(s.Bps)
		share := available/TotalBps*bps + available%TotalBps*bps/TotalBps
		if err := system.TransferOwned(env, chief.FeeShareProgram, vault, s.Address, share); err != nil {
			return 0, err
		}
		paid += share
	}
	logger.Debug("fees distributed", "mint", mint, "paid", paid)
	return paid, nil
}
