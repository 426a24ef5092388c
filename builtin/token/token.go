// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token implements mints and token accounts for the staked asset.
package token

import (
	"math"

	"github.com/chiefstaker/chiefstaker/builtin/record"
	"github.com/chiefstaker/chiefstaker/builtin/reverts"
	"github.com/chiefstaker/chiefstaker/builtin/system"
	"github.com/chiefstaker/chiefstaker/chief"
	"github.com/chiefstaker/chiefstaker/log"
	"github.com/chiefstaker/chiefstaker/state"
	"github.com/chiefstaker/chiefstaker/xenv"
)

var logger = log.WithContext("pkg", "token")

func mintRecord(st *state.State, addr chief.Address) *record.Record[Mint] {
	return record.New[Mint](record.NewContext(chief.TokenProgram, st), addr)
}

func accountRecord(st *state.State, addr chief.Address) *record.Record[Account] {
	return record.New[Account](record.NewContext(chief.TokenProgram, st), addr)
}

// GetMint loads the mint at addr.
func GetMint(st *state.State, addr chief.Address) (*Mint, error) {
	m, err := mintRecord(st, addr).Get()
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, reverts.ErrNotInitialized
	}
	return m, nil
}

// GetAccount loads the token account at addr.
func GetAccount(st *state.State, addr chief.Address) (*Account, error) {
	a, err := accountRecord(st, addr).Get()
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, reverts.ErrNotInitialized
	}
	return a, nil
}

// InitializeMint creates a mint at addr, which must sign.
func InitializeMint(env *xenv.Environment, payer, addr chief.Address, mint *Mint) error {
	if mint.TransferFeeBps > 10_000 {
		return reverts.ErrInvalidConfiguration
	}
	if err := system.CreateAccount(env, payer, addr, chief.TokenProgram, MintSpace); err != nil {
		return err
	}
	cpy := *mint
	cpy.Supply = 0
	if err := mintRecord(env.State(), addr).Set(&cpy); err != nil {
		return err
	}
	logger.Debug("mint initialized", "mint", addr, "extensions", len(cpy.Extensions))
	return nil
}

// InitializeAccount creates a token account at addr, which must sign.
func InitializeAccount(env *xenv.Environment, payer, addr, mint, owner chief.Address) error {
	if _, err := GetMint(env.State(), mint); err != nil {
		return err
	}
	if err := system.CreateAccount(env, payer, addr, chief.TokenProgram, AccountSpace); err != nil {
		return err
	}
	return accountRecord(env.State(), addr).Set(&Account{Mint: mint, Owner: owner})
}

// CreateAssociatedAccount creates the associated token account of owner for mint
// and returns its address. Anyone may pay for it.
func CreateAssociatedAccount(env *xenv.Environment, payer, owner, mint chief.Address) (chief.Address, error) {
	addr := AssociatedAddress(owner, mint)
	if err := InitializeAccount(env.WithSigner(addr), payer, addr, mint, owner); err != nil {
		return chief.Address{}, err
	}
	return addr, nil
}

// MintTo issues amount new tokens into the token account to. The mint authority signs.
func MintTo(env *xenv.Environment, mintAddr, to chief.Address, amount uint64) error {
	st := env.State()
	mint, err := GetMint(st, mintAddr)
	if err != nil {
		return err
	}
	if mint.Authority.IsZero() {
		return reverts.ErrAuthorityRenounced
	}
	if err := env.RequireSigner(mint.Authority); err != nil {
		return err
	}
	acc, err := GetAccount(st, to)
	if err != nil {
		return err
	}
	if acc.Mint != mintAddr {
		return reverts.ErrMintMismatch
	}
	if mint.Supply > math.MaxUint64-amount {
		return reverts.ErrArithmeticOverflow
	}
	mint.Supply += amount
	acc.Amount += amount
	if err := mintRecord(st, mintAddr).Set(mint); err != nil {
		return err
	}
	return accountRecord(st, to).Set(acc)
}

// Transfer moves amount tokens between two accounts of the same mint.
// The owner of from signs, or the mint's permanent delegate when it has one.
// It returns the amount actually credited to the destination.
func Transfer(env *xenv.Environment, from, to chief.Address, amount uint64) (uint64, error) {
	st := env.State()
	src, err := GetAccount(st, from)
	if err != nil {
		return 0, err
	}
	dst, err := GetAccount(st, to)
	if err != nil {
		return 0, err
	}
	if src.Mint != dst.Mint {
		return 0, reverts.ErrMintMismatch
	}
	mint, err := GetMint(st, src.Mint)
	if err != nil {
		return 0, err
	}
	if !env.IsSigner(src.Owner) {
		if !mint.HasExtension(ExtensionPermanentDelegate) || !env.IsSigner(mint.Delegate) {
			return 0, reverts.ErrMissingRequiredSigner
		}
	}
	if src.Amount < amount {
		return 0, reverts.ErrInsufficientFunds
	}

	credited := amount
	if mint.HasExtension(ExtensionTransferFee) {
		bps := uint64(mint.TransferFeeBps)
		credited -= amount/10_000*bps + amount%10_000*bps/10_000
	}
	if from == to {
		return amount, nil
	}
	src.Amount -= amount
	dst.Amount += credited
	if err := accountRecord(st, from).Set(src); err != nil {
		return 0, err
	}
	if err := accountRecord(st, to).Set(dst); err != nil {
		return 0, err
	}
	return credited, nil
}
