// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
)

// Category classifies why an operation was rejected.
type Category uint8

const (
	CategoryInput         = Category(iota + 1) // zero amounts, out-of-range configuration
	CategoryAuthorization                      // missing signer, wrong owner or authority
	CategoryState                              // uninitialized record, derivation mismatch
	CategoryBusiness                           // locked stake, pending request, balance
	CategoryArithmetic                         // overflow in scaling or accumulation
)

func (c Category) String() string {
	switch c {
	case CategoryInput:
		return "input"
	case CategoryAuthorization:
		return "authorization"
	case CategoryState:
		return "state"
	case CategoryBusiness:
		return "business"
	case CategoryArithmetic:
		return "arithmetic"
	default:
		return "unknown"
	}
}

// ErrRevert is a rejection of an operation. Reverted operations leave no trace in state.
type ErrRevert struct {
	code     string
	category Category
	message  string
}

func newRevert(code string, category Category, message string) *ErrRevert {
	return &ErrRevert{code: code, category: category, message: message}
}

// New creates an uncategorized business revert, mirroring a plain require() failure.
func New(message string) *ErrRevert {
	return newRevert("Revert", CategoryBusiness, message)
}

func (e *ErrRevert) Error() string {
	return e.message
}

// Code returns the stable identifier of the revert.
func (e *ErrRevert) Code() string {
	return e.code
}

// Category returns the classification of the revert.
func (e *ErrRevert) Category() Category {
	return e.category
}

// Is matches reverts by code, so a wrapped or re-created revert still compares equal.
func (e *ErrRevert) Is(target error) bool {
	var t *ErrRevert
	if !errors.As(target, &t) {
		return false
	}
	return t.code == e.code
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// As extracts the revert from err, if any.
func As(err error) (*ErrRevert, bool) {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

var (
	ErrZeroAmount            = newRevert("ZeroAmount", CategoryInput, "amount must be greater than zero")
	ErrInvalidConfiguration  = newRevert("InvalidConfiguration", CategoryInput, "maturation period out of bounds")
	ErrBelowMinimumStake     = newRevert("BelowMinimumStake", CategoryInput, "stake amount below pool minimum")
	ErrInvalidShares         = newRevert("InvalidShares", CategoryInput, "fee shares must total 10000 bps")
	ErrMissingRequiredSigner = newRevert("MissingRequiredSigner", CategoryAuthorization, "missing required signer")
	ErrInvalidOwner          = newRevert("InvalidOwner", CategoryAuthorization, "stake position not owned by signer")
	ErrInvalidAuthority      = newRevert("InvalidAuthority", CategoryAuthorization, "signer is not the pool authority")
	ErrAuthorityRenounced    = newRevert("AuthorityRenounced", CategoryAuthorization, "pool authority has been renounced")
	ErrNotInitialized        = newRevert("NotInitialized", CategoryState, "account not initialized")
	ErrAlreadyInitialized    = newRevert("AlreadyInitialized", CategoryState, "account already initialized")
	ErrInvalidPoolAddress    = newRevert("InvalidPoolAddress", CategoryState, "account address does not match its derivation")
	ErrInvalidPool           = newRevert("InvalidPool", CategoryState, "stake position belongs to another pool")
	ErrInvalidAccountOwner   = newRevert("InvalidAccountOwner", CategoryState, "account not owned by the expected program")
	ErrInvalidPoolMint       = newRevert("InvalidPoolMint", CategoryState, "mint does not match the pool")
	ErrMintMismatch          = newRevert("MintMismatch", CategoryState, "token accounts belong to different mints")
	ErrUnsupportedAsset      = newRevert("UnsupportedAssetBehavior", CategoryState, "mint carries an unsupported extension")
	ErrFeeAuthorityNotPool   = newRevert("FeeAuthorityNotPool", CategoryState, "fee sharing authority not held by the pool")
	ErrFeeAuthorityRevoked   = newRevert("FeeAuthorityRevoked", CategoryState, "fee sharing authority already revoked")
	ErrPendingUnstakeExists  = newRevert("PendingUnstakeRequestExists", CategoryBusiness, "an unstake request is already pending")
	ErrNoPendingUnstake      = newRevert("NoPendingUnstakeRequest", CategoryBusiness, "no pending unstake request")
	ErrInsufficientStake     = newRevert("InsufficientStakeBalance", CategoryBusiness, "insufficient staked balance")
	ErrInsufficientFunds     = newRevert("InsufficientFunds", CategoryBusiness, "insufficient funds")
	ErrStakeLocked           = newRevert("StakeLocked", CategoryBusiness, "stake is still locked")
	ErrCooldownNotElapsed    = newRevert("CooldownNotElapsed", CategoryBusiness, "unstake cooldown has not elapsed")
	ErrArithmeticOverflow    = newRevert("ArithmeticOverflow", CategoryArithmetic, "arithmetic overflow")
	ErrDivisionByZero        = newRevert("DivisionByZero", CategoryArithmetic, "division by zero")
)
