// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"github.com/chiefstaker/chiefstaker/chief"
)

// Extension is an optional mint behavior.
type Extension uint8

const (
	ExtensionTransferFee = Extension(iota + 1) // a share of every transfer is withheld
	ExtensionPermanentDelegate                 // a third party may move any holder's tokens
	ExtensionTransferHook                      // external code runs on every transfer
	ExtensionMetadataPointer
	ExtensionMintCloseAuthority
)

var extensionNames = map[Extension]string{
	ExtensionTransferFee:        "transferFee",
	ExtensionPermanentDelegate:  "permanentDelegate",
	ExtensionTransferHook:       "transferHook",
	ExtensionMetadataPointer:    "metadataPointer",
	ExtensionMintCloseAuthority: "mintCloseAuthority",
}

func (e Extension) String() string {
	if n, ok := extensionNames[e]; ok {
		return n
	}
	return "unknown"
}

// ParseExtension parses the name of an extension.
func ParseExtension(s string) (Extension, bool) {
	for e, n := range extensionNames {
		if n == s {
			return e, true
		}
	}
	return 0, false
}

// Allocated sizes of token records.
const (
	MintSpace    = 160
	AccountSpace = 112
)

// Mint describes a token.
type Mint struct {
	Authority      chief.Address // zero once minting is disabled
	Supply         uint64
	Decimals       uint8
	Extensions     []Extension
	TransferFeeBps uint16 // fee withheld on transfer when ExtensionTransferFee is set
	Delegate       chief.Address
}

// HasExtension returns whether the mint carries e.
func (m *Mint) HasExtension(e Extension) bool {
	for _, x := range m.Extensions {
		if x == e {
			return true
		}
	}
	return false
}

// Account holds a balance of one mint for an owner.
type Account struct {
	Mint   chief.Address
	Owner  chief.Address
	Amount uint64
}

// AssociatedAddress returns the canonical token account of owner for mint.
func AssociatedAddress(owner, mint chief.Address) chief.Address {
	return chief.DeriveAddress(chief.TokenProgram, []byte("associated"), owner.Bytes(), mint.Bytes())
}
