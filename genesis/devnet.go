// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"fmt"
	"sync"

	"github.com/chiefstaker/chiefstaker/builtin/token"
	"github.com/chiefstaker/chiefstaker/chief"
	"github.com/chiefstaker/chiefstaker/rent"
)

const (
	devBalance      = uint64(1_000_000_000_000_000)
	devTokenBalance = uint64(1_000_000_000_000)
	devMaturation   = uint64(7 * 24 * 60 * 60)
)

// DevMint is the staked token of the devnet.
var DevMint = chief.DeriveAddress(chief.TokenProgram, []byte("devnet-mint"))

// DevAccounts returns the pre-funded accounts of the devnet.
var DevAccounts = sync.OnceValue(func() []chief.Address {
	accs := make([]chief.Address, 0, 10)
	for i := range 10 {
		accs = append(accs, chief.Blake2b([]byte(fmt.Sprintf("devnet-account-%d", i))).Address())
	}
	return accs
})

// NewDevnet create genesis for a single operator development node.
// The first dev account owns the mint and the pool.
func NewDevnet() *Genesis {
	accs := DevAccounts()

	gen := &Genesis{
		Name: "devnet",
		Rent: rent.Default(),
		Mints: []Mint{{
			Address:    DevMint,
			Authority:  accs[0],
			Decimals:   9,
			Extensions: []string{token.ExtensionMetadataPointer.String()},
		}},
		Pools: []Pool{{
			Mint:             DevMint,
			Authority:        accs[0],
			MaturationPeriod: devMaturation,
		}},
	}
	for _, addr := range accs {
		gen.Accounts = append(gen.Accounts, Account{Address: addr, Balance: devBalance})
		gen.Mints[0].Holders = append(gen.Mints[0].Holders, Holder{Owner: addr, Amount: devTokenBalance})
	}
	return gen
}
