// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chiefstaker/chiefstaker/builtin/reverts"
	"github.com/chiefstaker/chiefstaker/chief"
	"github.com/chiefstaker/chiefstaker/lvldb"
	"github.com/chiefstaker/chiefstaker/rent"
	"github.com/chiefstaker/chiefstaker/state"
	"github.com/chiefstaker/chiefstaker/xenv"
)

var (
	alice    = chief.BytesToAddress([]byte("alice"))
	bob      = chief.BytesToAddress([]byte("bob"))
	mintAddr = chief.BytesToAddress([]byte("mint"))
)

func newEnv(t *testing.T, mint *Mint) *xenv.Environment {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	env := xenv.New(state.New(db), rent.Default(), 0, alice, bob, mintAddr)
	require.NoError(t, env.State().SetBalance(alice, 100_000_000))
	require.NoError(t, InitializeMint(env, alice, mintAddr, mint))
	return env
}

func TestMintAndTransfer(t *testing.T) {
	env := newEnv(t, &Mint{Authority: alice, Decimals: 6})

	aliceATA, err := CreateAssociatedAccount(env, alice, alice, mintAddr)
	require.NoError(t, err)
	assert.Equal(t, AssociatedAddress(alice, mintAddr), aliceATA)
	bobATA, err := CreateAssociatedAccount(env, alice, bob, mintAddr)
	require.NoError(t, err)

	_, err = CreateAssociatedAccount(env, alice, bob, mintAddr)
	assert.ErrorIs(t, err, reverts.ErrAlreadyInitialized)

	require.NoError(t, MintTo(env, mintAddr, aliceATA, 1000))
	mint, err := GetMint(env.State(), mintAddr)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), mint.Supply)

	credited, err := Transfer(env, aliceATA, bobATA, 400)
	require.NoError(t, err)
	assert.Equal(t, uint64(400), credited)

	acc, err := GetAccount(env.State(), bobATA)
	require.NoError(t, err)
	assert.Equal(t, &Account{Mint: mintAddr, Owner: bob, Amount: 400}, acc)

	_, err = Transfer(env, aliceATA, bobATA, 601)
	assert.ErrorIs(t, err, reverts.ErrInsufficientFunds)

	noSigner := xenv.New(env.State(), env.Rent(), 0)
	_, err = Transfer(noSigner, aliceATA, bobATA, 1)
	assert.ErrorIs(t, err, reverts.ErrMissingRequiredSigner)
	assert.ErrorIs(t, MintTo(noSigner, mintAddr, aliceATA, 1), reverts.ErrMissingRequiredSigner)
}

func TestTransferFee(t *testing.T) {
	env := newEnv(t, &Mint{
		Authority:      alice,
		Extensions:     []Extension{ExtensionTransferFee},
		TransferFeeBps: 100,
	})
	aliceATA, err := CreateAssociatedAccount(env, alice, alice, mintAddr)
	require.NoError(t, err)
	bobATA, err := CreateAssociatedAccount(env, alice, bob, mintAddr)
	require.NoError(t, err)
	require.NoError(t, MintTo(env, mintAddr, aliceATA, 10_000))

	credited, err := Transfer(env, aliceATA, bobATA, 10_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(9_900), credited)
}

func TestPermanentDelegate(t *testing.T) {
	delegate := chief.BytesToAddress([]byte("delegate"))
	env := newEnv(t, &Mint{
		Authority:  alice,
		Extensions: []Extension{ExtensionPermanentDelegate},
		Delegate:   delegate,
	})
	aliceATA, err := CreateAssociatedAccount(env, alice, alice, mintAddr)
	require.NoError(t, err)
	bobATA, err := CreateAssociatedAccount(env, alice, bob, mintAddr)
	require.NoError(t, err)
	require.NoError(t, MintTo(env, mintAddr, aliceATA, 10))

	// the delegate moves tokens it does not own
	delegated := xenv.New(env.State(), env.Rent(), 0, delegate)
	_, err = Transfer(delegated, aliceATA, bobATA, 10)
	assert.NoError(t, err)
}

func TestExtensionNames(t *testing.T) {
	for _, e := range []Extension{
		ExtensionTransferFee,
		ExtensionPermanentDelegate,
		ExtensionTransferHook,
		ExtensionMetadataPointer,
		ExtensionMintCloseAuthority,
	} {
		parsed, ok := ParseExtension(e.String())
		assert.True(t, ok)
		assert.Equal(t, e, parsed)
	}
	_, ok := ParseExtension("nope")
	assert.False(t, ok)
}
