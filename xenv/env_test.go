// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chiefstaker/chiefstaker/builtin/reverts"
	"github.com/chiefstaker/chiefstaker/chief"
	"github.com/chiefstaker/chiefstaker/rent"
)

func TestSigners(t *testing.T) {
	alice := chief.BytesToAddress([]byte("alice"))
	pool := chief.BytesToAddress([]byte("pool"))

	env := New(nil, rent.Default(), 100, alice)
	assert.True(t, env.IsSigner(alice))
	assert.NoError(t, env.RequireSigner(alice))
	assert.ErrorIs(t, env.RequireSigner(pool), reverts.ErrMissingRequiredSigner)

	signed := env.WithSigner(pool)
	assert.True(t, signed.IsSigner(pool))
	assert.True(t, signed.IsSigner(alice))
	assert.False(t, env.IsSigner(pool), "parent env is untouched")
	assert.Equal(t, int64(100), signed.Now())
}
