// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chief

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAddress(t *testing.T) {
	addr := BytesToAddress([]byte("owner"))

	parsed, err := ParseAddress(addr.String())
	assert.NoError(t, err)
	assert.Equal(t, addr, parsed)

	parsed, err = ParseAddress(addr.String()[2:])
	assert.NoError(t, err)
	assert.Equal(t, addr, parsed)

	_, err = ParseAddress("0x1234")
	assert.EqualError(t, err, "invalid length")

	_, err = ParseAddress("1x" + addr.String()[2:])
	assert.EqualError(t, err, "invalid prefix")
}

func TestAddressJSON(t *testing.T) {
	type wrapper struct {
		Owner Address `json:"owner"`
	}
	in := wrapper{Owner: BytesToAddress([]byte("owner"))}

	data, err := json.Marshal(in)
	assert.NoError(t, err)
	assert.Equal(t, `{"owner":"`+in.Owner.String()+`"}`, string(data))

	var out wrapper
	assert.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestBytesToAddress(t *testing.T) {
	long := make([]byte, 40)
	long[39] = 7
	addr := BytesToAddress(long)
	assert.Equal(t, byte(7), addr[31])

	assert.True(t, Address{}.IsZero())
	assert.False(t, BytesToAddress([]byte{1}).IsZero())
}

func TestDeriveAddress(t *testing.T) {
	mint := BytesToAddress([]byte("mint"))

	a := DeriveAddress(StakePoolProgram, []byte("pool"), mint.Bytes())
	b := DeriveAddress(StakePoolProgram, []byte("pool"), mint.Bytes())
	assert.Equal(t, a, b, "derivation must be deterministic")

	assert.NotEqual(t, a, DeriveAddress(TokenProgram, []byte("pool"), mint.Bytes()))
	assert.NotEqual(t,
		DeriveAddress(StakePoolProgram, []byte("ab"), []byte("c")),
		DeriveAddress(StakePoolProgram, []byte("a"), []byte("bc")),
	)
}
