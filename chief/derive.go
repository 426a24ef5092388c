// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chief

import "io"

// derivationMarker separates derived addresses from plain content hashes.
var derivationMarker = []byte("derived-address")

// Well-known program addresses.
var (
	SystemProgram    = BytesToAddress([]byte("system"))
	TokenProgram     = BytesToAddress([]byte("token"))
	StakePoolProgram = BytesToAddress([]byte("stakepool"))
	FeeShareProgram  = BytesToAddress([]byte("feeshare"))
)

// DeriveAddress returns the deterministic address owned by program for the given seeds.
// The same program and seeds always yield the same address, and no private key exists for it,
// so only the owning program can act on its behalf.
func DeriveAddress(program Address, seeds ...[]byte) Address {
	return Blake2bFn(func(w io.Writer) {
		for _, seed := range seeds {
			// length prefix keeps ("ab","c") and ("a","bc") apart
			w.Write([]byte{byte(len(seed))})
			w.Write(seed)
		}
		w.Write(program[:])
		w.Write(derivationMarker)
	}).Address()
}
