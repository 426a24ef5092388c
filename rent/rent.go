// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package rent computes the balance an account must hold to stay allocated.
package rent

// AccountStorageOverhead is the per-account byte overhead charged on top of its data.
const AccountStorageOverhead = 128

// Default rent parameters.
const (
	DefaultLamportsPerByteYear = 3480
	DefaultExemptionThreshold  = 2
)

// Rent holds the rent parameters of the ledger.
type Rent struct {
	LamportsPerByteYear uint64 `yaml:"lamportsPerByteYear" json:"lamportsPerByteYear"`
	ExemptionThreshold  uint64 `yaml:"exemptionThreshold" json:"exemptionThreshold"`
}

// Default returns the default rent parameters.
func Default() Rent {
	return Rent{
		LamportsPerByteYear: DefaultLamportsPerByteYear,
		ExemptionThreshold:  DefaultExemptionThreshold,
	}
}

// MinimumBalance returns the minimum balance for an account holding dataLen bytes.
func (r Rent) MinimumBalance(dataLen int) uint64 {
	return (AccountStorageOverhead + uint64(dataLen)) * r.LamportsPerByteYear * r.ExemptionThreshold
}

// IsExempt reports whether balance keeps an account of dataLen bytes allocated.
func (r Rent) IsExempt(balance uint64, dataLen int) bool {
	return balance >= r.MinimumBalance(dataLen)
}
