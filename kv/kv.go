// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

// Getter defines methods to read kv.
type Getter interface {
	// Get value for given key.
	// An error returned if key not found. It can be checked via IsNotFound.
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	IsNotFound(err error) bool
}

// Putter defines methods to write kv.
type Putter interface {
	Put(key, val []byte) error
	Delete(key []byte) error
}

// Batch is a set of puts applied atomically on Write.
type Batch interface {
	Putter

	Len() int
	Write() error
}

// Pair is a key value pair yielded by Iterate.
type Pair struct {
	Key   []byte
	Value []byte
}

// Range is the key range.
type Range struct {
	Start []byte // start of key range (included)
	Limit []byte // limit of key range (excluded)
}

// Store defines the full functional kv store.
type Store interface {
	Getter
	Putter

	NewBatch() Batch
	// Iterate calls fn for each pair in the range until fn returns false.
	Iterate(r Range, fn func(Pair) bool) error
}

// StoreCloser is a store owning resources.
type StoreCloser interface {
	Store
	Close() error
}
