package state

import (
	"sort"

	"github.com/chiefstaker/chiefstaker/chief"
	"github.com/chiefstaker/chiefstaker/kv"
)

// Stage abstracts changes on the main accounts bucket.
type Stage struct {
	changes map[chief.Address]*Account
}

// Len returns the number of changed accounts.
func (s *Stage) Len() int {
	return len(s.changes)
}

// Addresses returns the changed addresses in byte order.
func (s *Stage) Addresses() []chief.Address {
	addrs := make([]chief.Address, 0, len(s.changes))
	for addr := range s.changes {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool {
		return string(addrs[i][:]) < string(addrs[j][:])
	})
	return addrs
}

// Account returns the staged account for addr.
func (s *Stage) Account(addr chief.Address) (*Account, bool) {
	a, ok := s.changes[addr]
	if !ok {
		return nil, false
	}
	return a.copy(), true
}

// Commit writes all changes into the putter. Pass a batch to make the commit atomic.
func (s *Stage) Commit(putter kv.Putter) error {
	for _, addr := range s.Addresses() {
		if err := saveAccount(putter, addr, s.changes[addr]); err != nil {
			return &Error{err}
		}
	}
	return nil
}
