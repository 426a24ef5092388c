// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"sync"
	"time"

	"github.com/chiefstaker/chiefstaker/chief"
	"github.com/chiefstaker/chiefstaker/runtime"
	"github.com/chiefstaker/chiefstaker/xenv"
)

type Status struct {
	Healthy     bool       `json:"healthy"`
	GenesisID   string     `json:"genesisId"`
	StartedAt   time.Time  `json:"startedAt"`
	LastProbe   *time.Time `json:"lastProbe"`
	ProbeError  string     `json:"probeError,omitempty"`
	CacheHits   int64      `json:"cacheHits"`
	CacheMisses int64      `json:"cacheMisses"`
}

// Health tracks whether the committed store can still be read.
type Health struct {
	lock      sync.Mutex
	rt        *runtime.Runtime
	genesisID chief.Bytes32
	startedAt time.Time
	lastProbe time.Time
	probeErr  error
}

func New(rt *runtime.Runtime, genesisID chief.Bytes32) *Health {
	return &Health{
		rt:        rt,
		genesisID: genesisID,
		startedAt: time.Now(),
	}
}

// probe reads an account through the runtime, which touches the store.
func (h *Health) probe() error {
	return h.rt.View(func(env *xenv.Environment) error {
		_, err := env.State().GetAccount(h.genesisID.Address())
		return err
	})
}

func (h *Health) Status() *Status {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.probeErr = h.probe()
	h.lastProbe = time.Now()

	hits, misses := h.rt.CacheStats()
	lastProbe := h.lastProbe
	status := &Status{
		Healthy:     h.probeErr == nil,
		GenesisID:   h.genesisID.String(),
		StartedAt:   h.startedAt,
		LastProbe:   &lastProbe,
		CacheHits:   hits,
		CacheMisses: misses,
	}
	if h.probeErr != nil {
		status.ProbeError = h.probeErr.Error()
	}
	return status
}
