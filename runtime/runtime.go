package runtime

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/chiefstaker/chiefstaker/builtin/reverts"
	"github.com/chiefstaker/chiefstaker/cache"
	"github.com/chiefstaker/chiefstaker/chief"
	"github.com/chiefstaker/chiefstaker/kv"
	"github.com/chiefstaker/chiefstaker/log"
	"github.com/chiefstaker/chiefstaker/metrics"
	"github.com/chiefstaker/chiefstaker/rent"
	"github.com/chiefstaker/chiefstaker/state"
	"github.com/chiefstaker/chiefstaker/xenv"
)

var (
	logger = log.WithContext("pkg", "runtime")

	metricExecDuration = metrics.LazyLoadHistogramVec(
		"runtime_execute_duration_ms", []string{"result"}, metrics.BucketExecution,
	)

	metricCacheMiss = metrics.LazyLoadCounter("runtime_account_cache_miss_total")
)

// Clock returns the ledger time in unix seconds.
type Clock func() int64

// SystemClock reads the wall clock.
func SystemClock() int64 { return time.Now().Unix() }

// Runtime executes operations against the committed accounts one at a time.
// Each operation sees a fresh state, and its writes reach the store in a single
// batch only when it succeeds.
type Runtime struct {
	mu    sync.RWMutex
	store kv.Store
	cache *cache.LRU[string, []byte]
	rent  rent.Rent
	clock Clock
}

// New create a Runtime object over the accounts store.
func New(store kv.Store, rent rent.Rent, cacheSize int, clock Clock) (*Runtime, error) {
	c, err := cache.NewLRU[string, []byte](cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "account cache")
	}
	if clock == nil {
		clock = SystemClock
	}
	return &Runtime{
		store: store,
		cache: c,
		rent:  rent,
		clock: clock,
	}, nil
}

func (rt *Runtime) Rent() rent.Rent { return rt.rent }

// getter reads committed accounts through the LRU cache.
func (rt *Runtime) getter() kv.Getter {
	return &struct {
		kv.GetFunc
		kv.HasFunc
		kv.IsNotFoundFunc
	}{
		func(key []byte) ([]byte, error) {
			return rt.cache.GetOrLoad(string(key), func(k string) ([]byte, error) {
				metricCacheMiss().Add(1)
				return rt.store.Get([]byte(k))
			})
		},
		rt.store.Has,
		rt.store.IsNotFound,
	}
}

// Execute runs fn as one atomic operation signed by signers.
// Any error returned by fn discards every write it staged.
func (rt *Runtime) Execute(ctx context.Context, signers []chief.Address, fn func(env *xenv.Environment) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rt.mu.Lock()
	defer rt.mu.Unlock()

	// the caller may have given up while waiting for the lock
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	result := "success"
	defer func() {
		metricExecDuration().ObserveWithLabels(time.Since(start).Milliseconds(), map[string]string{"result": result})
	}()

	st := state.New(rt.getter())
	env := xenv.New(st, rt.rent, rt.clock(), signers...)

	if err := fn(env); err != nil {
		if reverts.IsRevertErr(err) {
			result = "reverted"
		} else {
			result = "failed"
		}
		return err
	}

	stage := st.Stage()
	batch := rt.store.NewBatch()
	if err := stage.Commit(batch); err != nil {
		result = "failed"
		return err
	}
	if err := batch.Write(); err != nil {
		result = "failed"
		return errors.Wrap(err, "commit")
	}
	for _, addr := range stage.Addresses() {
		rt.cache.Remove(string(addr.Bytes()))
	}
	logger.Trace("operation committed", "accounts", stage.Len(), "elapsed", time.Since(start))
	return nil
}

// View runs fn against the committed accounts. Writes made by fn are dropped.
func (rt *Runtime) View(fn func(env *xenv.Environment) error) error {
	rt.mu.RLock()
	defer rt.mu.RUnlock()

	return fn(xenv.New(state.New(rt.getter()), rt.rent, rt.clock()))
}

// CacheStats returns the account cache hits and misses.
func (rt *Runtime) CacheStats() (hit, miss int64) {
	return rt.cache.Stats()
}
