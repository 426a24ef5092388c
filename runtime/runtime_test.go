package runtime

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chiefstaker/chiefstaker/builtin/reverts"
	"github.com/chiefstaker/chiefstaker/chief"
	"github.com/chiefstaker/chiefstaker/kv"
	"github.com/chiefstaker/chiefstaker/lvldb"
	"github.com/chiefstaker/chiefstaker/rent"
	"github.com/chiefstaker/chiefstaker/xenv"
)

var alice = chief.BytesToAddress([]byte("alice"))

func newRuntime(t *testing.T, now *int64) (*Runtime, kv.Store) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := kv.Bucket("a").NewStore(db)
	rt, err := New(store, rent.Default(), 16, func() int64 { return *now })
	require.NoError(t, err)
	return rt, store
}

func balanceOf(t *testing.T, rt *Runtime, addr chief.Address) uint64 {
	var bal uint64
	require.NoError(t, rt.View(func(env *xenv.Environment) (err error) {
		bal, err = env.State().GetBalance(addr)
		return
	}))
	return bal
}

func TestExecuteCommits(t *testing.T) {
	now := int64(1000)
	rt, store := newRuntime(t, &now)

	err := rt.Execute(context.Background(), []chief.Address{alice}, func(env *xenv.Environment) error {
		assert.True(t, env.IsSigner(alice))
		assert.Equal(t, int64(1000), env.Now())
		return env.State().AddBalance(alice, 50)
	})
	require.NoError(t, err)

	has, err := store.Has(alice.Bytes())
	require.NoError(t, err)
	assert.True(t, has)
	assert.Equal(t, uint64(50), balanceOf(t, rt, alice))

	// cached value is dropped on commit
	require.NoError(t, rt.Execute(context.Background(), nil, func(env *xenv.Environment) error {
		return env.State().AddBalance(alice, 1)
	}))
	assert.Equal(t, uint64(51), balanceOf(t, rt, alice))

	hit, miss := rt.CacheStats()
	assert.True(t, hit > 0)
	assert.True(t, miss > 0)
}

func TestExecuteDiscardsOnError(t *testing.T) {
	now := int64(1)
	rt, _ := newRuntime(t, &now)

	err := rt.Execute(context.Background(), nil, func(env *xenv.Environment) error {
		if err := env.State().AddBalance(alice, 50); err != nil {
			return err
		}
		return reverts.ErrZeroAmount
	})
	assert.ErrorIs(t, err, reverts.ErrZeroAmount)
	assert.Equal(t, uint64(0), balanceOf(t, rt, alice))

	boom := errors.New("boom")
	err = rt.Execute(context.Background(), nil, func(env *xenv.Environment) error {
		_ = env.State().AddBalance(alice, 50)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, uint64(0), balanceOf(t, rt, alice))
}

func TestExecuteCancelled(t *testing.T) {
	now := int64(1)
	rt, _ := newRuntime(t, &now)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := rt.Execute(ctx, nil, func(*xenv.Environment) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestViewDropsWrites(t *testing.T) {
	now := int64(1)
	rt, _ := newRuntime(t, &now)

	require.NoError(t, rt.View(func(env *xenv.Environment) error {
		assert.False(t, env.IsSigner(alice))
		return env.State().SetBalance(alice, 9)
	}))
	assert.Equal(t, uint64(0), balanceOf(t, rt, alice))
}
