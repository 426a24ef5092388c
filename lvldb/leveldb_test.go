// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chiefstaker/chiefstaker/kv"
)

func TestLevelDB(t *testing.T) {
	var (
		key        = []byte("123")
		value      = []byte("456")
		inValidKey = []byte("abc")
	)

	persistent, err := New(filepath.Join(t.TempDir(), "lvldb"), Options{16, 16})
	require.NoError(t, err)
	defer persistent.Close()

	mem, err := NewMem()
	require.NoError(t, err)
	defer mem.Close()

	for _, db := range []*LevelDB{persistent, mem} {
		assert.NoError(t, db.Put(key, value))

		got, err := db.Get(key)
		assert.NoError(t, err)
		assert.Equal(t, value, got)

		has, err := db.Has(key)
		assert.NoError(t, err)
		assert.True(t, has)

		has, err = db.Has(inValidKey)
		assert.NoError(t, err)
		assert.False(t, has)

		assert.NoError(t, db.Delete(key))
		_, err = db.Get(key)
		assert.True(t, db.IsNotFound(err))
	}
}

func TestBatchAndIterate(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	batch := db.NewBatch()
	assert.NoError(t, batch.Put([]byte("a1"), []byte("1")))
	assert.NoError(t, batch.Put([]byte("a2"), []byte("2")))
	assert.NoError(t, batch.Put([]byte("b1"), []byte("3")))
	assert.Equal(t, 3, batch.Len())

	_, err = db.Get([]byte("a1"))
	assert.True(t, db.IsNotFound(err), "batch is not visible before Write")

	assert.NoError(t, batch.Write())

	var keys []string
	assert.NoError(t, db.Iterate(kv.Range{Start: []byte("a"), Limit: []byte("b")}, func(p kv.Pair) bool {
		keys = append(keys, string(p.Key))
		return true
	}))
	assert.Equal(t, []string{"a1", "a2"}, keys)
}

func TestBucket(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	accounts := kv.Bucket("a").NewStore(db)
	others := kv.Bucket("b").NewStore(db)

	assert.NoError(t, accounts.Put([]byte("k"), []byte("v1")))
	assert.NoError(t, others.Put([]byte("k"), []byte("v2")))

	v, err := accounts.Get([]byte("k"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("v1"), v)

	raw, err := db.Get([]byte("ak"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("v1"), raw)

	batch := accounts.NewBatch()
	assert.NoError(t, batch.Put([]byte("k2"), []byte("v3")))
	assert.NoError(t, batch.Write())

	var pairs []kv.Pair
	assert.NoError(t, accounts.Iterate(kv.Range{}, func(p kv.Pair) bool {
		pairs = append(pairs, p)
		return true
	}))
	assert.Equal(t, []kv.Pair{
		{Key: []byte("k"), Value: []byte("v1")},
		{Key: []byte("k2"), Value: []byte("v3")},
	}, pairs)
}
