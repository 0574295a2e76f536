// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package badgerdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plentyfi/staker/kv"
)

func newStores(t *testing.T) []*BadgerDB {
	disk, err := New(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { disk.Close() })

	mem, err := NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { mem.Close() })

	return []*BadgerDB{disk, mem}
}

func TestBadgerDB(t *testing.T) {
	for _, db := range newStores(t) {
		require.NoError(t, db.Put([]byte("vault"), []byte("1")))

		got, err := db.Get([]byte("vault"))
		assert.NoError(t, err)
		assert.Equal(t, []byte("1"), got)

		has, err := db.Has([]byte("vault"))
		assert.NoError(t, err)
		assert.True(t, has)

		_, err = db.Get([]byte("missing"))
		assert.True(t, db.IsNotFound(err))
		has, err = db.Has([]byte("missing"))
		assert.NoError(t, err)
		assert.False(t, has)

		require.NoError(t, db.Delete([]byte("vault")))
		_, err = db.Get([]byte("vault"))
		assert.True(t, db.IsNotFound(err))
	}
}

func TestBadgerDB_Bulk(t *testing.T) {
	for _, db := range newStores(t) {
		bulk := db.Bulk()
		key := []byte("a")
		require.NoError(t, bulk.Put(key, []byte("1")))
		key[0] = 'z'
		require.NoError(t, bulk.Put([]byte("b"), []byte("2")))
		assert.Equal(t, 2, bulk.Len())

		has, _ := db.Has([]byte("a"))
		assert.False(t, has, "bulk is invisible before write")

		require.NoError(t, bulk.Write())
		assert.Equal(t, 0, bulk.Len())

		got, err := db.Get([]byte("a"))
		assert.NoError(t, err)
		assert.Equal(t, []byte("1"), got)
		has, _ = db.Has([]byte("z"))
		assert.False(t, has)

		// the bulk is reusable after a write
		require.NoError(t, bulk.Delete([]byte("a")))
		require.NoError(t, bulk.Write())
		has, _ = db.Has([]byte("a"))
		assert.False(t, has)
	}
}

func TestBadgerDB_Iterate(t *testing.T) {
	for _, db := range newStores(t) {
		require.NoError(t, db.Put([]byte("k1"), []byte("v1")))
		require.NoError(t, db.Put([]byte("k1"), []byte("v2")))
		require.NoError(t, db.Put([]byte("k2"), []byte("v3")))
		require.NoError(t, db.Put([]byte("z"), []byte("out")))

		store := kv.Bucket("k").NewStore(db)
		var pairs []string
		it := store.Iterate(kv.Range{})
		for it.Next() {
			pairs = append(pairs, string(it.Key())+"="+string(it.Value()))
		}
		it.Release()
		assert.NoError(t, it.Error())
		assert.Equal(t, []string{"1=v2", "2=v3"}, pairs)
	}
}
