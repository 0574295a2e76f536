// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package lvldb implements kv.Store on goleveldb.
package lvldb

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/plentyfi/staker/kv"
)

var _ kv.Store = (*LevelDB)(nil)

// Options tunes a leveldb instance.
type Options struct {
	CacheSize              int // MiB, at least 16
	OpenFilesCacheCapacity int
	// NoSync skips the fsync of bulk writes. Committed records may be lost on a crash.
	NoSync bool
}

var readOpt = opt.ReadOptions{}

// LevelDB is a kv.Store on goleveldb. Bulk writes are fsynced unless NoSync is set.
type LevelDB struct {
	db       *leveldb.DB
	writeOpt opt.WriteOptions
	bulkOpt  opt.WriteOptions
}

// New opens the leveldb at path, creating it if missing.
func New(path string, opts Options) (*LevelDB, error) {
	stg, err := storage.OpenFile(path, false)
	if err != nil {
		return nil, errors.Wrap(err, "new persistent level db")
	}
	return open(stg, opts)
}

// NewMem creates a throwaway in-memory leveldb.
func NewMem() (*LevelDB, error) {
	return open(storage.NewMemStorage(), Options{NoSync: true})
}

func open(stg storage.Storage, opts Options) (*LevelDB, error) {
	opts.CacheSize = max(opts.CacheSize, 16)
	opts.OpenFilesCacheCapacity = max(opts.OpenFilesCacheCapacity, 16)

	db, err := leveldb.Open(stg, &opt.Options{
		OpenFilesCacheCapacity: opts.OpenFilesCacheCapacity,
		BlockCacheCapacity:     opts.CacheSize / 2 * opt.MiB,
		WriteBuffer:            opts.CacheSize / 4 * opt.MiB, // Two of these are used internally
		Filter:                 filter.NewBloomFilter(10),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open level db")
	}
	return &LevelDB{db: db, bulkOpt: opt.WriteOptions{Sync: !opts.NoSync}}, nil
}

// IsNotFound reports whether err is leveldb's missing-key error.
func (ldb *LevelDB) IsNotFound(err error) bool {
	return errors.Is(err, leveldb.ErrNotFound)
}

func (ldb *LevelDB) Get(key []byte) ([]byte, error) {
	return ldb.db.Get(key, &readOpt)
}

func (ldb *LevelDB) Has(key []byte) (bool, error) {
	return ldb.db.Has(key, &readOpt)
}

func (ldb *LevelDB) Put(key, value []byte) error {
	return ldb.db.Put(key, value, &ldb.writeOpt)
}

func (ldb *LevelDB) Delete(key []byte) error {
	return ldb.db.Delete(key, &ldb.writeOpt)
}

// Close closes the db. Later operations fail.
func (ldb *LevelDB) Close() error {
	return ldb.db.Close()
}

// Bulk buffers writes in a leveldb batch. The batch is reset after every successful Write.
func (ldb *LevelDB) Bulk() kv.Bulk {
	batch := &leveldb.Batch{}
	return &struct {
		kv.PutFunc
		kv.DeleteFunc
		kv.LenFunc
		kv.WriteFunc
	}{
		func(key, val []byte) error {
			batch.Put(key, val)
			return nil
		},
		func(key []byte) error {
			batch.Delete(key)
			return nil
		},
		batch.Len,
		func() error {
			if err := ldb.db.Write(batch, &ldb.bulkOpt); err != nil {
				return errors.Wrap(err, "write batch")
			}
			batch.Reset()
			return nil
		},
	}
}

func (ldb *LevelDB) Iterate(r kv.Range) kv.Iterator {
	return ldb.db.NewIterator(&util.Range{Start: r.Start, Limit: r.Limit}, &readOpt)
}
