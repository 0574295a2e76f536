// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package badgerdb implements kv.Store on badger.
package badgerdb

import (
	"bytes"

	"github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"

	"github.com/plentyfi/staker/kv"
)

var _ kv.Store = (*BadgerDB)(nil)

// BadgerDB wraps a badger instance.
type BadgerDB struct {
	db *badger.DB
}

// New opens a persistent badger store under dir.
func New(dir string) (*BadgerDB, error) {
	return open(badger.DefaultOptions(dir))
}

// NewMem creates a badger store in memory.
func NewMem() (*BadgerDB, error) {
	return open(badger.DefaultOptions("").WithInMemory(true))
}

func open(opts badger.Options) (*BadgerDB, error) {
	db, err := badger.Open(opts.
		WithLogger(nil).
		WithNumVersionsToKeep(1))
	if err != nil {
		return nil, errors.Wrap(err, "open badger db")
	}
	return &BadgerDB{db: db}, nil
}

func (b *BadgerDB) IsNotFound(err error) bool {
	return errors.Is(err, badger.ErrKeyNotFound)
}

func get(txn *badger.Txn, key []byte) ([]byte, error) {
	item, err := txn.Get(key)
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

func has(txn *badger.Txn, key []byte) (bool, error) {
	if _, err := txn.Get(key); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (b *BadgerDB) Get(key []byte) (val []byte, err error) {
	err = b.db.View(func(txn *badger.Txn) error {
		val, err = get(txn, key)
		return err
	})
	return
}

func (b *BadgerDB) Has(key []byte) (ok bool, err error) {
	err = b.db.View(func(txn *badger.Txn) error {
		ok, err = has(txn, key)
		return err
	})
	return
}

func (b *BadgerDB) Put(key, val []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, val)
	})
}

func (b *BadgerDB) Delete(key []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

func (b *BadgerDB) Close() error {
	return b.db.Close()
}

// Bulk buffers ops in a single read-write transaction, so Write is atomic.
// Badger keeps the key and value slices until commit, hence the copies.
func (b *BadgerDB) Bulk() kv.Bulk {
	var (
		txn = b.db.NewTransaction(true)
		n   int
	)
	return &struct {
		kv.PutFunc
		kv.DeleteFunc
		kv.LenFunc
		kv.WriteFunc
	}{
		func(key, val []byte) error {
			n++
			return txn.Set(bytes.Clone(key), bytes.Clone(val))
		},
		func(key []byte) error {
			n++
			return txn.Delete(bytes.Clone(key))
		},
		func() int { return n },
		func() error {
			defer txn.Discard()
			if err := txn.Commit(); err != nil {
				return errors.Wrap(err, "commit badger bulk")
			}
			txn, n = b.db.NewTransaction(true), 0
			return nil
		},
	}
}

func (b *BadgerDB) Iterate(r kv.Range) kv.Iterator {
	txn := b.db.NewTransaction(false)
	return &iterator{
		txn:   txn,
		it:    txn.NewIterator(badger.DefaultIteratorOptions),
		start: r.Start,
		limit: r.Limit,
	}
}

type iterator struct {
	txn          *badger.Txn
	it           *badger.Iterator
	start, limit []byte
	started      bool
	key, val     []byte
	err          error
}

func (i *iterator) Next() bool {
	if i.err != nil {
		return false
	}
	if !i.started {
		i.it.Seek(i.start)
		i.started = true
	} else {
		i.it.Next()
	}
	if !i.it.Valid() {
		return false
	}
	item := i.it.Item()
	key := item.KeyCopy(nil)
	if len(i.limit) > 0 && bytes.Compare(key, i.limit) >= 0 {
		return false
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		i.err = err
		return false
	}
	i.key, i.val = key, val
	return true
}

func (i *iterator) Key() []byte   { return i.key }
func (i *iterator) Value() []byte { return i.val }
func (i *iterator) Error() error  { return i.err }

func (i *iterator) Release() {
	i.it.Close()
	i.txn.Discard()
}
