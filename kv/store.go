// Copyright (c) 2019 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package kv declares the key-value storage the vault records live in.
package kv

// Getter reads values by key.
type Getter interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	// IsNotFound reports whether err is the engine's missing-key error.
	IsNotFound(err error) bool
}

// Putter writes values by key.
type Putter interface {
	Put(key, val []byte) error
	Delete(key []byte) error
}

// Bulk buffers writes. Write applies all of them or none, and readers see
// nothing before it returns.
type Bulk interface {
	Putter
	Len() int
	Write() error
}

// Iterator walks pairs in ascending key order.
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Release()
	Error() error
}

// Range selects keys in [Start, Limit). An empty Limit is unbounded.
type Range struct {
	Start []byte
	Limit []byte
}

// Store is a storage engine.
type Store interface {
	Getter
	Putter

	Bulk() Bulk
	Iterate(r Range) Iterator
	Close() error
}
