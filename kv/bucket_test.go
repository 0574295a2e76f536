// Copyright (c) 2021 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errNotFound = errors.New("not found")

type mem map[string]string

func (m mem) Get(k []byte) ([]byte, error) {
	if v, ok := m[string(k)]; ok {
		return []byte(v), nil
	}
	return nil, errNotFound
}

func (m mem) Has(k []byte) (bool, error) {
	_, ok := m[string(k)]
	return ok, nil
}

func (m mem) Put(k, v []byte) error {
	m[string(k)] = string(v)
	return nil
}

func (m mem) Delete(k []byte) error {
	delete(m, string(k))
	return nil
}

func (m mem) IsNotFound(err error) bool {
	return errors.Is(err, errNotFound)
}

// memBulk buffers writes into a mem until Write.
type memBulk struct {
	dst mem
	ops []func()
}

func (b *memBulk) Put(k, v []byte) error {
	k, v = append([]byte(nil), k...), append([]byte(nil), v...)
	b.ops = append(b.ops, func() { b.dst[string(k)] = string(v) })
	return nil
}

func (b *memBulk) Delete(k []byte) error {
	k = append([]byte(nil), k...)
	b.ops = append(b.ops, func() { delete(b.dst, string(k)) })
	return nil
}

func (b *memBulk) Len() int { return len(b.ops) }

func (b *memBulk) Write() error {
	for _, op := range b.ops {
		op()
	}
	b.ops = nil
	return nil
}

func TestBucket_GetterGet(t *testing.T) {
	m := mem{"vault": "v1", "pool": "v2"}

	tests := []struct {
		b    Bucket
		key  string
		want string
		ok   bool
	}{
		{Bucket(""), "vault", "v1", true},
		{Bucket(""), "pool", "v2", true},
		{Bucket("v"), "vault", "", false},
		{Bucket("v"), "ault", "v1", true},
		{Bucket("p"), "ool", "v2", true},
		{Bucket("vault"), "", "v1", true},
	}
	for _, tt := range tests {
		t.Run(string(tt.b)+"/"+tt.key, func(t *testing.T) {
			got, err := tt.b.NewGetter(m).Get([]byte(tt.key))
			if !tt.ok {
				assert.True(t, m.IsNotFound(err))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, string(got))

			has, err := tt.b.NewGetter(m).Has([]byte(tt.key))
			assert.NoError(t, err)
			assert.True(t, has)
		})
	}
}

func TestBucket_Putter(t *testing.T) {
	m := mem{}
	p := Bucket("acct/").NewPutter(m)

	assert.NoError(t, p.Put([]byte("alice"), []byte("10")))
	assert.Equal(t, mem{"acct/alice": "10"}, m)

	assert.NoError(t, p.Delete([]byte("alice")))
	assert.Empty(t, m)
}

func TestBucket_Bulk(t *testing.T) {
	m := mem{}
	bulk := Bucket("acct/").NewBulk(&memBulk{dst: m})

	key := []byte("bob")
	assert.NoError(t, bulk.Put(key, []byte("5")))
	// mutating the caller's key after Put must not leak into the bulk
	key[0] = 'x'
	assert.Equal(t, 1, bulk.Len())
	assert.Empty(t, m, "nothing visible before write")

	assert.NoError(t, bulk.Write())
	assert.Equal(t, mem{"acct/bob": "5"}, m)
}
