// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/gagliardetto/solana-go"

	"github.com/plentyfi/staker/kv"
	"github.com/plentyfi/staker/stackedmap"
)

// RecordBucket is the kv bucket holding committed records.
const RecordBucket = kv.Bucket("r")

// Kind tags the type of a stored record.
type Kind byte

const (
	KindVault Kind = iota + 1
	KindPosition
	KindTokenAccount
)

func (k Kind) String() string {
	switch k {
	case KindVault:
		return "vault"
	case KindPosition:
		return "position"
	case KindTokenAccount:
		return "token"
	}
	return fmt.Sprintf("kind(%d)", byte(k))
}

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Source is the committed record store a state reads from and commits to.
type Source interface {
	kv.Getter
	Iterate(r kv.Range) kv.Iterator
	Bulk() kv.Bulk
}

// State is a revertable view over committed records.
// A nil value in the stacked map marks a deleted record.
type State struct {
	src Source
	sm  *stackedmap.StackedMap[solana.PublicKey, []byte]
}

// New create state object over committed records.
func New(src Source) *State {
	s := &State{src: src}
	s.sm = stackedmap.New(s.load)
	return s
}

// load implements stackedmap.MapGetter.
func (s *State) load(addr solana.PublicKey) ([]byte, bool, error) {
	data, err := s.src.Get(addr[:])
	if err != nil {
		if s.src.IsNotFound(err) {
			return nil, true, nil
		}
		return nil, false, &Error{err}
	}
	return data, true, nil
}

// GetRaw returns the raw record stored at addr, or nil if absent.
func (s *State) GetRaw(addr solana.PublicKey) ([]byte, error) {
	data, _, err := s.sm.Get(addr)
	return data, err
}

// SetRaw replaces the raw record at addr. An empty data deletes the record.
func (s *State) SetRaw(addr solana.PublicKey, data []byte) {
	if len(data) == 0 {
		data = nil
	}
	s.sm.Put(addr, data)
}

// Exists returns whether a record is stored at addr.
func (s *State) Exists(addr solana.PublicKey) (bool, error) {
	data, err := s.GetRaw(addr)
	if err != nil {
		return false, err
	}
	return len(data) > 0, nil
}

// Delete removes the record at addr.
func (s *State) Delete(addr solana.PublicKey) {
	s.SetRaw(addr, nil)
}

// EncodeRecord rlp encodes v and stores it at addr tagged with kind.
func (s *State) EncodeRecord(addr solana.PublicKey, kind Kind, v any) error {
	enc, err := rlp.EncodeToBytes(v)
	if err != nil {
		return &Error{err}
	}
	s.SetRaw(addr, append([]byte{byte(kind)}, enc...))
	metricRecordCounter().AddWithLabel(1, map[string]string{"type": "write", "target": kind.String()})
	return nil
}

// DecodeRecord decodes the record at addr into v.
// It returns false if no record is stored there, and fails if the record is of another kind.
func (s *State) DecodeRecord(addr solana.PublicKey, kind Kind, v any) (bool, error) {
	data, err := s.GetRaw(addr)
	if err != nil {
		return false, err
	}
	if len(data) == 0 {
		return false, nil
	}
	if Kind(data[0]) != kind {
		return false, &Error{fmt.Errorf("record %v: want %v, got %v", addr, kind, Kind(data[0]))}
	}
	if err := rlp.DecodeBytes(data[1:], v); err != nil {
		return false, &Error{fmt.Errorf("record %v: %w", addr, err)}
	}
	metricRecordCounter().AddWithLabel(1, map[string]string{"type": "read", "target": kind.String()})
	return true, nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	if revision < 1 {
		revision = 1
	}
	s.sm.PopTo(revision)
}

// changes returns the latest staged value of every touched record.
func (s *State) changes() map[solana.PublicKey][]byte {
	changes := make(map[solana.PublicKey][]byte)
	s.sm.Journal(func(addr solana.PublicKey, data []byte) bool {
		changes[addr] = data
		return true
	})
	return changes
}

// ForEach visits every live record of the given kind in ascending address order,
// committed and staged alike. The visit stops if cb returns false.
func (s *State) ForEach(kind Kind, cb func(addr solana.PublicKey, payload []byte) bool) error {
	staged := s.changes()

	records := make(map[solana.PublicKey][]byte)
	it := s.src.Iterate(kv.Range{})
	for it.Next() {
		addr := solana.PublicKeyFromBytes(it.Key())
		if _, ok := staged[addr]; ok {
			continue
		}
		records[addr] = bytes.Clone(it.Value())
	}
	it.Release()
	if err := it.Error(); err != nil {
		return &Error{err}
	}
	for addr, data := range staged {
		records[addr] = data
	}

	addrs := make([]solana.PublicKey, 0, len(records))
	for addr, data := range records {
		if len(data) > 0 && Kind(data[0]) == kind {
			addrs = append(addrs, addr)
		}
	}
	sort.Slice(addrs, func(i, j int) bool { return bytes.Compare(addrs[i][:], addrs[j][:]) < 0 })

	for _, addr := range addrs {
		if !cb(addr, records[addr][1:]) {
			break
		}
	}
	return nil
}

// Stage makes a stage object to compute the digest of the changes or commit them.
func (s *State) Stage() *Stage {
	return newStage(s.src, s.changes())
}
