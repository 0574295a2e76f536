// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"encoding/binary"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gagliardetto/solana-go"
)

// Stage abstracts the changes of a state ready to be committed.
type Stage struct {
	src     Source
	addrs   []solana.PublicKey
	changes map[solana.PublicKey][]byte
}

func newStage(src Source, changes map[solana.PublicKey][]byte) *Stage {
	addrs := make([]solana.PublicKey, 0, len(changes))
	for addr := range changes {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return bytes.Compare(addrs[i][:], addrs[j][:]) < 0 })

	return &Stage{src: src, addrs: addrs, changes: changes}
}

// Len returns the number of touched records.
func (s *Stage) Len() int {
	return len(s.addrs)
}

// Hash computes the digest of the staged changes. Equal change sets hash equal
// regardless of the order they were made in.
func (s *Stage) Hash() common.Hash {
	var (
		buf  []byte
		size [8]byte
	)
	for _, addr := range s.addrs {
		data := s.changes[addr]
		binary.BigEndian.PutUint64(size[:], uint64(len(data)))
		buf = append(buf, addr[:]...)
		buf = append(buf, size[:]...)
		buf = append(buf, data...)
	}
	return crypto.Keccak256Hash(buf)
}

// Commit writes all changes into the source store as one atomic bulk.
// It returns the digest of the committed changes.
func (s *Stage) Commit() (common.Hash, error) {
	bulk := s.src.Bulk()
	for _, addr := range s.addrs {
		data := s.changes[addr]
		var err error
		if len(data) == 0 {
			err = bulk.Delete(addr[:])
		} else {
			err = bulk.Put(addr[:], data)
		}
		if err != nil {
			return common.Hash{}, &Error{err}
		}
	}
	if err := bulk.Write(); err != nil {
		return common.Hash{}, &Error{err}
	}
	return s.Hash(), nil
}
