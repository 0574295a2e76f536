// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package keys derives the record addresses of the vault program.
package keys

import (
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"

	"github.com/plentyfi/staker/cache"
	"github.com/plentyfi/staker/log"
)

// VaultSeed is the seed of the vault record.
const VaultSeed = "staking"

const cacheSize = 4096

var logger = log.WithContext("pkg", "keys")

// Address is a derived record address with its bump seed.
type Address struct {
	Key  solana.PublicKey
	Bump uint8
}

// Deriver derives program addresses of a single program.
// Derivation searches bump seeds, so results are cached.
type Deriver struct {
	program solana.PublicKey
	cache   *cache.LRU[string, Address]
}

// NewDeriver creates a deriver for the given program id.
func NewDeriver(program solana.PublicKey) *Deriver {
	c, err := cache.NewLRU[string, Address](cacheSize)
	if err != nil {
		panic(err) // never, size is positive
	}
	return &Deriver{program: program, cache: c}
}

// Program returns the program id.
func (d *Deriver) Program() solana.PublicKey {
	return d.program
}

func (d *Deriver) derive(seed []byte) (Address, error) {
	addr, err := d.cache.GetOrLoad(string(seed), func(string) (Address, error) {
		key, bump, err := solana.FindProgramAddress([][]byte{seed}, d.program)
		if err != nil {
			return Address{}, errors.Wrapf(err, "derive address of seed %x", seed)
		}
		return Address{key, bump}, nil
	})
	if changed, hit, miss := d.cache.Stats().Stats(); changed {
		logger.Trace("derivation cache", "hit", hit, "miss", miss)
	}
	return addr, err
}

// Vault derives the address of the vault record.
func (d *Deriver) Vault() (Address, error) {
	return d.derive([]byte(VaultSeed))
}

// Position derives the address of the position record owned by user.
func (d *Deriver) Position(user solana.PublicKey) (Address, error) {
	return d.derive(user.Bytes())
}

// Pool derives the address of the custodial token account holding mint.
func (d *Deriver) Pool(mint solana.PublicKey) (Address, error) {
	return d.derive(mint.Bytes())
}
