// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/gagliardetto/solana-go"
)

// Vault is the singleton record of the pool.
type Vault struct {
	Initializer solana.PublicKey
	LockEndDate uint64 // unix seconds
	TotalShares uint64 // sum of the shares of every position
	Frozen      bool
}

// Position is the stake of one user.
type Position struct {
	Principal uint64 // cost basis, ratchets down on withdrawal
	Shares    uint64
}

// IsEmpty returns whether the position holds nothing.
func (p *Position) IsEmpty() bool {
	return p.Principal == 0 && p.Shares == 0
}

// Fee is the optional stake fee.
type Fee struct {
	Receiver    solana.PublicKey // token account credited with the fee
	BasisPoints uint16
}

// Config is the static configuration of a vault program.
type Config struct {
	Program solana.PublicKey
	Mint    solana.PublicKey
	Fee     *Fee // nil disables the fee
}
