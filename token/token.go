// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token implements a minimal token ledger over the staged state.
// Balances live in the same state as the vault records, so a reverted operation
// also reverts its transfers.
package token

import (
	"errors"

	"github.com/gagliardetto/solana-go"

	"github.com/plentyfi/staker/fixed"
	"github.com/plentyfi/staker/log"
	"github.com/plentyfi/staker/reverts"
	"github.com/plentyfi/staker/state"
)

var logger = log.WithContext("pkg", "token")

// Account is a token account record.
type Account struct {
	Mint   solana.PublicKey
	Owner  solana.PublicKey
	Amount uint64
}

// Ledger moves tokens between accounts stored in a state.
type Ledger struct {
	state *state.State
}

// NewLedger creates a ledger over st.
func NewLedger(st *state.State) *Ledger {
	return &Ledger{st}
}

// Get loads the account at addr.
func (l *Ledger) Get(addr solana.PublicKey) (*Account, error) {
	var acc Account
	ok, err := l.state.DecodeRecord(addr, state.KindTokenAccount, &acc)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, reverts.ErrAccountNotFound.Detail(addr.String())
	}
	return &acc, nil
}

func (l *Ledger) set(addr solana.PublicKey, acc *Account) error {
	return l.state.EncodeRecord(addr, state.KindTokenAccount, acc)
}

// Open creates an empty account of mint owned by owner.
// Opening an existing account with the same mint and owner is a no-op.
func (l *Ledger) Open(addr, mint, owner solana.PublicKey) error {
	acc, err := l.Get(addr)
	if err == nil {
		if acc.Mint != mint {
			return reverts.ErrMintMismatch.Detail(addr.String())
		}
		if acc.Owner != owner {
			return reverts.ErrUnauthorized.Detail("account " + addr.String() + " has another owner")
		}
		return nil
	}
	if !errors.Is(err, reverts.ErrAccountNotFound) {
		return err
	}
	return l.set(addr, &Account{Mint: mint, Owner: owner})
}

// Mint credits amount to the account out of thin air. Hosts use it to model
// deposits that happen outside the vault program, such as reward funding.
func (l *Ledger) Mint(addr solana.PublicKey, amount uint64) error {
	acc, err := l.Get(addr)
	if err != nil {
		return err
	}
	if acc.Amount, err = fixed.Add(acc.Amount, amount); err != nil {
		return err
	}
	return l.set(addr, acc)
}

// Balance returns the amount held by the account.
func (l *Ledger) Balance(addr solana.PublicKey) (uint64, error) {
	acc, err := l.Get(addr)
	if err != nil {
		return 0, err
	}
	return acc.Amount, nil
}

// Owner returns the owner of the account.
func (l *Ledger) Owner(addr solana.PublicKey) (solana.PublicKey, error) {
	acc, err := l.Get(addr)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return acc.Owner, nil
}

// Transfer moves amount from one account to another of the same mint.
// The authority must own the source account.
func (l *Ledger) Transfer(from, to solana.PublicKey, amount uint64, authority solana.PublicKey) error {
	src, err := l.Get(from)
	if err != nil {
		return err
	}
	dst, err := l.Get(to)
	if err != nil {
		return err
	}
	if src.Mint != dst.Mint {
		return reverts.ErrMintMismatch.Detail(from.String() + " -> " + to.String())
	}
	if src.Owner != authority {
		return reverts.ErrUnauthorized.Detail(authority.String() + " does not own " + from.String())
	}
	if src.Amount < amount {
		return reverts.ErrInsufficientBalance.Detail(from.String())
	}
	if from == to {
		return nil
	}

	src.Amount -= amount
	if dst.Amount, err = fixed.Add(dst.Amount, amount); err != nil {
		return err
	}
	if err := l.set(from, src); err != nil {
		return err
	}
	if err := l.set(to, dst); err != nil {
		return err
	}
	logger.Trace("transfer", "from", from, "to", to, "amount", amount)
	return nil
}
