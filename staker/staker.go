// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package staker implements the share accounting of a pooled staking vault.
//
// Depositors receive shares priced at pool balance per share outstanding. Rewards are
// deposited into the pool from outside, raising the price of every share. All arithmetic
// is checked and every division floors, always in favor of the pool.
package staker

import (
	"github.com/gagliardetto/solana-go"
	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"

	"github.com/plentyfi/staker/auth"
	"github.com/plentyfi/staker/events"
	"github.com/plentyfi/staker/keys"
	"github.com/plentyfi/staker/log"
	"github.com/plentyfi/staker/state"
)

// MaxBasisPoints is the denominator of the stake fee.
const MaxBasisPoints = 10_000

var logger = log.WithContext("pkg", "staker")

func SetLogger(l log.Logger) {
	logger = l
}

// Tokens is the token collaborator.
type Tokens interface {
	Balance(account solana.PublicKey) (uint64, error)
	Transfer(from, to solana.PublicKey, amount uint64, authority solana.PublicKey) error
}

// Authorizer decides whether an identity authorized the current invocation.
type Authorizer interface {
	Authorize(op auth.Op, identity solana.PublicKey) error
	BindAccount(account, owner solana.PublicKey) error
}

// Opener opens token accounts. Only hosts seeding a vault need it.
type Opener interface {
	Open(account, mint, owner solana.PublicKey) error
}

// Program is a configured vault program. It is long lived and safe for concurrent use.
type Program struct {
	cfg   Config
	keys  *keys.Deriver
	vault keys.Address
	pool  keys.Address
}

// NewProgram validates cfg and derives the fixed addresses of the program.
func NewProgram(cfg Config) (*Program, error) {
	if cfg.Fee != nil && cfg.Fee.BasisPoints > MaxBasisPoints {
		return nil, errors.Errorf("fee of %d basis points exceeds %d", cfg.Fee.BasisPoints, MaxBasisPoints)
	}
	d := keys.NewDeriver(cfg.Program)
	vault, err := d.Vault()
	if err != nil {
		return nil, err
	}
	pool, err := d.Pool(cfg.Mint)
	if err != nil {
		return nil, err
	}
	return &Program{cfg: cfg, keys: d, vault: vault, pool: pool}, nil
}

// Config returns the program configuration.
func (p *Program) Config() Config {
	return p.cfg
}

// VaultAddress returns the address of the vault record.
func (p *Program) VaultAddress() solana.PublicKey {
	return p.vault.Key
}

// PoolAddress returns the custodial token account of the pool.
func (p *Program) PoolAddress() solana.PublicKey {
	return p.pool.Key
}

// PositionAddress returns the address of the position record of user.
func (p *Program) PositionAddress(user solana.PublicKey) (solana.PublicKey, error) {
	addr, err := p.keys.Position(user)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return addr.Key, nil
}

// Genesis seeds a vault record and opens the pool account. The pool account is
// owned by the vault record address, so only the program can move funds out of it.
func (p *Program) Genesis(st *state.State, tokens Opener, initializer solana.PublicKey, lockEndDate uint64) error {
	if err := tokens.Open(p.pool.Key, p.cfg.Mint, p.vault.Key); err != nil {
		return errors.Wrap(err, "open pool account")
	}
	return newStorage(st).SetVault(p.vault.Key, &Vault{
		Initializer: initializer,
		LockEndDate: lockEndDate,
	})
}

// Env carries the per-invocation collaborators of a Staker.
type Env struct {
	State  *state.State
	Tokens Tokens
	Auth   Authorizer
	Clock  clockwork.Clock
	Events events.Emitter // receives the events of successful operations, may be nil
}

// Staker runs vault operations against one staging state.
type Staker struct {
	*Program
	env     Env
	storage *storage
}

// Bind binds the program to the collaborators of one invocation.
func (p *Program) Bind(env Env) *Staker {
	if env.Clock == nil {
		env.Clock = clockwork.NewRealClock()
	}
	return &Staker{
		Program: p,
		env:     env,
		storage: newStorage(env.State),
	}
}

// atomically runs fn within a state checkpoint. On failure every write of fn,
// transfers included, is reverted and its events are dropped.
func (s *Staker) atomically(op auth.Op, fn func(emit func(events.Event)) error) error {
	var pending []events.Event
	checkpoint := s.env.State.NewCheckpoint()
	if err := fn(func(ev events.Event) { pending = append(pending, ev) }); err != nil {
		s.env.State.RevertTo(checkpoint)
		logger.Debug("operation reverted", "op", op, "err", err)
		return err
	}
	if s.env.Events != nil {
		for _, ev := range pending {
			s.env.Events.Emit(ev)
		}
	}
	return nil
}
