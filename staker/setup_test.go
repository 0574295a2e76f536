// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/plentyfi/staker/auth"
	"github.com/plentyfi/staker/events"
	"github.com/plentyfi/staker/kv"
	"github.com/plentyfi/staker/lvldb"
	"github.com/plentyfi/staker/state"
	"github.com/plentyfi/staker/token"
)

var lockEnd = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

type user struct {
	key     solana.PrivateKey
	account solana.PublicKey // token account of the user
}

func (u *user) pub() solana.PublicKey { return u.key.PublicKey() }

type testVault struct {
	t      *testing.T
	db     kv.Store
	stater *state.Stater
	prog   *Program
	clock  *clockwork.FakeClock
	admin  *user
}

func newTestVault(t *testing.T, fee *Fee) *testVault {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	prog, err := NewProgram(Config{
		Program: solana.NewWallet().PublicKey(),
		Mint:    solana.NewWallet().PublicKey(),
		Fee:     fee,
	})
	require.NoError(t, err)

	tv := &testVault{
		t:      t,
		db:     db,
		stater: state.NewStater(db),
		prog:   prog,
		clock:  clockwork.NewFakeClockAt(lockEnd),
	}
	tv.admin = tv.newUser(0)

	tv.commit(func(st *state.State, ledger *token.Ledger) error {
		if fee != nil {
			if err := ledger.Open(fee.Receiver, prog.Config().Mint, solana.NewWallet().PublicKey()); err != nil {
				return err
			}
		}
		return prog.Genesis(st, ledger, tv.admin.pub(), uint64(lockEnd.Unix()))
	})
	return tv
}

// commit runs fn on a fresh state and commits it.
func (tv *testVault) commit(fn func(st *state.State, ledger *token.Ledger) error) {
	st := tv.stater.NewState()
	require.NoError(tv.t, fn(st, token.NewLedger(st)))
	_, err := st.Stage().Commit()
	require.NoError(tv.t, err)
}

// newUser opens a funded token account for a new identity.
func (tv *testVault) newUser(balance uint64) *user {
	u := &user{key: solana.NewWallet().PrivateKey, account: solana.NewWallet().PublicKey()}
	tv.commit(func(_ *state.State, ledger *token.Ledger) error {
		if err := ledger.Open(u.account, tv.prog.Config().Mint, u.pub()); err != nil {
			return err
		}
		return ledger.Mint(u.account, balance)
	})
	return u
}

// deposit models an external reward landing in the pool.
func (tv *testVault) deposit(amount uint64) {
	tv.commit(func(_ *state.State, ledger *token.Ledger) error {
		return ledger.Mint(tv.prog.PoolAddress(), amount)
	})
}

// run signs op by signers, runs fn and commits on success.
// A failed fn must leave nothing staged and publish no events.
func (tv *testVault) run(op auth.Op, fn func(s *Staker) error, signers ...*user) ([]events.Event, error) {
	st := tv.stater.NewState()
	ledger := token.NewLedger(st)

	var keys []solana.PrivateKey
	for _, s := range signers {
		keys = append(keys, s.key)
	}
	signed, err := auth.Sign(auth.Message{Op: op}, keys...)
	require.NoError(tv.t, err)
	verifier, err := auth.NewVerifier(signed, ledger)
	require.NoError(tv.t, err)

	rec := &events.Recorder{}
	s := tv.prog.Bind(Env{State: st, Tokens: ledger, Auth: verifier, Clock: tv.clock, Events: rec})
	if err := fn(s); err != nil {
		require.Zero(tv.t, st.Stage().Len(), "a failed operation must leave nothing staged")
		return rec.Events(), err
	}
	_, err = st.Stage().Commit()
	require.NoError(tv.t, err)
	return rec.Events(), nil
}

func (tv *testVault) stake(u *user, amount uint64) ([]events.Event, error) {
	return tv.run(auth.OpStake, func(s *Staker) error { return s.Stake(u.pub(), u.account, amount) }, u)
}

func (tv *testVault) unstake(u *user, shares uint64) ([]events.Event, error) {
	return tv.run(auth.OpUnstake, func(s *Staker) error { return s.Unstake(u.pub(), u.account, shares) }, u)
}

func (tv *testVault) adminUnstake(admin, owner *user, shares uint64) ([]events.Event, error) {
	return tv.run(auth.OpAdminUnstake, func(s *Staker) error {
		return s.AdminUnstake(admin.pub(), owner.pub(), owner.account, shares)
	}, admin)
}

func (tv *testVault) toggleFreeze(admin *user) error {
	_, err := tv.run(auth.OpToggleFreeze, func(s *Staker) error { return s.ToggleFreeze(admin.pub()) }, admin)
	return err
}

// view binds a read-only staker over the committed state.
func (tv *testVault) view() *Staker {
	st := tv.stater.NewState()
	ledger := token.NewLedger(st)
	verifier, err := auth.NewVerifier(&auth.Signed{}, ledger)
	require.NoError(tv.t, err)
	return tv.prog.Bind(Env{State: st, Tokens: ledger, Auth: verifier, Clock: tv.clock})
}

func (tv *testVault) vault() *Vault {
	v, err := tv.view().Vault()
	require.NoError(tv.t, err)
	return v
}

func (tv *testVault) position(u *user) *Position {
	p, err := tv.view().Position(u.pub())
	require.NoError(tv.t, err)
	return p
}

func (tv *testVault) balance(account solana.PublicKey) uint64 {
	b, err := token.NewLedger(tv.stater.NewState()).Balance(account)
	require.NoError(tv.t, err)
	return b
}

func (tv *testVault) poolBalance() uint64 {
	return tv.balance(tv.prog.PoolAddress())
}

// dump returns every committed kv pair.
func (tv *testVault) dump() map[string]string {
	out := make(map[string]string)
	it := tv.db.Iterate(kv.Range{})
	defer it.Release()
	for it.Next() {
		out[string(it.Key())] = string(it.Value())
	}
	require.NoError(tv.t, it.Error())
	return out
}
