// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plentyfi/staker/badgerdb"
	"github.com/plentyfi/staker/dispatcher"
	"github.com/plentyfi/staker/eventlog"
	"github.com/plentyfi/staker/kv"
	"github.com/plentyfi/staker/lvldb"
	"github.com/plentyfi/staker/staker"
)

func TestIdentity(t *testing.T) {
	assert.Equal(t, Identity("alice"), Identity("alice"))
	assert.NotEqual(t, Identity("alice").PublicKey(), Identity("bob").PublicKey())

	sc := &Scenario{}
	assert.NotEqual(t, Identity("alice").PublicKey(), sc.AccountAddress("alice"))
}

func TestParseScenario(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		err  string
	}{
		{"unknown field", "vault: {initializer: a}\nbogus: 1\n", "bogus"},
		{"no initializer", "accounts: []\n", "initializer required"},
		{"duplicate account", "vault: {initializer: a}\naccounts: [{name: x, owner: a}, {name: x, owner: b}]\n", "duplicate account"},
		{"unknown fee receiver", "vault: {initializer: a}\nfee: {receiver: x, basisPoints: 1}\n", "fee receiver"},
		{"unknown account", "vault: {initializer: a}\nsteps: [{op: stake, user: a, from: x, amount: 1}]\n", "unknown account"},
		{"time backwards", "start: 2030-01-01T00:00:00Z\nvault: {initializer: a}\nsteps: [{op: price, time: 2029-01-01T00:00:00Z}]\n", "backwards"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario(strings.NewReader(tt.yaml))
			assert.ErrorContains(t, err, tt.err)
		})
	}

	sc, err := ParseScenario(strings.NewReader("vault: {initializer: a}\n"))
	require.NoError(t, err)
	assert.Equal(t, "staker", sc.Program)
	assert.Equal(t, "mint", sc.Mint)
	assert.Equal(t, int64(0), sc.Start.Unix())
}

func newTestReplayer(t *testing.T, sc *Scenario, db kv.Store, out io.Writer) *replayer {
	elog, err := eventlog.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { elog.Close() })

	r, err := newReplayer(sc, db, dispatcher.Options{EventLog: elog}, out)
	require.NoError(t, err)
	require.NoError(t, r.genesis(context.Background()))
	return r
}

func TestReplay(t *testing.T) {
	engines := map[string]func() (kv.Store, error){
		"leveldb": func() (kv.Store, error) { return lvldb.NewMem() },
		"badger":  func() (kv.Store, error) { return badgerdb.NewMem() },
	}
	for name, open := range engines {
		t.Run(name, func(t *testing.T) {
			sc, err := LoadScenario("testdata/basic.yaml")
			require.NoError(t, err)
			db, err := open()
			require.NoError(t, err)
			t.Cleanup(func() { db.Close() })

			out := new(bytes.Buffer)
			r := newTestReplayer(t, sc, db, out)
			steps := 0
			r.onStep = func() { steps++ }
			require.NoError(t, r.run(context.Background()))
			assert.Equal(t, len(sc.Steps), steps)

			printed := out.String()
			assert.Contains(t, printed, "#3 price ok")
			assert.Contains(t, printed, `Price {"priceE9":2000000000,"price":"2"}`)
			assert.Contains(t, printed, `Reward {"principal":495,"reward":495}`)
			assert.Contains(t, printed, "#5 unstake reverted: lock not expired")
			assert.Contains(t, printed, "#8 stake reverted: pool frozen")

			snap, err := r.snapshot()
			require.NoError(t, err)
			assert.Equal(t, uint64(800), snap.Pool)
			assert.Equal(t, uint64(400), snap.Vault.TotalShares)
			assert.False(t, snap.Vault.Frozen)
			assert.Equal(t, map[string]*staker.Position{"alice": {Principal: 495, Shares: 400}}, snap.Positions)
			assert.Equal(t, map[string]uint64{"alice-usdc": 690, "bob-usdc": 1294, "treasury": 8}, snap.Balances)

			report, err := r.audit()
			require.NoError(t, err)
			assert.Equal(t, report.TotalShares, report.SumShares)
			assert.Equal(t, uint64(800), report.Redeemable)

			dump := new(bytes.Buffer)
			require.NoError(t, r.dump(dump))
			assert.Contains(t, dump.String(), "alice-usdc")
			assert.Contains(t, dump.String(), "TotalShares: (uint64) 400")
		})
	}
}

func TestReplay_UnexpectedOutcome(t *testing.T) {
	sc, err := ParseScenario(strings.NewReader(`
vault: {initializer: admin, lockEndDate: 2030-01-01T00:00:00Z}
accounts: [{name: a, owner: alice, balance: 10}]
steps:
  - {op: stake, user: alice, from: a, amount: 10, expect: pool frozen}
`))
	require.NoError(t, err)
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	r := newTestReplayer(t, sc, db, nil)
	err = r.run(context.Background())
	assert.ErrorContains(t, err, `step 0 (stake): expected "pool frozen", got ""`)
}

func TestReplay_UnexpectedRevert(t *testing.T) {
	sc, err := ParseScenario(strings.NewReader(`
vault: {initializer: admin, lockEndDate: 2030-01-01T00:00:00Z}
accounts: [{name: a, owner: alice, balance: 10}]
steps:
  - {op: unstake, user: alice, to: a, shares: 1}
`))
	require.NoError(t, err)
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	r := newTestReplayer(t, sc, db, nil)
	assert.ErrorContains(t, r.run(context.Background()), "insufficient shares")
}
