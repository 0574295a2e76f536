// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"errors"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plentyfi/staker/reverts"
	"github.com/plentyfi/staker/state"
	"github.com/plentyfi/staker/token"
)

func TestAudit(t *testing.T) {
	tv := newTestVault(t, nil)
	alice := tv.newUser(1000)
	bob := tv.newUser(1000)

	_, err := tv.stake(alice, 600)
	require.NoError(t, err)
	tv.deposit(7)
	_, err = tv.stake(bob, 301)
	require.NoError(t, err)

	report, err := tv.view().Audit()
	require.NoError(t, err)
	assert.Equal(t, 2, report.Positions)
	assert.Equal(t, report.TotalShares, report.SumShares)
	assert.LessOrEqual(t, report.Redeemable, report.PoolBalance)

	// tamper with a position behind the vault's back
	tv.commit(func(st *state.State, _ *token.Ledger) error {
		addr, err := tv.prog.PositionAddress(bob.pub())
		if err != nil {
			return err
		}
		return newStorage(st).SetPosition(addr, &Position{Principal: 301, Shares: 1_000_000})
	})
	report, err = tv.view().Audit()
	assert.True(t, errors.Is(err, ErrConservation))
	assert.NotEqual(t, report.TotalShares, report.SumShares)
}

type fuzzStep struct {
	Op     uint8
	User   uint8
	Amount uint16
}

// TestConservation_RandomSequences drives random operation sequences and checks after
// every step that shares add up and that no token is created or lost.
func TestConservation_RandomSequences(t *testing.T) {
	for seed := int64(0); seed < 8; seed++ {
		f := fuzz.NewWithSeed(seed).NilChance(0).NumElements(50, 120)
		var steps []fuzzStep
		f.Fuzz(&steps)

		tv := newTestVault(t, nil)
		users := []*user{tv.newUser(10_000), tv.newUser(10_000), tv.newUser(10_000)}
		supply := uint64(30_000)

		for i, step := range steps {
			u := users[int(step.User)%len(users)]
			amount := uint64(step.Amount)

			var err error
			switch step.Op % 5 {
			case 0, 1:
				_, err = tv.stake(u, amount)
			case 2:
				_, err = tv.unstake(u, min(amount, tv.position(u).Shares))
			case 3:
				_, err = tv.adminUnstake(tv.admin, u, min(amount, tv.position(u).Shares))
			case 4:
				tv.deposit(amount % 500)
				supply += amount % 500
			}
			if err != nil {
				require.True(t, reverts.IsRevertErr(err), "seed %d step %d: %v", seed, i, err)
			}

			report, err := tv.view().Audit()
			require.NoError(t, err, "seed %d step %d", seed, i)

			total := tv.poolBalance()
			for _, u := range users {
				total += tv.balance(u.account)
			}
			require.Equal(t, supply, total, "seed %d step %d", seed, i)
			require.LessOrEqual(t, report.Redeemable, report.PoolBalance)
		}
	}
}
