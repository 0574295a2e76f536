// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventlog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plentyfi/staker/events"
)

func newMem(t *testing.T) *EventLog {
	l, err := NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func TestEventLog_AppendAndFilter(t *testing.T) {
	l := newMem(t)
	ctx := context.Background()
	at := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	fee := events.FeeCharged{Payer: solana.NewWallet().PublicKey(), Receiver: solana.NewWallet().PublicKey(), Amount: 10}
	change := events.PriceChange{OldPriceE9: 0, OldPrice: "0", NewPriceE9: 1_000_000_000, NewPrice: "1"}
	require.NoError(t, l.Append(ctx, "r1", "stake", at, []events.Event{fee, change}))
	require.NoError(t, l.Append(ctx, "r2", "reward", at.Add(time.Minute), []events.Event{events.Reward{Principal: 5, Reward: 1}}))
	require.NoError(t, l.Append(ctx, "r3", "price", at, nil))

	all, err := l.Filter(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "r1", all[0].Receipt)
	assert.Equal(t, 1, all[1].Index)
	assert.Equal(t, at, all[0].Time)

	ev, err := all[0].Event()
	require.NoError(t, err)
	assert.Equal(t, fee, ev)
	ev, err = all[1].Event()
	require.NoError(t, err)
	assert.Equal(t, change, ev)

	byKind, err := l.Filter(ctx, &Filter{Kind: "Reward"})
	require.NoError(t, err)
	require.Len(t, byKind, 1)
	assert.Equal(t, "reward", byKind[0].Op)

	latest, err := l.Filter(ctx, &Filter{Order: DESC, Limit: 1})
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, "r2", latest[0].Receipt)

	byReceipt, err := l.Filter(ctx, &Filter{Receipt: "r1", Op: "stake"})
	require.NoError(t, err)
	assert.Len(t, byReceipt, 2)
}

func TestEventLog_Persistent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	l, err := New(path)
	require.NoError(t, err)
	assert.Equal(t, path, l.Path())
	assert.NotEmpty(t, l.DriverVersion())
	require.NoError(t, l.Append(context.Background(), "r1", "price", time.Now(), []events.Event{events.Price{PriceE9: 1, Price: "0.000000001"}}))
	require.NoError(t, l.Close())

	l, err = New(path)
	require.NoError(t, err)
	defer l.Close()
	entries, err := l.Filter(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestEntry_UnknownKind(t *testing.T) {
	_, err := (&Entry{Kind: "Nope"}).Event()
	assert.Error(t, err)
}
