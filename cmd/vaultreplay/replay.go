// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/gagliardetto/solana-go"
	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"

	"github.com/plentyfi/staker/auth"
	"github.com/plentyfi/staker/dispatcher"
	"github.com/plentyfi/staker/kv"
	"github.com/plentyfi/staker/reverts"
	"github.com/plentyfi/staker/staker"
	"github.com/plentyfi/staker/token"
)

// replayer drives a scenario through a dispatcher.
type replayer struct {
	sc     *Scenario
	d      *dispatcher.Dispatcher
	clock  *clockwork.FakeClock
	out    io.Writer // receives receipts, nil to stay silent
	nonce  uint64
	onStep func()
}

func newReplayer(sc *Scenario, db kv.Store, opts dispatcher.Options, out io.Writer) (*replayer, error) {
	prog, err := staker.NewProgram(sc.Config())
	if err != nil {
		return nil, err
	}
	clock := clockwork.NewFakeClockAt(sc.Start)
	opts.Clock = clock
	return &replayer{
		sc:    sc,
		d:     dispatcher.New(prog, db, opts),
		clock: clock,
		out:   out,
	}, nil
}

// genesis seeds the vault and opens the scenario accounts.
func (r *replayer) genesis(ctx context.Context) error {
	return r.d.Update(ctx, func(h *dispatcher.Host) error {
		if err := h.Genesis(Identity(r.sc.Vault.Initializer).PublicKey(), unix(r.sc.Vault.LockEndDate)); err != nil {
			return err
		}
		mint := h.Program.Config().Mint
		for _, acc := range r.sc.Accounts {
			addr := r.sc.AccountAddress(acc.Name)
			if err := h.Ledger.Open(addr, mint, Identity(acc.Owner).PublicKey()); err != nil {
				return errors.Wrapf(err, "open %s", acc.Name)
			}
			if err := h.Ledger.Mint(addr, acc.Balance); err != nil {
				return errors.Wrapf(err, "fund %s", acc.Name)
			}
		}
		return nil
	})
}

// run replays every step. It stops at the first step whose outcome
// differs from its expectation.
func (r *replayer) run(ctx context.Context) error {
	for i, st := range r.sc.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if st.Time != nil {
			r.clock.Advance(st.Time.Sub(r.clock.Now()))
		}
		if err := r.step(ctx, i, st); err != nil {
			return errors.Wrapf(err, "step %d (%s)", i, st.Op)
		}
		if r.onStep != nil {
			r.onStep()
		}
	}
	return nil
}

func (r *replayer) step(ctx context.Context, i int, st *Step) error {
	switch st.Op {
	case opDeposit:
		r.printf("#%d deposit %d\n", i, st.Amount)
		return r.d.Update(ctx, func(h *dispatcher.Host) error { return h.Deposit(st.Amount) })
	case opFund:
		r.printf("#%d fund %s %d\n", i, st.Account, st.Amount)
		return r.d.Update(ctx, func(h *dispatcher.Host) error {
			return h.Ledger.Mint(r.sc.AccountAddress(st.Account), st.Amount)
		})
	}

	args, actor, err := r.args(st)
	if err != nil {
		return err
	}
	signers := st.Signers
	if len(signers) == 0 && actor != "" {
		signers = []string{actor}
	}
	keys := make([]solana.PrivateKey, 0, len(signers))
	for _, name := range signers {
		keys = append(keys, Identity(name))
	}

	r.nonce++
	msg, err := dispatcher.NewMessage(r.nonce, args)
	if err != nil {
		return err
	}
	signed, err := auth.Sign(msg, keys...)
	if err != nil {
		return err
	}
	receipt, err := r.d.Execute(ctx, signed)
	if err != nil {
		return err
	}
	r.print(i, receipt)

	if kind := reverts.KindOf(receipt.Err); kind != st.Expect {
		if st.Expect == "" {
			return receipt.Err
		}
		return errors.Errorf("expected %q, got %q", st.Expect, kind)
	}
	return nil
}

// args builds the invocation arguments of st and names the identity acting in it.
func (r *replayer) args(st *Step) (any, string, error) {
	var (
		id  = func(name string) solana.PublicKey { return Identity(name).PublicKey() }
		acc = r.sc.AccountAddress
	)
	switch auth.Op(st.Op) {
	case auth.OpStake:
		return &dispatcher.StakeArgs{User: id(st.User), From: acc(st.From), Amount: st.Amount}, st.User, nil
	case auth.OpUnstake:
		return &dispatcher.UnstakeArgs{User: id(st.User), To: acc(st.To), Shares: st.Shares}, st.User, nil
	case auth.OpAdminUnstake:
		return &dispatcher.AdminUnstakeArgs{Admin: id(st.Admin), Owner: id(st.Owner), To: acc(st.To), Shares: st.Shares}, st.Admin, nil
	case auth.OpUpdateLockEndDate:
		if st.Date == nil {
			return nil, "", errors.New("date required")
		}
		return &dispatcher.UpdateLockEndDateArgs{Admin: id(st.Admin), Date: unix(*st.Date)}, st.Admin, nil
	case auth.OpToggleFreeze:
		return &dispatcher.ToggleFreezeArgs{Admin: id(st.Admin)}, st.Admin, nil
	case auth.OpPrice:
		return &dispatcher.PriceArgs{}, "", nil
	case auth.OpReward:
		return &dispatcher.RewardArgs{User: id(st.User)}, "", nil
	}
	return nil, "", errors.Errorf("unknown operation %q", st.Op)
}

func (r *replayer) printf(format string, a ...any) {
	if r.out != nil {
		fmt.Fprintf(r.out, format, a...)
	}
}

func (r *replayer) print(i int, receipt *dispatcher.Receipt) {
	if r.out == nil {
		return
	}
	if receipt.Reverted {
		r.printf("#%d %s reverted: %v\n", i, receipt.Op, receipt.Err)
		return
	}
	r.printf("#%d %s ok %s\n", i, receipt.Op, receipt.ID)
	for _, ev := range receipt.Events {
		data, _ := json.Marshal(ev)
		r.printf("    %s %s\n", ev.Kind(), data)
	}
}

// audit checks share conservation of the final state.
func (r *replayer) audit() (report *staker.AuditReport, err error) {
	err = r.d.View(func(s *staker.Staker, _ *token.Ledger) error {
		report, err = s.Audit()
		return err
	})
	return
}

// Snapshot is the final state of a replay, keyed by scenario names.
type Snapshot struct {
	Vault     *staker.Vault
	Pool      uint64
	Positions map[string]*staker.Position
	Balances  map[string]uint64
}

func (r *replayer) snapshot() (*Snapshot, error) {
	snap := &Snapshot{
		Positions: make(map[string]*staker.Position),
		Balances:  make(map[string]uint64),
	}
	err := r.d.View(func(s *staker.Staker, ledger *token.Ledger) (err error) {
		if snap.Vault, err = s.Vault(); err != nil {
			return err
		}
		if snap.Pool, err = ledger.Balance(s.PoolAddress()); err != nil {
			return err
		}
		for _, name := range r.sc.Identities() {
			pos, err := s.Position(Identity(name).PublicKey())
			if err != nil {
				return err
			}
			if !pos.IsEmpty() {
				snap.Positions[name] = pos
			}
		}
		for _, acc := range r.sc.Accounts {
			if snap.Balances[acc.Name], err = ledger.Balance(r.sc.AccountAddress(acc.Name)); err != nil {
				return err
			}
		}
		return nil
	})
	return snap, err
}

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	SortKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

func (r *replayer) dump(w io.Writer) error {
	snap, err := r.snapshot()
	if err != nil {
		return err
	}
	dumpConfig.Fdump(w, snap)
	return nil
}

func unix(t time.Time) uint64 {
	return uint64(max(t.Unix(), 0))
}
