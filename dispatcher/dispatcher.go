// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package dispatcher hosts a vault program: it runs signed invocations one at a time
// against durable storage and commits each of them atomically.
package dispatcher

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gagliardetto/solana-go"
	"github.com/jonboulle/clockwork"
	"github.com/pborman/uuid"
	"github.com/pkg/errors"

	"github.com/plentyfi/staker/auth"
	"github.com/plentyfi/staker/eventlog"
	"github.com/plentyfi/staker/events"
	"github.com/plentyfi/staker/kv"
	"github.com/plentyfi/staker/log"
	"github.com/plentyfi/staker/price"
	"github.com/plentyfi/staker/reverts"
	"github.com/plentyfi/staker/staker"
	"github.com/plentyfi/staker/state"
	"github.com/plentyfi/staker/token"
)

var logger = log.WithContext("pkg", "dispatcher")

// Options configures a dispatcher.
type Options struct {
	Clock    clockwork.Clock    // defaults to the real clock
	Emitter  events.Emitter     // receives committed events, may be nil
	EventLog *eventlog.EventLog // journals committed events, may be nil
}

// Receipt is the outcome of one invocation.
type Receipt struct {
	ID       string
	Op       auth.Op
	Time     time.Time
	Reverted bool
	Err      error          // the revert, if any
	Events   []events.Event // committed events
	Changes  common.Hash    // digest of the committed changes
	Price    *price.Price   // output of price queries
	Reward   *RewardOutput  // output of reward queries
}

// RewardOutput is the output of reward queries.
type RewardOutput struct {
	Principal uint64
	Reward    uint64
}

// Dispatcher serializes vault invocations over a store.
type Dispatcher struct {
	mu      sync.Mutex
	program *staker.Program
	stater  *state.Stater
	opts    Options
}

// New creates a dispatcher running program over db.
func New(program *staker.Program, db kv.Store, opts Options) *Dispatcher {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	return &Dispatcher{
		program: program,
		stater:  state.NewStater(db),
		opts:    opts,
	}
}

// Program returns the hosted program.
func (d *Dispatcher) Program() *staker.Program {
	return d.program
}

// Execute verifies and runs one signed invocation. Reverted operations commit nothing
// and are reported through the receipt; infra faults are returned as errors.
func (d *Dispatcher) Execute(ctx context.Context, signed *auth.Signed) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	start := time.Now()
	op := signed.Message.Op
	receipt := &Receipt{
		ID:   uuid.NewRandom().String(),
		Op:   op,
		Time: d.opts.Clock.Now(),
	}

	args, err := decodeArgs(&signed.Message)
	if err != nil {
		return nil, err
	}

	st := d.stater.NewState()
	ledger := token.NewLedger(st)
	verifier, err := auth.NewVerifier(signed, ledger)
	if err != nil {
		return nil, err
	}
	rec := &events.Recorder{}
	s := d.program.Bind(staker.Env{
		State:  st,
		Tokens: ledger,
		Auth:   verifier,
		Clock:  d.opts.Clock,
		Events: rec,
	})

	if err := d.invoke(s, args, receipt); err != nil {
		outcome := "reverted"
		if !reverts.IsRevertErr(err) {
			outcome = "failed"
		}
		metricOperations().AddWithLabel(1, map[string]string{"op": string(op), "outcome": outcome})
		if outcome == "failed" {
			return nil, err
		}
		logger.Debug("invocation reverted", "id", receipt.ID, "op", op, "err", err)
		receipt.Reverted, receipt.Err = true, err
		return receipt, nil
	}

	vault, err := s.Vault()
	if err != nil {
		return nil, err
	}
	pool, err := ledger.Balance(d.program.PoolAddress())
	if err != nil {
		return nil, err
	}

	if receipt.Changes, err = st.Stage().Commit(); err != nil {
		return nil, errors.Wrap(err, "commit")
	}
	receipt.Events = rec.Events()

	metricOperations().AddWithLabel(1, map[string]string{"op": string(op), "outcome": "committed"})
	metricOperationLatency().ObserveWithLabels(time.Since(start).Microseconds(), map[string]string{"op": string(op)})
	vaultLabel := d.program.VaultAddress().String()
	metricVault().SetWithLabel(gaugeValue(vault.TotalShares), map[string]string{"vault": vaultLabel, "field": "total_shares"})
	metricVault().SetWithLabel(gaugeValue(pool), map[string]string{"vault": vaultLabel, "field": "pool_balance"})

	d.publish(ctx, receipt)
	logger.Debug("invocation committed", "id", receipt.ID, "op", op, "events", len(receipt.Events), "changes", receipt.Changes)
	return receipt, nil
}

func (d *Dispatcher) invoke(s *staker.Staker, args any, receipt *Receipt) error {
	switch args := args.(type) {
	case *StakeArgs:
		return s.Stake(args.User, args.From, args.Amount)
	case *UnstakeArgs:
		return s.Unstake(args.User, args.To, args.Shares)
	case *AdminUnstakeArgs:
		return s.AdminUnstake(args.Admin, args.Owner, args.To, args.Shares)
	case *UpdateLockEndDateArgs:
		return s.UpdateLockEndDate(args.Admin, args.Date)
	case *ToggleFreezeArgs:
		return s.ToggleFreeze(args.Admin)
	case *PriceArgs:
		p, err := s.Price()
		if err != nil {
			return err
		}
		receipt.Price = &p
		return nil
	case *RewardArgs:
		principal, reward, err := s.Reward(args.User)
		if err != nil {
			return err
		}
		receipt.Reward = &RewardOutput{Principal: principal, Reward: reward}
		return nil
	}
	return errors.Errorf("unsupported arguments %T", args)
}

// publish hands committed events to the journal and the emitter.
// A journal failure is logged, the invocation is already durable.
func (d *Dispatcher) publish(ctx context.Context, receipt *Receipt) {
	if d.opts.EventLog != nil {
		if err := d.opts.EventLog.Append(ctx, receipt.ID, string(receipt.Op), receipt.Time, receipt.Events); err != nil {
			metricJournalFailures().Add(1)
			logger.Warn("failed to journal events", "id", receipt.ID, "err", err)
		}
	}
	if d.opts.Emitter != nil {
		for _, ev := range receipt.Events {
			d.opts.Emitter.Emit(ev)
		}
	}
}

// Host is the host-side access to the records, bypassing authorization.
// It models what happens outside the vault program: seeding the vault, opening and
// funding token accounts, reward deposits.
type Host struct {
	Program *staker.Program
	State   *state.State
	Ledger  *token.Ledger
}

// Update runs fn with host access and commits its changes atomically.
func (d *Dispatcher) Update(ctx context.Context, fn func(h *Host) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	st := d.stater.NewState()
	if err := fn(&Host{Program: d.program, State: st, Ledger: token.NewLedger(st)}); err != nil {
		return err
	}
	_, err := st.Stage().Commit()
	return errors.Wrap(err, "commit")
}

// View runs fn over the committed records with a read-only staker.
func (d *Dispatcher) View(fn func(s *staker.Staker, ledger *token.Ledger) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	st := d.stater.NewState()
	ledger := token.NewLedger(st)
	verifier, err := auth.NewVerifier(&auth.Signed{}, ledger)
	if err != nil {
		return err
	}
	return fn(d.program.Bind(staker.Env{State: st, Tokens: ledger, Auth: verifier, Clock: d.opts.Clock}), ledger)
}

// Genesis seeds the vault and opens the pool account.
func (h *Host) Genesis(initializer solana.PublicKey, lockEndDate uint64) error {
	return h.Program.Genesis(h.State, h.Ledger, initializer, lockEndDate)
}

// Deposit credits the pool from outside, the way rewards arrive.
func (h *Host) Deposit(amount uint64) error {
	return h.Ledger.Mint(h.Program.PoolAddress(), amount)
}
