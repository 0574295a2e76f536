// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package events defines the observable events of the vault.
package events

import (
	"github.com/gagliardetto/solana-go"

	"github.com/plentyfi/staker/log"
)

// Event is a vault event.
type Event interface {
	Kind() string
}

// PriceChange is emitted by every share-moving operation.
type PriceChange struct {
	OldPriceE9 uint64 `json:"oldPriceE9"`
	OldPrice   string `json:"oldPrice"`
	NewPriceE9 uint64 `json:"newPriceE9"`
	NewPrice   string `json:"newPrice"`
}

// Price is emitted by price queries.
type Price struct {
	PriceE9 uint64 `json:"priceE9"`
	Price   string `json:"price"`
}

// Reward is emitted by reward queries.
type Reward struct {
	Principal uint64 `json:"principal"`
	Reward    uint64 `json:"reward"`
}

// FeeCharged is emitted when a stake pays a fee.
type FeeCharged struct {
	Payer    solana.PublicKey `json:"payer"`
	Receiver solana.PublicKey `json:"receiver"`
	Amount   uint64           `json:"amount"`
}

func (PriceChange) Kind() string { return "PriceChange" }
func (Price) Kind() string       { return "Price" }
func (Reward) Kind() string      { return "Reward" }
func (FeeCharged) Kind() string  { return "FeeCharged" }

// Emitter publishes events.
type Emitter interface {
	Emit(ev Event)
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(ev Event)

func (f EmitterFunc) Emit(ev Event) { f(ev) }

// Recorder collects events in order.
type Recorder struct {
	events []Event
}

func (r *Recorder) Emit(ev Event) {
	r.events = append(r.events, ev)
}

// Events returns the recorded events.
func (r *Recorder) Events() []Event {
	return r.events
}

// Reset drops the recorded events.
func (r *Recorder) Reset() {
	r.events = nil
}

// Multi fans events out to every emitter.
type Multi []Emitter

func (m Multi) Emit(ev Event) {
	for _, e := range m {
		e.Emit(ev)
	}
}

// LogEmitter writes events to a logger.
type LogEmitter struct {
	Logger log.Logger
}

func (l LogEmitter) Emit(ev Event) {
	switch ev := ev.(type) {
	case PriceChange:
		l.Logger.Info("price changed", "old", ev.OldPrice, "new", ev.NewPrice, "oldE9", ev.OldPriceE9, "newE9", ev.NewPriceE9)
	case Price:
		l.Logger.Info("price", "price", ev.Price, "e9", ev.PriceE9)
	case Reward:
		l.Logger.Info("reward", "principal", ev.Principal, "reward", ev.Reward)
	case FeeCharged:
		l.Logger.Info("fee charged", "payer", ev.Payer, "receiver", ev.Receiver, "amount", ev.Amount)
	default:
		l.Logger.Info("event", "kind", ev.Kind())
	}
}
