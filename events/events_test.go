// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/plentyfi/staker/log"
)

func TestRecorderAndMulti(t *testing.T) {
	var a, b Recorder
	var kinds []string
	m := Multi{&a, &b, EmitterFunc(func(ev Event) { kinds = append(kinds, ev.Kind()) })}

	m.Emit(Price{PriceE9: 1_000_000_000, Price: "1"})
	m.Emit(Reward{Principal: 10, Reward: 2})

	assert.Equal(t, []Event{Price{1_000_000_000, "1"}, Reward{10, 2}}, a.Events())
	assert.Equal(t, a.Events(), b.Events())
	assert.Equal(t, []string{"Price", "Reward"}, kinds)

	a.Reset()
	assert.Empty(t, a.Events())
}

func TestLogEmitter(t *testing.T) {
	out := new(bytes.Buffer)
	e := LogEmitter{Logger: log.NewLogger(log.LogfmtHandler(out))}

	e.Emit(PriceChange{OldPriceE9: 1_000_000_000, OldPrice: "1", NewPriceE9: 2_000_000_000, NewPrice: "2"})
	assert.Contains(t, out.String(), `msg="price changed"`)
	assert.Contains(t, out.String(), "new=2")

	out.Reset()
	e.Emit(FeeCharged{Amount: 5})
	assert.Contains(t, out.String(), "amount=5")
}
