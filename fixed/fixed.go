// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package fixed implements the checked integer arithmetic used by the vault accounting.
//
// Operands are u64 magnitudes promoted into a wide register. Every intermediate result must
// fit in 128 bits and every final result must narrow back into 64 bits, otherwise the
// computation traps with reverts.ErrArithmetic. Division always truncates toward zero.
package fixed

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/plentyfi/staker/reverts"
)

// MaxBits is the width of the intermediate register.
const MaxBits = 128

// Num is a checked computation chain. The first failing step sticks; later steps are no-ops.
//
//	v, err := fixed.New(amount).Mul(totalShares).Div(poolBalance).Uint64()
type Num struct {
	v   uint256.Int
	err error
}

// New starts a chain at x.
func New(x uint64) *Num {
	n := &Num{}
	n.v.SetUint64(x)
	return n
}

func (n *Num) fail(op string, x uint64) *Num {
	n.err = reverts.ErrArithmetic.Detail(fmt.Sprintf("%s %s %d", n.v.Dec(), op, x))
	return n
}

func (n *Num) Add(x uint64) *Num {
	if n.err != nil {
		return n
	}
	var res uint256.Int
	if _, overflow := res.AddOverflow(&n.v, uint256.NewInt(x)); overflow || res.BitLen() > MaxBits {
		return n.fail("+", x)
	}
	n.v = res
	return n
}

func (n *Num) Sub(x uint64) *Num {
	if n.err != nil {
		return n
	}
	var res uint256.Int
	if _, underflow := res.SubOverflow(&n.v, uint256.NewInt(x)); underflow {
		return n.fail("-", x)
	}
	n.v = res
	return n
}

func (n *Num) Mul(x uint64) *Num {
	if n.err != nil {
		return n
	}
	var res uint256.Int
	if _, overflow := res.MulOverflow(&n.v, uint256.NewInt(x)); overflow || res.BitLen() > MaxBits {
		return n.fail("*", x)
	}
	n.v = res
	return n
}

// Div is a floor division. Dividing by zero traps.
func (n *Num) Div(x uint64) *Num {
	if n.err != nil {
		return n
	}
	if x == 0 {
		return n.fail("/", x)
	}
	var res uint256.Int
	res.Div(&n.v, uint256.NewInt(x))
	n.v = res
	return n
}

// Err returns the first fault of the chain.
func (n *Num) Err() error {
	return n.err
}

// Uint64 narrows the result, trapping if it does not fit.
func (n *Num) Uint64() (uint64, error) {
	if n.err != nil {
		return 0, n.err
	}
	if !n.v.IsUint64() {
		return 0, reverts.ErrArithmetic.Detail(fmt.Sprintf("%s does not fit in 64 bits", n.v.Dec()))
	}
	return n.v.Uint64(), nil
}

// Add returns a + b.
func Add(a, b uint64) (uint64, error) {
	return New(a).Add(b).Uint64()
}

// Sub returns a - b.
func Sub(a, b uint64) (uint64, error) {
	return New(a).Sub(b).Uint64()
}

// MulDiv returns floor(a * b / d).
func MulDiv(a, b, d uint64) (uint64, error) {
	return New(a).Mul(b).Div(d).Uint64()
}
