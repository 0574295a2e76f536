// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package price

import (
	"strconv"

	"github.com/plentyfi/staker/fixed"
)

// E9 is the fixed-point scale of a price.
const E9 = 1_000_000_000

// Price is the pool balance per share.
type Price struct {
	E9      uint64 // floor(balance * 1e9 / shares)
	Decimal string // float rendering, display only
}

// Zero is the price of a pool without shares.
var Zero = Price{E9: 0, Decimal: "0"}

// Of computes the price of a pool holding balance tokens against shares outstanding.
// The decimal form is computed independently in float64 and may differ from E9 in the
// last digits.
func Of(balance, shares uint64) (Price, error) {
	if shares == 0 {
		return Zero, nil
	}
	scaled, err := fixed.MulDiv(balance, E9, shares)
	if err != nil {
		return Price{}, err
	}
	return Price{
		E9:      scaled,
		Decimal: strconv.FormatFloat(float64(balance)/float64(shares), 'f', -1, 64),
	}, nil
}

func (p Price) String() string {
	return p.Decimal
}
