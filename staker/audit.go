// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"

	"github.com/plentyfi/staker/fixed"
	"github.com/plentyfi/staker/state"
)

// ErrConservation is returned by Audit when the positions do not add up.
var ErrConservation = errors.New("share conservation violated")

// AuditReport summarizes the positions of a vault.
type AuditReport struct {
	Positions   int
	SumShares   uint64 // sum of the shares of every position
	TotalShares uint64 // shares outstanding according to the vault
	PoolBalance uint64
	Redeemable  uint64 // sum of the floored payouts of every position
}

// Audit walks every position and checks that their shares add up to the shares
// outstanding and that redeeming all of them cannot overdraw the pool.
func (s *Staker) Audit() (*AuditReport, error) {
	vault, err := s.storage.GetVault(s.vault.Key)
	if err != nil {
		return nil, err
	}
	poolBalance, err := s.env.Tokens.Balance(s.pool.Key)
	if err != nil {
		return nil, err
	}
	report := &AuditReport{TotalShares: vault.TotalShares, PoolBalance: poolBalance}

	var walkErr error
	if err := s.env.State.ForEach(state.KindPosition, func(addr solana.PublicKey, payload []byte) bool {
		var p Position
		if walkErr = rlp.DecodeBytes(payload, &p); walkErr != nil {
			walkErr = errors.Wrapf(walkErr, "decode position %v", addr)
			return false
		}
		report.Positions++
		if report.SumShares, walkErr = fixed.Add(report.SumShares, p.Shares); walkErr != nil {
			return false
		}
		if vault.TotalShares > 0 {
			var payout uint64
			if payout, walkErr = fixed.MulDiv(p.Shares, poolBalance, vault.TotalShares); walkErr != nil {
				return false
			}
			report.Redeemable, walkErr = fixed.Add(report.Redeemable, payout)
		}
		return walkErr == nil
	}); err != nil {
		return nil, err
	}
	if walkErr != nil {
		return nil, walkErr
	}

	if report.SumShares != report.TotalShares {
		return report, errors.Wrapf(ErrConservation, "positions hold %d shares, vault counts %d", report.SumShares, report.TotalShares)
	}
	if report.Redeemable > report.PoolBalance {
		return report, errors.Wrapf(ErrConservation, "positions redeem %d, pool holds %d", report.Redeemable, report.PoolBalance)
	}
	return report, nil
}
