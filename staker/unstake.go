// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/plentyfi/staker/auth"
	"github.com/plentyfi/staker/events"
	"github.com/plentyfi/staker/fixed"
	"github.com/plentyfi/staker/price"
	"github.com/plentyfi/staker/reverts"
)

// withdrawal describes one share redemption.
type withdrawal struct {
	owner     solana.PublicKey // owner of the position
	to        solana.PublicKey // token account receiving the payout
	shares    uint64
	authorize func(vault *Vault) error
	checkLock bool
}

// Unstake burns shares of the user and pays out their part of the pool.
// It fails before the lock end date.
func (s *Staker) Unstake(user, to solana.PublicKey, shares uint64) error {
	return s.atomically(auth.OpUnstake, func(emit func(events.Event)) error {
		return s.withdraw(&withdrawal{
			owner:  user,
			to:     to,
			shares: shares,
			authorize: func(*Vault) error {
				return s.env.Auth.Authorize(auth.OpUnstake, user)
			},
			checkLock: true,
		}, emit)
	})
}

// AdminUnstake lets the initializer redeem shares of any position, lock or not.
func (s *Staker) AdminUnstake(admin, owner, to solana.PublicKey, shares uint64) error {
	return s.atomically(auth.OpAdminUnstake, func(emit func(events.Event)) error {
		return s.withdraw(&withdrawal{
			owner:  owner,
			to:     to,
			shares: shares,
			authorize: func(vault *Vault) error {
				return s.authorizeAdmin(auth.OpAdminUnstake, admin, vault)
			},
		}, emit)
	})
}

func (s *Staker) withdraw(w *withdrawal, emit func(events.Event)) error {
	vault, err := s.storage.GetVault(s.vault.Key)
	if err != nil {
		return err
	}
	if err := w.authorize(vault); err != nil {
		return err
	}
	if vault.Frozen {
		return reverts.ErrPoolFrozen
	}

	positionAddr, err := s.PositionAddress(w.owner)
	if err != nil {
		return err
	}
	position, err := s.storage.GetPosition(positionAddr)
	if err != nil {
		return err
	}
	if w.shares > position.Shares {
		return reverts.ErrInsufficientShares.Detail(fmtHave(position.Shares, w.shares))
	}
	if w.checkLock {
		if now := s.now(); now < vault.LockEndDate {
			return reverts.ErrLockNotExpired.Detail(fmtUntil(now, vault.LockEndDate))
		}
	}

	poolBalance, err := s.env.Tokens.Balance(s.pool.Key)
	if err != nil {
		return err
	}
	sharesBefore := vault.TotalShares
	oldPrice, err := price.Of(poolBalance, sharesBefore)
	if err != nil {
		return err
	}

	if vault.TotalShares, err = fixed.Sub(vault.TotalShares, w.shares); err != nil {
		return err
	}
	if position.Shares, err = fixed.Sub(position.Shares, w.shares); err != nil {
		return err
	}
	payout, err := fixed.MulDiv(w.shares, poolBalance, sharesBefore)
	if err != nil {
		return err
	}

	if err := s.env.Tokens.Transfer(s.pool.Key, w.to, payout, s.vault.Key); err != nil {
		return reverts.ErrTransferFailed.Because(err)
	}

	poolBalance, err = s.env.Tokens.Balance(s.pool.Key)
	if err != nil {
		return err
	}
	if vault.TotalShares == 0 || poolBalance == 0 {
		position.Principal = 0
	} else {
		implied, err := fixed.MulDiv(position.Shares, poolBalance, vault.TotalShares)
		if err != nil {
			return err
		}
		position.Principal = min(position.Principal, implied)
	}
	newPrice, err := price.Of(poolBalance, vault.TotalShares)
	if err != nil {
		return err
	}

	if err := s.storage.SetVault(s.vault.Key, vault); err != nil {
		return err
	}
	if err := s.storage.SetPosition(positionAddr, position); err != nil {
		return err
	}

	logger.Debug("unstaked", "owner", w.owner, "shares", w.shares, "payout", payout, "totalShares", vault.TotalShares)
	emit(priceChange(oldPrice, newPrice))
	return nil
}

// now reads the clock once, as unix seconds.
func (s *Staker) now() uint64 {
	return uint64(max(s.env.Clock.Now().Unix(), 0))
}

func fmtHave(have, want uint64) string {
	return fmt.Sprintf("have %d, want %d", have, want)
}

func fmtUntil(now, until uint64) string {
	return fmt.Sprintf("now %d, locked until %d", now, until)
}
