// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/gagliardetto/solana-go"

	"github.com/plentyfi/staker/auth"
	"github.com/plentyfi/staker/events"
	"github.com/plentyfi/staker/reverts"
)

// authorizeAdmin requires admin to be the initializer of the vault and to have signed op.
func (s *Staker) authorizeAdmin(op auth.Op, admin solana.PublicKey, vault *Vault) error {
	if admin != vault.Initializer {
		return reverts.ErrUnauthorized.Detail(admin.String() + " is not the initializer")
	}
	return s.env.Auth.Authorize(op, admin)
}

// UpdateLockEndDate sets the date before which users cannot unstake.
func (s *Staker) UpdateLockEndDate(admin solana.PublicKey, date uint64) error {
	return s.atomically(auth.OpUpdateLockEndDate, func(func(events.Event)) error {
		vault, err := s.storage.GetVault(s.vault.Key)
		if err != nil {
			return err
		}
		if err := s.authorizeAdmin(auth.OpUpdateLockEndDate, admin, vault); err != nil {
			return err
		}
		vault.LockEndDate = date
		logger.Info("lock end date updated", "date", date)
		return s.storage.SetVault(s.vault.Key, vault)
	})
}

// ToggleFreeze flips the freeze flag of the vault.
func (s *Staker) ToggleFreeze(admin solana.PublicKey) error {
	return s.atomically(auth.OpToggleFreeze, func(func(events.Event)) error {
		vault, err := s.storage.GetVault(s.vault.Key)
		if err != nil {
			return err
		}
		if err := s.authorizeAdmin(auth.OpToggleFreeze, admin, vault); err != nil {
			return err
		}
		vault.Frozen = !vault.Frozen
		logger.Info("freeze toggled", "frozen", vault.Frozen)
		return s.storage.SetVault(s.vault.Key, vault)
	})
}
