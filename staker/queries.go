// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/gagliardetto/solana-go"

	"github.com/plentyfi/staker/auth"
	"github.com/plentyfi/staker/events"
	"github.com/plentyfi/staker/fixed"
	"github.com/plentyfi/staker/price"
)

//
// Queries - no state change
//

// Price returns the current pool balance per share.
func (s *Staker) Price() (p price.Price, err error) {
	err = s.atomically(auth.OpPrice, func(emit func(events.Event)) error {
		if p, err = s.price(); err != nil {
			return err
		}
		emit(events.Price{PriceE9: p.E9, Price: p.Decimal})
		return nil
	})
	return
}

func (s *Staker) price() (price.Price, error) {
	vault, err := s.storage.GetVault(s.vault.Key)
	if err != nil {
		return price.Price{}, err
	}
	poolBalance, err := s.env.Tokens.Balance(s.pool.Key)
	if err != nil {
		return price.Price{}, err
	}
	return price.Of(poolBalance, vault.TotalShares)
}

// Reward returns the principal of the user and the gain of the position over it.
// A vault without shares has no defined reward and faults.
func (s *Staker) Reward(user solana.PublicKey) (principal, reward uint64, err error) {
	err = s.atomically(auth.OpReward, func(emit func(events.Event)) error {
		if principal, reward, err = s.reward(user); err != nil {
			return err
		}
		emit(events.Reward{Principal: principal, Reward: reward})
		return nil
	})
	return
}

func (s *Staker) reward(user solana.PublicKey) (uint64, uint64, error) {
	vault, err := s.storage.GetVault(s.vault.Key)
	if err != nil {
		return 0, 0, err
	}
	positionAddr, err := s.PositionAddress(user)
	if err != nil {
		return 0, 0, err
	}
	position, err := s.storage.GetPosition(positionAddr)
	if err != nil {
		return 0, 0, err
	}
	poolBalance, err := s.env.Tokens.Balance(s.pool.Key)
	if err != nil {
		return 0, 0, err
	}
	reward, err := fixed.New(position.Shares).
		Mul(poolBalance).
		Div(vault.TotalShares).
		Sub(position.Principal).
		Uint64()
	if err != nil {
		return 0, 0, err
	}
	return position.Principal, reward, nil
}

// Vault returns the vault record.
func (s *Staker) Vault() (*Vault, error) {
	return s.storage.GetVault(s.vault.Key)
}

// Position returns the position of user, zero valued if the user never staked.
func (s *Staker) Position(user solana.PublicKey) (*Position, error) {
	addr, err := s.PositionAddress(user)
	if err != nil {
		return nil, err
	}
	return s.storage.GetPosition(addr)
}
