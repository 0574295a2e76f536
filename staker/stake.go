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
	"github.com/plentyfi/staker/reverts"
)

// Stake deposits amount from the user's token account and mints shares at the current price.
// The first deposit into an empty pool mints shares one to one.
func (s *Staker) Stake(user, from solana.PublicKey, amount uint64) error {
	return s.atomically(auth.OpStake, func(emit func(events.Event)) error {
		return s.stake(user, from, amount, emit)
	})
}

func (s *Staker) stake(user, from solana.PublicKey, amount uint64, emit func(events.Event)) error {
	if amount == 0 {
		return reverts.ErrInvalidAmount.Detail("stake amount must be positive")
	}
	if err := s.env.Auth.Authorize(auth.OpStake, user); err != nil {
		return err
	}
	if err := s.env.Auth.BindAccount(from, user); err != nil {
		return err
	}

	vault, err := s.storage.GetVault(s.vault.Key)
	if err != nil {
		return err
	}
	if vault.Frozen {
		return reverts.ErrPoolFrozen
	}

	positionAddr, err := s.PositionAddress(user)
	if err != nil {
		return err
	}
	position, err := s.storage.GetPosition(positionAddr)
	if err != nil {
		return err
	}

	net, err := s.chargeFee(user, from, amount, emit)
	if err != nil {
		return err
	}

	poolBalance, err := s.env.Tokens.Balance(s.pool.Key)
	if err != nil {
		return err
	}
	oldPrice, err := price.Of(poolBalance, vault.TotalShares)
	if err != nil {
		return err
	}

	minted := net
	if poolBalance != 0 && vault.TotalShares != 0 {
		if minted, err = fixed.MulDiv(net, vault.TotalShares, poolBalance); err != nil {
			return err
		}
	}
	if vault.TotalShares, err = fixed.Add(vault.TotalShares, minted); err != nil {
		return err
	}
	if position.Shares, err = fixed.Add(position.Shares, minted); err != nil {
		return err
	}

	if err := s.env.Tokens.Transfer(from, s.pool.Key, net, user); err != nil {
		return reverts.ErrTransferFailed.Because(err)
	}

	poolBalance, err = s.env.Tokens.Balance(s.pool.Key)
	if err != nil {
		return err
	}
	if position.Principal, err = fixed.Add(position.Principal, net); err != nil {
		return err
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

	logger.Debug("staked", "user", user, "amount", net, "minted", minted, "totalShares", vault.TotalShares)
	emit(priceChange(oldPrice, newPrice))
	return nil
}

// chargeFee moves the configured fee to the fee receiver and returns the net deposit.
func (s *Staker) chargeFee(user, from solana.PublicKey, amount uint64, emit func(events.Event)) (uint64, error) {
	fee := s.cfg.Fee
	if fee == nil || fee.BasisPoints == 0 {
		return amount, nil
	}
	charged, err := fixed.MulDiv(amount, uint64(fee.BasisPoints), MaxBasisPoints)
	if err != nil {
		return 0, err
	}
	if charged == 0 {
		return amount, nil
	}
	if err := s.env.Tokens.Transfer(from, fee.Receiver, charged, user); err != nil {
		return 0, reverts.ErrTransferFailed.Because(err)
	}
	emit(events.FeeCharged{Payer: user, Receiver: fee.Receiver, Amount: charged})
	return fixed.Sub(amount, charged)
}

func priceChange(before, after price.Price) events.PriceChange {
	return events.PriceChange{
		OldPriceE9: before.E9,
		OldPrice:   before.Decimal,
		NewPriceE9: after.E9,
		NewPrice:   after.Decimal,
	}
}
