// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"

	"github.com/plentyfi/staker/reverts"
	"github.com/plentyfi/staker/state"
)

// storage reads and writes the vault records of a state.
type storage struct {
	state *state.State
}

func newStorage(st *state.State) *storage {
	return &storage{st}
}

func (s *storage) GetVault(addr solana.PublicKey) (*Vault, error) {
	var v Vault
	ok, err := s.state.DecodeRecord(addr, state.KindVault, &v)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get vault")
	}
	if !ok {
		return nil, reverts.ErrVaultNotFound
	}
	return &v, nil
}

func (s *storage) SetVault(addr solana.PublicKey, v *Vault) error {
	if err := s.state.EncodeRecord(addr, state.KindVault, v); err != nil {
		return errors.Wrap(err, "failed to set vault")
	}
	return nil
}

// GetPosition returns the position at addr, zero valued if never staked.
func (s *storage) GetPosition(addr solana.PublicKey) (*Position, error) {
	var p Position
	if _, err := s.state.DecodeRecord(addr, state.KindPosition, &p); err != nil {
		return nil, errors.Wrap(err, "failed to get position")
	}
	return &p, nil
}

func (s *storage) SetPosition(addr solana.PublicKey, p *Position) error {
	if err := s.state.EncodeRecord(addr, state.KindPosition, p); err != nil {
		return errors.Wrap(err, "failed to set position")
	}
	return nil
}
