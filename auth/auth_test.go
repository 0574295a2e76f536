// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auth

import (
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plentyfi/staker/reverts"
)

type owners map[solana.PublicKey]solana.PublicKey

func (o owners) Owner(account solana.PublicKey) (solana.PublicKey, error) {
	if owner, ok := o[account]; ok {
		return owner, nil
	}
	return solana.PublicKey{}, reverts.ErrAccountNotFound.Detail(account.String())
}

func TestVerifier_Authorize(t *testing.T) {
	alice := solana.NewWallet().PrivateKey
	bob := solana.NewWallet().PrivateKey

	signed, err := Sign(Message{Op: OpStake, Nonce: 1, Args: []byte{1}}, alice)
	require.NoError(t, err)

	v, err := NewVerifier(signed, owners{})
	require.NoError(t, err)

	assert.NoError(t, v.Authorize(OpStake, alice.PublicKey()))
	assert.True(t, errors.Is(v.Authorize(OpStake, bob.PublicKey()), reverts.ErrUnauthorized))
	assert.True(t, errors.Is(v.Authorize(OpUnstake, alice.PublicKey()), reverts.ErrUnauthorized))
}

func TestVerifier_TamperedMessage(t *testing.T) {
	alice := solana.NewWallet().PrivateKey

	signed, err := Sign(Message{Op: OpUnstake, Nonce: 1, Args: []byte{10}}, alice)
	require.NoError(t, err)
	signed.Message.Args = []byte{99}

	v, err := NewVerifier(signed, owners{})
	require.NoError(t, err)
	assert.True(t, errors.Is(v.Authorize(OpUnstake, alice.PublicKey()), reverts.ErrUnauthorized))
}

func TestVerifier_ForgedSigner(t *testing.T) {
	alice := solana.NewWallet().PrivateKey
	mallory := solana.NewWallet().PrivateKey

	signed, err := Sign(Message{Op: OpToggleFreeze}, mallory)
	require.NoError(t, err)
	// claim alice signed with mallory's signature
	signed.Signatures[0].Signer = alice.PublicKey()

	v, err := NewVerifier(signed, owners{})
	require.NoError(t, err)
	assert.True(t, errors.Is(v.Authorize(OpToggleFreeze, alice.PublicKey()), reverts.ErrUnauthorized))
}

func TestVerifier_BindAccount(t *testing.T) {
	alice := solana.NewWallet().PublicKey()
	bob := solana.NewWallet().PublicKey()
	account := solana.NewWallet().PublicKey()

	signed, err := Sign(Message{Op: OpStake})
	require.NoError(t, err)
	v, err := NewVerifier(signed, owners{account: alice})
	require.NoError(t, err)

	assert.NoError(t, v.BindAccount(account, alice))
	assert.True(t, errors.Is(v.BindAccount(account, bob), reverts.ErrUnauthorized))

	err = v.BindAccount(solana.NewWallet().PublicKey(), alice)
	assert.True(t, errors.Is(err, reverts.ErrUnauthorized))
	assert.True(t, errors.Is(err, reverts.ErrAccountNotFound))
}
