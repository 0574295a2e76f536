// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package auth decides whether an identity authorized a vault invocation.
package auth

import (
	"errors"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/gagliardetto/solana-go"
	pkgerrors "github.com/pkg/errors"

	"github.com/plentyfi/staker/reverts"
)

// Op names a vault operation.
type Op string

const (
	OpStake             Op = "stake"
	OpUnstake           Op = "unstake"
	OpAdminUnstake      Op = "admin_unstake"
	OpUpdateLockEndDate Op = "update_lock_end_date"
	OpToggleFreeze      Op = "toggle_freeze"
	OpPrice             Op = "price"
	OpReward            Op = "reward"
)

// Message is the signed body of an invocation.
type Message struct {
	Op    Op
	Nonce uint64
	Args  []byte // rlp encoded operation arguments
}

// Bytes returns the signing payload of the message.
func (m *Message) Bytes() ([]byte, error) {
	data, err := rlp.EncodeToBytes(m)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "encode message")
	}
	return data, nil
}

// Signature pairs a signer with its signature over the message.
type Signature struct {
	Signer    solana.PublicKey
	Signature solana.Signature
}

// Signed is a message with the signatures of its signers.
type Signed struct {
	Message    Message
	Signatures []Signature
}

// Sign signs msg with every key.
func Sign(msg Message, keys ...solana.PrivateKey) (*Signed, error) {
	payload, err := msg.Bytes()
	if err != nil {
		return nil, err
	}
	signed := &Signed{Message: msg}
	for _, key := range keys {
		sig, err := key.Sign(payload)
		if err != nil {
			return nil, pkgerrors.Wrap(err, "sign message")
		}
		signed.Signatures = append(signed.Signatures, Signature{key.PublicKey(), sig})
	}
	return signed, nil
}

// Owners resolves the owner of a token account.
type Owners interface {
	Owner(account solana.PublicKey) (solana.PublicKey, error)
}

// Verifier authorizes identities by the signatures of one invocation.
type Verifier struct {
	op      Op
	signers map[solana.PublicKey]bool
	owners  Owners
}

// NewVerifier verifies every signature of signed up front.
// Invalid signatures are dropped, they never authorize anything.
func NewVerifier(signed *Signed, owners Owners) (*Verifier, error) {
	payload, err := signed.Message.Bytes()
	if err != nil {
		return nil, err
	}
	v := &Verifier{
		op:      signed.Message.Op,
		signers: make(map[solana.PublicKey]bool, len(signed.Signatures)),
		owners:  owners,
	}
	for _, sig := range signed.Signatures {
		if sig.Signature.Verify(sig.Signer, payload) {
			v.signers[sig.Signer] = true
		}
	}
	return v, nil
}

// Authorize fails with reverts.ErrUnauthorized unless identity signed an invocation of op.
func (v *Verifier) Authorize(op Op, identity solana.PublicKey) error {
	if op != v.op {
		return reverts.ErrUnauthorized.Detail("signed " + string(v.op) + ", invoked " + string(op))
	}
	if !v.signers[identity] {
		return reverts.ErrUnauthorized.Detail("missing signature of " + identity.String())
	}
	return nil
}

// BindAccount fails with reverts.ErrUnauthorized unless account is owned by owner.
func (v *Verifier) BindAccount(account, owner solana.PublicKey) error {
	actual, err := v.owners.Owner(account)
	if err != nil {
		if errors.Is(err, reverts.ErrAccountNotFound) {
			return reverts.ErrUnauthorized.Because(err)
		}
		return err
	}
	if actual != owner {
		return reverts.ErrUnauthorized.Detail(account.String() + " is not owned by " + owner.String())
	}
	return nil
}
