// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package dispatcher

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"

	"github.com/plentyfi/staker/auth"
)

// Arguments of each operation, rlp encoded into auth.Message.Args.
type (
	StakeArgs struct {
		User   solana.PublicKey
		From   solana.PublicKey
		Amount uint64
	}
	UnstakeArgs struct {
		User   solana.PublicKey
		To     solana.PublicKey
		Shares uint64
	}
	AdminUnstakeArgs struct {
		Admin  solana.PublicKey
		Owner  solana.PublicKey
		To     solana.PublicKey
		Shares uint64
	}
	UpdateLockEndDateArgs struct {
		Admin solana.PublicKey
		Date  uint64
	}
	ToggleFreezeArgs struct {
		Admin solana.PublicKey
	}
	PriceArgs  struct{}
	RewardArgs struct {
		User solana.PublicKey
	}
)

// opOf maps argument types to their operation.
func opOf(args any) (auth.Op, error) {
	switch args.(type) {
	case *StakeArgs:
		return auth.OpStake, nil
	case *UnstakeArgs:
		return auth.OpUnstake, nil
	case *AdminUnstakeArgs:
		return auth.OpAdminUnstake, nil
	case *UpdateLockEndDateArgs:
		return auth.OpUpdateLockEndDate, nil
	case *ToggleFreezeArgs:
		return auth.OpToggleFreeze, nil
	case *PriceArgs:
		return auth.OpPrice, nil
	case *RewardArgs:
		return auth.OpReward, nil
	}
	return "", errors.Errorf("unsupported arguments %T", args)
}

// NewMessage builds the message invoking the operation of args.
func NewMessage(nonce uint64, args any) (auth.Message, error) {
	op, err := opOf(args)
	if err != nil {
		return auth.Message{}, err
	}
	data, err := rlp.EncodeToBytes(args)
	if err != nil {
		return auth.Message{}, errors.Wrapf(err, "encode %s arguments", op)
	}
	return auth.Message{Op: op, Nonce: nonce, Args: data}, nil
}

// decodeArgs decodes the arguments of msg.
func decodeArgs(msg *auth.Message) (any, error) {
	var args any
	switch msg.Op {
	case auth.OpStake:
		args = &StakeArgs{}
	case auth.OpUnstake:
		args = &UnstakeArgs{}
	case auth.OpAdminUnstake:
		args = &AdminUnstakeArgs{}
	case auth.OpUpdateLockEndDate:
		args = &UpdateLockEndDateArgs{}
	case auth.OpToggleFreeze:
		args = &ToggleFreezeArgs{}
	case auth.OpPrice:
		args = &PriceArgs{}
	case auth.OpReward:
		args = &RewardArgs{}
	default:
		return nil, errors.Errorf("unknown operation %q", msg.Op)
	}
	if err := rlp.DecodeBytes(msg.Args, args); err != nil {
		return nil, errors.Wrapf(err, "decode %s arguments", msg.Op)
	}
	return args, nil
}
