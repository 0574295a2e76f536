// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
)

// Fault kinds surfaced to callers. Match them with errors.Is.
var (
	ErrArithmetic         = New("arithmetic fault")
	ErrInsufficientShares = New("insufficient shares")
	ErrLockNotExpired     = New("lock not expired")
	ErrPoolFrozen         = New("pool frozen")
	ErrUnauthorized       = New("unauthorized")
	ErrTransferFailed     = New("transfer failed")

	ErrInsufficientBalance = New("insufficient balance")
	ErrAccountNotFound     = New("token account not found")
	ErrMintMismatch        = New("mint mismatch")
	ErrVaultNotFound       = New("vault not initialized")
	ErrInvalidAmount       = New("invalid amount")
)

// ErrRevert is a business fault that aborts an operation. Two reverts with the same message
// are the same kind, whatever detail or cause they carry.
type ErrRevert struct {
	message string
	detail  string
	cause   error
}

func New(message string) *ErrRevert {
	return &ErrRevert{
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	msg := e.message
	if e.detail != "" {
		msg += ": " + e.detail
	}
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

// Kind returns the bare message identifying the fault kind.
func (e *ErrRevert) Kind() string {
	return e.message
}

// Unwrap exposes the collaborator fault behind a revert, if any.
func (e *ErrRevert) Unwrap() error {
	return e.cause
}

func (e *ErrRevert) Is(target error) bool {
	t, ok := target.(*ErrRevert)
	if !ok {
		return false
	}
	return t.message == e.message
}

// Detail returns a copy of the revert annotated with detail.
func (e *ErrRevert) Detail(detail string) *ErrRevert {
	return &ErrRevert{message: e.message, detail: detail, cause: e.cause}
}

// Because returns a copy of the revert carrying cause.
func (e *ErrRevert) Because(cause error) *ErrRevert {
	return &ErrRevert{message: e.message, detail: e.detail, cause: cause}
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// KindOf returns the kind of the outermost revert in err's chain, or "" for infra faults.
func KindOf(err error) string {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.message
	}
	return ""
}
