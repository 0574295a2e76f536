// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
	"math/big"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func Test_Reverts(t *testing.T) {
	revert := New("test")
	assert.Equal(t, "test", revert.message)
	assert.Equal(t, revert.Error(), revert.message)

	assert.True(t, IsRevertErr(revert))
	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr(fmt.Errorf("test")))
	assert.False(t, IsRevertErr(big.NewInt(0)))
}

func Test_Reverts_Kinds(t *testing.T) {
	err := ErrTransferFailed.Because(ErrInsufficientBalance.Detail("have 1, want 2"))

	assert.True(t, errors.Is(err, ErrTransferFailed))
	assert.True(t, errors.Is(err, ErrInsufficientBalance))
	assert.False(t, errors.Is(err, ErrUnauthorized))
	assert.Equal(t, "transfer failed: insufficient balance: have 1, want 2", err.Error())
	assert.Equal(t, "transfer failed", KindOf(err))

	wrapped := pkgerrors.Wrap(ErrLockNotExpired, "unstake")
	assert.True(t, errors.Is(wrapped, ErrLockNotExpired))
	assert.True(t, IsRevertErr(wrapped))
	assert.Equal(t, "lock not expired", KindOf(wrapped))

	assert.Equal(t, "", KindOf(errors.New("disk on fire")))
	assert.False(t, errors.Is(ErrPoolFrozen, ErrArithmetic))
}
