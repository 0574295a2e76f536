// Copyright 2017 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package log

import (
	"bytes"
	"log/slog"
	"math/big"
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
)

func TestLogfmtHandler(t *testing.T) {
	out := new(bytes.Buffer)
	l := NewLogger(LogfmtHandler(out))

	l.Info("staked", "amount", uint256.NewInt(1000), "big", big.NewInt(-5), "nilbig", (*big.Int)(nil))

	have := out.String()
	assert.Contains(t, have, "lvl=info")
	assert.Contains(t, have, "msg=staked")
	assert.Contains(t, have, "amount=1000")
	assert.Contains(t, have, "big=-5")
	assert.Contains(t, have, "nilbig=<nil>")
}

func TestJSONHandler_Level(t *testing.T) {
	out := new(bytes.Buffer)
	var level slog.LevelVar
	level.Set(slog.LevelWarn)
	l := NewLogger(JSONHandlerWithLevel(out, &level))

	l.Info("hidden")
	assert.Empty(t, out.String())

	l.Warn("shown", "k", "v")
	assert.Contains(t, out.String(), `"msg":"shown"`)
	assert.Contains(t, out.String(), `"lvl":"warn"`)
}

func TestTerminalHandler(t *testing.T) {
	out := new(bytes.Buffer)
	l := NewLogger(NewTerminalHandler(out, false))

	l.Debug("unstaked", "shares", 42)
	have := out.String()
	assert.Contains(t, have, "unstaked")
	assert.Contains(t, have, "shares=42")
	assert.False(t, strings.Contains(have, "\x1b["), "color codes must be off")
}

func TestWithContext_FollowsRoot(t *testing.T) {
	pkgLogger := WithContext("pkg", "test")

	out := new(bytes.Buffer)
	prev := Root()
	SetDefault(NewLogger(LogfmtHandler(out)))
	t.Cleanup(func() { SetDefault(prev) })

	pkgLogger.Info("hello", "n", 1)
	assert.Contains(t, out.String(), "pkg=test")
	assert.Contains(t, out.String(), "n=1")
}

func TestFromLegacyLevel(t *testing.T) {
	assert.Equal(t, LevelCrit, FromLegacyLevel(0))
	assert.Equal(t, slog.LevelInfo, FromLegacyLevel(3))
	assert.Equal(t, LevelTrace, FromLegacyLevel(5))
	assert.Equal(t, LevelTrace, FromLegacyLevel(9))
	assert.Equal(t, "warn", LevelString(slog.LevelWarn))
	assert.Equal(t, "INFO ", LevelAlignedString(slog.LevelInfo))
}
