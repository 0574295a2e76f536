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
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"os"
	"reflect"
	"time"

	"github.com/holiman/uint256"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

const (
	timeFormat         = "2006-01-02T15:04:05-0700"
	terminalTimeFormat = "01-02|15:04:05.000"
)

type discardHandler struct{}

// DiscardHandler drops every record. It backs the root logger until SetDefault.
func DiscardHandler() slog.Handler {
	return discardHandler{}
}

func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (h discardHandler) WithGroup(string) slog.Handler           { return h }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }

// NewTerminalHandler returns a colorless-or-colored handler for humans, logging every level.
//
//	INF 10-15|14:03:11.402 staked user=7xKX… amount=1000
func NewTerminalHandler(wr io.Writer, useColor bool) slog.Handler {
	var level slog.LevelVar
	level.Set(levelMaxVerbosity)
	return NewTerminalHandlerWithLevel(wr, &level, useColor)
}

// NewTerminalHandlerWithLevel is NewTerminalHandler filtered by lvl.
func NewTerminalHandlerWithLevel(wr io.Writer, lvl *slog.LevelVar, useColor bool) slog.Handler {
	return tint.NewHandler(wr, &tint.Options{
		Level:      lvl,
		TimeFormat: terminalTimeFormat,
		NoColor:    !useColor,
		ReplaceAttr: func(_ []string, attr slog.Attr) slog.Attr {
			if attr.Key == slog.LevelKey || attr.Key == slog.TimeKey {
				return attr
			}
			return replaceValue(attr, true)
		},
	})
}

// StderrTerminalHandler is the terminal handler on stderr, colored when stderr is a terminal.
func StderrTerminalHandler(lvl *slog.LevelVar) slog.Handler {
	fd := os.Stderr.Fd()
	return NewTerminalHandlerWithLevel(os.Stderr, lvl, isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd))
}

// JSONHandlerWithLevel prints records filtered by level as JSON lines.
func JSONHandlerWithLevel(wr io.Writer, level *slog.LevelVar) slog.Handler {
	return slog.NewJSONHandler(wr, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: func(_ []string, attr slog.Attr) slog.Attr { return replace(attr, false) },
	})
}

// LogfmtHandler prints every record as logfmt key=value pairs.
func LogfmtHandler(wr io.Writer) slog.Handler {
	return slog.NewTextHandler(wr, &slog.HandlerOptions{
		ReplaceAttr: func(_ []string, attr slog.Attr) slog.Attr { return replace(attr, true) },
	})
}

// replace renames the builtin time and level keys to t and lvl, then renders the value.
func replace(attr slog.Attr, logfmt bool) slog.Attr {
	switch attr.Key {
	case slog.TimeKey:
		if attr.Value.Kind() == slog.KindTime {
			if logfmt {
				return slog.String("t", attr.Value.Time().Format(timeFormat))
			}
			return slog.Attr{Key: "t", Value: attr.Value}
		}
	case slog.LevelKey:
		if l, ok := attr.Value.Any().(slog.Level); ok {
			return slog.String("lvl", LevelString(l))
		}
	}
	return replaceValue(attr, logfmt)
}

// replaceValue renders big numbers in decimal and other stringers through String.
func replaceValue(attr slog.Attr, logfmt bool) slog.Attr {
	switch v := attr.Value.Any().(type) {
	case time.Time:
		if logfmt {
			attr.Value = slog.StringValue(v.Format(timeFormat))
		}
	case *big.Int:
		attr.Value = stringOrNil(v == nil, v.String)
	case *uint256.Int:
		attr.Value = stringOrNil(v == nil, v.Dec)
	case fmt.Stringer:
		isNil := v == nil || (reflect.ValueOf(v).Kind() == reflect.Pointer && reflect.ValueOf(v).IsNil())
		attr.Value = stringOrNil(isNil, v.String)
	}
	return attr
}

func stringOrNil(isNil bool, str func() string) slog.Value {
	if isNil {
		return slog.StringValue("<nil>")
	}
	return slog.StringValue(str())
}
