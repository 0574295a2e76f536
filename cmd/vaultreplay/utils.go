// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/plentyfi/staker/badgerdb"
	"github.com/plentyfi/staker/kv"
	"github.com/plentyfi/staker/log"
	"github.com/plentyfi/staker/lvldb"
	"github.com/plentyfi/staker/metrics"
)

func initLogger(ctx *cli.Context) {
	var level slog.LevelVar
	level.Set(log.FromLegacyLevel(ctx.Int(verbosityFlag.Name)))

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.JSONHandlerWithLevel(os.Stderr, &level)
	} else {
		handler = log.StderrTerminalHandler(&level)
	}
	log.SetDefault(log.NewLogger(handler))
}

// openStore opens the record storage selected by the flags.
func openStore(ctx *cli.Context) (kv.Store, error) {
	dir := ctx.String(dataDirFlag.Name)
	switch engine := ctx.String(storageFlag.Name); engine {
	case "mem":
		return lvldb.NewMem()
	case "leveldb":
		if dir == "" {
			return nil, errors.New("leveldb requires --data-dir")
		}
		return lvldb.New(dir, lvldb.Options{
			CacheSize:              ctx.Int(cacheFlag.Name),
			OpenFilesCacheCapacity: 64,
		})
	case "badger":
		if dir == "" {
			return nil, errors.New("badger requires --data-dir")
		}
		return badgerdb.New(dir)
	default:
		return nil, errors.Errorf("unknown storage %q", engine)
	}
}

// newMetricsServer binds addr and routes /metrics to the prometheus handler.
func newMetricsServer(addr string) (*http.Server, net.Listener, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "listen metrics addr [%v]", addr)
	}
	router := mux.NewRouter()
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	return &http.Server{
		Handler:           router,
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
	}, listener, nil
}
