// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// vaultreplay replays a vault scenario against a storage engine.
package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/plentyfi/staker/dispatcher"
	"github.com/plentyfi/staker/eventlog"
	"github.com/plentyfi/staker/events"
	"github.com/plentyfi/staker/log"
	"github.com/plentyfi/staker/metrics"
)

var (
	version   string
	gitCommit string

	flags = []cli.Flag{
		storageFlag,
		dataDirFlag,
		cacheFlag,
		eventLogFlag,
		auditFlag,
		dumpFlag,
		progressFlag,
		metricsAddrFlag,
		holdFlag,
		verbosityFlag,
		jsonLogsFlag,
	}
)

func run(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("usage: vaultreplay [flags] <scenario.yaml>")
	}
	initLogger(ctx)

	sc, err := LoadScenario(ctx.Args().First())
	if err != nil {
		return err
	}

	exit, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		srv      *http.Server
		listener net.Listener
	)
	if addr := ctx.String(metricsAddrFlag.Name); addr != "" {
		metrics.InitializePrometheusMetrics()
		if srv, listener, err = newMetricsServer(addr); err != nil {
			return err
		}
		defer listener.Close()
		log.Info("metrics server started", "url", "http://"+listener.Addr().String()+"/metrics")
	}

	db, err := openStore(ctx)
	if err != nil {
		return errors.Wrap(err, "open storage")
	}
	defer db.Close()

	var elog *eventlog.EventLog
	if path := ctx.String(eventLogFlag.Name); path != "" {
		elog, err = eventlog.New(path)
	} else {
		elog, err = eventlog.NewMem()
	}
	if err != nil {
		return errors.Wrap(err, "open event log")
	}
	defer elog.Close()
	log.Debug("event log opened", "path", elog.Path(), "sqlite", elog.DriverVersion())

	var out io.Writer = os.Stdout
	if ctx.Bool(progressFlag.Name) {
		out = nil
	}
	r, err := newReplayer(sc, db, dispatcher.Options{
		Emitter:  events.LogEmitter{Logger: log.WithContext("pkg", "events")},
		EventLog: elog,
	}, out)
	if err != nil {
		return err
	}

	var g errgroup.Group
	if srv != nil {
		g.Go(func() error {
			if err := srv.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
				return errors.Wrap(err, "metrics server")
			}
			return nil
		})
	}
	g.Go(func() error {
		if srv != nil {
			defer srv.Close()
		}
		if err := replay(exit, ctx, r); err != nil {
			return err
		}
		if srv != nil && ctx.Bool(holdFlag.Name) {
			log.Info("replay done, serving metrics until interrupted")
			<-exit.Done()
		}
		return nil
	})
	return g.Wait()
}

func replay(ctx context.Context, cliCtx *cli.Context, r *replayer) error {
	if err := r.genesis(ctx); err != nil {
		return errors.Wrap(err, "genesis")
	}

	if cliCtx.Bool(progressFlag.Name) {
		bar := pb.New(len(r.sc.Steps)).SetMaxWidth(90).Start()
		defer func() { bar.NotPrint = true }()
		r.onStep = func() { bar.Increment() }
		if err := r.run(ctx); err != nil {
			return err
		}
		bar.Finish()
	} else if err := r.run(ctx); err != nil {
		return err
	}

	if cliCtx.Bool(auditFlag.Name) {
		report, err := r.audit()
		if err != nil {
			return errors.Wrap(err, "audit")
		}
		fmt.Printf("audit ok: positions=%d shares=%d pool=%d redeemable=%d\n",
			report.Positions, report.TotalShares, report.PoolBalance, report.Redeemable)
	}
	if cliCtx.Bool(dumpFlag.Name) {
		return r.dump(os.Stdout)
	}
	return nil
}

func main() {
	app := cli.App{
		Version:   fmt.Sprintf("%s-%s", version, gitCommit),
		Name:      "vaultreplay",
		Usage:     "replays a staking vault scenario",
		ArgsUsage: "<scenario.yaml>",
		Flags:     flags,
		Action:    run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
