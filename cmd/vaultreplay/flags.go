// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var (
	storageFlag = cli.StringFlag{
		Name:  "storage",
		Value: "mem",
		Usage: "record storage engine (mem|leveldb|badger)",
	}
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Usage: "directory of the leveldb or badger storage",
	}
	cacheFlag = cli.IntFlag{
		Name:  "cache",
		Value: 16,
		Usage: "leveldb cache size in MiB",
	}
	eventLogFlag = cli.StringFlag{
		Name:  "eventlog",
		Usage: "path of the sqlite event journal, in memory if empty",
	}
	auditFlag = cli.BoolFlag{
		Name:  "audit",
		Usage: "audit share conservation after the replay",
	}
	dumpFlag = cli.BoolFlag{
		Name:  "dump",
		Usage: "dump the final vault, positions and balances",
	}
	progressFlag = cli.BoolFlag{
		Name:  "progress",
		Usage: "show a progress bar instead of printing receipts",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Usage: "serve prometheus metrics on this address during the replay",
	}
	holdFlag = cli.BoolFlag{
		Name:  "hold",
		Usage: "keep serving metrics after the replay until interrupted",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-9)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}
)
