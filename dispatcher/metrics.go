// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package dispatcher

import (
	"math"

	"github.com/plentyfi/staker/metrics"
)

var (
	metricOperations       = metrics.LazyLoadCounterVec("operations_total", []string{"op", "outcome"})
	metricOperationLatency = metrics.LazyLoadHistogramVec("operation_duration_us", []string{"op"}, metrics.BucketOperationMicros)
	metricVault            = metrics.LazyLoadGaugeVec("vault", []string{"vault", "field"})
	metricJournalFailures  = metrics.LazyLoadCounter("journal_failures_total")
)

// gaugeValue clamps v into the gauge range.
func gaugeValue(v uint64) int64 {
	return int64(min(v, math.MaxInt64))
}
