// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package metrics exposes the meters of the vault host. Meters are no-ops until
// InitializePrometheusMetrics is called.
package metrics

import (
	"net/http"
	"sync"
)

// backend is swapped once, before any meter is loaded.
var backend = newNoopBackend()

// Backend creates meters by name. Asking twice for a name yields the same meter.
type Backend interface {
	Counter(name string) Counter
	CounterVec(name string, labels []string) CounterVec
	GaugeVec(name string, labels []string) GaugeVec
	HistogramVec(name string, labels []string, buckets []int64) HistogramVec
	Handler() http.Handler
}

// BucketOperationMicros buckets operation durations in microseconds.
var BucketOperationMicros = []int64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10_000, 50_000}

// Counter only goes up.
type Counter interface {
	Add(int64)
}

// CounterVec is a family of counters partitioned by labels.
type CounterVec interface {
	AddWithLabel(int64, map[string]string)
}

// GaugeVec is a family of gauges partitioned by labels.
type GaugeVec interface {
	SetWithLabel(int64, map[string]string)
}

// HistogramVec is a family of histograms partitioned by labels.
type HistogramVec interface {
	ObserveWithLabels(int64, map[string]string)
}

// HTTPHandler serves the current backend.
func HTTPHandler() http.Handler {
	return backend.Handler()
}

// LazyLoad defers building a meter to its first use, so package level meters
// bind to whichever backend is installed by then.
func LazyLoad[T any](f func() T) func() T {
	var (
		once  sync.Once
		meter T
	)
	return func() T {
		once.Do(func() { meter = f() })
		return meter
	}
}

func LazyLoadCounter(name string) func() Counter {
	return LazyLoad(func() Counter { return backend.Counter(name) })
}

func LazyLoadCounterVec(name string, labels []string) func() CounterVec {
	return LazyLoad(func() CounterVec { return backend.CounterVec(name, labels) })
}

func LazyLoadGaugeVec(name string, labels []string) func() GaugeVec {
	return LazyLoad(func() GaugeVec { return backend.GaugeVec(name, labels) })
}

func LazyLoadHistogramVec(name string, labels []string, buckets []int64) func() HistogramVec {
	return LazyLoad(func() HistogramVec { return backend.HistogramVec(name, labels, buckets) })
}
