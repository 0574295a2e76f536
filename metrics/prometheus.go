// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/plentyfi/staker/log"
)

const namespace = "staker"

// InitializePrometheusMetrics installs the prometheus backend. Later calls are no-ops.
func InitializePrometheusMetrics() {
	if _, ok := backend.(*promBackend); !ok {
		backend = &promBackend{}
	}
}

type promBackend struct {
	meters sync.Map // name -> meter
}

// register returns the meter of name, building and registering its collector once.
func register[T any](b *promBackend, name string, build func() (T, prometheus.Collector)) T {
	if m, ok := b.meters.Load(name); ok {
		return m.(T)
	}
	meter, collector := build()
	if actual, loaded := b.meters.LoadOrStore(name, meter); loaded {
		return actual.(T)
	}
	if err := prometheus.Register(collector); err != nil {
		log.Warn("unable to register metric", "name", name, "err", err)
	}
	return meter
}

func (b *promBackend) Handler() http.Handler {
	return promhttp.Handler()
}

func (b *promBackend) Counter(name string) Counter {
	return register(b, name, func() (Counter, prometheus.Collector) {
		c := prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name})
		return promCounter{c}, c
	})
}

func (b *promBackend) CounterVec(name string, labels []string) CounterVec {
	return register(b, name, func() (CounterVec, prometheus.Collector) {
		c := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: name}, labels)
		return promCounterVec{c}, c
	})
}

func (b *promBackend) GaugeVec(name string, labels []string) GaugeVec {
	return register(b, name, func() (GaugeVec, prometheus.Collector) {
		g := prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: namespace, Name: name}, labels)
		return promGaugeVec{g}, g
	})
}

func (b *promBackend) HistogramVec(name string, labels []string, buckets []int64) HistogramVec {
	return register(b, name, func() (HistogramVec, prometheus.Collector) {
		bounds := make([]float64, 0, len(buckets))
		for _, bucket := range buckets {
			bounds = append(bounds, float64(bucket))
		}
		h := prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: namespace, Name: name, Buckets: bounds}, labels)
		return promHistogramVec{h}, h
	})
}

type promCounter struct{ c prometheus.Counter }

func (c promCounter) Add(i int64) { c.c.Add(float64(i)) }

type promCounterVec struct{ vec *prometheus.CounterVec }

func (c promCounterVec) AddWithLabel(i int64, labels map[string]string) {
	c.vec.With(labels).Add(float64(i))
}

type promGaugeVec struct{ vec *prometheus.GaugeVec }

func (g promGaugeVec) SetWithLabel(i int64, labels map[string]string) {
	g.vec.With(labels).Set(float64(i))
}

type promHistogramVec struct{ vec *prometheus.HistogramVec }

func (h promHistogramVec) ObserveWithLabels(i int64, labels map[string]string) {
	h.vec.With(labels).Observe(float64(i))
}
