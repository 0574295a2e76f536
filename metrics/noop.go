// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import "net/http"

type noopBackend struct{}

func newNoopBackend() Backend { return noopBackend{} }

func (noopBackend) Counter(string) Counter                             { return noop{} }
func (noopBackend) CounterVec(string, []string) CounterVec             { return noop{} }
func (noopBackend) GaugeVec(string, []string) GaugeVec                 { return noop{} }
func (noopBackend) HistogramVec(string, []string, []int64) HistogramVec { return noop{} }
func (noopBackend) Handler() http.Handler                              { return http.NotFoundHandler() }

type noop struct{}

func (noop) Add(int64)                                  {}
func (noop) AddWithLabel(int64, map[string]string)      {}
func (noop) SetWithLabel(int64, map[string]string)      {}
func (noop) ObserveWithLabels(int64, map[string]string) {}
