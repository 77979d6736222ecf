// Copyright 2019 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package metrics counts scans and connection attempts with Prometheus
// collectors. There is no HTTP endpoint; the registry is written to a
// node_exporter textfile instead.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "wlan"

// Metrics holds the collectors on a private registry. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	scanAttempts    prometheus.Counter
	scanNetworks    prometheus.Gauge
	scanDuration    prometheus.Histogram
	connectResults  *prometheus.CounterVec
	connectDuration prometheus.Histogram
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		scanAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "attempts_total",
			Help:      "Number of iwlist invocations, including retries.",
		}),
		scanNetworks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "cells",
			Help:      "Cells found by the most recent scan.",
		}),
		scanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "duration_seconds",
			Help:      "Wall-clock time of a scan including retries.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
		}),
		connectResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "connect",
			Name:      "results_total",
			Help:      "Connection attempts by result.",
		}, []string{"result"}),
		connectDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "connect",
			Name:      "duration_seconds",
			Help:      "Wall-clock time of a connection attempt.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
		}),
	}
	m.registry.MustRegister(m.scanAttempts, m.scanNetworks, m.scanDuration,
		m.connectResults, m.connectDuration)
	return m
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveScan records one finished scan.
func (m *Metrics) ObserveScan(attempts, cells int, d time.Duration) {
	if m == nil {
		return
	}
	m.scanAttempts.Add(float64(attempts))
	m.scanNetworks.Set(float64(cells))
	m.scanDuration.Observe(d.Seconds())
}

// ObserveConnect records one finished connection attempt.
func (m *Metrics) ObserveConnect(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.connectResults.WithLabelValues(result).Inc()
	m.connectDuration.Observe(d.Seconds())
}

// WriteTextfile dumps the registry in the text exposition format so the
// node_exporter textfile collector can pick it up.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
