// Copyright 2019 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserve(t *testing.T) {
	m := New()
	m.ObserveScan(3, 7, 1200*time.Millisecond)
	m.ObserveScan(1, 4, 100*time.Millisecond)
	m.ObserveConnect("connected", 4*time.Second)
	m.ObserveConnect("bad password", time.Second)
	m.ObserveConnect("connected", 2*time.Second)

	assert.Equal(t, 4.0, testutil.ToFloat64(m.scanAttempts))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.scanNetworks))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.connectResults.WithLabelValues("connected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.connectResults.WithLabelValues("bad password")))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.ObserveScan(1, 1, time.Second)
	m.ObserveConnect("connected", time.Second)
	assert.Nil(t, m.Registry())
	assert.NoError(t, m.WriteTextfile("/nonexistent/wlan.prom"))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.ObserveConnect("no dhcp lease", time.Second)
	p := filepath.Join(t.TempDir(), "wlan.prom")
	require.NoError(t, m.WriteTextfile(p))

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Contains(t, string(b), `wlan_connect_results_total{result="no dhcp lease"} 1`)
}
