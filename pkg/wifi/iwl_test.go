// Copyright 2018 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wifi

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/u-root/wlan/pkg/country"
	"github.com/u-root/wlan/pkg/metrics"
	"github.com/u-root/wlan/pkg/shell"
	"github.com/u-root/wlan/pkg/tlog"
)

func testScanner(t *testing.T, f *shell.Fake) *Scanner {
	return &Scanner{
		Runner:    f,
		Interface: "wlan0",
		Budget:    time.Second,
		Pause:     time.Millisecond,
		Log:       tlog.Logger(t, "wifi"),
	}
}

func TestScanRetriesUntilCells(t *testing.T) {
	f := &shell.Fake{}
	f.Respond("iwlist wlan0 scan",
		shell.Result{},
		shell.Result{Stdout: "wlan0     Interface doesn't support scanning : Device or resource busy\n"},
		shell.Result{Stdout: string(readTranscript(t, "iwlist.txt"))},
	)
	m := metrics.New()
	s := testScanner(t, f)
	s.Metrics = m

	cells, err := s.Scan(context.Background())
	require.NoError(t, err)
	assert.Len(t, cells, 5)

	var scans int
	for _, c := range f.Calls() {
		if c == "iwlist wlan0 scan" {
			scans++
		}
	}
	assert.Equal(t, 3, scans)
	assert.True(t, f.Called("ip link set dev wlan0 up"))
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(`
# HELP wlan_scan_attempts_total Number of iwlist invocations, including retries.
# TYPE wlan_scan_attempts_total counter
wlan_scan_attempts_total 3
# HELP wlan_scan_cells Cells found by the most recent scan.
# TYPE wlan_scan_cells gauge
wlan_scan_cells 5
`), "wlan_scan_attempts_total", "wlan_scan_cells"))
}

func TestScanBudgetExhausted(t *testing.T) {
	f := &shell.Fake{}
	s := testScanner(t, f)
	s.Budget = 20 * time.Millisecond

	cells, err := s.Scan(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, cells)
	assert.Empty(t, cells)
	assert.True(t, f.Called("iwlist wlan0 scan"))
}

func TestScanCancelled(t *testing.T) {
	f := &shell.Fake{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cells, err := testScanner(t, f).Scan(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, cells)
}

func TestScanRunnerError(t *testing.T) {
	f := &shell.Fake{}
	boom := errors.New("exec: iwlist: not found")
	f.Respond("iwlist", shell.Result{ExitCode: -1, Err: boom})

	_, err := testScanner(t, f).Scan(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestScanTranscript(t *testing.T) {
	f := &shell.Fake{}
	s := testScanner(t, f)
	s.Transcript = "testdata/iwlist.txt"

	nets, err := s.Networks(context.Background(), ListOptions{First: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"HomeNet"}, essids(nets))
	assert.False(t, f.Called("iwlist"))
}

func TestScanMissingTranscript(t *testing.T) {
	s := testScanner(t, &shell.Fake{})
	s.Transcript = "testdata/does-not-exist"

	_, err := s.Networks(context.Background(), ListOptions{})
	assert.Error(t, err)
}

func TestNewScannerSetsCountry(t *testing.T) {
	f := &shell.Fake{}
	s := NewScanner(context.Background(), f, "wlan1", country.Resolver{Override: "de"})
	assert.True(t, f.Called("iw reg set DE"))
	assert.Equal(t, DefaultScanBudget, s.Budget)
	assert.Equal(t, DefaultScanPause, s.Pause)
	assert.Equal(t, "wlan1", s.Interface)
}
