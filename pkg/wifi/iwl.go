// Copyright 2018 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wifi

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/u-root/wlan/pkg/country"
	"github.com/u-root/wlan/pkg/metrics"
	"github.com/u-root/wlan/pkg/shell"
)

const (
	// DefaultScanBudget bounds the iwlist retry loop.
	DefaultScanBudget = 5 * time.Second
	// DefaultScanPause separates two empty scans.
	DefaultScanPause = 200 * time.Millisecond
)

// Scanner lists access points with the Wireless Extensions iwlist command.
type Scanner struct {
	Runner    shell.Runner
	Interface string
	// Transcript, if set, names a file holding iwlist output that is read
	// instead of running iwlist. Handy for reproducing odd neighbourhoods.
	Transcript string
	Budget     time.Duration
	Pause      time.Duration
	Log        *logrus.Entry
	Metrics    *metrics.Metrics
}

// NewScanner returns a Scanner for iface and announces the regulatory
// domain to the driver so channels above 11 get scanned too.
func NewScanner(ctx context.Context, r shell.Runner, iface string, cc country.Resolver) *Scanner {
	cc.Apply(ctx, r)
	return &Scanner{
		Runner:    r,
		Interface: iface,
		Budget:    DefaultScanBudget,
		Pause:     DefaultScanPause,
	}
}

// Scan keeps scanning until at least one cell shows up or the budget runs
// out. Some dongle drivers return an empty list on the first tries.
func (s *Scanner) Scan(ctx context.Context) (map[string]Cell, error) {
	l := orDefault(s.Log).WithField("interface", s.Interface)
	budget, pause := s.Budget, s.Pause
	if budget <= 0 {
		budget = DefaultScanBudget
	}
	if pause <= 0 {
		pause = DefaultScanPause
	}

	var (
		cells map[string]Cell
		err   error
		tries int
		start = time.Now()
	)
	for len(cells) == 0 && time.Since(start) < budget {
		tries++
		var raw []byte
		if raw, err = s.raw(ctx); err != nil {
			break
		}
		if len(strings.TrimSpace(string(raw))) > 0 {
			cells = parseIwlist(raw, l)
		}
		l.WithField("cells", len(cells)).Debug("Scan attempt finished")
		if len(cells) > 0 {
			break
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
		case <-time.After(pause):
		}
		if err != nil {
			break
		}
	}

	elapsed := time.Since(start)
	l.WithFields(logrus.Fields{
		"cells":   len(cells),
		"tries":   tries,
		"elapsed": elapsed.Round(time.Millisecond).String(),
	}).Info("Scan finished")
	s.Metrics.ObserveScan(tries, len(cells), elapsed)
	if cells == nil {
		cells = map[string]Cell{}
	}
	return cells, err
}

// Networks scans and returns the ranked, deduplicated list.
func (s *Scanner) Networks(ctx context.Context, opt ListOptions) ([]Network, error) {
	cells, err := s.Scan(ctx)
	if err != nil {
		return nil, err
	}
	return BuildNetworks(cells, opt), nil
}

// raw brings the interface up, the scan does not proceed otherwise, and
// returns one batch of iwlist output.
func (s *Scanner) raw(ctx context.Context) ([]byte, error) {
	if r := s.Runner.Run(ctx, "ip", "link", "set", "dev", s.Interface, "up"); !r.OK() {
		orDefault(s.Log).WithFields(logrus.Fields{
			"interface": s.Interface,
			"rc":        r.ExitCode,
			"stderr":    strings.TrimSpace(r.Stderr),
		}).Warn("Could not bring interface up")
	}
	if s.Transcript != "" {
		b, err := os.ReadFile(s.Transcript)
		if err != nil {
			return nil, fmt.Errorf("iwlist transcript: %w", err)
		}
		return b, nil
	}
	r := s.Runner.Run(ctx, "iwlist", s.Interface, "scan")
	if r.Err != nil {
		return nil, fmt.Errorf("iwlist: %w", r.Err)
	}
	return []byte(r.Stdout), nil
}
