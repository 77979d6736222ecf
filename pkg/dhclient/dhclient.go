// Copyright 2019 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dhclient obtains a DHCPv4 lease in-process and announces it the
// way the external client's hooks do, by creating the internet-up marker.
package dhclient

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/u-root/u-root/pkg/dhclient"
	"github.com/vishvananda/netlink"
)

var log = logrus.WithField("module", "dhclient")

// Config tunes the DHCP exchange.
type Config struct {
	// PacketTimeout is the wait for each reply.
	PacketTimeout time.Duration
	Retries       int
	// LinkUpTimeout bounds the wait for the interface to come up.
	LinkUpTimeout time.Duration
	Verbose       bool
}

// linkByName is replaced in tests.
var linkByName = netlink.LinkByName

// Request configures iface with a DHCPv4 lease and creates marker on
// success. It gives up when ctx is done.
func Request(ctx context.Context, iface string, c Config, marker string) error {
	link, err := linkByName(iface)
	if err != nil {
		return fmt.Errorf("can't find link %s: %w", iface, err)
	}
	if c.PacketTimeout <= 0 {
		c.PacketTimeout = 5 * time.Second
	}
	if c.LinkUpTimeout <= 0 {
		c.LinkUpTimeout = 30 * time.Second
	}

	dc := dhclient.Config{
		Timeout: c.PacketTimeout,
		Retries: c.Retries,
	}
	if c.Verbose {
		dc.LogLevel = dhclient.LogSummary
	}
	l := log.WithField("interface", iface)
	l.Debug("Requesting DHCPv4 lease")

	r := dhclient.SendRequests(ctx, []netlink.Link{link}, true, false, dc, c.LinkUpTimeout)
	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("dhcp on %s: %w", iface, ctx.Err())
		case result, ok := <-r:
			if !ok {
				return fmt.Errorf("dhcp on %s: no lease", iface)
			}
			if result.Err != nil {
				l.WithError(result.Err).Debug("DHCP request failed")
				continue
			}
			if err := result.Lease.Configure(); err != nil {
				return fmt.Errorf("could not configure %s: %w", iface, err)
			}
			l.WithField("lease", fmt.Sprint(result.Lease)).Info("Configured interface")
			return markUp(marker)
		}
	}
}

// markUp creates the marker file the connection code polls for.
func markUp(marker string) error {
	if marker == "" {
		return nil
	}
	f, err := os.OpenFile(marker, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("internet-up marker: %w", err)
	}
	return f.Close()
}

// Lease adapts Request to the connection code's in-process lease hook.
func Lease(c Config, marker string) func(ctx context.Context, iface string) error {
	return func(ctx context.Context, iface string) error {
		return Request(ctx, iface, c, marker)
	}
}
