// Copyright 2019 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wifi

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/vishvananda/netlink"

	"github.com/u-root/wlan/pkg/shell"
)

// DefaultInternetProbe exits 0 when the Internet is reachable.
const DefaultInternetProbe = "/usr/bin/is_internet"

// sysClassNet is replaced in tests.
var sysClassNet = "/sys/class/net"

// Association describes the network an interface is currently on.
type Association struct {
	ESSID string
	AP    string
	Mode  string
	// Linked is true when the Internet is actually reachable.
	Linked bool
}

// Status asks iwgetid about the current association of iface. probe is the
// command deciding Linked; empty means DefaultInternetProbe. present decides
// whether iface exists at all, nil means IsDevice. A missing interface has
// an empty association and nothing is run.
func Status(ctx context.Context, r shell.Runner, iface, probe string, present func(string) bool) Association {
	var a Association
	if present == nil {
		present = IsDevice
	}
	if !present(iface) {
		return a
	}
	a.ESSID = strings.TrimSpace(r.Run(ctx, "iwgetid", iface, "--raw").Stdout)
	a.AP = strings.TrimSpace(r.Run(ctx, "iwgetid", iface, "--raw", "--ap").Stdout)
	a.Mode = strings.TrimSpace(r.Run(ctx, "iwgetid", iface, "--raw", "--mode").Stdout)
	// Mode 2 is Managed in the Wireless Extensions numbering.
	if a.Mode == "2" {
		a.Mode = "Managed"
	}
	if probe == "" {
		probe = DefaultInternetProbe
	}
	a.Linked = r.Run(ctx, probe).OK()
	return a
}

// IsGateway reports whether the default route goes through iface.
func IsGateway(ctx context.Context, r shell.Runner, iface string) bool {
	out := r.Run(ctx, "ip", "route", "show").Stdout
	re := regexp.MustCompile(`(?m)^default via [0-9.]+ dev ` + regexp.QuoteMeta(iface) + `\b`)
	return re.MatchString(out)
}

// IsDevice reports whether the kernel knows a link called iface.
func IsDevice(iface string) bool {
	if iface == "" {
		return false
	}
	_, err := netlink.LinkByName(iface)
	return err == nil
}

// IsWireless reports whether iface is driven by a wireless driver.
func IsWireless(iface string) bool {
	_, err := os.Stat(filepath.Join(sysClassNet, iface, "wireless"))
	return err == nil
}

// WirelessInterfaces lists the wireless links on the system.
func WirelessInterfaces() ([]string, error) {
	links, err := netlink.LinkList()
	if err != nil {
		return nil, fmt.Errorf("listing links: %w", err)
	}
	var names []string
	for _, l := range links {
		if n := l.Attrs().Name; IsWireless(n) {
			names = append(names, n)
		}
	}
	return names, nil
}
