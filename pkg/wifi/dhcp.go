// Copyright 2019 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wifi

import (
	"context"
	"os"
	"time"
)

// DefaultInternetUpFile is created by the DHCP hooks once a lease is bound.
const DefaultInternetUpFile = "/var/run/internet-up"

// WaitForLease polls for the marker file every tick until timeout. The file
// is checked one last time when the time is up.
func WaitForLease(ctx context.Context, marker string, timeout, tick time.Duration) bool {
	if exists(marker) {
		return true
	}
	if tick <= 0 {
		tick = time.Second
	}
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			if exists(marker) {
				return true
			}
		case <-deadline.C:
			return exists(marker)
		case <-ctx.Done():
			return exists(marker)
		}
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
