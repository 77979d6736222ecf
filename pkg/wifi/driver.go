// Copyright 2019 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wifi

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/u-root/wlan/pkg/shell"
)

// DriverParams names a USB dongle and the kernel module driving it.
type DriverParams struct {
	Vendor  string
	Product string
	Module  string
	// Unload and Load are the pauses after rmmod and modprobe.
	Unload time.Duration
	Load   time.Duration
}

// DefaultDriver is the Ralink RT5370 dongle.
var DefaultDriver = DriverParams{
	Vendor:  "148f",
	Product: "5370",
	Module:  "rt2800usb",
	Unload:  500 * time.Millisecond,
	Load:    5 * time.Second,
}

// ReloadDriver stops the supplicant and, if the dongle is plugged in,
// reloads its kernel module. Some drivers need this to recover from a wedged
// state. It reports whether the module was reloaded cleanly.
func ReloadDriver(ctx context.Context, r shell.Runner, d DriverParams) bool {
	l := log.WithFields(logrus.Fields{
		"device": d.Vendor + ":" + d.Product,
		"module": d.Module,
	})
	r.Run(ctx, "wpa_cli", "terminate")
	sleep(ctx, d.Unload)

	if !r.Run(ctx, "lsusb", "-d", d.Vendor+":"+d.Product).OK() {
		l.Info("Not reloading kernel module, device not found")
		return false
	}

	rc := r.Run(ctx, "rmmod", d.Module).ExitCode
	sleep(ctx, d.Unload)
	rc += r.Run(ctx, "modprobe", d.Module).ExitCode
	sleep(ctx, d.Load)

	l.WithField("rc", rc).Info("Reloaded wifi dongle kernel module")
	return rc == 0
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
