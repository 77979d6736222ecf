// Copyright 2019 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// wlan scans for and joins wireless networks.
//
// Synopsis:
//
//	wlan [--interface IF] [--config FILE] COMMAND
//
// Commands:
//
//	scan            list networks, strongest first
//	connect         join a network and wait for a DHCP lease
//	disconnect      leave the current network
//	status          show the current association
//	interfaces      list wireless interfaces
//	cache show      show the last network joined
//	cache empty     forget it
//	reload-driver   reload the dongle's kernel module
//
// connect exits with the attempt's result code: 0 connected, 1 bad
// password, 2 access point not in range, 3 no DHCP lease, 4 incorrect
// password length, 5 internal error. Every other failure exits 5 as well.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"golang.org/x/sys/unix"

	"github.com/u-root/wlan/pkg/wifi"
)

func main() {
	// SIGTERM is how a newer connection attempt takes over.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, unix.SIGTERM)
	err := run(ctx, newApp(), os.Args[1:])
	stop()
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var re *resultError
	if errors.As(err, &re) {
		return int(re.r)
	}
	return int(wifi.InternalError)
}
