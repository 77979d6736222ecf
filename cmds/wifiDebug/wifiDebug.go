// Copyright 2021 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// wifiDebug prints every cell the iwlist parser sees, before deduplication
// and hidden network filtering. Feed it a saved transcript from a user's
// machine to find out what their driver reports.
//
// Synopsis:
//
//	wifiDebug [-i wlan0] [--json] [TRANSCRIPT]
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"github.com/u-root/wlan/pkg/logging"
	"github.com/u-root/wlan/pkg/shell"
	"github.com/u-root/wlan/pkg/wifi"
)

var (
	iface   = flag.StringP("interface", "i", "wlan0", "interface to scan when no transcript is given")
	asJSON  = flag.Bool("json", false, "print JSON")
	verbose = flag.BoolP("verbose", "v", false, "log parser warnings and commands")
)

func main() {
	flag.Parse()
	level := "warn"
	if *verbose {
		level = "debug"
	}
	logging.Init(level, false, os.Stderr)

	raw, err := read(context.Background(), &shell.Exec{}, flag.Arg(0), *iface)
	if err != nil {
		logrus.WithError(err).Fatal("No scan output")
	}
	if err := dump(os.Stdout, raw, *asJSON); err != nil {
		logrus.WithError(err).Fatal("Dump failed")
	}
}

// read returns the transcript, or one live scan of iface.
func read(ctx context.Context, r shell.Runner, transcript, iface string) ([]byte, error) {
	if transcript != "" {
		return os.ReadFile(transcript)
	}
	res := r.Run(ctx, "iwlist", iface, "scan")
	if !res.OK() {
		return nil, fmt.Errorf("iwlist %s scan: rc %d: %v %s", iface, res.ExitCode, res.Err, strings.TrimSpace(res.Stderr))
	}
	return []byte(res.Stdout), nil
}

func dump(out io.Writer, raw []byte, asJSON bool) error {
	cells := wifi.ParseIwlist(raw)
	keys := wifi.CellOrder(cells)

	if asJSON {
		list := make([]wifi.Cell, 0, len(keys))
		for _, k := range keys {
			list = append(list, cells[k])
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}
	for _, k := range keys {
		c := cells[k]
		essid := "<hidden>"
		if c.HasESSID {
			essid = strconv.Quote(c.ESSID)
		}
		fmt.Fprintf(out, "Cell %s %s %s ch=%s freq=%s quality=%s signal=%s noise=%s key=%s mode=%s proto=%s\n",
			c.Number, c.MAC, essid, c.Channel, c.Frequency, c.Quality, c.Signal, c.Noise, c.Encryption, c.Mode, c.Protocol)
		for _, ie := range c.IE {
			fmt.Fprintf(out, "\tIE: %s\n", ie)
		}
		for _, x := range c.Extra {
			fmt.Fprintf(out, "\tExtra: %s\n", x)
		}
	}
	return nil
}
