// Copyright 2019 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// buildimage builds a u-root initramfs carrying the wireless tools and the
// wlan command. Run it with "go run .".
package main

import (
	"os"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
)

var (
	verbose = flag.BoolP("verbose", "v", true, "verbose debugging output")
	uroot   = flag.StringP("uroot", "u", "", "options for u-root")
	cmds    = flag.StringP("cmds", "c", "core", "u-root commands to build into the image")
	wcmds   = flag.StringP("wlan", "w", "github.com/u-root/wlan/cmds/wlan github.com/u-root/wlan/cmds/wifiDebug", "wlan commands to build into the image")
	conf    = flag.String("config", "", "optional wlan.yaml to embed as /etc/wlan/wlan.yaml")
)

// tools are the host binaries the wireless code runs.
var tools = []string{
	"iw",
	"iwconfig",
	"iwlist",
	"iwgetid",
	"wpa_supplicant",
	"wpa_cli",
}

// extraBinMust finds n on the host or gives up.
func extraBinMust(n string) string {
	p, err := exec.LookPath(n)
	if err != nil {
		logrus.WithError(err).WithField("tool", n).Fatal("Missing host tool")
	}
	return p
}

func main() {
	flag.Parse()
	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	args := []string{"go", "run", "github.com/u-root/u-root/."}
	for _, t := range tools {
		args = append(args, "-files", extraBinMust(t))
	}
	if *conf != "" {
		args = append(args, "-files", *conf+":etc/wlan/wlan.yaml")
	}
	args = append(args, strings.Fields(*uroot)...)
	args = append(args, *cmds)
	args = append(args, strings.Fields(*wcmds)...)

	for _, cmd := range [][]string{{"date"}, args} {
		logrus.WithField("cmd", strings.Join(cmd, " ")).Debug("Run")
		c := exec.Command(cmd[0], cmd[1:]...)
		c.Stdout, c.Stderr = os.Stdout, os.Stderr
		if err := c.Run(); err != nil {
			logrus.WithError(err).WithField("cmd", cmd[0]).Fatal("Build step failed")
		}
	}
	logrus.Debug("done")
}
