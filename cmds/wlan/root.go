// Copyright 2019 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/u-root/wlan/pkg/config"
	"github.com/u-root/wlan/pkg/country"
	"github.com/u-root/wlan/pkg/dhclient"
	"github.com/u-root/wlan/pkg/logging"
	"github.com/u-root/wlan/pkg/metrics"
	"github.com/u-root/wlan/pkg/shell"
	"github.com/u-root/wlan/pkg/wifi"
	"github.com/u-root/wlan/pkg/wificache"
)

var log = logrus.WithField("module", "wlan")

// app is what every subcommand shares. The func fields reach the system and
// are replaced in tests.
type app struct {
	v       *viper.Viper
	cfg     *config.Config
	runner  shell.Runner
	metrics *metrics.Metrics
	getenv  func(string) string

	// newWiFi builds the scan/connect backend.
	newWiFi    func(ctx context.Context, transcript string) (wifi.WiFi, error)
	interfaces func() ([]string, error)
	isDevice   func(string) bool
}

func newApp() *app {
	a := &app{
		v:          viper.New(),
		cfg:        config.Default(),
		runner:     &shell.Exec{},
		metrics:    metrics.New(),
		getenv:     os.Getenv,
		interfaces: wifi.WirelessInterfaces,
		isDevice:   wifi.IsDevice,
	}
	a.newWiFi = a.systemWiFi
	return a
}

// resultError carries a connection result out as the exit status.
type resultError struct {
	r wifi.Result
}

func (e *resultError) Error() string {
	return e.r.String()
}

// run executes the command line and writes the metrics textfile whatever
// the outcome.
func run(ctx context.Context, a *app, args []string) error {
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if werr := a.metrics.WriteTextfile(a.cfg.MetricsFile); werr != nil {
		log.WithError(werr).Warn("Could not write metrics textfile")
	}
	return err
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:          "wlan",
		Short:        "Scan for and join wireless networks",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.configure(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", config.DefaultPath, "YAML configuration file")
	pf.StringP("interface", "i", "", "wireless interface (default from config, wlan0)")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.Bool("log-json", false, "log in JSON")
	pf.String("metrics-file", "", "write Prometheus metrics to this textfile")

	a.v.SetEnvPrefix("WLAN")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	if err := a.v.BindPFlags(pf); err != nil {
		log.WithError(err).Warn("Could not bind flags")
	}

	root.AddCommand(
		newScanCmd(a),
		newConnectCmd(a),
		newDisconnectCmd(a),
		newStatusCmd(a),
		newInterfacesCmd(a),
		newCacheCmd(a),
		newReloadDriverCmd(a),
		newConfigCmd(a),
	)
	return root
}

// configure loads the YAML file and lays flags and WLAN_* variables over it.
func (a *app) configure(cmd *cobra.Command) error {
	cfg, err := config.Load(a.v.GetString("config"))
	if err != nil {
		return err
	}
	if s := a.v.GetString("interface"); s != "" {
		cfg.Interface = s
	}
	if s := a.v.GetString("log-level"); s != "" {
		cfg.Logging.Level = s
	}
	if a.v.GetBool("log-json") {
		cfg.Logging.JSON = true
	}
	if s := a.v.GetString("metrics-file"); s != "" {
		cfg.MetricsFile = s
	}
	a.cfg = cfg
	logging.Init(cfg.Logging.Level, cfg.Logging.JSON, cmd.ErrOrStderr())
	log.WithFields(logrus.Fields{
		"config":    a.v.GetString("config"),
		"interface": cfg.Interface,
	}).Debug("Configured")
	return nil
}

func (a *app) country() country.Resolver {
	r := country.FromEnv(a.getenv)
	if a.cfg.Country != "" {
		r.Override = a.cfg.Country
	}
	return r
}

func (a *app) cache() *wificache.Cache {
	return wificache.New(a.cfg.Paths.Cache)
}

// systemWiFi wires the iwlist/wpa_supplicant backend from the configuration.
func (a *app) systemWiFi(ctx context.Context, transcript string) (wifi.WiFi, error) {
	c := a.cfg
	if transcript == "" && !a.isDevice(c.Interface) {
		return nil, fmt.Errorf("%s: no such network interface", c.Interface)
	}
	w := wifi.NewIWLWorker(ctx, a.runner, c.Interface, a.country())
	w.Scanner.Transcript = transcript
	w.Scanner.Budget = c.Timeouts.ScanBudget
	w.Scanner.Pause = c.Timeouts.ScanPause
	w.Scanner.Metrics = a.metrics

	w.Connector.SupplicantConfig = c.Paths.SupplicantConfig
	w.Connector.SupplicantLog = c.Paths.SupplicantLog
	w.Connector.CtrlInterface = c.Paths.CtrlInterface
	w.Connector.InternetUpFile = c.Paths.InternetUp
	w.Connector.DisconnectSettle = c.Timeouts.DisconnectSettle
	w.Connector.Owner = &wifi.Owner{PIDFile: c.Paths.PIDFile}
	w.Connector.Cache = a.cache()
	w.Connector.Metrics = a.metrics
	if c.DHCP.InProcess {
		w.Connector.Lease = dhclient.Lease(dhclient.Config{
			PacketTimeout: c.DHCP.PacketTimeout,
			Retries:       c.DHCP.Retries,
			Verbose:       c.Logging.Level == "debug",
		}, c.Paths.InternetUp)
	}
	return w, nil
}
