// Copyright 2019 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/u-root/wlan/pkg/wifi"
)

func newConnectCmd(a *app) *cobra.Command {
	var (
		essid, encryption, key, conf string
		timeout                      time.Duration
		save, cached, debug          bool
	)
	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Join a network and wait for a DHCP lease",
		Long: `Join a network and wait for a DHCP lease.

The exit status is the result: 0 connected, 1 bad password, 2 access point
not in range, 3 no DHCP lease, 4 incorrect password length, 5 internal error.
A key starting with "hex" is taken as hexadecimal key material.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cached {
				e, ok := a.cache().Latest()
				if essid != "" {
					e, ok = a.cache().Get(essid)
				}
				if !ok {
					return fmt.Errorf("no cached network %q", essid)
				}
				essid, encryption, key, conf = e.ESSID, e.Encryption, e.EncKey, e.ConfPath()
			}
			enc, err := wifi.ParseEncryption(encryption)
			if err != nil {
				return err
			}
			if essid == "" && conf == "" {
				return fmt.Errorf("--essid or --conf is required")
			}
			if timeout <= 0 {
				timeout = a.cfg.Timeouts.Lease
			}

			w, err := a.newWiFi(cmd.Context(), "")
			if err != nil {
				return err
			}
			r := w.Connect(cmd.Context(), wifi.ConnectParams{
				Interface:  a.cfg.Interface,
				ESSID:      essid,
				Encryption: enc,
				Secret:     key,
				ConfigPath: conf,
				Timeout:    int((timeout + time.Second - 1) / time.Second),
				Debug:      debug,
			})
			fmt.Fprintln(cmd.OutOrStdout(), r)
			if r != wifi.Connected {
				return &resultError{r}
			}
			if save {
				if err := a.cache().Save(essid, enc.String(), key, conf); err != nil {
					log.WithError(err).Warn("Could not cache the network")
				}
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&essid, "essid", "e", "", "network name")
	f.StringVar(&encryption, "encryption", "off", "off, wep or wpa")
	f.StringVarP(&key, "key", "k", "", "passphrase or key")
	f.StringVar(&conf, "conf", "", "use this wpa_supplicant configuration as is")
	f.DurationVar(&timeout, "timeout", 0, "DHCP lease timeout (default from config)")
	f.BoolVar(&save, "save", false, "remember the network once connected")
	f.BoolVar(&cached, "cached", false, "join the remembered network, or --essid if it is the one remembered")
	f.BoolVar(&debug, "debug", false, "log every supplicant event")
	return cmd
}

func newDisconnectCmd(a *app) *cobra.Command {
	var clearCache bool
	cmd := &cobra.Command{
		Use:   "disconnect",
		Short: "Leave the current network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := a.newWiFi(cmd.Context(), "")
			if err != nil {
				return err
			}
			w.Disconnect(cmd.Context(), a.cfg.Interface, clearCache)
			log.WithFields(logrus.Fields{
				"interface":   a.cfg.Interface,
				"clear_cache": clearCache,
			}).Debug("Disconnect done")
			return nil
		},
	}
	cmd.Flags().BoolVar(&clearCache, "clear-cache", false, "also forget the remembered network")
	return cmd
}
