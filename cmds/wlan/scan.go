// Copyright 2019 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/u-root/wlan/pkg/wifi"
)

func newScanCmd(a *app) *cobra.Command {
	var (
		transcript string
		opt        wifi.ListOptions
		asJSON     bool
	)
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "List networks in range, strongest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := a.newWiFi(cmd.Context(), transcript)
			if err != nil {
				return err
			}
			nets, err := w.Networks(cmd.Context(), opt)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), nets)
			}
			return writeNetworks(cmd.OutOrStdout(), nets)
		},
	}
	f := cmd.Flags()
	f.StringVar(&transcript, "transcript", "", "parse this saved iwlist output instead of scanning")
	f.BoolVar(&opt.OpenOnly, "open", false, "only list networks without encryption")
	f.BoolVar(&opt.First, "first", false, "only list the best network")
	f.BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func writeNetworks(out io.Writer, nets []wifi.Network) error {
	table := tablewriter.NewWriter(out)
	table.Header("ESSID", "Encryption", "Quality", "Signal", "Channel")
	for _, n := range nets {
		if err := table.Append([]string{n.ESSID, n.Encryption.String(), n.Quality, n.Signal, n.Channel}); err != nil {
			return err
		}
	}
	return table.Render()
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
