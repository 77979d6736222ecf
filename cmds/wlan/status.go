// Copyright 2019 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/u-root/wlan/pkg/wifi"
)

type status struct {
	Interface string `json:"interface"`
	ESSID     string `json:"essid"`
	AP        string `json:"ap"`
	Mode      string `json:"mode"`
	Linked    bool   `json:"linked"`
	Gateway   bool   `json:"gateway"`
}

func newStatusCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current association",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			iface := a.cfg.Interface
			as := wifi.Status(ctx, a.runner, iface, a.cfg.Paths.InternetProbe, a.isDevice)
			s := status{
				Interface: iface,
				ESSID:     as.ESSID,
				AP:        as.AP,
				Mode:      as.Mode,
				Linked:    as.Linked,
				Gateway:   wifi.IsGateway(ctx, a.runner, iface),
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), s)
			}
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header("Interface", "ESSID", "AP", "Mode", "Linked", "Gateway")
			if err := table.Append([]string{s.Interface, s.ESSID, s.AP, s.Mode,
				strconv.FormatBool(s.Linked), strconv.FormatBool(s.Gateway)}); err != nil {
				return err
			}
			return table.Render()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newInterfacesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "interfaces",
		Short: "List wireless interfaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := a.interfaces()
			if err != nil {
				return err
			}
			if len(names) == 0 {
				return errors.New("no wireless interfaces")
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}

func newReloadDriverCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reload-driver",
		Short: "Reload the wifi dongle's kernel module",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := a.cfg.DriverParams()
			if !wifi.ReloadDriver(cmd.Context(), a.runner, d) {
				return fmt.Errorf("could not reload %s for %s:%s", d.Module, d.Vendor, d.Product)
			}
			return nil
		},
	}
}
