// Copyright 2019 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"

	"github.com/spf13/cobra"
)

func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Show or forget the remembered network",
	}

	var reveal bool
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the remembered network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, ok := a.cache().Latest()
			if !ok {
				return errors.New("no network remembered")
			}
			if !reveal && e.EncKey != "" {
				e.EncKey = "********"
			}
			return writeJSON(cmd.OutOrStdout(), e)
		},
	}
	show.Flags().BoolVar(&reveal, "reveal", false, "print the key too")

	empty := &cobra.Command{
		Use:   "empty",
		Short: "Forget the remembered network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cache().Empty()
		},
	}

	cmd.AddCommand(show, empty)
	return cmd
}
