// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var spacesCmd = &cobra.Command{
	Use:   "spaces",
	Short: "Manage document spaces",
}

var spacesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all registered spaces",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := cmdContext()
		defer cancel()

		list, err := api().Spaces(ctx)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Println("No spaces registered.")
			return nil
		}
		for _, sp := range list {
			created := time.UnixMilli(sp.CreatedAt).Format("2006-01-02")
			fmt.Printf("%s  %s  %s\n",
				colorize(ansiBold, sp.Name),
				colorize(ansiDim, created),
				sp.Root)
		}
		return nil
	},
}

var spacesCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Register a new space",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := cmdContext()
		defer cancel()

		sp, err := api().CreateSpace(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Created space %s at %s\n", colorize(ansiBold, sp.Name), sp.Root)
		return nil
	},
}

var spacesRmCmd = &cobra.Command{
	Use:   "rm [name]",
	Short: "Unregister a space (documents stay on disk)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := cmdContext()
		defer cancel()

		c := api()
		sp, err := c.SpaceByName(ctx, args[0])
		if err != nil {
			return err
		}
		if err := c.DeleteSpace(ctx, sp.ID); err != nil {
			return err
		}
		fmt.Printf("Unregistered space %s; files remain at %s\n", sp.Name, sp.Root)
		return nil
	},
}

func init() {
	spacesCmd.AddCommand(spacesListCmd, spacesCreateCmd, spacesRmCmd)
	rootCmd.AddCommand(spacesCmd)
}
