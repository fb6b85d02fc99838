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

	"github.com/spf13/cobra"
)

var treePath string

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print a space's document tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := cmdContext()
		defer cancel()

		c := api()
		sp, err := requireSpace(ctx, c)
		if err != nil {
			return err
		}
		resp, err := c.Tree(ctx, sp.ID, treePath)
		if err != nil {
			return err
		}

		header := sp.Name
		if treePath != "" {
			header += "/" + treePath
		}
		fmt.Println(colorize(ansiBold, header))
		printTree(resp.Nodes, "")
		return nil
	},
}

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the templates available in a space",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := cmdContext()
		defer cancel()

		c := api()
		sp, err := requireSpace(ctx, c)
		if err != nil {
			return err
		}
		templates, err := c.Templates(ctx, sp.ID)
		if err != nil {
			return err
		}
		if len(templates) == 0 {
			fmt.Println("No templates in this space.")
			return nil
		}
		for _, tmpl := range templates {
			fmt.Printf("%s  %s\n", colorize(ansiBold, tmpl.ID),
				colorize(ansiDim, "."+tmpl.Extension))
		}
		return nil
	},
}

func init() {
	treeCmd.Flags().StringVar(&treePath, "path", "", "limit the listing to one folder")
	rootCmd.AddCommand(treeCmd, templatesCmd)
}
