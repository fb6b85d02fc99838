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
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianDocs/services/workspace/datatypes"
)

var (
	parentPath  string
	docTemplate string
	docContent  string
)

var mkdirCmd = &cobra.Command{
	Use:   "mkdir [name]",
	Short: "Create a folder in a space",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := cmdContext()
		defer cancel()

		c := api()
		sp, err := requireSpace(ctx, c)
		if err != nil {
			return err
		}
		resp, err := c.CreateFolder(ctx, datatypes.CreateFolderRequest{
			Name:       args[0],
			SpaceID:    sp.ID,
			ParentPath: parentPath,
		})
		if err != nil {
			return err
		}
		fmt.Println("Created folder", resp.Folder.Path)
		return nil
	},
}

var newCmd = &cobra.Command{
	Use:   "new [title]",
	Short: "Create a document, optionally from a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := cmdContext()
		defer cancel()

		c := api()
		sp, err := requireSpace(ctx, c)
		if err != nil {
			return err
		}
		resp, err := c.CreateDocument(ctx, datatypes.CreateDocumentRequest{
			Title:      args[0],
			SpaceID:    sp.ID,
			FolderPath: parentPath,
			TemplateID: docTemplate,
			Content:    docContent,
		})
		if err != nil {
			return err
		}
		fmt.Println("Created document", resp.Path)
		return nil
	},
}

var putCmd = &cobra.Command{
	Use:   "put [file...]",
	Short: "Upload local files into a space folder",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := cmdContext()
		defer cancel()

		c := api()
		sp, err := requireSpace(ctx, c)
		if err != nil {
			return err
		}

		files := make(map[string][]byte, len(args))
		for _, arg := range args {
			data, err := os.ReadFile(arg)
			if err != nil {
				return err
			}
			files[filepath.Base(arg)] = data
		}

		resp, err := c.Upload(ctx, sp.ID, parentPath, files)
		if err != nil {
			return err
		}
		for _, result := range resp.Results {
			if result.Error != "" {
				fmt.Printf("%s: %s\n", result.Name, colorize(ansiDim, result.Error))
				continue
			}
			fmt.Printf("%s  %s\n", result.Path, colorize(ansiDim, formatSize(result.Size)))
		}
		return nil
	},
}

var mvCmd = &cobra.Command{
	Use:   "mv [path] [new-name]",
	Short: "Rename a file or folder in place",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := cmdContext()
		defer cancel()

		c := api()
		sp, err := requireSpace(ctx, c)
		if err != nil {
			return err
		}
		resp, err := c.Rename(ctx, datatypes.RenameRequest{
			SpaceID: sp.ID,
			OldPath: args[0],
			NewName: args[1],
		})
		if err != nil {
			return err
		}
		fmt.Printf("Renamed %s -> %s\n", args[0], resp.NewPath)
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm [path]",
	Short: "Delete a file or an entire folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := cmdContext()
		defer cancel()

		c := api()
		sp, err := requireSpace(ctx, c)
		if err != nil {
			return err
		}
		if _, err := c.Delete(ctx, datatypes.DeleteRequest{
			SpaceID: sp.ID,
			Path:    args[0],
		}); err != nil {
			return err
		}
		fmt.Println("Deleted", args[0])
		return nil
	},
}

var catCmd = &cobra.Command{
	Use:   "cat [path]",
	Short: "Print a document's content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := cmdContext()
		defer cancel()

		c := api()
		sp, err := requireSpace(ctx, c)
		if err != nil {
			return err
		}
		data, err := c.Content(ctx, sp.ID, args[0])
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}

func init() {
	for _, cmd := range []*cobra.Command{mkdirCmd, newCmd, putCmd} {
		cmd.Flags().StringVarP(&parentPath, "in", "p", "",
			"target folder path (default: space root)")
	}
	newCmd.Flags().StringVar(&docTemplate, "template", "", "template id to seed from")
	newCmd.Flags().StringVar(&docContent, "content", "", "inline document content")
	rootCmd.AddCommand(mkdirCmd, newCmd, putCmd, mvCmd, rmCmd, catCmd)
}
