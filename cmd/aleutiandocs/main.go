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
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/AleutianDocs/pkg/client"
	"github.com/AleutianAI/AleutianDocs/services/workspace/spaces"
)

// cliConfig holds the optional defaults read from cli.yaml. Flags
// given on the command line always win.
type cliConfig struct {
	Server string `yaml:"server"`
	Space  string `yaml:"space"`
}

var (
	serverURL string
	spaceName string

	rootCmd = &cobra.Command{
		Use:   "aleutiandocs",
		Short: "A CLI for the Aleutian document workspace",
		Long: `aleutiandocs manages document spaces served by the workspace
service: list and create spaces, inspect their trees, and create,
upload, rename, and delete documents and folders.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadCLIConfig(cmd)
		},
	}
)

// loadCLIConfig applies defaults from ALEUTIAN_DOCS_CLI_CONFIG or
// ~/.aleutian/docs/cli.yaml when the file exists.
func loadCLIConfig(cmd *cobra.Command) error {
	path := os.Getenv("ALEUTIAN_DOCS_CLI_CONFIG")
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		path = filepath.Join(home, ".aleutian", "docs", "cli.yaml")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	var cfg cliConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Server != "" && !cmd.Flags().Changed("server") {
		serverURL = cfg.Server
	}
	if cfg.Space != "" && !cmd.Flags().Changed("space") {
		spaceName = cfg.Space
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server",
		"http://127.0.0.1:8985", "workspace service base URL")
	rootCmd.PersistentFlags().StringVarP(&spaceName, "space", "s", "",
		"space name (required for tree and document commands)")
}

// api returns the client for the configured server.
func api() *client.APIClient {
	return client.NewAPIClient(serverURL)
}

// cmdContext returns the context document commands run under.
func cmdContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 2*time.Minute)
}

// requireSpace resolves the --space flag to a registered space.
func requireSpace(ctx context.Context, c *client.APIClient) (spaces.Space, error) {
	if spaceName == "" {
		return spaces.Space{}, fmt.Errorf("--space is required")
	}
	return c.SpaceByName(ctx, spaceName)
}
