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
	"os/signal"
	"syscall"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianDocs/services/workspace/datatypes"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream change events from the push channel",
	Long: `watch subscribes to the workspace push channel and prints every
change event as it arrives. With --space only that space's events are
shown. Stop with Ctrl-C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(),
			syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		c := api()
		spaceID := ""
		if spaceName != "" {
			sp, err := c.SpaceByName(ctx, spaceName)
			if err != nil {
				return err
			}
			spaceID = sp.ID
		}

		ws, resp, err := websocket.DefaultDialer.DialContext(ctx, c.EventsURL(spaceID), nil)
		if err != nil {
			return fmt.Errorf("connect to push channel: %w", err)
		}
		if resp != nil {
			resp.Body.Close()
		}
		defer ws.Close()

		go func() {
			<-ctx.Done()
			ws.Close()
		}()

		fmt.Println(colorize(ansiDim, "watching for changes, Ctrl-C to stop"))
		for {
			var ev datatypes.ChangeEvent
			if err := ws.ReadJSON(&ev); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			fmt.Println(eventLine(ev))
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
