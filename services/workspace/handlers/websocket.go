// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/AleutianAI/AleutianDocs/services/workspace/datatypes"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // local service, the listener is bound to loopback
	},
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
}

const (
	// writeWait bounds a single event write to a stuck client.
	writeWait = 10 * time.Second

	// pingPeriod keeps idle connections alive through proxies.
	pingPeriod = 30 * time.Second
)

// HandleEventsWebSocket upgrades the connection and streams change
// events to the client. An optional spaceId query narrows the stream to
// one space; without it every space's events are delivered.
//
// Events for one connection arrive in publish order. A client that
// cannot keep up loses events rather than stalling the hub, and is
// expected to reconcile with a fresh tree fetch on reconnect.
func HandleEventsWebSocket(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		spaceFilter := c.Query("spaceId")

		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			deps.Logger.Error("websocket upgrade failed", "error", err)
			return
		}
		defer ws.Close()

		sub := deps.Hub.Subscribe()
		defer sub.Cancel()

		if deps.Metrics != nil {
			deps.Metrics.ConnectedClients.Inc()
			defer deps.Metrics.ConnectedClients.Dec()
		}
		deps.Logger.Info("push channel client connected", "space_filter", spaceFilter)

		// Reader goroutine: we never expect client frames, but reading
		// is what surfaces close frames and connection loss.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := ws.ReadMessage(); err != nil {
					return
				}
			}
		}()

		pinger := time.NewTicker(pingPeriod)
		defer pinger.Stop()

		for {
			select {
			case <-done:
				deps.Logger.Info("push channel client disconnected")
				return
			case ev, ok := <-sub.C:
				if !ok {
					return
				}
				if spaceFilter != "" && ev.Space.ID != spaceFilter {
					continue
				}
				if err := writeEvent(ws, ev); err != nil {
					deps.Logger.Warn("push channel write failed", "error", err)
					return
				}
			case <-pinger.C:
				ws.SetWriteDeadline(time.Now().Add(writeWait))
				if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}
}

func writeEvent(ws *websocket.Conn, ev datatypes.ChangeEvent) error {
	ws.SetWriteDeadline(time.Now().Add(writeWait))
	return ws.WriteJSON(ev)
}
