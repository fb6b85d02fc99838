// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AleutianAI/AleutianDocs/services/workspace/handlers"
	"github.com/AleutianAI/AleutianDocs/services/workspace/middleware"
)

// SetupRoutes wires the workspace API onto the router. Mutations share
// one rate limiter; reads, content fetches, and the push channel are
// unlimited.
func SetupRoutes(router *gin.Engine, deps *handlers.Deps, limits middleware.RateLimitConfig) {
	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	limited := middleware.RateLimit(limits)

	v1 := router.Group("/v1")
	{
		spaces := v1.Group("/spaces")
		{
			spaces.GET("", handlers.ListSpaces(deps))
			spaces.POST("", limited, handlers.CreateSpace(deps))
			spaces.GET("/:spaceId", handlers.GetSpace(deps))
			spaces.DELETE("/:spaceId", limited, handlers.DeleteSpace(deps))
			spaces.GET("/:spaceId/tree", handlers.GetTree(deps))
			spaces.GET("/:spaceId/templates", handlers.ListTemplates(deps))
		}

		v1.POST("/folders", limited, handlers.CreateFolder(deps))
		v1.POST("/documents", limited, handlers.CreateDocument(deps))
		v1.POST("/documents/upload", limited, handlers.Upload(deps))
		v1.GET("/documents/content", handlers.GetContent(deps))
		v1.PUT("/documents/content", limited, handlers.PutContent(deps))
		v1.POST("/rename", limited, handlers.Rename(deps))
		v1.POST("/delete", limited, handlers.Delete(deps))

		v1.GET("/events/ws", handlers.HandleEventsWebSocket(deps))
	}
}
