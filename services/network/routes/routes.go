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
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/prabhakarm7/sn-graph-sub000/services/network/cache"
	"github.com/prabhakarm7/sn-graph-sub000/services/network/handlers"
	"github.com/prabhakarm7/sn-graph-sub000/services/network/middleware"
	"github.com/prabhakarm7/sn-graph-sub000/services/network/retrieval"
)

// SetupRoutes wires the HTTP surface of the network service.
func SetupRoutes(
	router *gin.Engine,
	svc *retrieval.Service,
	fc *cache.FilterOptionCache,
	apiKey string,
	log *slog.Logger,
) {
	router.Use(otelgin.Middleware("network"))
	router.Use(middleware.RequestID(log))

	router.GET("/health", handlers.HealthCheck(svc))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API version 1 group
	v1 := router.Group("/v1")
	v1.Use(middleware.APIKeyAuth(apiKey))
	{
		v1.POST("/network", handlers.GetNetwork(svc))
		v1.GET("/filters/:region", handlers.GetFilterOptions(svc))

		// Cache administration routes
		cacheAdmin := v1.Group("/cache")
		{
			cacheAdmin.GET("/stats", handlers.GetCacheStats(fc))
			cacheAdmin.DELETE("/:region", handlers.InvalidateCacheRegion(fc))
			cacheAdmin.DELETE("", handlers.InvalidateCache(fc))
		}
	}
}
