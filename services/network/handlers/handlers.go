// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package handlers maps the retrieval service onto HTTP. Handlers stay
// thin: bind, call, translate. The pipeline's structured failure result
// becomes a 503; everything else the pipeline produces is a 200 with a
// well-formed body.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prabhakarm7/sn-graph-sub000/pkg/validation"
	"github.com/prabhakarm7/sn-graph-sub000/services/network/cache"
	"github.com/prabhakarm7/sn-graph-sub000/services/network/datatypes"
	"github.com/prabhakarm7/sn-graph-sub000/services/network/retrieval"
)

// NetworkRequest is the POST /v1/network body.
type NetworkRequest struct {
	Region              string              `json:"region" binding:"required"`
	Filters             map[string][]string `json:"filters"`
	RecommendationsMode bool                `json:"recommendationsMode"`
	NodeLimit           int                 `json:"nodeLimit" binding:"omitempty,min=1"`
}

// validateIDFilters checks the dimensions carrying graph entity ids.
// Free-text dimensions (advisors, asset classes, channels) are passed
// through; they only ever travel as query parameters.
func validateIDFilters(f datatypes.NetworkFilters) error {
	var ids []string
	for _, list := range [][]string{
		f.ConsultantIDs,
		f.FieldConsultantIDs,
		f.ClientIDs,
		f.ProductIDs,
		f.IncumbentProductIDs,
	} {
		ids = append(ids, list...)
	}
	return validation.ValidateEntityIDs(ids)
}

// HealthCheck reports liveness and current load.
func HealthCheck(svc *retrieval.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":         "ok",
			"activeRequests": svc.ActiveRequests(),
		})
	}
}

// GetNetwork runs a retrieval and renders its result.
func GetNetwork(svc *retrieval.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body NetworkRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		region, err := validation.SanitizeRegion(body.Region)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		filters := datatypes.FiltersFromMap(body.Filters)
		if err := validateIDFilters(filters); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result := svc.Retrieve(c.Request.Context(), retrieval.Request{
			Region:              region,
			Filters:             filters,
			RecommendationsMode: body.RecommendationsMode,
			NodeLimit:           body.NodeLimit,
		})
		if !result.Success {
			c.JSON(http.StatusServiceUnavailable, result)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// GetFilterOptions serves the complete unfiltered option payload for a
// region, warm from cache when possible.
func GetFilterOptions(svc *retrieval.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		region, err := validation.SanitizeRegion(c.Param("region"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		recommendations := c.Query("recommendations") == "true"

		opts, err := svc.FilterOptions(c.Request.Context(), region, recommendations)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"region":          region,
			"recommendations": recommendations,
			"filterOptions":   opts,
		})
	}
}

// InvalidateCacheRegion drops both mode entries for one region.
func InvalidateCacheRegion(fc *cache.FilterOptionCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		region := datatypes.NormalizeRegion(c.Param("region"))
		removed := fc.InvalidateRegion(region)
		c.JSON(http.StatusOK, gin.H{"region": region, "removed": removed})
	}
}

// InvalidateCache empties the filter-option cache.
func InvalidateCache(fc *cache.FilterOptionCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		removed := fc.InvalidateAll()
		c.JSON(http.StatusOK, gin.H{"removed": removed})
	}
}

// GetCacheStats snapshots the cache counters.
func GetCacheStats(fc *cache.FilterOptionCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, fc.Stats())
	}
}
