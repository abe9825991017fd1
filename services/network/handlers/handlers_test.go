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
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prabhakarm7/sn-graph-sub000/services/network/cache"
	"github.com/prabhakarm7/sn-graph-sub000/services/network/datatypes"
	"github.com/prabhakarm7/sn-graph-sub000/services/network/gate"
	"github.com/prabhakarm7/sn-graph-sub000/services/network/retrieval"
)

func init() {
	// Set Gin to test mode to reduce noise
	gin.SetMode(gin.TestMode)
}

// emptyStore satisfies store.QueryRunner and returns no rows, which the
// pipeline renders as an empty-mode result.
type emptyStore struct{}

func (emptyStore) Run(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	return nil, nil
}

func newTestService(t *testing.T) *retrieval.Service {
	t.Helper()
	pool := gate.NewPool(2)
	t.Cleanup(pool.Close)
	return retrieval.NewService(
		emptyStore{},
		gate.New(4, time.Second),
		pool,
		cache.New(4, time.Minute),
		retrieval.Options{},
		nil,
		nil,
	)
}

func setupRouter(t *testing.T) (*gin.Engine, *cache.FilterOptionCache) {
	svc := newTestService(t)
	fc := cache.New(4, time.Minute)

	router := gin.New()
	router.GET("/health", HealthCheck(svc))
	v1 := router.Group("/v1")
	v1.POST("/network", GetNetwork(svc))
	v1.GET("/filters/:region", GetFilterOptions(svc))
	v1.GET("/cache/stats", GetCacheStats(fc))
	v1.DELETE("/cache/:region", InvalidateCacheRegion(fc))
	v1.DELETE("/cache", InvalidateCache(fc))
	return router, fc
}

func TestHealthCheck(t *testing.T) {
	router, _ := setupRouter(t)

	req, _ := http.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("expected status 'ok', got %v", resp["status"])
	}
}

func TestGetNetwork_EmptyRegion(t *testing.T) {
	router, _ := setupRouter(t)

	body, _ := json.Marshal(map[string]any{"region": "nai"})
	req, _ := http.NewRequest("POST", "/v1/network", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	var result retrieval.Result
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to unmarshal result: %v", err)
	}
	if !result.Success {
		t.Errorf("expected success, got message %q", result.Message)
	}
	if result.RenderMode != retrieval.ModeEmpty {
		t.Errorf("expected empty render mode, got %q", result.RenderMode)
	}
}

func TestGetNetwork_MissingRegion(t *testing.T) {
	router, _ := setupRouter(t)

	req, _ := http.NewRequest("POST", "/v1/network", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestGetNetwork_RejectsMalformedRegion(t *testing.T) {
	router, _ := setupRouter(t)

	body, _ := json.Marshal(map[string]any{
		"region": `NAI"}) MATCH (n) DETACH DELETE n //`,
	})
	req, _ := http.NewRequest("POST", "/v1/network", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestGetNetwork_RejectsMalformedEntityIDs(t *testing.T) {
	router, _ := setupRouter(t)

	body, _ := json.Marshal(map[string]any{
		"region":  "NAI",
		"filters": map[string][]string{"clientIds": {`x" OR 1=1`}},
	})
	req, _ := http.NewRequest("POST", "/v1/network", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestGetFilterOptions_RejectsMalformedRegion(t *testing.T) {
	router, _ := setupRouter(t)

	req, _ := http.NewRequest("GET", "/v1/filters/n%0Ai", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestCacheEndpoints(t *testing.T) {
	router, fc := setupRouter(t)
	fc.Set(cache.Key{Region: "NAI"}, datatypes.FilterOptions{
		"channels": {{ID: "Institutional", Name: "Institutional"}},
	})
	fc.Set(cache.Key{Region: "EMEA"}, datatypes.FilterOptions{
		"channels": {{ID: "Retail", Name: "Retail"}},
	})

	req, _ := http.NewRequest("DELETE", "/v1/cache/NAI", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp["removed"] != float64(1) {
		t.Errorf("expected 1 removed entry, got %v", resp["removed"])
	}

	req, _ = http.NewRequest("GET", "/v1/cache/stats", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	req, _ = http.NewRequest("DELETE", "/v1/cache", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}
