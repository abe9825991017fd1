// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads and validates the network service configuration
// from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the complete runtime configuration.
//
// Validation runs at load time; a service started with an invalid
// configuration fails fast instead of limping.
type Config struct {
	Port     string `validate:"required,numeric"`
	LogLevel string `validate:"oneof=debug info warn error"`

	// APIKey enables request authentication when non-empty.
	APIKey string

	Neo4jURI      string `validate:"required"`
	Neo4jUser     string `validate:"required"`
	Neo4jPassword string `validate:"required"`
	Neo4jDatabase string

	// DBPermits caps concurrent store queries; Neo4jMaxPool must be at
	// least as large so the driver pool is never the bottleneck.
	DBPermits      int           `validate:"min=1"`
	Neo4jMaxPool   int           `validate:"min=1,gtefield=DBPermits"`
	AcquireTimeout time.Duration `validate:"min=1s"`
	PoolWorkers    int           `validate:"min=1"`

	// NodeLimit is the graph-mode node ceiling; beyond it the service
	// answers in summary mode.
	NodeLimit int `validate:"min=1"`

	// KeepIsolatedNodes retains relationship-less nodes in the
	// unfiltered whole-region view. Filtered views always prune.
	KeepIsolatedNodes bool

	CacheMaxEntries int           `validate:"min=1"`
	CacheTTL        time.Duration `validate:"min=1s"`
	SweepInterval   time.Duration `validate:"min=1s"`

	// OTLPEndpoint enables trace export when non-empty.
	OTLPEndpoint string
}

// Load reads the environment, applies defaults and validates.
func Load() (*Config, error) {
	cfg := &Config{
		Port:              envOr("NETWORK_PORT", "8086"),
		LogLevel:          envOr("LOG_LEVEL", "info"),
		APIKey:            os.Getenv("NETWORK_API_KEY"),
		Neo4jURI:          envOr("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUser:         envOr("NEO4J_USER", "neo4j"),
		Neo4jPassword:     os.Getenv("NEO4J_PASSWORD"),
		Neo4jDatabase:     os.Getenv("NEO4J_DATABASE"),
		DBPermits:         envIntOr("NETWORK_DB_PERMITS", 15),
		AcquireTimeout:    envDurationOr("NETWORK_ACQUIRE_TIMEOUT", 10*time.Second),
		PoolWorkers:       envIntOr("NETWORK_POOL_WORKERS", 10),
		NodeLimit:         envIntOr("NETWORK_NODE_LIMIT", 50),
		KeepIsolatedNodes: envBoolOr("NETWORK_KEEP_ISOLATED_NODES", false),
		CacheMaxEntries:   envIntOr("NETWORK_CACHE_MAX_ENTRIES", 100),
		CacheTTL:          envDurationOr("NETWORK_CACHE_TTL", 30*time.Minute),
		SweepInterval:     envDurationOr("NETWORK_CACHE_SWEEP_INTERVAL", 300*time.Second),
		OTLPEndpoint:      os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	// The driver pool follows the permit count unless explicitly raised.
	cfg.Neo4jMaxPool = envIntOr("NEO4J_MAX_POOL_SIZE", cfg.DBPermits)
	if cfg.Neo4jMaxPool < cfg.DBPermits {
		return nil, fmt.Errorf(
			"NEO4J_MAX_POOL_SIZE (%d) must be >= NETWORK_DB_PERMITS (%d)",
			cfg.Neo4jMaxPool, cfg.DBPermits)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
