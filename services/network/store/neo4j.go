// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Neo4jConfig carries the connection settings for the graph store.
type Neo4jConfig struct {
	URI      string
	Username string
	Password string
	Database string

	// MaxPoolSize is the driver connection pool ceiling. It must be at
	// least as large as the retrieval semaphore's permit count, otherwise
	// admitted queries would queue inside the driver and the gate's
	// admission guarantee would be meaningless.
	MaxPoolSize int

	// ConnectionTimeout bounds dialing a new pooled connection.
	ConnectionTimeout time.Duration
}

// Neo4jStore is the production QueryRunner backed by the Bolt driver.
//
// # Description
//
// Holds one DriverWithContext for the process lifetime and opens a
// short-lived session per Run call. All retrieval queries are reads, so
// Run executes under ExecuteRead and benefits from routing to follower
// members in a cluster.
//
// # Thread Safety
//
// Safe for concurrent use. The driver manages its own connection pool.
type Neo4jStore struct {
	driver   neo4j.DriverWithContext
	database string
	log      *slog.Logger
}

// NewNeo4jStore connects to the graph store and verifies connectivity
// before returning. The returned store must be closed by the caller.
func NewNeo4jStore(ctx context.Context, cfg Neo4jConfig, log *slog.Logger) (*Neo4jStore, error) {
	if log == nil {
		log = slog.Default()
	}
	driver, err := neo4j.NewDriverWithContext(
		cfg.URI,
		neo4j.BasicAuth(cfg.Username, cfg.Password, ""),
		func(c *neo4j.Config) {
			if cfg.MaxPoolSize > 0 {
				c.MaxConnectionPoolSize = cfg.MaxPoolSize
			}
			if cfg.ConnectionTimeout > 0 {
				c.SocketConnectTimeout = cfg.ConnectionTimeout
			}
		},
	)
	if err != nil {
		return nil, fmt.Errorf("creating neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("verifying neo4j connectivity: %w", err)
	}

	log.Info("connected to graph store",
		"uri", cfg.URI,
		"database", cfg.Database,
		"max_pool_size", cfg.MaxPoolSize)

	return &Neo4jStore{driver: driver, database: cfg.Database, log: log}, nil
}

// Run executes a read query in its own session and collects every row
// into a map keyed by return alias. Driver-native node and relationship
// values are not expected in results; queries return plain map literals
// so the rows stay decodable without driver types.
func (s *Neo4jStore) Run(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: s.database,
		AccessMode:   neo4j.AccessModeRead,
	})
	defer session.Close(ctx)

	rows, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		var out []map[string]any
		for result.Next(ctx) {
			record := result.Record()
			row := make(map[string]any, len(record.Keys))
			for _, key := range record.Keys {
				value, _ := record.Get(key)
				row[key] = value
			}
			out = append(out, row)
		}
		return out, result.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("running graph query: %w", err)
	}
	return rows.([]map[string]any), nil
}

// Close releases the driver's connection pool.
func (s *Neo4jStore) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}
