// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package store wraps the property-graph database behind a minimal
// query-running interface so the retrieval pipeline never touches driver
// types directly.
package store

import "context"

// QueryRunner executes a read query against the graph store and returns
// the result rows as generic maps keyed by return-clause alias.
//
// # Description
//
// This is the only seam between the retrieval pipeline and the database.
// Production code uses Neo4jStore; tests substitute an in-memory fake.
// Queries must be fully parameterized: the params map is the only channel
// for request-derived values.
//
// # Thread Safety
//
// Implementations must be safe for concurrent Run calls; the pipeline
// issues the per-template queries in parallel.
type QueryRunner interface {
	Run(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
}
