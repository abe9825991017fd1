// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package retrieval implements the filtered-graph retrieval pipeline:
// plan the traversal templates, run them under the concurrency gate,
// union and prune the results, aggregate ratings, assign layout and
// attach filter options. The pipeline is implemented once; Retrieve and
// RetrieveAsync are thin adapters over the same core.
package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/prabhakarm7/sn-graph-sub000/services/network/assemble"
	"github.com/prabhakarm7/sn-graph-sub000/services/network/cache"
	"github.com/prabhakarm7/sn-graph-sub000/services/network/datatypes"
	"github.com/prabhakarm7/sn-graph-sub000/services/network/gate"
	"github.com/prabhakarm7/sn-graph-sub000/services/network/observability"
	"github.com/prabhakarm7/sn-graph-sub000/services/network/query"
	"github.com/prabhakarm7/sn-graph-sub000/services/network/store"
)

// Render modes of a successful result.
const (
	ModeGraph   = "graph"
	ModeSummary = "summary"
	ModeEmpty   = "empty"
)

// DefaultNodeLimit is the interactive node ceiling; results above it
// come back in summary mode.
const DefaultNodeLimit = 50

// Request is one retrieval invocation.
type Request struct {
	Region              string
	Filters             datatypes.NetworkFilters
	RecommendationsMode bool

	// NodeLimit overrides the configured ceiling when positive; batch
	// and export callers raise it.
	NodeLimit int
}

// Result is the structured outcome of a retrieval. It is always
// well-formed: transient failures surface as Success=false with a
// message, never as an error or panic across this boundary.
type Result struct {
	Success    bool   `json:"success"`
	Message    string `json:"message,omitempty"`
	RenderMode string `json:"renderMode"`

	Nodes              []datatypes.Node         `json:"nodes,omitempty"`
	Relationships      []datatypes.Relationship `json:"relationships,omitempty"`
	TotalNodes         int                      `json:"totalNodes"`
	TotalRelationships int                      `json:"totalRelationships"`

	// SuggestedFilters lists unused filter dimensions; populated in
	// summary mode to steer the caller toward a narrower request.
	SuggestedFilters []string `json:"suggestedFilters,omitempty"`

	FilterOptions datatypes.FilterOptions `json:"filterOptions,omitempty"`
}

// Options is the retrieval service's static configuration.
type Options struct {
	NodeLimit int

	// KeepIsolatedNodes retains relationship-less nodes in the
	// unfiltered whole-region view. Filtered results always prune.
	KeepIsolatedNodes bool
}

// Service wires the pipeline's collaborators together.
//
// # Thread Safety
//
// Safe for concurrent use; all shared state (gate, pool, cache) is
// internally synchronized.
type Service struct {
	store   store.QueryRunner
	gate    *gate.Gate
	pool    *gate.Pool
	cache   *cache.FilterOptionCache
	opts    Options
	metrics *observability.Metrics
	log     *slog.Logger
	tracer  trace.Tracer
}

// NewService builds the retrieval service. store, g, pool and c are
// required; metrics may be nil to disable recording.
func NewService(
	s store.QueryRunner,
	g *gate.Gate,
	pool *gate.Pool,
	c *cache.FilterOptionCache,
	opts Options,
	metrics *observability.Metrics,
	log *slog.Logger,
) *Service {
	if opts.NodeLimit <= 0 {
		opts.NodeLimit = DefaultNodeLimit
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		store:   s,
		gate:    g,
		pool:    pool,
		cache:   c,
		opts:    opts,
		metrics: metrics,
		log:     log,
		tracer:  otel.Tracer("services/network/retrieval"),
	}
}

// ActiveRequests reports the number of retrievals currently in flight.
func (s *Service) ActiveRequests() int64 {
	return s.gate.Active()
}

// Retrieve runs the pipeline and blocks until the result is ready.
func (s *Service) Retrieve(ctx context.Context, req Request) *Result {
	start := time.Now()
	s.gate.BeginRequest()
	defer s.gate.EndRequest()
	if s.metrics != nil {
		s.metrics.ActiveRequests.Set(float64(s.gate.Active()))
		defer func() { s.metrics.ActiveRequests.Set(float64(s.gate.Active())) }()
	}

	region := datatypes.NormalizeRegion(req.Region)
	mode := "standard"
	if req.RecommendationsMode {
		mode = "recommendations"
	}

	ctx, span := s.tracer.Start(ctx, "retrieval.Retrieve",
		trace.WithAttributes(
			attribute.String("network.region", region),
			attribute.String("network.mode", mode),
		))
	defer span.End()

	result, err := s.retrieve(ctx, region, req)
	if err != nil {
		s.log.Error("retrieval failed",
			"region", region,
			"mode", mode,
			"error", err)
		result = &Result{
			Success: false,
			Message: fmt.Sprintf("graph retrieval failed: %v", err),
		}
	}

	if s.metrics != nil {
		s.metrics.RecordRetrieval(mode, result.Success, time.Since(start))
	}
	span.SetAttributes(
		attribute.Bool("network.success", result.Success),
		attribute.Int("network.total_nodes", result.TotalNodes),
	)
	return result
}

// RetrieveAsync runs the same pipeline off the caller's goroutine. The
// returned channel delivers exactly one result and is then closed.
func (s *Service) RetrieveAsync(ctx context.Context, req Request) <-chan *Result {
	out := make(chan *Result, 1)
	go func() {
		defer close(out)
		out <- s.Retrieve(ctx, req)
	}()
	return out
}

// retrieve is the single pipeline implementation behind both adapters.
func (s *Service) retrieve(ctx context.Context, region string, req Request) (*Result, error) {
	plan := query.BuildPlan(region, req.Filters, req.RecommendationsMode)
	filtered := !req.Filters.IsEmpty()

	parts, err := s.runTemplates(ctx, plan)
	if err != nil {
		return nil, err
	}

	var merged assemble.Graph
	if err := s.pool.Do(ctx, func() error {
		merged = assemble.Merge(parts...)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("merging template results: %w", err)
	}

	limit := req.NodeLimit
	if limit <= 0 {
		limit = s.opts.NodeLimit
	}
	if len(merged.Nodes) > limit {
		return s.summaryResult(len(merged.Nodes), limit, req), nil
	}

	var graph assemble.Graph
	if err := s.pool.Do(ctx, func() error {
		keepIsolated := !filtered && s.opts.KeepIsolatedNodes
		graph = assemble.Prune(merged, keepIsolated)
		graph = assemble.AggregateRatings(graph)
		graph.Nodes = assemble.AssignLayout(graph.Nodes)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("assembling graph: %w", err)
	}

	result := &Result{
		Success:            true,
		RenderMode:         ModeGraph,
		Nodes:              graph.Nodes,
		Relationships:      graph.Rels,
		TotalNodes:         len(graph.Nodes),
		TotalRelationships: len(graph.Rels),
	}
	if len(graph.Nodes) == 0 {
		result.RenderMode = ModeEmpty
	}

	result.FilterOptions = s.resultOptions(ctx, region, req, graph, filtered)
	return result, nil
}

// runTemplates executes every planned template concurrently, each under
// its own database slot, and decodes rows on the worker pool.
func (s *Service) runTemplates(ctx context.Context, plan query.Plan) ([]assemble.Graph, error) {
	parts := make([]assemble.Graph, len(plan.Templates))
	eg, egCtx := errgroup.WithContext(ctx)

	for i, tmpl := range plan.Templates {
		i, tmpl := i, tmpl
		eg.Go(func() error {
			waitStart := time.Now()
			release, err := s.gate.AcquireDB(egCtx)
			if err != nil {
				return fmt.Errorf("template %s: %w", tmpl.Name, err)
			}
			if s.metrics != nil {
				s.metrics.RecordGateWait(time.Since(waitStart))
			}

			queryStart := time.Now()
			rows, err := s.store.Run(egCtx, tmpl.Cypher, plan.Params)
			release()
			if err != nil {
				return fmt.Errorf("template %s: %w", tmpl.Name, err)
			}
			if s.metrics != nil {
				s.metrics.RecordTemplateQuery(tmpl.Name, time.Since(queryStart))
			}

			return s.pool.Do(egCtx, func() error {
				nodes, rels := query.DecodeRows(rows)
				parts[i] = assemble.Graph{Nodes: nodes, Rels: rels}
				return nil
			})
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return parts, nil
}

// summaryResult answers an over-limit request without materializing the
// node list, suggesting the filter dimensions the caller has not used.
func (s *Service) summaryResult(total, limit int, req Request) *Result {
	active := make(map[string]bool)
	for _, dim := range req.Filters.ActiveDimensions() {
		active[dim] = true
	}
	var suggested []string
	for _, dim := range datatypes.FilterDimensions() {
		if !active[dim] {
			suggested = append(suggested, dim)
		}
	}
	return &Result{
		Success:    true,
		RenderMode: ModeSummary,
		TotalNodes: total,
		Message: fmt.Sprintf(
			"result has %d nodes, above the %d-node display limit; narrow the filters",
			total, limit),
		SuggestedFilters: suggested,
	}
}

// resultOptions picks the filter-option payload for a finished result:
// derived from the result itself when filters shaped it, otherwise the
// complete region payload from the cache. Option failures degrade to a
// nil payload rather than failing a retrieval that already succeeded.
func (s *Service) resultOptions(
	ctx context.Context,
	region string,
	req Request,
	graph assemble.Graph,
	filtered bool,
) datatypes.FilterOptions {
	if filtered && len(graph.Nodes) > 0 {
		return assemble.OptionsFromGraph(graph, req.RecommendationsMode)
	}
	opts, err := s.FilterOptions(ctx, region, req.RecommendationsMode)
	if err != nil {
		s.log.Warn("filter options unavailable",
			"region", region,
			"error", err)
		return nil
	}
	return opts
}

// FilterOptions returns the complete unfiltered option payload for a
// region, from cache when warm, otherwise computed through the single
// aggregation query and cached. A failed computation is never stored.
func (s *Service) FilterOptions(ctx context.Context, region string, recommendations bool) (datatypes.FilterOptions, error) {
	region = datatypes.NormalizeRegion(region)
	key := cache.Key{Region: region, Recommendations: recommendations}

	if payload, ok := s.cache.Get(key); ok {
		if s.metrics != nil {
			s.metrics.RecordCacheLookup(true)
		}
		return payload, nil
	}
	if s.metrics != nil {
		s.metrics.RecordCacheLookup(false)
	}

	cypher, params := query.FilterOptionsQuery(region, recommendations)

	release, err := s.gate.AcquireDB(ctx)
	if err != nil {
		return nil, fmt.Errorf("filter options for %s: %w", region, err)
	}
	rows, err := s.store.Run(ctx, cypher, params)
	release()
	if err != nil {
		return nil, fmt.Errorf("filter options for %s: %w", region, err)
	}

	row := map[string]any{}
	if len(rows) > 0 {
		row = rows[0]
	}
	var payload datatypes.FilterOptions
	if err := s.pool.Do(ctx, func() error {
		payload = assemble.OptionsFromRow(row, recommendations)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("decoding filter options for %s: %w", region, err)
	}

	s.cache.Set(key, payload)
	return payload, nil
}
