// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// The network service serves filtered consultant/company/product graph
// retrievals over HTTP.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/prabhakarm7/sn-graph-sub000/pkg/logging"
	"github.com/prabhakarm7/sn-graph-sub000/services/network/cache"
	"github.com/prabhakarm7/sn-graph-sub000/services/network/config"
	"github.com/prabhakarm7/sn-graph-sub000/services/network/gate"
	"github.com/prabhakarm7/sn-graph-sub000/services/network/observability"
	"github.com/prabhakarm7/sn-graph-sub000/services/network/retrieval"
	"github.com/prabhakarm7/sn-graph-sub000/services/network/routes"
	"github.com/prabhakarm7/sn-graph-sub000/services/network/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log := logging.New(logging.Config{Level: cfg.LogLevel, Service: "network"})
	slog.SetDefault(log)

	shutdownTracer, err := initTracer(cfg.OTLPEndpoint)
	if err != nil {
		// Tracing is optional; run untraced rather than refuse to start.
		log.Warn("tracer init failed, continuing without tracing", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	graphStore, err := store.NewNeo4jStore(ctx, store.Neo4jConfig{
		URI:         cfg.Neo4jURI,
		Username:    cfg.Neo4jUser,
		Password:    cfg.Neo4jPassword,
		Database:    cfg.Neo4jDatabase,
		MaxPoolSize: cfg.Neo4jMaxPool,
	}, log)
	cancel()
	if err != nil {
		log.Error("graph store unavailable", "error", err)
		os.Exit(1)
	}

	g := gate.New(int64(cfg.DBPermits), cfg.AcquireTimeout)
	pool := gate.NewPool(cfg.PoolWorkers)
	fc := cache.New(cfg.CacheMaxEntries, cfg.CacheTTL)
	sweeper := cache.NewSweeper(fc, cfg.SweepInterval, log)
	sweeper.Start()

	metrics := observability.NewMetrics(nil)
	svc := retrieval.NewService(graphStore, g, pool, fc, retrieval.Options{
		NodeLimit:         cfg.NodeLimit,
		KeepIsolatedNodes: cfg.KeepIsolatedNodes,
	}, metrics, log)

	router := gin.New()
	router.Use(gin.Recovery())
	routes.SetupRoutes(router, svc, fc, cfg.APIKey, log)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info("network service listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", "error", err)
	}

	sweeper.Stop()
	pool.Close()
	if err := graphStore.Close(shutdownCtx); err != nil {
		log.Error("store close failed", "error", err)
	}
	if shutdownTracer != nil {
		if err := shutdownTracer(shutdownCtx); err != nil {
			log.Error("tracer shutdown failed", "error", err)
		}
	}
	log.Info("shutdown complete")
}

// initTracer wires the OTLP gRPC exporter when an endpoint is
// configured. Returns a shutdown function, or nil when tracing is off.
func initTracer(endpoint string) (func(context.Context) error, error) {
	if endpoint == "" {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := grpc.NewClient(endpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	exporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName("network")))
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}
