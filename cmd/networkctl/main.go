// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// networkctl is the operator CLI for the network service. It talks to
// a running instance over HTTP and never touches the graph store
// directly.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/prabhakarm7/sn-graph-sub000/pkg/logging"
)

var (
	serverURL string
	apiKey    string
	logLevel  string

	rootCmd = &cobra.Command{
		Use:   "networkctl",
		Short: "Operator CLI for the network graph service",
		Long: `networkctl drives a running network service over its HTTP API:
export a region's graph to an Excel workbook, inspect filter options,
and manage the filter-option cache.`,
		SilenceUsage: true,
	}
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server",
		envOr("NETWORK_SERVER", "http://localhost:8086"),
		"base URL of the network service")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key",
		os.Getenv("NETWORK_API_KEY"),
		"API key sent as X-API-Key (empty when auth is disabled)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log level: debug, info, warn, error")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(optionsCmd)
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// cliLogger builds the text-mode logger commands share.
func cliLogger() *slog.Logger {
	return logging.New(logging.Config{Level: logLevel, Text: true})
}
