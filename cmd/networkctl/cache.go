// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

var (
	cacheCmd = &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the service's filter-option cache",
	}

	cacheStatsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Print cache hit/miss/eviction counters",
		RunE:  runCacheStats,
	}

	cacheClearCmd = &cobra.Command{
		Use:   "clear [region]",
		Short: "Invalidate one region's entries, or the whole cache",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCacheClear,
	}
)

func runCacheStats(cmd *cobra.Command, args []string) error {
	client := newAPIClient(serverURL, apiKey)

	var stats map[string]any
	if err := client.do(cmd.Context(), http.MethodGet, "/v1/cache/stats", nil, &stats); err != nil {
		return err
	}
	return printJSON(cmd, stats)
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	client := newAPIClient(serverURL, apiKey)

	path := "/v1/cache"
	if len(args) == 1 {
		path += "/" + args[0]
	}
	var resp map[string]any
	if err := client.do(cmd.Context(), http.MethodDelete, path, nil, &resp); err != nil {
		return err
	}
	return printJSON(cmd, resp)
}

func printJSON(cmd *cobra.Command, payload any) error {
	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
