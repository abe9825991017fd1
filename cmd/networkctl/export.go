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
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/prabhakarm7/sn-graph-sub000/services/network/export"
	"github.com/prabhakarm7/sn-graph-sub000/services/network/retrieval"
)

var (
	exportRegion           string
	exportFilters          []string
	exportRecommendations  bool
	exportNodeLimit        int
	exportOutput           string
	optionsRecommendations bool

	exportCmd = &cobra.Command{
		Use:   "export",
		Short: "Export a region's graph to an Excel workbook",
		Long: `Runs a retrieval against the service and writes the resulting
nodes, relationships and ratings to an .xlsx workbook. Filters take the
same keys as the API, e.g. --filter assetClasses=Equities.`,
		RunE: runExport,
	}

	optionsCmd = &cobra.Command{
		Use:   "options [region]",
		Short: "Print the filter options available for a region",
		Args:  cobra.ExactArgs(1),
		RunE:  runOptions,
	}
)

func init() {
	exportCmd.Flags().StringVar(&exportRegion, "region", "", "region to export (required)")
	exportCmd.Flags().StringArrayVar(&exportFilters, "filter", nil,
		"filter as key=value[,value...]; repeatable")
	exportCmd.Flags().BoolVar(&exportRecommendations, "recommendations", false,
		"use the recommendations view")
	exportCmd.Flags().IntVar(&exportNodeLimit, "node-limit", 0,
		"override the service's node ceiling (0 keeps the server default)")
	exportCmd.Flags().StringVarP(&exportOutput, "out", "o", "network.xlsx",
		"output workbook path")
	_ = exportCmd.MarkFlagRequired("region")

	optionsCmd.Flags().BoolVar(&optionsRecommendations, "recommendations", false,
		"use the recommendations view")
}

func runExport(cmd *cobra.Command, args []string) error {
	log := cliLogger()

	filters, err := parseFilterFlags(exportFilters)
	if err != nil {
		return err
	}

	body := map[string]any{
		"region":              exportRegion,
		"recommendationsMode": exportRecommendations,
	}
	if filters != nil {
		body["filters"] = filters
	}
	if exportNodeLimit > 0 {
		body["nodeLimit"] = exportNodeLimit
	}

	client := newAPIClient(serverURL, apiKey)
	var result retrieval.Result
	if err := client.do(cmd.Context(), http.MethodPost, "/v1/network", body, &result); err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("retrieval failed: %s", result.Message)
	}
	log.Info("retrieval complete",
		"region", exportRegion,
		"mode", result.RenderMode,
		"nodes", result.TotalNodes,
		"relationships", result.TotalRelationships)

	out, err := os.Create(exportOutput)
	if err != nil {
		return fmt.Errorf("creating %s: %w", exportOutput, err)
	}
	defer out.Close()

	if err := export.Write(&result, out); err != nil {
		return err
	}
	log.Info("workbook written", "path", exportOutput)
	return nil
}

func runOptions(cmd *cobra.Command, args []string) error {
	client := newAPIClient(serverURL, apiKey)

	path := "/v1/filters/" + args[0]
	if optionsRecommendations {
		path += "?recommendations=true"
	}
	var payload map[string]any
	if err := client.do(cmd.Context(), http.MethodGet, path, nil, &payload); err != nil {
		return err
	}
	return printJSON(cmd, payload)
}
