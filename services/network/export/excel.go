// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package export renders a graph-mode retrieval result as an Excel
// workbook for offline analysis. It consumes the same output shape the
// HTTP boundary serves.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/prabhakarm7/sn-graph-sub000/services/network/datatypes"
	"github.com/prabhakarm7/sn-graph-sub000/services/network/retrieval"
)

const (
	sheetNodes         = "Nodes"
	sheetRelationships = "Relationships"
	sheetRatings       = "Ratings"
)

// Workbook builds an in-memory workbook from a graph-mode result with
// one sheet each for nodes, relationships and flattened ratings. The
// caller owns the returned file and must Close it.
func Workbook(result *retrieval.Result) (*excelize.File, error) {
	if result == nil || !result.Success {
		return nil, fmt.Errorf("cannot export a failed result")
	}
	if result.RenderMode == retrieval.ModeSummary {
		return nil, fmt.Errorf(
			"summary result has no node list; re-run with a node limit above %d",
			result.TotalNodes)
	}

	f := excelize.NewFile()

	if err := writeNodes(f, result.Nodes); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := writeRelationships(f, result.Relationships); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := writeRatings(f, result.Nodes); err != nil {
		_ = f.Close()
		return nil, err
	}

	// The default sheet is replaced by the nodes sheet.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("removing default sheet: %w", err)
	}
	return f, nil
}

// Write streams the workbook for a result to w.
func Write(result *retrieval.Result, w io.Writer) error {
	f, err := Workbook(result)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeNodes(f *excelize.File, nodes []datatypes.Node) error {
	if _, err := f.NewSheet(sheetNodes); err != nil {
		return fmt.Errorf("creating %s sheet: %w", sheetNodes, err)
	}
	header := []any{"ID", "Type", "Name", "Region", "Asset Class", "Channel", "X", "Y"}
	if err := setRow(f, sheetNodes, 1, header); err != nil {
		return err
	}
	for i, n := range nodes {
		var x, y any
		if n.Position != nil {
			x, y = n.Position.X, n.Position.Y
		}
		row := []any{
			n.ID,
			n.Type,
			n.Name(),
			attrString(n.Data, "region"),
			attrString(n.Data, "asset_class"),
			attrString(n.Data, "channel"),
			x,
			y,
		}
		if err := setRow(f, sheetNodes, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeRelationships(f *excelize.File, rels []datatypes.Relationship) error {
	if _, err := f.NewSheet(sheetRelationships); err != nil {
		return fmt.Errorf("creating %s sheet: %w", sheetRelationships, err)
	}
	header := []any{"Source", "Target", "Type", "Mandate Status", "Level Of Influence"}
	if err := setRow(f, sheetRelationships, 1, header); err != nil {
		return err
	}
	for i, r := range rels {
		row := []any{
			r.Source,
			r.Target,
			r.Type,
			attrString(r.Data, "mandate_status"),
			attrString(r.Data, "level_of_influence"),
		}
		if err := setRow(f, sheetRelationships, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

// writeRatings flattens the aggregated ratings attribute back into rows.
func writeRatings(f *excelize.File, nodes []datatypes.Node) error {
	if _, err := f.NewSheet(sheetRatings); err != nil {
		return fmt.Errorf("creating %s sheet: %w", sheetRatings, err)
	}
	header := []any{"Product ID", "Product Name", "Consultant", "Rank Group", "Rank Value"}
	if err := setRow(f, sheetRatings, 1, header); err != nil {
		return err
	}
	rowNum := 2
	for _, n := range nodes {
		for _, entry := range ratingEntries(n.Data["ratings"]) {
			row := []any{n.ID, n.Name(), entry.Consultant, entry.RankGroup, entry.RankValue}
			if err := setRow(f, sheetRatings, rowNum, row); err != nil {
				return err
			}
			rowNum++
		}
	}
	return nil
}

// ratingEntries accepts the ratings attribute either as the pipeline's
// typed slice or as the generic form it takes after a JSON round trip
// through the HTTP API.
func ratingEntries(raw any) []datatypes.RatingEntry {
	switch v := raw.(type) {
	case []datatypes.RatingEntry:
		return v
	case []any:
		entries := make([]datatypes.RatingEntry, 0, len(v))
		for _, item := range v {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			entry := datatypes.RatingEntry{
				Consultant: attrString(m, "consultant"),
				RankGroup:  attrString(m, "rankgroup"),
				RankValue:  attrString(m, "rankvalue"),
			}
			if entry != (datatypes.RatingEntry{}) {
				entries = append(entries, entry)
			}
		}
		return entries
	default:
		return nil
	}
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("addressing %s row %d: %w", sheet, row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("writing %s row %d: %w", sheet, row, err)
	}
	return nil
}

func attrString(data map[string]any, key string) string {
	if data == nil {
		return ""
	}
	switch v := data[key].(type) {
	case string:
		return v
	case []any:
		var out string
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				continue
			}
			if i > 0 {
				out += ", "
			}
			out += s
		}
		return out
	default:
		return ""
	}
}
