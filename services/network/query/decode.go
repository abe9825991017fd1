// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package query

import (
	"fmt"

	"github.com/prabhakarm7/sn-graph-sub000/services/network/datatypes"
)

// DecodeRows converts the raw rows of one template execution into typed
// nodes and relationships.
//
// # Description
//
// Each row carries a "nodes" list and a "rels" list of plain maps as
// projected by the templates' RETURN clause. Entries without a usable id
// or with a label outside the closed node label set are skipped rather
// than failing the request; the store's schema tolerance extends to the
// occasional malformed row. Duplicates within and across rows are
// expected and left for the merge step.
func DecodeRows(rows []map[string]any) ([]datatypes.Node, []datatypes.Relationship) {
	var nodes []datatypes.Node
	var rels []datatypes.Relationship

	for _, row := range rows {
		for _, raw := range asList(row["nodes"]) {
			if n, ok := decodeNode(raw); ok {
				nodes = append(nodes, n)
			}
		}
		for _, raw := range asList(row["rels"]) {
			if r, ok := decodeRel(raw); ok {
				rels = append(rels, r)
			}
		}
	}
	return nodes, rels
}

func decodeNode(raw any) (datatypes.Node, bool) {
	m, ok := raw.(map[string]any)
	if !ok {
		return datatypes.Node{}, false
	}
	id := asString(m["id"])
	if id == "" {
		return datatypes.Node{}, false
	}
	label := primaryLabel(m["labels"])
	if !datatypes.KnownNodeType(label) {
		return datatypes.Node{}, false
	}
	props, _ := m["props"].(map[string]any)
	if props == nil {
		props = map[string]any{}
	}
	return datatypes.Node{ID: id, Type: label, Data: props}, true
}

func decodeRel(raw any) (datatypes.Relationship, bool) {
	m, ok := raw.(map[string]any)
	if !ok {
		return datatypes.Relationship{}, false
	}
	source := asString(m["source"])
	target := asString(m["target"])
	relType := asString(m["type"])
	if source == "" || target == "" || relType == "" {
		return datatypes.Relationship{}, false
	}
	id := asString(m["id"])
	if id == "" {
		id = source + "-" + relType + "-" + target
	}
	props, _ := m["props"].(map[string]any)
	return datatypes.Relationship{
		ID:     id,
		Source: source,
		Target: target,
		Type:   relType,
		Data:   props,
	}, true
}

// primaryLabel picks the first label from the closed set; the schema
// attaches exactly one, but extra decorative labels are tolerated.
func primaryLabel(raw any) string {
	for _, l := range asList(raw) {
		if s := asString(l); datatypes.KnownNodeType(s) {
			return s
		}
	}
	return ""
}

func asList(v any) []any {
	list, _ := v.([]any)
	return list
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	case int64:
		return fmt.Sprintf("%d", s)
	case float64:
		// Integral ids occasionally surface as floats after a JSON hop.
		if s == float64(int64(s)) {
			return fmt.Sprintf("%d", int64(s))
		}
		return fmt.Sprintf("%v", s)
	default:
		return ""
	}
}
