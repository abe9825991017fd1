// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package assemble contains the pure in-memory transforms that turn the
// unioned template outputs into a render-ready graph: dedup, orphan
// pruning, rating aggregation, layout and filter-option derivation.
// Every function here is side-effect free over its inputs unless its doc
// says otherwise.
package assemble

import "github.com/prabhakarm7/sn-graph-sub000/services/network/datatypes"

// Graph is the working graph passed between assembly steps.
type Graph struct {
	Nodes []datatypes.Node
	Rels  []datatypes.Relationship
}

// Merge unions per-template result sets into one graph.
//
// # Description
//
// Nodes dedup by id with first-seen-wins; a node produced by several
// templates contributes once. Relationships dedup by (source, target,
// type). The union is order-independent at the set level: merging any
// permutation of the inputs yields the same node and relationship sets.
func Merge(parts ...Graph) Graph {
	var out Graph
	seenNodes := make(map[string]bool)
	seenRels := make(map[datatypes.RelKey]bool)

	for _, part := range parts {
		for _, n := range part.Nodes {
			if seenNodes[n.ID] {
				continue
			}
			seenNodes[n.ID] = true
			out.Nodes = append(out.Nodes, n)
		}
		for _, r := range part.Rels {
			key := r.Key()
			if seenRels[key] {
				continue
			}
			seenRels[key] = true
			out.Rels = append(out.Rels, r)
		}
	}
	return out
}
