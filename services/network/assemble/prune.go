// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package assemble

import "github.com/prabhakarm7/sn-graph-sub000/services/network/datatypes"

// Prune removes dangling relationships and disconnected nodes.
//
// # Description
//
// Two passes, in this order: first drop every relationship whose source
// or target is not in the input node set, then drop every node not
// touched by a surviving relationship. Relationship survival is judged
// against the original node set, never a partially-pruned one; swapping
// the passes would cascade removals that the contract forbids.
//
// # Inputs
//
//   - g: merged graph.
//   - keepIsolated: retain nodes with no surviving relationships. Used
//     for the unfiltered whole-region view where an isolated company is
//     still information; filtered views always prune.
func Prune(g Graph, keepIsolated bool) Graph {
	present := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		present[n.ID] = true
	}

	rels := make([]datatypes.Relationship, 0, len(g.Rels))
	touched := make(map[string]bool)
	for _, r := range g.Rels {
		if !present[r.Source] || !present[r.Target] {
			continue
		}
		rels = append(rels, r)
		touched[r.Source] = true
		touched[r.Target] = true
	}

	if keepIsolated {
		return Graph{Nodes: g.Nodes, Rels: rels}
	}

	nodes := make([]datatypes.Node, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		if touched[n.ID] {
			nodes = append(nodes, n)
		}
	}
	return Graph{Nodes: nodes, Rels: rels}
}
