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

// AggregateRatings folds RATES edges into a ratings attribute on their
// target nodes and removes them from the relationship set.
//
// # Description
//
// For each RATES edge targeting a product or incumbent product, an entry
// {consultant, rankgroup, rankvalue} is appended to the target's ratings
// list, with the consultant name resolved from the source node when it is
// present in the graph. The list is an unordered collection. Products
// with no incoming RATES edges get an explicit nil ratings attribute so
// the attribute is always present on rateable nodes. RATES edges never
// appear in the output relationship set, including malformed ones whose
// target is not rateable.
//
// Node data maps are copied before mutation; the input graph is not
// modified.
func AggregateRatings(g Graph) Graph {
	nodeByID := make(map[string]*datatypes.Node, len(g.Nodes))
	nodes := make([]datatypes.Node, len(g.Nodes))
	for i, n := range g.Nodes {
		nodes[i] = n
		nodes[i].Data = copyData(n.Data)
		nodeByID[n.ID] = &nodes[i]
	}

	ratings := make(map[string][]datatypes.RatingEntry)
	rels := make([]datatypes.Relationship, 0, len(g.Rels))
	for _, r := range g.Rels {
		if r.Type != datatypes.RelRates {
			rels = append(rels, r)
			continue
		}
		target, ok := nodeByID[r.Target]
		if !ok || !rateable(target.Type) {
			continue
		}
		entry := datatypes.RatingEntry{
			RankGroup: stringAttr(r.Data, "rankgroup"),
			RankValue: stringAttr(r.Data, "rankvalue"),
		}
		if source, ok := nodeByID[r.Source]; ok {
			entry.Consultant = source.Name()
		} else {
			entry.Consultant = r.Source
		}
		ratings[r.Target] = append(ratings[r.Target], entry)
	}

	for i := range nodes {
		if !rateable(nodes[i].Type) {
			continue
		}
		if list, ok := ratings[nodes[i].ID]; ok {
			nodes[i].Data["ratings"] = list
		} else {
			nodes[i].Data["ratings"] = nil
		}
	}

	return Graph{Nodes: nodes, Rels: rels}
}

func rateable(nodeType string) bool {
	return nodeType == datatypes.NodeProduct || nodeType == datatypes.NodeIncumbentProduct
}

func stringAttr(data map[string]any, key string) string {
	if data == nil {
		return ""
	}
	s, _ := data[key].(string)
	return s
}

func copyData(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}
