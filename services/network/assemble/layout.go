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

import (
	"math"
	"sort"

	"github.com/prabhakarm7/sn-graph-sub000/services/network/datatypes"
)

// Layout spacing, in render units.
const (
	layerHeight = 250.0
	nodeSpacing = 180.0
	rowHeight   = 90.0
	// Alternate rows shift right by half a node slot so vertically
	// adjacent nodes do not stack exactly.
	rowStagger = nodeSpacing / 2
)

// layerOf maps node types onto fixed horizontal bands, consultants on
// top and recommended products at the bottom.
var layerOf = map[string]int{
	datatypes.NodeConsultant:       0,
	datatypes.NodeFieldConsultant:  1,
	datatypes.NodeCompany:          2,
	datatypes.NodeIncumbentProduct: 3,
	datatypes.NodeProduct:          4,
}

// AssignLayout gives every node a deterministic 2-D position.
//
// # Description
//
// Nodes are grouped into a band per type, then arranged within the band
// as a near-square grid (columns = ceil(sqrt(count))) with alternate
// rows offset horizontally. Within a band, placement order is node id
// order, so the same graph always renders identically. This is a
// readability heuristic only; it makes no attempt to minimize edge
// crossings.
func AssignLayout(nodes []datatypes.Node) []datatypes.Node {
	byLayer := make(map[int][]int)
	out := make([]datatypes.Node, len(nodes))
	copy(out, nodes)

	for i, n := range out {
		layer, ok := layerOf[n.Type]
		if !ok {
			continue
		}
		byLayer[layer] = append(byLayer[layer], i)
	}

	for layer, idxs := range byLayer {
		sort.Slice(idxs, func(a, b int) bool {
			return out[idxs[a]].ID < out[idxs[b]].ID
		})
		cols := int(math.Ceil(math.Sqrt(float64(len(idxs)))))
		if cols < 1 {
			cols = 1
		}
		baseY := float64(layer) * layerHeight
		for slot, i := range idxs {
			row := slot / cols
			col := slot % cols
			x := float64(col) * nodeSpacing
			if row%2 == 1 {
				x += rowStagger
			}
			out[i].Position = &datatypes.Position{
				X: x,
				Y: baseY + float64(row)*rowHeight,
			}
		}
	}
	return out
}
