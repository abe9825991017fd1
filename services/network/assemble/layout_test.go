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
	"fmt"
	"testing"

	"github.com/prabhakarm7/sn-graph-sub000/services/network/datatypes"
)

func TestAssignLayoutLayers(t *testing.T) {
	nodes := []datatypes.Node{
		node("C1", datatypes.NodeConsultant),
		node("FC1", datatypes.NodeFieldConsultant),
		node("COMP1", datatypes.NodeCompany),
		node("IP1", datatypes.NodeIncumbentProduct),
		node("P1", datatypes.NodeProduct),
	}

	out := AssignLayout(nodes)

	yByType := make(map[string]float64)
	for _, n := range out {
		if n.Position == nil {
			t.Fatalf("node %s has no position", n.ID)
		}
		yByType[n.Type] = n.Position.Y
	}

	order := []string{
		datatypes.NodeConsultant,
		datatypes.NodeFieldConsultant,
		datatypes.NodeCompany,
		datatypes.NodeIncumbentProduct,
		datatypes.NodeProduct,
	}
	for i := 1; i < len(order); i++ {
		if yByType[order[i]] <= yByType[order[i-1]] {
			t.Errorf("%s band (y=%v) must sit below %s band (y=%v)",
				order[i], yByType[order[i]], order[i-1], yByType[order[i-1]])
		}
	}
}

func TestAssignLayoutDeterministic(t *testing.T) {
	var forward, backward []datatypes.Node
	for i := 0; i < 9; i++ {
		forward = append(forward, node(fmt.Sprintf("P%02d", i), datatypes.NodeProduct))
	}
	for i := 8; i >= 0; i-- {
		backward = append(backward, node(fmt.Sprintf("P%02d", i), datatypes.NodeProduct))
	}

	a := AssignLayout(forward)
	b := AssignLayout(backward)

	posA := make(map[string]datatypes.Position)
	for _, n := range a {
		posA[n.ID] = *n.Position
	}
	for _, n := range b {
		if got := *n.Position; got != posA[n.ID] {
			t.Errorf("node %s position %v differs from %v across input orders",
				n.ID, got, posA[n.ID])
		}
	}
}

func TestAssignLayoutGridShape(t *testing.T) {
	var nodes []datatypes.Node
	for i := 0; i < 9; i++ {
		nodes = append(nodes, node(fmt.Sprintf("P%02d", i), datatypes.NodeProduct))
	}
	out := AssignLayout(nodes)

	// 9 nodes -> 3 columns, 3 rows.
	rows := make(map[float64]int)
	for _, n := range out {
		rows[n.Position.Y]++
	}
	if len(rows) != 3 {
		t.Errorf("grid rows = %d, want 3", len(rows))
	}
	for y, count := range rows {
		if count != 3 {
			t.Errorf("row y=%v has %d nodes, want 3", y, count)
		}
	}
}

func TestAssignLayoutAlternateRowOffset(t *testing.T) {
	var nodes []datatypes.Node
	for i := 0; i < 4; i++ {
		nodes = append(nodes, node(fmt.Sprintf("P%d", i), datatypes.NodeProduct))
	}
	out := AssignLayout(nodes) // 2x2 grid

	xByRow := make(map[float64]float64)
	for _, n := range out {
		if x, ok := xByRow[n.Position.Y]; !ok || n.Position.X < x {
			xByRow[n.Position.Y] = n.Position.X
		}
	}
	if len(xByRow) != 2 {
		t.Fatalf("rows = %d, want 2", len(xByRow))
	}
	var xs []float64
	for _, x := range xByRow {
		xs = append(xs, x)
	}
	if xs[0] == xs[1] {
		t.Error("alternate rows must be horizontally offset")
	}
}

func TestAssignLayoutDoesNotMutateInput(t *testing.T) {
	nodes := []datatypes.Node{node("P1", datatypes.NodeProduct)}
	_ = AssignLayout(nodes)
	if nodes[0].Position != nil {
		t.Error("input slice mutated")
	}
}
