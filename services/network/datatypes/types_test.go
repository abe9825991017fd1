// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

import (
	"sort"
	"testing"
)

func TestFiltersFromMap(t *testing.T) {
	t.Run("known keys populate fields", func(t *testing.T) {
		f := FiltersFromMap(map[string][]string{
			"assetClasses":         {"Equities"},
			"consultantIds":        {"C1", "C2"},
			"sales_regions":        {"EAST"},
			"consultantAdvisorIds": {"Jane Doe"},
		})
		if len(f.AssetClasses) != 1 || f.AssetClasses[0] != "Equities" {
			t.Errorf("AssetClasses = %v, want [Equities]", f.AssetClasses)
		}
		if len(f.ConsultantIDs) != 2 {
			t.Errorf("ConsultantIDs = %v, want 2 entries", f.ConsultantIDs)
		}
		if len(f.SalesRegions) != 1 || f.SalesRegions[0] != "EAST" {
			t.Errorf("SalesRegions = %v, want [EAST]", f.SalesRegions)
		}
		if len(f.ConsultantAdvisors) != 1 {
			t.Errorf("ConsultantAdvisors = %v, want 1 entry", f.ConsultantAdvisors)
		}
	})

	t.Run("unknown keys are ignored", func(t *testing.T) {
		f := FiltersFromMap(map[string][]string{
			"bogusKey":  {"x"},
			"clientIds": {"COMP1"},
		})
		if len(f.ClientIDs) != 1 || f.ClientIDs[0] != "COMP1" {
			t.Fatalf("ClientIDs = %v, want [COMP1]", f.ClientIDs)
		}
		if got := len(f.ActiveDimensions()); got != 1 {
			t.Errorf("ActiveDimensions count = %d, want 1", got)
		}
	})

	t.Run("empty value lists treated as absent", func(t *testing.T) {
		f := FiltersFromMap(map[string][]string{"channels": {}})
		if !f.IsEmpty() {
			t.Error("IsEmpty() = false, want true")
		}
	})
}

func TestNetworkFiltersIsEmpty(t *testing.T) {
	var f NetworkFilters
	if !f.IsEmpty() {
		t.Error("zero filters: IsEmpty() = false, want true")
	}
	f.Ratings = []string{"Buy"}
	if f.IsEmpty() {
		t.Error("ratings set: IsEmpty() = true, want false")
	}
}

func TestActiveDimensions(t *testing.T) {
	f := NetworkFilters{
		Channels:     []string{"Institutional"},
		AssetClasses: []string{"Equities"},
	}
	dims := f.ActiveDimensions()
	sort.Strings(dims)
	want := []string{"assetClasses", "channels"}
	if len(dims) != len(want) {
		t.Fatalf("ActiveDimensions() = %v, want %v", dims, want)
	}
	for i := range want {
		if dims[i] != want[i] {
			t.Errorf("ActiveDimensions()[%d] = %q, want %q", i, dims[i], want[i])
		}
	}
}

func TestProductScoped(t *testing.T) {
	tests := []struct {
		name    string
		filters NetworkFilters
		want    bool
	}{
		{"empty", NetworkFilters{}, false},
		{"asset classes", NetworkFilters{AssetClasses: []string{"Equities"}}, true},
		{"product ids", NetworkFilters{ProductIDs: []string{"P1"}}, true},
		{"ratings", NetworkFilters{Ratings: []string{"Buy"}}, true},
		{"channels only", NetworkFilters{Channels: []string{"Retail"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filters.ProductScoped(); got != tt.want {
				t.Errorf("ProductScoped() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeRegion(t *testing.T) {
	if got := NormalizeRegion("  nai "); got != "NAI" {
		t.Errorf("NormalizeRegion = %q, want NAI", got)
	}
}

func TestRelKey(t *testing.T) {
	a := Relationship{ID: "r1", Source: "A", Target: "B", Type: RelOwns}
	b := Relationship{ID: "r2", Source: "A", Target: "B", Type: RelOwns}
	if a.Key() != b.Key() {
		t.Error("same endpoints and type must produce equal keys")
	}
	c := Relationship{Source: "A", Target: "B", Type: RelCovers}
	if a.Key() == c.Key() {
		t.Error("different type must produce distinct keys")
	}
}

func TestNodeName(t *testing.T) {
	n := Node{ID: "X", Data: map[string]any{"name": "Acme"}}
	if n.Name() != "Acme" {
		t.Errorf("Name() = %q, want Acme", n.Name())
	}
	n2 := Node{ID: "X", Data: map[string]any{}}
	if n2.Name() != "X" {
		t.Errorf("Name() fallback = %q, want X", n2.Name())
	}
}
