// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes holds the shared value types for the network service:
// graph nodes and relationships as they travel from the store through the
// assembly pipeline to the HTTP boundary, plus the structured filter set
// accepted by retrieval requests.
package datatypes

import (
	"sort"
	"strings"
)

// =============================================================================
// Node and relationship vocabulary
// =============================================================================

// Node type labels. The graph schema is closed: every node the service
// retrieves carries exactly one of these labels.
const (
	NodeConsultant       = "CONSULTANT"
	NodeFieldConsultant  = "FIELD_CONSULTANT"
	NodeCompany          = "COMPANY"
	NodeProduct          = "PRODUCT"
	NodeIncumbentProduct = "INCUMBENT_PRODUCT"
)

// Relationship type labels.
const (
	RelEmploys      = "EMPLOYS"
	RelCovers       = "COVERS"
	RelOwns         = "OWNS"
	RelRates        = "RATES"
	RelBIRecommends = "BI_RECOMMENDS"
)

// KnownNodeType reports whether label is one of the closed node label set.
func KnownNodeType(label string) bool {
	switch label {
	case NodeConsultant, NodeFieldConsultant, NodeCompany, NodeProduct,
		NodeIncumbentProduct:
		return true
	}
	return false
}

// =============================================================================
// Graph elements
// =============================================================================

// Position is an assigned 2-D layout coordinate. It is nil on nodes until
// the layout pass runs.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a retrieved graph node.
//
// # Description
//
// ID is the store-assigned identity used for deduplication. Type is one of
// the Node* label constants. Data carries the node's attributes verbatim
// from the store; the assembly pipeline may add derived attributes (the
// ratings list on products) but never mutates store attributes in place.
//
// # Thread Safety
//
// Not safe for concurrent mutation. The retrieval pipeline hands each
// caller an independently owned copy.
type Node struct {
	ID       string         `json:"id"`
	Type     string         `json:"type"`
	Data     map[string]any `json:"data"`
	Position *Position      `json:"position,omitempty"`
}

// Name returns the node's display name attribute, or its ID when the
// attribute is absent or not a string.
func (n *Node) Name() string {
	if v, ok := n.Data["name"].(string); ok && v != "" {
		return v
	}
	return n.ID
}

// Relationship is a retrieved graph edge.
type Relationship struct {
	ID     string         `json:"id"`
	Source string         `json:"source"`
	Target string         `json:"target"`
	Type   string         `json:"type"`
	Data   map[string]any `json:"data,omitempty"`
}

// RelKey is the deduplication identity of a relationship. Two edges with
// the same source, target and type are the same edge regardless of which
// query path produced them.
type RelKey struct {
	Source string
	Target string
	Type   string
}

// Key returns the relationship's deduplication identity.
func (r *Relationship) Key() RelKey {
	return RelKey{Source: r.Source, Target: r.Target, Type: r.Type}
}

// RatingEntry is one consultant rating folded onto a product node by the
// rating aggregation pass. The collection attached to a product is
// unordered.
type RatingEntry struct {
	Consultant string `json:"consultant"`
	RankGroup  string `json:"rankgroup"`
	RankValue  string `json:"rankvalue"`
}

// =============================================================================
// Filters
// =============================================================================

// NetworkFilters is the structured filter set for a retrieval request.
//
// # Description
//
// Every field is optional; a zero NetworkFilters means "the whole region".
// Identity filters (consultant, field consultant, client, product,
// incumbent product IDs) narrow by node identity; attribute filters
// (channels, asset classes, mandate statuses, sales regions, ratings,
// influence levels) narrow by node or edge attributes. Advisor filters
// match either the primary or the secondary advisor attribute of their
// subject nodes.
//
// # Assumptions
//
// Values are compared verbatim against store attributes. Callers normalize
// case upstream where the store demands it.
type NetworkFilters struct {
	ConsultantIDs       []string `json:"consultantIds,omitempty"`
	FieldConsultantIDs  []string `json:"fieldConsultantIds,omitempty"`
	ClientIDs           []string `json:"clientIds,omitempty"`
	ProductIDs          []string `json:"productIds,omitempty"`
	IncumbentProductIDs []string `json:"incumbentProductIds,omitempty"`
	ClientAdvisorIDs    []string `json:"clientAdvisorIds,omitempty"`
	ConsultantAdvisors  []string `json:"consultantAdvisorIds,omitempty"`
	Channels            []string `json:"channels,omitempty"`
	AssetClasses        []string `json:"assetClasses,omitempty"`
	MandateStatuses     []string `json:"mandateStatuses,omitempty"`
	SalesRegions        []string `json:"sales_regions,omitempty"`
	Ratings             []string `json:"ratings,omitempty"`
	InfluenceLevels     []string `json:"influenceLevels,omitempty"`
}

// filterKeys maps the wire names of filter dimensions onto setters. Keys
// not listed here are ignored by FromMap.
var filterKeys = map[string]func(*NetworkFilters, []string){
	"consultantIds":        func(f *NetworkFilters, v []string) { f.ConsultantIDs = v },
	"fieldConsultantIds":   func(f *NetworkFilters, v []string) { f.FieldConsultantIDs = v },
	"clientIds":            func(f *NetworkFilters, v []string) { f.ClientIDs = v },
	"productIds":           func(f *NetworkFilters, v []string) { f.ProductIDs = v },
	"incumbentProductIds":  func(f *NetworkFilters, v []string) { f.IncumbentProductIDs = v },
	"clientAdvisorIds":     func(f *NetworkFilters, v []string) { f.ClientAdvisorIDs = v },
	"consultantAdvisorIds": func(f *NetworkFilters, v []string) { f.ConsultantAdvisors = v },
	"channels":             func(f *NetworkFilters, v []string) { f.Channels = v },
	"assetClasses":         func(f *NetworkFilters, v []string) { f.AssetClasses = v },
	"mandateStatuses":      func(f *NetworkFilters, v []string) { f.MandateStatuses = v },
	"sales_regions":        func(f *NetworkFilters, v []string) { f.SalesRegions = v },
	"ratings":              func(f *NetworkFilters, v []string) { f.Ratings = v },
	"influenceLevels":      func(f *NetworkFilters, v []string) { f.InfluenceLevels = v },
}

// FiltersFromMap builds a NetworkFilters from a loose wire map. Unknown
// keys are ignored; empty value lists are treated as absent.
func FiltersFromMap(m map[string][]string) NetworkFilters {
	var f NetworkFilters
	for key, set := range filterKeys {
		if vals, ok := m[key]; ok && len(vals) > 0 {
			set(&f, vals)
		}
	}
	return f
}

// IsEmpty reports whether no filter dimension is set.
func (f *NetworkFilters) IsEmpty() bool {
	return len(f.ConsultantIDs) == 0 &&
		len(f.FieldConsultantIDs) == 0 &&
		len(f.ClientIDs) == 0 &&
		len(f.ProductIDs) == 0 &&
		len(f.IncumbentProductIDs) == 0 &&
		len(f.ClientAdvisorIDs) == 0 &&
		len(f.ConsultantAdvisors) == 0 &&
		len(f.Channels) == 0 &&
		len(f.AssetClasses) == 0 &&
		len(f.MandateStatuses) == 0 &&
		len(f.SalesRegions) == 0 &&
		len(f.Ratings) == 0 &&
		len(f.InfluenceLevels) == 0
}

// ActiveDimensions returns the wire names of the filter dimensions that
// are set, sorted order not guaranteed.
func (f *NetworkFilters) ActiveDimensions() []string {
	var out []string
	m := f.toMap()
	for key := range filterKeys {
		if len(m[key]) > 0 {
			out = append(out, key)
		}
	}
	return out
}

// FilterDimensions returns every recognized filter wire name, sorted.
func FilterDimensions() []string {
	out := make([]string, 0, len(filterKeys))
	for key := range filterKeys {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

func (f *NetworkFilters) toMap() map[string][]string {
	return map[string][]string{
		"consultantIds":        f.ConsultantIDs,
		"fieldConsultantIds":   f.FieldConsultantIDs,
		"clientIds":            f.ClientIDs,
		"productIds":           f.ProductIDs,
		"incumbentProductIds":  f.IncumbentProductIDs,
		"clientAdvisorIds":     f.ClientAdvisorIDs,
		"consultantAdvisorIds": f.ConsultantAdvisors,
		"channels":             f.Channels,
		"assetClasses":         f.AssetClasses,
		"mandateStatuses":      f.MandateStatuses,
		"sales_regions":        f.SalesRegions,
		"ratings":              f.Ratings,
		"influenceLevels":      f.InfluenceLevels,
	}
}

// ProductScoped reports whether any filter dimension constrains products
// directly. The planner uses this to require the product hop in templates
// where the hop is otherwise optional.
func (f *NetworkFilters) ProductScoped() bool {
	return len(f.ProductIDs) > 0 ||
		len(f.IncumbentProductIDs) > 0 ||
		len(f.AssetClasses) > 0 ||
		len(f.MandateStatuses) > 0 ||
		len(f.Ratings) > 0
}

// NormalizeRegion canonicalizes a region code for cache keys and store
// comparison: trimmed and upper-cased.
func NormalizeRegion(region string) string {
	return strings.ToUpper(strings.TrimSpace(region))
}

// =============================================================================
// Filter options
// =============================================================================

// Option is one selectable filter value with its display name.
type Option struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FilterOptions maps a filter dimension's wire name to its selectable
// values. This is what populates the UI filter dropdowns and what the
// filter-option cache stores per (region, mode) key.
type FilterOptions map[string][]Option
