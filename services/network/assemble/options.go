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

// Filter-option dimension keys as they appear in the response payload.
const (
	DimConsultants        = "consultants"
	DimFieldConsultants   = "fieldConsultants"
	DimCompanies          = "companies"
	DimProducts           = "products"
	DimIncumbentProducts  = "incumbentProducts"
	DimChannels           = "channels"
	DimSalesRegions       = "salesRegions"
	DimAssetClasses       = "assetClasses"
	DimMandateStatuses    = "mandateStatuses"
	DimInfluenceLevels    = "influenceLevels"
	DimRatings            = "ratings"
	DimClientAdvisors     = "clientAdvisors"
	DimConsultantAdvisors = "consultantAdvisors"
)

// optionSet accumulates deduplicated options per dimension.
type optionSet struct {
	opts datatypes.FilterOptions
	seen map[string]map[string]bool
}

func newOptionSet() *optionSet {
	return &optionSet{
		opts: make(datatypes.FilterOptions),
		seen: make(map[string]map[string]bool),
	}
}

func (s *optionSet) addEntity(dim, id, name string) {
	if id == "" {
		return
	}
	if name == "" {
		name = id
	} else if clean, ok := CleanValue(name); ok {
		name = clean
	} else {
		name = id
	}
	s.add(dim, datatypes.Option{ID: id, Name: name})
}

func (s *optionSet) addValue(dim, value string) {
	clean, ok := CleanValue(value)
	if !ok {
		return
	}
	s.add(dim, datatypes.Option{ID: clean, Name: clean})
}

func (s *optionSet) add(dim string, o datatypes.Option) {
	if s.seen[dim] == nil {
		s.seen[dim] = make(map[string]bool)
	}
	if s.seen[dim][o.ID] {
		return
	}
	s.seen[dim][o.ID] = true
	s.opts[dim] = append(s.opts[dim], o)
}

// ensure guarantees the dimension key exists even when empty, so the
// payload shape is stable across regions.
func (s *optionSet) ensure(dims ...string) {
	for _, d := range dims {
		if _, ok := s.opts[d]; !ok {
			s.opts[d] = []datatypes.Option{}
		}
	}
}

func baseDims(recommendations bool) []string {
	dims := []string{
		DimConsultants, DimFieldConsultants, DimCompanies, DimProducts,
		DimChannels, DimSalesRegions, DimAssetClasses, DimMandateStatuses,
		DimInfluenceLevels, DimRatings, DimClientAdvisors, DimConsultantAdvisors,
	}
	if recommendations {
		dims = append(dims, DimIncumbentProducts)
	}
	return dims
}

// =============================================================================
// From the aggregation query
// =============================================================================

// aliasDims maps aggregation-query aliases onto payload dimensions.
var entityAliases = map[string]string{
	"consultants":       DimConsultants,
	"fieldConsultants":  DimFieldConsultants,
	"companies":         DimCompanies,
	"products":          DimProducts,
	"incumbentProducts": DimIncumbentProducts,
}

var valueAliases = map[string]string{
	"channels":           DimChannels,
	"salesRegions":       DimSalesRegions,
	"assetClasses":       DimAssetClasses,
	"mandateStatuses":    DimMandateStatuses,
	"influenceLevels":    DimInfluenceLevels,
	"ratings":            DimRatings,
	"clientAdvisors":     DimClientAdvisors,
	"consultantAdvisors": DimConsultantAdvisors,
}

// OptionsFromRow decodes the single row of the filter-option aggregation
// query into the payload shape, sanitizing every value on the way in.
func OptionsFromRow(row map[string]any, recommendations bool) datatypes.FilterOptions {
	s := newOptionSet()
	for alias, dim := range entityAliases {
		list, _ := row[alias].([]any)
		for _, raw := range list {
			m, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			id, _ := m["id"].(string)
			name, _ := m["name"].(string)
			s.addEntity(dim, id, name)
		}
	}
	for alias, dim := range valueAliases {
		list, _ := row[alias].([]any)
		for _, v := range cleanStrings(list) {
			s.add(dim, datatypes.Option{ID: v, Name: v})
		}
	}
	s.ensure(baseDims(recommendations)...)
	return s.opts
}

// =============================================================================
// From a retrieved graph
// =============================================================================

// OptionsFromGraph derives the option payload from an assembled result.
// Used when filters were active: the dropdowns then reflect what is
// actually on screen rather than the whole region.
func OptionsFromGraph(g Graph, recommendations bool) datatypes.FilterOptions {
	s := newOptionSet()

	for _, n := range g.Nodes {
		switch n.Type {
		case datatypes.NodeConsultant:
			s.addEntity(DimConsultants, n.ID, n.Name())
			s.addAttrValues(DimConsultantAdvisors, n.Data, "pca", "consultant_advisor")
		case datatypes.NodeFieldConsultant:
			s.addEntity(DimFieldConsultants, n.ID, n.Name())
		case datatypes.NodeCompany:
			s.addEntity(DimCompanies, n.ID, n.Name())
			s.addAttrValues(DimChannels, n.Data, "channel")
			s.addAttrValues(DimSalesRegions, n.Data, "sales_region")
			s.addAttrValues(DimClientAdvisors, n.Data, "pca", "aca")
		case datatypes.NodeProduct:
			s.addEntity(DimProducts, n.ID, n.Name())
			s.addAttrValues(DimAssetClasses, n.Data, "asset_class")
			s.addRatingGroups(n.Data)
		case datatypes.NodeIncumbentProduct:
			s.addEntity(DimIncumbentProducts, n.ID, n.Name())
			s.addRatingGroups(n.Data)
		}
	}

	for _, r := range g.Rels {
		switch r.Type {
		case datatypes.RelOwns:
			s.addAttrValues(DimMandateStatuses, r.Data, "mandate_status")
		case datatypes.RelCovers:
			s.addAttrValues(DimInfluenceLevels, r.Data, "level_of_influence")
		case datatypes.RelRates:
			// Present only when deriving before aggregation.
			s.addAttrValues(DimRatings, r.Data, "rankgroup")
		}
	}

	s.ensure(baseDims(recommendations)...)
	return s.opts
}

// addAttrValues folds one or more scalar-or-list attributes into a value
// dimension.
func (s *optionSet) addAttrValues(dim string, data map[string]any, keys ...string) {
	for _, key := range keys {
		switch v := data[key].(type) {
		case string:
			s.addValue(dim, v)
		case []any:
			for _, item := range v {
				if str, ok := item.(string); ok {
					s.addValue(dim, str)
				}
			}
		case []string:
			for _, str := range v {
				s.addValue(dim, str)
			}
		}
	}
}

// addRatingGroups surfaces rankgroups from an aggregated ratings
// attribute.
func (s *optionSet) addRatingGroups(data map[string]any) {
	if list, ok := data["ratings"].([]datatypes.RatingEntry); ok {
		for _, entry := range list {
			s.addValue(DimRatings, entry.RankGroup)
		}
	}
}
