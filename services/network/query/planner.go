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

import "github.com/prabhakarm7/sn-graph-sub000/services/network/datatypes"

// Plan is the set of traversal templates to execute for one request,
// sharing a single parameter map. Templates are independent; their row
// sets are unioned downstream.
type Plan struct {
	Templates []Template
	Params    map[string]any
}

// BuildPlan assembles the mode-dependent template set for a request.
//
// # Description
//
// No single traversal pattern reaches every validly-filtered entity: a
// company may connect through a full consultant chain, through direct
// coverage, or not connect to any consultant at all. The plan therefore
// carries complementary patterns whose union covers all of them.
//
// A template is included only when it binds every variable an active
// filter dimension constrains. A pattern that cannot state a predicate
// cannot honor it, and including it would widen the result beyond the
// filter. With an incumbent-product filter active in standard mode no
// template qualifies and the plan is empty, which correctly yields an
// empty result.
//
// # Inputs
//
//   - region: normalized region code, the mandatory partition dimension.
//   - filters: structured filter set; a zero value plans the whole region.
//   - recommendations: selects the incumbent-product recommendation graph.
//
// # Outputs
//
//   - Plan with 0-4 templates and the shared parameter map.
func BuildPlan(region string, filters datatypes.NetworkFilters, recommendations bool) Plan {
	cond := Build(region, filters)
	productRequired := filters.ProductScoped()

	var candidates []Template
	if recommendations {
		candidates = []Template{
			recFullChain(cond),
			recDirectCoverage(cond),
			recFieldCoverage(cond),
			recCompanyAnchored(cond, productRequired),
		}
	} else {
		candidates = []Template{
			fullChain(cond),
			directCoverage(cond),
			companyAnchored(cond, productRequired),
		}
	}

	required := cond.RequiredVars()
	templates := make([]Template, 0, len(candidates))
	for _, t := range candidates {
		if bindsAll(&t, required) {
			templates = append(templates, t)
		}
	}

	return Plan{Templates: templates, Params: cond.Params()}
}

func bindsAll(t *Template, vars []string) bool {
	for _, v := range vars {
		if !t.Binds(v) {
			return false
		}
	}
	return true
}
