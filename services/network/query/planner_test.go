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
	"strings"
	"testing"

	"github.com/prabhakarm7/sn-graph-sub000/services/network/datatypes"
)

func templateNames(p Plan) []string {
	names := make([]string, len(p.Templates))
	for i, t := range p.Templates {
		names[i] = t.Name
	}
	return names
}

func TestBuildPlanStandardUnfiltered(t *testing.T) {
	plan := BuildPlan("NAI", datatypes.NetworkFilters{}, false)
	if len(plan.Templates) != 3 {
		t.Fatalf("standard plan has %d templates (%v), want 3",
			len(plan.Templates), templateNames(plan))
	}
	for _, tmpl := range plan.Templates {
		if !strings.Contains(tmpl.Cypher, "RETURN") {
			t.Errorf("template %s has no RETURN clause", tmpl.Name)
		}
		if !strings.Contains(tmpl.Cypher, "$region") {
			t.Errorf("template %s does not reference the region parameter", tmpl.Name)
		}
		if strings.Contains(tmpl.Cypher, "BI_RECOMMENDS") {
			t.Errorf("standard template %s traverses BI_RECOMMENDS", tmpl.Name)
		}
	}
}

func TestBuildPlanRecommendationsUnfiltered(t *testing.T) {
	plan := BuildPlan("NAI", datatypes.NetworkFilters{}, true)
	if len(plan.Templates) != 4 {
		t.Fatalf("recommendations plan has %d templates (%v), want 4",
			len(plan.Templates), templateNames(plan))
	}
	for _, tmpl := range plan.Templates {
		if !strings.Contains(tmpl.Cypher, "INCUMBENT_PRODUCT") {
			t.Errorf("recommendations template %s misses the incumbent hop", tmpl.Name)
		}
	}
}

func TestBuildPlanSkipsTemplatesThatCannotExpressFilters(t *testing.T) {
	t.Run("consultant filter drops company-anchored template", func(t *testing.T) {
		plan := BuildPlan("NAI", datatypes.NetworkFilters{
			ConsultantIDs: []string{"C1"},
		}, false)
		for _, name := range templateNames(plan) {
			if name == "company_anchored" {
				t.Error("company_anchored cannot honor a consultant filter and must be skipped")
			}
		}
		if len(plan.Templates) != 2 {
			t.Errorf("plan = %v, want full_chain and direct_coverage", templateNames(plan))
		}
	})

	t.Run("field consultant filter keeps only the chain template", func(t *testing.T) {
		plan := BuildPlan("NAI", datatypes.NetworkFilters{
			FieldConsultantIDs: []string{"FC1"},
		}, false)
		if len(plan.Templates) != 1 || plan.Templates[0].Name != "full_chain" {
			t.Errorf("plan = %v, want only full_chain", templateNames(plan))
		}
	})

	t.Run("incumbent filter empties the standard plan", func(t *testing.T) {
		plan := BuildPlan("NAI", datatypes.NetworkFilters{
			IncumbentProductIDs: []string{"IP1"},
		}, false)
		if len(plan.Templates) != 0 {
			t.Errorf("plan = %v, want empty", templateNames(plan))
		}
	})
}

func TestBuildPlanProductScopingUpgradesOptionalHop(t *testing.T) {
	unscoped := BuildPlan("NAI", datatypes.NetworkFilters{}, false)
	var anchored string
	for _, tmpl := range unscoped.Templates {
		if tmpl.Name == "company_anchored" {
			anchored = tmpl.Cypher
		}
	}
	if !strings.Contains(anchored, "OPTIONAL MATCH (comp)-[own:OWNS]->(p:PRODUCT)") {
		t.Errorf("unscoped company_anchored must keep the product hop optional:\n%s", anchored)
	}

	scoped := BuildPlan("NAI", datatypes.NetworkFilters{
		AssetClasses: []string{"Equities"},
	}, false)
	anchored = ""
	for _, tmpl := range scoped.Templates {
		if tmpl.Name == "company_anchored" {
			anchored = tmpl.Cypher
		}
	}
	if anchored == "" {
		t.Fatal("company_anchored missing from product-scoped plan")
	}
	if strings.Contains(anchored, "OPTIONAL MATCH (comp)-[own:OWNS]->(p:PRODUCT)") {
		t.Errorf("product-scoped company_anchored must require the product hop:\n%s", anchored)
	}
}

func TestBuildPlanSharedParams(t *testing.T) {
	plan := BuildPlan("NAI", datatypes.NetworkFilters{
		AssetClasses: []string{"Equities"},
	}, false)
	if plan.Params["region"] != "NAI" {
		t.Errorf("params[region] = %v, want NAI", plan.Params["region"])
	}
	ac, ok := plan.Params["assetClasses"].([]string)
	if !ok || len(ac) != 1 || ac[0] != "Equities" {
		t.Errorf("params[assetClasses] = %v, want [Equities]", plan.Params["assetClasses"])
	}
}

func TestFilterOptionsQuery(t *testing.T) {
	q, params := FilterOptionsQuery("NAI", false)
	if !strings.Contains(q, "collect(DISTINCT comp.channel)") {
		t.Error("standard options query missing channel aggregation")
	}
	if strings.Contains(q, "incumbentProducts") {
		t.Error("standard options query must not aggregate incumbent products")
	}
	if params["region"] != "NAI" {
		t.Errorf("params[region] = %v, want NAI", params["region"])
	}

	rq, _ := FilterOptionsQuery("NAI", true)
	if !strings.Contains(rq, "incumbentProducts") || !strings.Contains(rq, "BI_RECOMMENDS") {
		t.Error("recommendations options query must aggregate incumbent products over BI_RECOMMENDS")
	}
}
