// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package query translates structured filters into parameterized Cypher
// and plans the multi-path traversal templates for a retrieval request.
//
// Every request-derived value travels through the query parameter map;
// predicate fragments reference parameters by name and never interpolate
// values into query text.
package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/prabhakarm7/sn-graph-sub000/services/network/datatypes"
)

// Traversal variable names shared by all templates. Conditions attach
// predicate fragments to these names and templates declare which of them
// they bind.
const (
	VarConsultant       = "c"
	VarFieldConsultant  = "fc"
	VarCompany          = "comp"
	VarProduct          = "p"
	VarIncumbentProduct = "ip"
	VarEmploys          = "emp"
	VarCovers           = "cov"
	VarOwns             = "own"
	VarRecommends       = "rec"
)

// Conditions is the per-variable predicate set for one request.
//
// # Description
//
// Built once from (region, filters) and shared by every template in the
// plan. Fragments are grouped by the traversal variable they constrain so
// a template can assemble a WHERE clause from exactly the variables it
// binds. A variable with no applicable filter contributes nothing.
//
// # Thread Safety
//
// Immutable after Build; safe to share across the parallel template
// executions.
type Conditions struct {
	params   map[string]any
	frags    map[string][]string
	required map[string]bool
}

// scalarOrList emits a schema-tolerant membership predicate: the property
// may be stored as a scalar or as a list, and either form matches when it
// intersects the parameter list.
func scalarOrList(variable, prop, param string) string {
	ref := variable + "." + prop
	return fmt.Sprintf(
		"(%s IN $%s OR (%s IS NOT NULL AND valueType(%s) STARTS WITH 'LIST' AND any(val IN %s WHERE val IN $%s)))",
		ref, param, ref, ref, ref, param)
}

// regionPredicate matches a scalar region attribute by equality or a list
// attribute by containment.
func regionPredicate(variable string) string {
	ref := variable + ".region"
	return fmt.Sprintf(
		"(%s = $region OR (%s IS NOT NULL AND valueType(%s) STARTS WITH 'LIST' AND $region IN %s))",
		ref, ref, ref, ref)
}

// Build constructs the predicate set for a normalized region and filter
// set. The region predicate is always present on the company variable.
func Build(region string, f datatypes.NetworkFilters) *Conditions {
	c := &Conditions{
		params:   map[string]any{"region": region},
		frags:    make(map[string][]string),
		required: make(map[string]bool),
	}
	c.add(VarCompany, regionPredicate(VarCompany))

	c.membership(VarConsultant, "id", "consultantIds", f.ConsultantIDs)
	c.membership(VarFieldConsultant, "id", "fieldConsultantIds", f.FieldConsultantIDs)
	c.membership(VarCompany, "id", "clientIds", f.ClientIDs)
	c.membership(VarProduct, "id", "productIds", f.ProductIDs)
	c.membership(VarIncumbentProduct, "id", "incumbentProductIds", f.IncumbentProductIDs)

	// Advisor roles are recorded under either the primary or the secondary
	// advisor property depending on how the entity was loaded, so both are
	// checked.
	if len(f.ClientAdvisorIDs) > 0 {
		c.params["clientAdvisorIds"] = f.ClientAdvisorIDs
		c.addRequired(VarCompany,
			"(comp.pca IN $clientAdvisorIds OR comp.aca IN $clientAdvisorIds)")
	}
	if len(f.ConsultantAdvisors) > 0 {
		c.params["consultantAdvisorIds"] = f.ConsultantAdvisors
		c.addRequired(VarConsultant,
			"(c.pca IN $consultantAdvisorIds OR c.consultant_advisor IN $consultantAdvisorIds)")
	}

	c.tolerant(VarCompany, "channel", "channels", f.Channels)
	c.tolerant(VarCompany, "sales_region", "salesRegions", f.SalesRegions)
	c.tolerant(VarProduct, "asset_class", "assetClasses", f.AssetClasses)
	c.tolerant(VarOwns, "mandate_status", "mandateStatuses", f.MandateStatuses)
	c.tolerant(VarCovers, "level_of_influence", "influenceLevels", f.InfluenceLevels)

	if len(f.Ratings) > 0 {
		c.params["ratings"] = f.Ratings
		c.addRequired(VarProduct,
			"EXISTS { MATCH (:CONSULTANT)-[r0:RATES]->(p) WHERE r0.rankgroup IN $ratings }")
	}

	return c
}

func (c *Conditions) add(variable, frag string) {
	c.frags[variable] = append(c.frags[variable], frag)
}

// addRequired records a fragment whose variable must be bound by any
// template that claims to honor the full filter set.
func (c *Conditions) addRequired(variable, frag string) {
	c.add(variable, frag)
	c.required[variable] = true
}

func (c *Conditions) membership(variable, prop, param string, values []string) {
	if len(values) == 0 {
		return
	}
	c.params[param] = values
	c.addRequired(variable, fmt.Sprintf("%s.%s IN $%s", variable, prop, param))
}

func (c *Conditions) tolerant(variable, prop, param string, values []string) {
	if len(values) == 0 {
		return
	}
	c.params[param] = values
	c.addRequired(variable, scalarOrList(variable, prop, param))
}

// Clause joins the fragments of the given variables with AND. Empty when
// none of the variables carry a fragment; the caller prefixes WHERE.
func (c *Conditions) Clause(vars ...string) string {
	var parts []string
	for _, v := range vars {
		parts = append(parts, c.frags[v]...)
	}
	return strings.Join(parts, "\n  AND ")
}

// Params returns the shared parameter map for every template in the plan.
func (c *Conditions) Params() map[string]any {
	return c.params
}

// RequiredVars lists the variables an issuable template must bind so
// every active filter dimension is expressed. The planner skips templates
// missing any of them; a traversal pattern that cannot state a predicate
// would silently widen the result instead of narrowing it.
func (c *Conditions) RequiredVars() []string {
	out := make([]string, 0, len(c.required))
	for v := range c.required {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
