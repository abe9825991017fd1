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
	"fmt"
	"strings"
)

// Template is one renderable traversal pattern. Cypher is the complete
// query text; binds records which traversal variables the pattern binds
// so the planner can decide whether the template can express every
// active filter.
type Template struct {
	Name   string
	Cypher string

	binds map[string]bool
}

// Binds reports whether the template binds the named traversal variable.
func (t *Template) Binds(variable string) bool {
	return t.binds[variable]
}

// =============================================================================
// Rendering
// =============================================================================

// returnClause projects the bound nodes and relationships as plain map
// literals. Keeping driver-native node values out of the result rows
// keeps row decoding independent of the store implementation.
func returnClause(nodeVars, relVars []string) string {
	nodes := fmt.Sprintf(
		"[x IN [%s] WHERE x IS NOT NULL | {id: x.id, labels: labels(x), props: properties(x)}] AS nodes",
		strings.Join(nodeVars, ", "))
	rels := fmt.Sprintf(
		"[r IN [%s] WHERE r IS NOT NULL | {id: elementId(r), source: startNode(r).id, target: endNode(r).id, type: type(r), props: properties(r)}] AS rels",
		strings.Join(relVars, ", "))
	return "RETURN " + nodes + ",\n  " + rels
}

func whereClause(cond *Conditions, vars ...string) string {
	clause := cond.Clause(vars...)
	if clause == "" {
		return ""
	}
	return "WHERE " + clause + "\n"
}

func bindSet(vars ...string) map[string]bool {
	m := make(map[string]bool, len(vars))
	for _, v := range vars {
		m[v] = true
	}
	return m
}

// =============================================================================
// Standard-mode templates
// =============================================================================

// fullChain traverses consultant -> field consultant -> company -> product.
func fullChain(cond *Conditions) Template {
	bound := []string{VarConsultant, VarFieldConsultant, VarCompany, VarProduct,
		VarEmploys, VarCovers, VarOwns}
	cypher := "MATCH (c:CONSULTANT)-[emp:EMPLOYS]->(fc:FIELD_CONSULTANT)-[cov:COVERS]->(comp:COMPANY)-[own:OWNS]->(p:PRODUCT)\n" +
		whereClause(cond, bound...) +
		"OPTIONAL MATCH (rc:CONSULTANT)-[rat:RATES]->(p)\n" +
		returnClause(
			[]string{"c", "fc", "comp", "p", "rc"},
			[]string{"emp", "cov", "own", "rat"})
	return Template{Name: "full_chain", Cypher: cypher, binds: bindSet(bound...)}
}

// directCoverage traverses consultant -> company -> product for companies
// covered by a consultant without a field-consultant hop.
func directCoverage(cond *Conditions) Template {
	bound := []string{VarConsultant, VarCompany, VarProduct, VarCovers, VarOwns}
	cypher := "MATCH (c:CONSULTANT)-[cov:COVERS]->(comp:COMPANY)-[own:OWNS]->(p:PRODUCT)\n" +
		whereClause(cond, bound...) +
		"OPTIONAL MATCH (rc:CONSULTANT)-[rat:RATES]->(p)\n" +
		returnClause(
			[]string{"c", "comp", "p", "rc"},
			[]string{"cov", "own", "rat"})
	return Template{Name: "direct_coverage", Cypher: cypher, binds: bindSet(bound...)}
}

// companyAnchored starts from companies so entities unreachable from any
// consultant still appear. The product hop is optional unless a
// product-constraining filter is active, in which case it must match for
// the company to qualify.
func companyAnchored(cond *Conditions, productRequired bool) Template {
	productMatch := "OPTIONAL MATCH"
	if productRequired {
		productMatch = "MATCH"
	}
	productWhere := whereClause(cond, VarProduct, VarOwns)
	cypher := "MATCH (comp:COMPANY)\n" +
		whereClause(cond, VarCompany) +
		productMatch + " (comp)-[own:OWNS]->(p:PRODUCT)\n" +
		productWhere +
		"OPTIONAL MATCH (rc:CONSULTANT)-[rat:RATES]->(p)\n" +
		returnClause(
			[]string{"comp", "p", "rc"},
			[]string{"own", "rat"})
	return Template{
		Name:   "company_anchored",
		Cypher: cypher,
		binds:  bindSet(VarCompany, VarProduct, VarOwns),
	}
}

// =============================================================================
// Recommendations-mode templates
// =============================================================================

// The recommendations graph reaches products through an owned incumbent
// product and its BI_RECOMMENDS edge. Rating edges are carried for both
// the incumbent and the recommended product.

func recFullChain(cond *Conditions) Template {
	bound := []string{VarConsultant, VarFieldConsultant, VarCompany,
		VarIncumbentProduct, VarProduct, VarEmploys, VarCovers, VarOwns, VarRecommends}
	cypher := "MATCH (c:CONSULTANT)-[emp:EMPLOYS]->(fc:FIELD_CONSULTANT)-[cov:COVERS]->(comp:COMPANY)-[own:OWNS]->(ip:INCUMBENT_PRODUCT)-[rec:BI_RECOMMENDS]->(p:PRODUCT)\n" +
		whereClause(cond, bound...) +
		"OPTIONAL MATCH (rc:CONSULTANT)-[rat:RATES]->(p)\n" +
		"OPTIONAL MATCH (ric:CONSULTANT)-[irat:RATES]->(ip)\n" +
		returnClause(
			[]string{"c", "fc", "comp", "ip", "p", "rc", "ric"},
			[]string{"emp", "cov", "own", "rec", "rat", "irat"})
	return Template{Name: "rec_full_chain", Cypher: cypher, binds: bindSet(bound...)}
}

func recDirectCoverage(cond *Conditions) Template {
	bound := []string{VarConsultant, VarCompany, VarIncumbentProduct, VarProduct,
		VarCovers, VarOwns, VarRecommends}
	cypher := "MATCH (c:CONSULTANT)-[cov:COVERS]->(comp:COMPANY)-[own:OWNS]->(ip:INCUMBENT_PRODUCT)-[rec:BI_RECOMMENDS]->(p:PRODUCT)\n" +
		whereClause(cond, bound...) +
		"OPTIONAL MATCH (rc:CONSULTANT)-[rat:RATES]->(p)\n" +
		"OPTIONAL MATCH (ric:CONSULTANT)-[irat:RATES]->(ip)\n" +
		returnClause(
			[]string{"c", "comp", "ip", "p", "rc", "ric"},
			[]string{"cov", "own", "rec", "rat", "irat"})
	return Template{Name: "rec_direct_coverage", Cypher: cypher, binds: bindSet(bound...)}
}

// recFieldCoverage reaches companies covered by a field consultant whose
// employing consultant is outside the region or absent.
func recFieldCoverage(cond *Conditions) Template {
	bound := []string{VarFieldConsultant, VarCompany, VarIncumbentProduct,
		VarProduct, VarCovers, VarOwns, VarRecommends}
	cypher := "MATCH (fc:FIELD_CONSULTANT)-[cov:COVERS]->(comp:COMPANY)-[own:OWNS]->(ip:INCUMBENT_PRODUCT)-[rec:BI_RECOMMENDS]->(p:PRODUCT)\n" +
		whereClause(cond, bound...) +
		"OPTIONAL MATCH (rc:CONSULTANT)-[rat:RATES]->(p)\n" +
		"OPTIONAL MATCH (ric:CONSULTANT)-[irat:RATES]->(ip)\n" +
		returnClause(
			[]string{"fc", "comp", "ip", "p", "rc", "ric"},
			[]string{"cov", "own", "rec", "rat", "irat"})
	return Template{Name: "rec_field_coverage", Cypher: cypher, binds: bindSet(bound...)}
}

func recCompanyAnchored(cond *Conditions, productRequired bool) Template {
	hop := "OPTIONAL MATCH"
	if productRequired {
		hop = "MATCH"
	}
	cypher := "MATCH (comp:COMPANY)\n" +
		whereClause(cond, VarCompany) +
		hop + " (comp)-[own:OWNS]->(ip:INCUMBENT_PRODUCT)\n" +
		whereClause(cond, VarIncumbentProduct, VarOwns) +
		hop + " (ip)-[rec:BI_RECOMMENDS]->(p:PRODUCT)\n" +
		whereClause(cond, VarProduct) +
		"OPTIONAL MATCH (rc:CONSULTANT)-[rat:RATES]->(p)\n" +
		"OPTIONAL MATCH (ric:CONSULTANT)-[irat:RATES]->(ip)\n" +
		returnClause(
			[]string{"comp", "ip", "p", "rc", "ric"},
			[]string{"own", "rec", "rat", "irat"})
	return Template{
		Name:   "rec_company_anchored",
		Cypher: cypher,
		binds:  bindSet(VarCompany, VarIncumbentProduct, VarProduct, VarOwns, VarRecommends),
	}
}
