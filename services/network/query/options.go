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

// standardOptionsQuery aggregates every selectable filter value for a
// region in one round trip. Scalar-or-list attributes are collected as-is
// and flattened during sanitization.
const standardOptionsQuery = `MATCH (comp:COMPANY)
WHERE (comp.region = $region OR (comp.region IS NOT NULL AND valueType(comp.region) STARTS WITH 'LIST' AND $region IN comp.region))
OPTIONAL MATCH (fc:FIELD_CONSULTANT)-[fcov:COVERS]->(comp)
OPTIONAL MATCH (c:CONSULTANT)-[:EMPLOYS]->(fc)
OPTIONAL MATCH (dc:CONSULTANT)-[dcov:COVERS]->(comp)
OPTIONAL MATCH (comp)-[own:OWNS]->(p:PRODUCT)
OPTIONAL MATCH (:CONSULTANT)-[rat:RATES]->(p)
RETURN
  [m IN collect(DISTINCT {id: c.id, name: c.name}) WHERE m.id IS NOT NULL]
    + [m IN collect(DISTINCT {id: dc.id, name: dc.name}) WHERE m.id IS NOT NULL] AS consultants,
  [m IN collect(DISTINCT {id: fc.id, name: fc.name}) WHERE m.id IS NOT NULL] AS fieldConsultants,
  [m IN collect(DISTINCT {id: comp.id, name: comp.name}) WHERE m.id IS NOT NULL] AS companies,
  [m IN collect(DISTINCT {id: p.id, name: p.name}) WHERE m.id IS NOT NULL] AS products,
  collect(DISTINCT comp.channel) AS channels,
  collect(DISTINCT comp.sales_region) AS salesRegions,
  collect(DISTINCT p.asset_class) AS assetClasses,
  collect(DISTINCT own.mandate_status) AS mandateStatuses,
  collect(DISTINCT fcov.level_of_influence) + collect(DISTINCT dcov.level_of_influence) AS influenceLevels,
  collect(DISTINCT rat.rankgroup) AS ratings,
  collect(DISTINCT comp.pca) + collect(DISTINCT comp.aca) AS clientAdvisors,
  collect(DISTINCT c.pca) + collect(DISTINCT c.consultant_advisor) AS consultantAdvisors`

// recommendationsOptionsQuery is the recommendations-mode variant: OWNS
// targets incumbent products, products are reached over BI_RECOMMENDS,
// and incumbent products become a selectable dimension of their own.
const recommendationsOptionsQuery = `MATCH (comp:COMPANY)
WHERE (comp.region = $region OR (comp.region IS NOT NULL AND valueType(comp.region) STARTS WITH 'LIST' AND $region IN comp.region))
OPTIONAL MATCH (fc:FIELD_CONSULTANT)-[fcov:COVERS]->(comp)
OPTIONAL MATCH (c:CONSULTANT)-[:EMPLOYS]->(fc)
OPTIONAL MATCH (dc:CONSULTANT)-[dcov:COVERS]->(comp)
OPTIONAL MATCH (comp)-[own:OWNS]->(ip:INCUMBENT_PRODUCT)
OPTIONAL MATCH (ip)-[:BI_RECOMMENDS]->(p:PRODUCT)
OPTIONAL MATCH (:CONSULTANT)-[rat:RATES]->(p)
RETURN
  [m IN collect(DISTINCT {id: c.id, name: c.name}) WHERE m.id IS NOT NULL]
    + [m IN collect(DISTINCT {id: dc.id, name: dc.name}) WHERE m.id IS NOT NULL] AS consultants,
  [m IN collect(DISTINCT {id: fc.id, name: fc.name}) WHERE m.id IS NOT NULL] AS fieldConsultants,
  [m IN collect(DISTINCT {id: comp.id, name: comp.name}) WHERE m.id IS NOT NULL] AS companies,
  [m IN collect(DISTINCT {id: p.id, name: p.name}) WHERE m.id IS NOT NULL] AS products,
  [m IN collect(DISTINCT {id: ip.id, name: ip.name}) WHERE m.id IS NOT NULL] AS incumbentProducts,
  collect(DISTINCT comp.channel) AS channels,
  collect(DISTINCT comp.sales_region) AS salesRegions,
  collect(DISTINCT p.asset_class) AS assetClasses,
  collect(DISTINCT own.mandate_status) AS mandateStatuses,
  collect(DISTINCT fcov.level_of_influence) + collect(DISTINCT dcov.level_of_influence) AS influenceLevels,
  collect(DISTINCT rat.rankgroup) AS ratings,
  collect(DISTINCT comp.pca) + collect(DISTINCT comp.aca) AS clientAdvisors,
  collect(DISTINCT c.pca) + collect(DISTINCT c.consultant_advisor) AS consultantAdvisors`

// FilterOptionsQuery returns the single aggregation query that computes
// the complete unfiltered option set for a region, in the given mode,
// together with its parameters.
func FilterOptionsQuery(region string, recommendations bool) (string, map[string]any) {
	q := standardOptionsQuery
	if recommendations {
		q = recommendationsOptionsQuery
	}
	return q, map[string]any{"region": region}
}
