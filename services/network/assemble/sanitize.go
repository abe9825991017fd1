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

import "strings"

// maxOptionLength rejects values too long to be a legitimate dropdown
// entry; upstream corruption occasionally serializes whole arrays into a
// single attribute value.
const maxOptionLength = 100

// CleanValue validates one candidate filter-option value.
//
// # Description
//
// This is the single sanitization point for attribute values entering
// the filter-option payload. The store carries artifacts of historic
// ingestion bugs: stringified arrays ("['A', 'B']"), literal "undefined"
// and "null" strings, and concatenated blobs past any plausible length.
// These are data-quality noise, not errors; CleanValue drops them
// silently and the rest of the pipeline never sees them.
//
// # Outputs
//
//   - the trimmed value and true when usable, "" and false otherwise.
func CleanValue(raw string) (string, bool) {
	v := strings.TrimSpace(raw)
	if v == "" || len(v) > maxOptionLength {
		return "", false
	}
	if strings.ContainsAny(v, "[]") {
		return "", false
	}
	lower := strings.ToLower(v)
	if strings.Contains(lower, "undefined") || strings.Contains(lower, "null") {
		return "", false
	}
	return v, true
}

// cleanStrings applies CleanValue across a raw value list, flattening
// one level of nesting (scalar-or-list attributes aggregate into lists
// of lists) and deduplicating while preserving first-seen order.
func cleanStrings(raw []any) []string {
	var out []string
	seen := make(map[string]bool)
	appendValue := func(v any) {
		s, ok := v.(string)
		if !ok {
			return
		}
		clean, ok := CleanValue(s)
		if !ok || seen[clean] {
			return
		}
		seen[clean] = true
		out = append(out, clean)
	}
	for _, v := range raw {
		if nested, ok := v.([]any); ok {
			for _, inner := range nested {
				appendValue(inner)
			}
			continue
		}
		appendValue(v)
	}
	return out
}
