// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validation provides input validation utilities for security-critical operations.
//
// This package contains validators for user-provided inputs that reach
// database queries. Query values are always passed as parameters, never
// interpolated, so these validators are the outer guard: they reject
// garbage at the HTTP boundary before a query is ever planned.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// regionPattern matches valid region codes.
// Allows: uppercase letters and digits, e.g. NAI, EMEA, APAC, UK2.
// Max length: 10 characters.
var regionPattern = regexp.MustCompile(`^[A-Z][A-Z0-9]{1,9}$`)

// entityIDPattern matches graph entity identifiers used in filters.
// Allows: alphanumerics plus dot, underscore and hyphen after the
// first character. Max length: 64 characters.
var entityIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._\-]{0,63}$`)

// ValidateRegion validates a region code.
//
// Valid regions:
//   - 2-10 characters
//   - Uppercase letters A-Z, digits 0-9
//   - Must start with a letter
//
// Returns an error if the region is invalid.
func ValidateRegion(region string) error {
	if region == "" {
		return fmt.Errorf("region cannot be empty")
	}

	if !regionPattern.MatchString(region) {
		return fmt.Errorf("invalid region format: %q (must be 2-10 uppercase alphanumeric chars starting with a letter)", region)
	}

	return nil
}

// SanitizeRegion normalizes and validates a region code.
// Returns the uppercase region if valid, or an error if invalid.
//
// Use this at the request boundary:
//
//	region, err := validation.SanitizeRegion(userInput)
//	if err != nil {
//	    return err
//	}
func SanitizeRegion(region string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(region))
	if err := ValidateRegion(normalized); err != nil {
		return "", err
	}
	return normalized, nil
}

// ValidateEntityID validates a single graph entity identifier.
func ValidateEntityID(id string) error {
	if id == "" {
		return fmt.Errorf("entity id cannot be empty")
	}
	if !entityIDPattern.MatchString(id) {
		return fmt.Errorf("invalid entity id: %q", id)
	}
	return nil
}

// ValidateEntityIDs validates multiple entity identifiers.
// Returns an error listing all invalid identifiers if any fail validation.
func ValidateEntityIDs(ids []string) error {
	var invalid []string
	for _, id := range ids {
		if err := ValidateEntityID(id); err != nil {
			invalid = append(invalid, id)
		}
	}

	if len(invalid) > 0 {
		return fmt.Errorf("invalid entity ids: %v", invalid)
	}
	return nil
}
