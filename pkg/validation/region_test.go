package validation

import (
	"testing"
)

func TestValidateRegion(t *testing.T) {
	tests := []struct {
		name    string
		region  string
		wantErr bool
	}{
		// Valid regions
		{"short code", "NAI", false},
		{"continental", "EMEA", false},
		{"with digit", "UK2", false},
		{"max length", "ABCDEFGHIJ", false},

		// Invalid regions - injection attempts and malformed input
		{"empty", "", true},
		{"single char", "N", true},
		{"cypher injection", `NAI"}) MATCH (n) DETACH DELETE n //`, true},
		{"newline injection", "NAI\nMATCH (n)", true},
		{"lowercase", "nai", true},
		{"too long", "ABCDEFGHIJK", true},
		{"starts with digit", "1AI", true},
		{"spaces", "NA I", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegion(tt.region)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRegion(%q) error = %v, wantErr %v", tt.region, err, tt.wantErr)
			}
		})
	}
}

func TestSanitizeRegion(t *testing.T) {
	tests := []struct {
		name    string
		region  string
		want    string
		wantErr bool
	}{
		{"uppercase passthrough", "NAI", "NAI", false},
		{"lowercase normalized", "nai", "NAI", false},
		{"mixed case", "NaI", "NAI", false},
		{"whitespace trimmed", "  emea  ", "EMEA", false},
		{"invalid rejected", "bad!", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeRegion(tt.region)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SanitizeRegion(%q) error = %v, wantErr %v", tt.region, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("SanitizeRegion(%q) = %q, want %q", tt.region, got, tt.want)
			}
		})
	}
}

func TestValidateEntityIDs(t *testing.T) {
	tests := []struct {
		name    string
		ids     []string
		wantErr bool
	}{
		{"all valid", []string{"COMP1", "c-42", "prod.eq_1"}, false},
		{"one invalid", []string{"COMP1", "bad id", "C2"}, true},
		{"injection attempt", []string{`x" OR 1=1`}, true},
		{"empty slice", []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEntityIDs(tt.ids)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEntityIDs(%v) error = %v, wantErr %v", tt.ids, err, tt.wantErr)
			}
		})
	}
}
