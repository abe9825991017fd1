// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestParseFilterFlags(t *testing.T) {
	tests := []struct {
		name    string
		flags   []string
		want    map[string][]string
		wantErr bool
	}{
		{
			name:  "none",
			flags: nil,
			want:  nil,
		},
		{
			name:  "single key with list",
			flags: []string{"assetClasses=Equities, Fixed Income"},
			want:  map[string][]string{"assetClasses": {"Equities", "Fixed Income"}},
		},
		{
			name:  "repeated key accumulates",
			flags: []string{"clientIds=C1", "clientIds=C2"},
			want:  map[string][]string{"clientIds": {"C1", "C2"}},
		},
		{
			name:    "missing separator",
			flags:   []string{"assetClasses"},
			wantErr: true,
		},
		{
			name:    "empty values",
			flags:   []string{"clientIds=,"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFilterFlags(tt.flags)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAPIClientDo(t *testing.T) {
	var gotKey, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-Key")
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]any{"status": "ok"})
	}))
	defer srv.Close()

	client := newAPIClient(srv.URL+"/", "secret")
	var out map[string]any
	if err := client.do(context.Background(), http.MethodGet, "/health", nil, &out); err != nil {
		t.Fatalf("do: %v", err)
	}
	if gotKey != "secret" {
		t.Errorf("X-API-Key = %q, want secret", gotKey)
	}
	if gotPath != "/health" {
		t.Errorf("path = %q, trailing slash on base URL must not double", gotPath)
	}
	if out["status"] != "ok" {
		t.Errorf("decoded %v", out)
	}
}

func TestAPIClientDoErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"no such region"}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := newAPIClient(srv.URL, "")
	err := client.do(context.Background(), http.MethodGet, "/v1/filters/ZZ", nil, nil)
	if err == nil {
		t.Fatal("expected an error for a 503 response")
	}
}
