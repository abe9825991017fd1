// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package logging builds the service's structured loggers on top of
// log/slog. Services log JSON to stderr with a service attribute on
// every line; the CLI uses the human-readable text form.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Config controls logger construction. The zero value yields an
// info-level JSON logger with no service attribute.
type Config struct {
	// Level is one of debug, info, warn, error. Unrecognized values
	// fall back to info.
	Level string

	// Service is attached to every record as the "service" attribute.
	Service string

	// Text switches from JSON to human-readable output; used by the
	// operator CLI.
	Text bool
}

// ParseLevel maps a config string onto a slog.Level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds a logger per cfg, writing to stderr.
func New(cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	if cfg.Text {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	if cfg.Service != "" {
		handler = handler.WithAttrs([]slog.Attr{slog.String("service", cfg.Service)})
	}
	return slog.New(handler)
}
