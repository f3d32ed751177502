package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/inovacc/patchtracker/internal/core"
	"github.com/inovacc/patchtracker/internal/model"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		verbose   bool
		wantDebug bool
	}{
		{name: "default", verbose: false, wantDebug: false},
		{name: "verbose", verbose: true, wantDebug: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			logger := newLogger(&buf, tt.verbose)
			logger.Debug("debug line")
			logger.Warn("warn line")

			if got := strings.Contains(buf.String(), "debug line"); got != tt.wantDebug {
				t.Errorf("debug logged = %v, want %v", got, tt.wantDebug)
			}

			if !strings.Contains(buf.String(), "warn line") {
				t.Error("warn line should always be logged")
			}

			if logger.Enabled(context.Background(), -4) != tt.wantDebug {
				t.Errorf("debug level enabled mismatch")
			}
		})
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{name: "nil", input: nil, expected: ""},
		{name: "string", input: "zlib", expected: "zlib"},
		{name: "number", input: json.Number("42"), expected: "42"},
		{name: "bool", input: true, expected: "true"},
		{name: "list", input: []any{"a", "b"}, expected: `["a","b"]`},
		{name: "object", input: map[string]any{"k": "v"}, expected: `{"k":"v"}`},
		{name: "float", input: 1.5, expected: "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatValue(tt.input); got != tt.expected {
				t.Errorf("formatValue(%v) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFailureKind(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "validation", err: &core.ValidationError{Message: "bad"}, expected: "validation"},
		{name: "authentication", err: &core.AuthenticationError{StatusCode: 401}, expected: "authentication"},
		{name: "connectivity", err: &core.ConnectivityError{Err: errors.New("refused")}, expected: "connectivity"},
		{name: "wrapped", err: fmt.Errorf("add: %w", &core.AuthenticationError{StatusCode: 403}), expected: "authentication"},
		{name: "other", err: &core.ExistenceCheckError{Message: "Git repo or branch not exist."}, expected: "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := failureKind(tt.err); got != tt.expected {
				t.Errorf("failureKind() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestRenderRecords(t *testing.T) {
	t.Run("rows are numbered from one", func(t *testing.T) {
		out := renderRecords(model.QueryResult{
			Columns: []string{"repo"},
			Records: []model.Record{
				{"repo": "zlib"},
				{"repo": "openssl"},
			},
		})

		lines := strings.Split(out, "\n")

		var zlibLine, opensslLine string
		for _, line := range lines {
			switch {
			case strings.Contains(line, "zlib"):
				zlibLine = line
			case strings.Contains(line, "openssl"):
				opensslLine = line
			}
		}

		if !strings.Contains(zlibLine, "1") {
			t.Errorf("zlib row should be numbered 1: %q", zlibLine)
		}

		if !strings.Contains(opensslLine, "2") {
			t.Errorf("openssl row should be numbered 2: %q", opensslLine)
		}
	})

	t.Run("columns follow the given order", func(t *testing.T) {
		out := renderRecords(model.QueryResult{
			Columns: []string{"scm_repo", "repo", "branch"},
			Records: []model.Record{
				{"branch": "master", "repo": "zlib", "scm_repo": "madler/zlib"},
			},
		})

		header := strings.Split(out, "\n")[1]
		scm := strings.Index(header, "scm_repo")
		repo := strings.Index(header, " repo")
		branch := strings.Index(header, "branch")

		if scm < 0 || repo < 0 || branch < 0 {
			t.Fatalf("header missing columns: %q", header)
		}

		if !(scm < repo && repo < branch) {
			t.Errorf("columns out of order: %q", header)
		}
	})

	t.Run("missing keys render empty cells", func(t *testing.T) {
		out := renderRecords(model.QueryResult{
			Columns: []string{"repo", "issue"},
			Records: []model.Record{{"repo": "zlib"}, nil},
		})

		if !strings.Contains(out, "zlib") || !strings.Contains(out, "issue") {
			t.Errorf("unexpected table: %q", out)
		}
	})

	t.Run("empty result renders the header only", func(t *testing.T) {
		out := renderRecords(model.QueryResult{})

		if !strings.Contains(out, indexHeader) {
			t.Errorf("header missing from %q", out)
		}

		if strings.ContainsAny(out, "0123456789") {
			t.Errorf("empty table should have no rows: %q", out)
		}
	})
}
