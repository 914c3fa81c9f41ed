package cmd

import (
	"strings"
	"testing"

	"github.com/runger/folio/internal/api"
)

func TestRunLatest_AllCategories(t *testing.T) {
	withTestEnv(t)
	newPortfolioServer(t)
	latestLimit = 2

	out := captureStdout(t, func() {
		if err := runLatest(latestCmd, nil); err != nil {
			t.Errorf("runLatest() error = %v", err)
		}
	})

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "Devops Dashboard") || !strings.Contains(lines[1], "Wedding Shots") {
		t.Errorf("latest not newest first:\n%s", out)
	}
	if !strings.Contains(lines[1], "by lee · 1 view · Photographer") {
		t.Errorf("single view not singular:\n%s", lines[1])
	}
}

func TestRunLatest_Category(t *testing.T) {
	withTestEnv(t)
	newPortfolioServer(t)
	latestCategory = "design"

	out := captureStdout(t, func() {
		if err := runLatest(latestCmd, nil); err != nil {
			t.Errorf("runLatest() error = %v", err)
		}
	})
	if !strings.Contains(out, "Design System") || strings.Contains(out, "Devops") {
		t.Errorf("output = %q", out)
	}
}

func TestRunLatest_UnknownCategory(t *testing.T) {
	withTestEnv(t)
	latestCategory = "painter"

	if err := runLatest(latestCmd, nil); err == nil {
		t.Error("runLatest() should reject unknown category")
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", api.CategoryAll, false},
		{"all", api.CategoryAll, false},
		{"DEVELOP", api.CategoryDevelop, false},
		{"Design", api.CategoryDesign, false},
		{"photographer", api.CategoryPhotographer, false},
		{"developer", "", true},
	}

	for _, tt := range tests {
		got, err := parseCategory(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseCategory(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseCategory(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
