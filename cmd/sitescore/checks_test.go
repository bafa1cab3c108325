package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/nao1215/sitescore/internal/check"
	"github.com/nao1215/sitescore/internal/model"
)

// TestListChecks tests collecting catalogue entries.
func TestListChecks(t *testing.T) {
	t.Parallel()

	catalogue, err := check.Default()
	if err != nil {
		t.Fatal(err)
	}

	all := listChecks(catalogue, nil)
	if len(all) != catalogue.Len() {
		t.Errorf("expected %d checks, got %d", catalogue.Len(), len(all))
	}

	mx := listChecks(catalogue, []model.Category{model.CategoryMX})
	if len(mx) != len(catalogue.Checks(model.CategoryMX)) {
		t.Errorf("expected %d mx checks, got %d", len(catalogue.Checks(model.CategoryMX)), len(mx))
	}
	for _, info := range mx {
		if info.Category != model.CategoryMX {
			t.Errorf("unexpected category %s", info.Category)
		}
		if len(info.Keys) == 0 || info.Missing == "" {
			t.Errorf("incomplete entry %+v", info)
		}
	}
}

// TestChecksCommand tests table and JSON output.
func TestChecksCommand(t *testing.T) {
	t.Parallel()

	t.Run("table", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		root := NewRootCmd()
		root.SetOut(&out)
		root.SetErr(&bytes.Buffer{})
		root.SetArgs([]string{"checks"})
		if err := root.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out.String(), "71 checks") || !strings.Contains(out.String(), "third_parties") {
			t.Errorf("unexpected output:\n%s", out.String())
		}
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		root := NewRootCmd()
		root.SetOut(&out)
		root.SetErr(&bytes.Buffer{})
		root.SetArgs([]string{"checks", "-C", "privacy", "--json"})
		if err := root.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var infos []checkInfo
		if err := json.Unmarshal(out.Bytes(), &infos); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(infos) == 0 || infos[0].Category != model.CategoryPrivacy {
			t.Errorf("unexpected entries %+v", infos)
		}
	})

	t.Run("unknown category", func(t *testing.T) {
		t.Parallel()

		root := NewRootCmd()
		root.SetOut(&bytes.Buffer{})
		root.SetErr(&bytes.Buffer{})
		root.SetArgs([]string{"checks", "-C", "dns"})
		if err := root.Execute(); err == nil {
			t.Error("expected error for unknown category")
		}
	})
}
