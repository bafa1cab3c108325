package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/nao1215/sitescore/internal/model"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected default values.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default Timeout is 30 seconds", func(t *testing.T) {
		t.Parallel()
		if cfg.Timeout != 30*time.Second {
			t.Errorf("expected Timeout to be 30s, got %v", cfg.Timeout)
		}
	})

	t.Run("default BatchSize is 10", func(t *testing.T) {
		t.Parallel()
		if cfg.BatchSize != 10 {
			t.Errorf("expected BatchSize to be 10, got %d", cfg.BatchSize)
		}
	})

	t.Run("history is enabled in the XDG data directory", func(t *testing.T) {
		t.Parallel()
		if !cfg.SaveToDB {
			t.Error("expected SaveToDB to be true")
		}
		if cfg.DBDir != XDGDataDir() {
			t.Errorf("expected DBDir %q, got %q", XDGDataDir(), cfg.DBDir)
		}
	})

	t.Run("all categories by default", func(t *testing.T) {
		t.Parallel()
		if len(cfg.Categories) != 0 {
			t.Errorf("expected no category restriction, got %v", cfg.Categories)
		}
	})
}

// TestConfigValidate tests the Validate method with various configurations.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	validConfig := func() *Config {
		cfg := NewConfig()
		cfg.Inputs = []string{"example.json"}
		return cfg
	}

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{name: "valid config", modify: func(*Config) {}},
		{name: "json only", modify: func(c *Config) { c.JSONReport = true }},
		{name: "markdown only", modify: func(c *Config) { c.MarkdownReport = true }},
		{name: "history disabled without dir", modify: func(c *Config) { c.SaveToDB = false; c.DBDir = "" }},
		{name: "no inputs", modify: func(c *Config) { c.Inputs = nil }, wantErr: ErrNoInput},
		{name: "zero timeout", modify: func(c *Config) { c.Timeout = 0 }, wantErr: ErrInvalidTimeout},
		{name: "negative timeout", modify: func(c *Config) { c.Timeout = -time.Second }, wantErr: ErrInvalidTimeout},
		{name: "zero batch size", modify: func(c *Config) { c.BatchSize = 0 }, wantErr: ErrInvalidBatchSize},
		{
			name:    "json and markdown",
			modify:  func(c *Config) { c.JSONReport = true; c.MarkdownReport = true },
			wantErr: ErrConflictingReportFormats,
		},
		{name: "history without dir", modify: func(c *Config) { c.DBDir = "" }, wantErr: ErrNoDBDir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestParseCategories tests category name parsing.
func TestParseCategories(t *testing.T) {
	t.Parallel()

	t.Run("restores catalogue order and drops duplicates", func(t *testing.T) {
		t.Parallel()
		got, err := ParseCategories([]string{"mx", "privacy", "mx"})
		if err != nil {
			t.Fatal(err)
		}
		want := []model.Category{model.CategoryPrivacy, model.CategoryMX}
		if !slices.Equal(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()
		got, err := ParseCategories(nil)
		if err != nil || len(got) != 0 {
			t.Errorf("expected no categories, got %v, %v", got, err)
		}
	})

	t.Run("unknown category", func(t *testing.T) {
		t.Parallel()
		if _, err := ParseCategories([]string{"tls"}); !errors.Is(err, ErrUnknownCategory) {
			t.Errorf("expected ErrUnknownCategory, got %v", err)
		}
	})
}

// TestFileTargetConfig tests merging per-target overrides with the defaults.
func TestFileTargetConfig(t *testing.T) {
	t.Parallel()

	file := &File{
		Defaults: TargetConfig{
			Categories:         []string{"privacy", "security"},
			ExtraGDPRCountries: []string{"Switzerland"},
		},
		Targets: map[string]TargetConfig{
			"https://example.com/": {
				Categories:         []string{"ssl"},
				ExtraGDPRCountries: []string{"Switzerland", "Andorra"},
				Labels:             []string{"reliable"},
			},
		},
	}

	t.Run("returns defaults when target not found", func(t *testing.T) {
		t.Parallel()
		tc := file.TargetConfig("https://unknown.example/")
		if !slices.Equal(tc.Categories, []string{"privacy", "security"}) {
			t.Errorf("unexpected categories %v", tc.Categories)
		}
		if len(tc.Labels) != 0 {
			t.Errorf("unexpected labels %v", tc.Labels)
		}
	})

	t.Run("merges target config", func(t *testing.T) {
		t.Parallel()
		tc := file.TargetConfig("https://example.com/")
		if !slices.Equal(tc.Categories, []string{"ssl"}) {
			t.Errorf("unexpected categories %v", tc.Categories)
		}
		if !slices.Equal(tc.ExtraGDPRCountries, []string{"Switzerland", "Andorra"}) {
			t.Errorf("unexpected countries %v", tc.ExtraGDPRCountries)
		}
		if !slices.Equal(tc.Labels, []string{"reliable"}) {
			t.Errorf("unexpected labels %v", tc.Labels)
		}
	})

	t.Run("matches unnormalized target", func(t *testing.T) {
		t.Parallel()
		tc := file.TargetConfig("HTTPS://Example.com")
		if !slices.Equal(tc.Categories, []string{"ssl"}) {
			t.Errorf("unexpected categories %v", tc.Categories)
		}
	})

	t.Run("does not alias defaults", func(t *testing.T) {
		t.Parallel()
		tc := file.TargetConfig("https://unknown.example/")
		tc.Categories[0] = "mx"
		if file.Defaults.Categories[0] != "privacy" {
			t.Error("TargetConfig must return copies")
		}
	})

	t.Run("nil file", func(t *testing.T) {
		t.Parallel()
		var nilFile *File
		if tc := nilFile.TargetConfig("https://example.com/"); len(tc.Categories) != 0 {
			t.Errorf("expected empty config, got %+v", tc)
		}
	})
}

// TestLoadConfigFile tests the LoadConfigFile function.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	write := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), ".sitescore")
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		return path
	}

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfigFile("/nonexistent/path/.sitescore")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cfg != nil {
			t.Error("expected nil config when file not found")
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()

		path := write(t, `defaults:
  categories: [privacy, ssl]
  extraGDPRCountries: [Switzerland]
targets:
  Example.com:
    categories: [mx]
    labels: [reliable]
`)
		cfg, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !slices.Equal(cfg.Defaults.Categories, []string{"privacy", "ssl"}) {
			t.Errorf("unexpected default categories %v", cfg.Defaults.Categories)
		}
		site, ok := cfg.Targets["http://example.com/"]
		if !ok {
			t.Fatalf("expected normalized target key, got %v", cfg.Targets)
		}
		if !slices.Equal(site.Labels, []string{"reliable"}) {
			t.Errorf("unexpected labels %v", site.Labels)
		}
	})

	t.Run("rejects unknown categories", func(t *testing.T) {
		t.Parallel()

		path := write(t, `targets:
  example.com:
    categories: [dns]
`)
		if _, err := LoadConfigFile(path); !errors.Is(err, ErrUnknownCategory) {
			t.Errorf("expected ErrUnknownCategory, got %v", err)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		if _, err := LoadConfigFile(write(t, `invalid: yaml: content: [}`)); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns explicit path if exists", func(t *testing.T) {
		t.Parallel()
		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(configPath, []byte("defaults: {}"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if result := FindConfigFile(configPath); result != configPath {
			t.Errorf("expected %q, got %q", configPath, result)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		t.Parallel()
		if result := FindConfigFile("/nonexistent/path/config.yaml"); result != "" {
			t.Errorf("expected empty string, got %q", result)
		}
	})
}

// TestXDGDirs tests XDG directory functions.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	if filepath.Base(XDGDataDir()) != AppName {
		t.Errorf("unexpected data dir %q", XDGDataDir())
	}
	if filepath.Base(XDGConfigDir()) != AppName {
		t.Errorf("unexpected config dir %q", XDGConfigDir())
	}
}
