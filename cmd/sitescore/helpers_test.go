package main

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/nao1215/sitescore/internal/config"
	sitelog "github.com/nao1215/sitescore/internal/log"
)

// Fact files for example.com before and after moving its web servers.
const (
	factsUS = `{
  "target": "https://example.com/",
  "scanned_at": "2026-01-01T00:00:00Z",
  "facts": {"a_locations": ["United States"], "third_parties_count": 1, "third_parties": ["cdn.example"]}
}`
	factsDE = `{
  "target": "https://example.com/",
  "scanned_at": "2026-02-01T00:00:00Z",
  "facts": {"a_locations": ["Germany"], "third_parties_count": 1, "third_parties": ["cdn.example"]}
}`
)

// writeFile writes content to name inside dir and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// testConfig returns a configuration that keeps the history in a
// temporary directory and renders uncolored text.
func testConfig(t *testing.T, inputs ...string) *config.Config {
	t.Helper()
	cfg := config.NewConfig()
	cfg.Inputs = inputs
	cfg.DBDir = t.TempDir()
	cfg.NoColor = true
	cfg.TargetConfigs = &config.File{}
	return cfg
}

// syncBuffer is a bytes.Buffer safe for concurrent use.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

var quietLogger = sitelog.Discard()
