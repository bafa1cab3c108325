package target

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

// TestReadList tests reading target lists.
func TestReadList(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		"example.com",
		"",
		"localhost",
		"https://example.org/",
		"HTTP://EXAMPLE.COM",
		"  example.net  ",
		"ftp://files.example/",
	}, "\n")

	list, err := ReadList(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"http://example.com/", "https://example.org/", "http://example.net/"}
	if !slices.Equal(list.Targets, want) {
		t.Errorf("Targets = %v, want %v", list.Targets, want)
	}

	wantStats := ListStats{Read: 6, Kept: 3, Skipped: 2, Duplicates: 1}
	if list.Stats != wantStats {
		t.Errorf("Stats = %+v, want %+v", list.Stats, wantStats)
	}
}

// TestReadListFile tests reading a target list from disk.
func TestReadListFile(t *testing.T) {
	t.Parallel()

	t.Run("existing file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "targets.txt")
		if err := os.WriteFile(path, []byte("example.com\nexample.com/\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		list, err := ReadListFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if len(list.Targets) != 1 || list.Stats.Duplicates != 1 {
			t.Errorf("unexpected list: %+v", list)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		if _, err := ReadListFile(filepath.Join(t.TempDir(), "missing")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}
