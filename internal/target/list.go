package target

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ListStats counts what happened to the lines of a target list.
type ListStats struct {
	// Read is the number of non-blank lines read.
	Read int `json:"read"`
	// Kept is the number of distinct targets returned.
	Kept int `json:"kept"`
	// Skipped counts lines without a dot or that failed to normalize.
	Skipped int `json:"skipped"`
	// Duplicates counts lines that normalized to an earlier target.
	Duplicates int `json:"duplicates"`
}

// List is the result of reading a target list.
type List struct {
	Targets []string  `json:"targets"`
	Stats   ListStats `json:"stats"`
}

// ReadListFile reads a newline separated list of targets from path.
func ReadListFile(path string) (*List, error) {
	f, err := os.Open(path) //nolint:gosec // path is provided by the user
	if err != nil {
		return nil, fmt.Errorf("failed to open target list: %w", err)
	}
	defer f.Close()

	return ReadList(f)
}

// ReadList reads a newline separated list of targets.
//
// Lines that do not contain a dot cannot name a site and are skipped.
// The remaining lines are normalized and duplicates are dropped, keeping
// the order of first appearance.
func ReadList(r io.Reader) (*List, error) {
	list := &List{}
	seen := make(map[string]struct{})

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		list.Stats.Read++

		if !strings.Contains(line, ".") {
			list.Stats.Skipped++
			continue
		}
		t, err := Normalize(line)
		if err != nil {
			list.Stats.Skipped++
			continue
		}
		if _, dup := seen[t]; dup {
			list.Stats.Duplicates++
			continue
		}
		seen[t] = struct{}{}
		list.Targets = append(list.Targets, t)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read target list: %w", err)
	}

	list.Stats.Kept = len(list.Targets)
	return list, nil
}
