package facts

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Format is the encoding of a fact file.
type Format int

const (
	// FormatJSON is a JSON fact file.
	FormatJSON Format = iota
	// FormatYAML is a YAML fact file.
	FormatYAML
)

// ErrEmptyDocument is returned when a fact file holds no object.
var ErrEmptyDocument = errors.New("fact document is empty")

// Envelope fields of a fact file. When the "facts" field is absent the
// whole document, minus the envelope fields, is taken as the fact map.
const (
	fieldTarget    = "target"
	fieldScannedAt = "scanned_at"
	fieldFacts     = "facts"
)

// Snapshot is a decoded fact file.
type Snapshot struct {
	// Target is the scanned URL as recorded in the file. It may be empty.
	Target string

	// ScannedAt is when the facts were collected. It may be zero.
	ScannedAt time.Time

	// Facts holds the decoded, schema-checked values.
	Facts *Store
}

// FormatFromPath picks the format from a file extension.
// ".yaml" and ".yml" select YAML; everything else is treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// LoadFile reads and decodes a fact file.
func LoadFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path) //nolint:gosec // fact file path comes from the user
	if err != nil {
		return nil, fmt.Errorf("failed to read fact file: %w", err)
	}
	snap, err := Decode(bytes.NewReader(data), FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return snap, nil
}

// Decode reads a fact document in the given format.
// A value whose shape does not match its key's Kind rejects the whole
// document. A null value stores the zero value of the kind.
func Decode(r io.Reader, format Format) (*Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if format == FormatYAML {
		data, err = yamlToJSON(data)
		if err != nil {
			return nil, err
		}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyDocument
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse fact document: %w", err)
	}
	if doc == nil {
		return nil, ErrEmptyDocument
	}

	snap := &Snapshot{}
	if raw, ok := doc[fieldTarget]; ok {
		if err := json.Unmarshal(raw, &snap.Target); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", fieldTarget, err)
		}
	}
	if raw, ok := doc[fieldScannedAt]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &snap.ScannedAt); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", fieldScannedAt, err)
		}
	}

	raws := doc
	if raw, ok := doc[fieldFacts]; ok {
		raws = nil
		if err := json.Unmarshal(raw, &raws); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", fieldFacts, err)
		}
	} else {
		delete(raws, fieldTarget)
		delete(raws, fieldScannedAt)
	}

	store := &Store{values: make(map[Key]any, len(raws))}
	for name, raw := range raws {
		k := Key(name)
		kind, ok := KindOf(k)
		if !ok {
			store.extra = append(store.extra, name)
			continue
		}
		v, err := decodeValue(kind, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidValue, name, err)
		}
		store.values[k] = v
	}
	slices.Sort(store.extra)
	snap.Facts = store
	return snap, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(bytes.TrimSpace(raw)) == "null"
}

func decodeValue(kind Kind, raw json.RawMessage) (any, error) {
	switch kind {
	case KindBool:
		return decodeInto(raw, false)
	case KindInt:
		return decodeInto(raw, 0)
	case KindString:
		return decodeInto(raw, "")
	case KindStrings:
		return decodeStrings(raw)
	case KindCookies:
		return decodeCookies(raw)
	case KindHeaders:
		return decodeInto(raw, Headers{})
	case KindVulnerabilities:
		return decodeVulnerabilities(raw)
	default:
		return nil, fmt.Errorf("unsupported kind %s", kind)
	}
}

// decodeInto decodes raw into a value starting from zero. A null raw
// value yields zero unchanged.
func decodeInto[T any](raw json.RawMessage, zero T) (T, error) {
	v := zero
	if isNull(raw) {
		return v, nil
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return zero, err
	}
	return v, nil
}

// cookieCountFields are the CookieStats counters a record must carry.
var cookieCountFields = []string{
	"first_party_short", "first_party_long", "first_party_flash",
	"third_party_short", "third_party_long", "third_party_flash",
	"third_party_track", "third_party_track_uniq",
}

// decodeCookies requires every counter of the record; only the tracker
// domain list may be absent. Unknown fields are rejected.
func decodeCookies(raw json.RawMessage) (CookieStats, error) {
	var c CookieStats
	if isNull(raw) {
		return c, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return c, err
	}
	for _, name := range cookieCountFields {
		if f, ok := fields[name]; !ok || isNull(f) {
			return c, fmt.Errorf("missing field %s", name)
		}
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return CookieStats{}, err
	}
	return c, nil
}

// decodeStrings accepts null entries inside the list and stores them as
// empty strings, which checks treat as "no value".
func decodeStrings(raw json.RawMessage) ([]string, error) {
	out := []string{}
	if isNull(raw) {
		return out, nil
	}
	var entries []*string
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e == nil {
			out = append(out, "")
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

// decodeVulnerabilities keeps only records that are non-null, non-empty
// objects. A kept record must carry its finding.
func decodeVulnerabilities(raw json.RawMessage) (Vulnerabilities, error) {
	out := Vulnerabilities{}
	if isNull(raw) {
		return out, nil
	}
	var records map[string]json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, err
	}
	for name, rec := range records {
		if isNull(rec) {
			continue
		}
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(rec, &fields); err != nil {
			return nil, fmt.Errorf("record %s: %w", name, err)
		}
		if len(fields) == 0 {
			continue
		}
		if f, ok := fields["finding"]; !ok || isNull(f) {
			return nil, fmt.Errorf("record %s: missing field finding", name)
		}
		var v Vulnerability
		if err := json.Unmarshal(rec, &v); err != nil {
			return nil, fmt.Errorf("record %s: %w", name, err)
		}
		out[name] = v
	}
	return out, nil
}

// yamlToJSON converts a YAML document into JSON so both formats share
// one decoding path.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse fact document: %w", err)
	}
	if doc == nil {
		return nil, ErrEmptyDocument
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to convert YAML facts: %w", err)
	}
	return out, nil
}
