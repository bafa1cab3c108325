package facts

import "maps"

// CookieStats summarizes the cookies observed while loading a site.
type CookieStats struct {
	FirstPartyShort int `json:"first_party_short" yaml:"first_party_short"`
	FirstPartyLong  int `json:"first_party_long" yaml:"first_party_long"`
	FirstPartyFlash int `json:"first_party_flash" yaml:"first_party_flash"`
	ThirdPartyShort int `json:"third_party_short" yaml:"third_party_short"`
	ThirdPartyLong  int `json:"third_party_long" yaml:"third_party_long"`
	ThirdPartyFlash int `json:"third_party_flash" yaml:"third_party_flash"`

	// ThirdPartyTrack is the number of third-party cookies set by known trackers.
	ThirdPartyTrack int `json:"third_party_track" yaml:"third_party_track"`

	// ThirdPartyTrackUniq is the number of distinct trackers setting cookies.
	ThirdPartyTrackUniq int `json:"third_party_track_uniq" yaml:"third_party_track_uniq"`

	// ThirdPartyTrackDomains lists the tracker domains. It is nil when the
	// scanner did not record them, which is different from an empty list.
	ThirdPartyTrackDomains []string `json:"third_party_track_domains,omitempty" yaml:"third_party_track_domains,omitempty"`
}

// HasTrackDomains reports whether the scanner recorded tracker domains.
func (c CookieStats) HasTrackDomains() bool {
	return c.ThirdPartyTrackDomains != nil
}

// HeaderStatusMissing is the status of a security header the site does not send.
const HeaderStatusMissing = "MISSING"

// HeaderCheck is the scanner's verdict on one HTTP response header.
type HeaderCheck struct {
	// Status is the scanner's verdict, e.g. "OK", "INFO" or "MISSING".
	Status string `json:"status" yaml:"status"`

	// Value is the header value as sent by the server, if any.
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
}

// Headers maps lower-case header names to their checks.
// A nil entry means the scanner looked for the header and recorded nothing.
type Headers map[string]*HeaderCheck

// IsSet reports whether the header was observed and not flagged as missing.
func (h Headers) IsSet(name string) bool {
	hc, ok := h[name]
	if !ok || hc == nil {
		return false
	}
	return hc.Status != HeaderStatusMissing
}

func (h Headers) clone() Headers {
	out := make(Headers, len(h))
	for k, v := range h {
		if v == nil {
			out[k] = nil
			continue
		}
		c := *v
		out[k] = &c
	}
	return out
}

// Vulnerability is one finding of a TLS vulnerability scanner.
type Vulnerability struct {
	// Finding is the scanner's evidence text.
	Finding string `json:"finding" yaml:"finding"`

	// Severity is the scanner's own severity label, if any.
	Severity string `json:"severity,omitempty" yaml:"severity,omitempty"`

	// CVE lists the identifiers the scanner associates with the finding.
	CVE string `json:"cve,omitempty" yaml:"cve,omitempty"`
}

// Vulnerabilities maps scanner record names (e.g. "heartbleed", "poodle_ssl")
// to findings. Only records the scanner reported as present are stored.
type Vulnerabilities map[string]Vulnerability

// Lookup returns the record for a vulnerability, if present.
func (v Vulnerabilities) Lookup(name string) (Vulnerability, bool) {
	rec, ok := v[name]
	return rec, ok
}

func (v Vulnerabilities) clone() Vulnerabilities {
	return maps.Clone(v)
}
