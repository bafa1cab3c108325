package target

import (
	"errors"
	"fmt"
	"net/netip"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

// Target errors.
var (
	// ErrEmptyTarget is returned when the target is blank.
	ErrEmptyTarget = errors.New("target cannot be empty")
	// ErrInvalidTarget is returned when the target cannot be parsed as a URL.
	ErrInvalidTarget = errors.New("invalid target")
	// ErrUnsupportedScheme is returned for schemes other than http and https.
	ErrUnsupportedScheme = errors.New("unsupported target scheme")
)

const defaultScheme = "http"

// profile converts host names to ASCII the way browsers look them up.
var profile = idna.New(
	idna.MapForLookup(),
	idna.Transitional(false),
	idna.StrictDomainName(false),
)

// Normalize returns the canonical form of a site URL.
//
// The scheme defaults to http when missing. Host names are lower-cased
// and converted to punycode, and an empty path becomes "/".
func Normalize(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyTarget
	}
	if !strings.Contains(raw, "://") {
		raw = defaultScheme + "://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrInvalidTarget, raw, err)
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}

	host := strings.TrimSuffix(u.Hostname(), ".")
	if host == "" {
		return "", fmt.Errorf("%w: %q has no host", ErrInvalidTarget, raw)
	}
	ascii, err := asciiHost(host)
	if err != nil {
		return "", fmt.Errorf("%w: host %q: %w", ErrInvalidTarget, host, err)
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}

	return scheme + "://" + ascii + path, nil
}

// asciiHost converts a host name to lower-case punycode. IP literals
// skip IDNA; IPv6 addresses come back bracketed without their zone.
func asciiHost(host string) (string, error) {
	if addr, err := netip.ParseAddr(host); err == nil {
		if addr.Is6() && !addr.Is4In6() {
			return "[" + addr.WithZone("").String() + "]", nil
		}
		return addr.Unmap().String(), nil
	}
	ascii, err := profile.ToASCII(host)
	if err != nil {
		return "", err
	}
	return strings.ToLower(ascii), nil
}

// Host returns the ASCII host name of a normalized target.
func Host(target string) string {
	u, err := url.Parse(target)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
