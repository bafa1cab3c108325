package facts

import (
	"slices"
)

// Key names one measurement in a Store.
type Key string

// Kind is the declared shape of a key's value.
type Kind int

const (
	// KindBool is a boolean flag.
	KindBool Kind = iota
	// KindInt is an integer count.
	KindInt
	// KindString is a single string, typically a URL.
	KindString
	// KindStrings is an ordered list of strings.
	KindStrings
	// KindCookies is a CookieStats record.
	KindCookies
	// KindHeaders is a Headers map.
	KindHeaders
	// KindVulnerabilities is a Vulnerabilities map.
	KindVulnerabilities
)

// String returns the kind name used in error messages.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindString:
		return "string"
	case KindStrings:
		return "strings"
	case KindCookies:
		return "cookies"
	case KindHeaders:
		return "headers"
	case KindVulnerabilities:
		return "vulnerabilities"
	default:
		return "unknown"
	}
}

// Privacy facts.
const (
	KeyThirdPartiesCount                Key = "third_parties_count"
	KeyThirdParties                     Key = "third_parties"
	KeyTrackerRequests                  Key = "tracker_requests"
	KeyCookieStats                      Key = "cookie_stats"
	KeyGoogleAnalyticsPresent           Key = "google_analytics_present"
	KeyGoogleAnalyticsAnonymizeIPNotSet Key = "google_analytics_anonymizeIP_not_set"
	KeyALocations                       Key = "a_locations"
	KeyMXLocations                      Key = "mx_locations"
)

// Security facts.
const (
	KeyLeaks        Key = "leaks"
	KeyHeaderChecks Key = "headerchecks"
)

// Web server TLS and redirect facts.
const (
	KeyWebScanFailed           Key = "web_scan_failed"
	KeyWebSSLFinished          Key = "web_ssl_finished"
	KeyFinalURL                Key = "final_url"
	KeyFinalHTTPSURL           Key = "final_https_url"
	KeyInitialURL              Key = "initial_url"
	KeySameContentViaHTTPS     Key = "same_content_via_https"
	KeyWebCertTrusted          Key = "web_cert_trusted"
	KeyWebCertTrustedReason    Key = "web_cert_trusted_reason"
	KeyRedirectedToHTTPS       Key = "redirected_to_https"
	KeyHTTPS                   Key = "https"
	KeyWebPFS                  Key = "web_pfs"
	KeyWebHasHSTSHeader        Key = "web_has_hsts_header"
	KeyWebHasHSTSPreloadHeader Key = "web_has_hsts_preload_header"
	KeyWebHasHSTSPreload       Key = "web_has_hsts_preload"
	KeyWebHasHPKPHeader        Key = "web_has_hpkp_header"
	KeyMixedContent            Key = "mixed_content"
)

// Mail server facts.
const (
	KeyMXRecords     Key = "mx_records"
	KeyMXSSLFinished Key = "mx_ssl_finished"
)

// Server selects the key prefix of facts shared between the web server
// and the mail servers.
type Server string

const (
	// ServerWeb prefixes web server facts ("web_has_ssl").
	ServerWeb Server = "web"
	// ServerMail prefixes mail server facts ("mx_has_ssl").
	ServerMail Server = "mx"
)

// Protocols lists the TLS protocol versions whose support is recorded per server.
var Protocols = []string{"sslv2", "sslv3", "tls1", "tls1_1", "tls1_2"}

// HasSSLKey returns the key telling whether the server offers TLS at all.
func HasSSLKey(s Server) Key {
	return Key(string(s) + "_has_ssl")
}

// ProtocolKey returns the key telling whether the server supports a protocol version.
func ProtocolKey(s Server, protocol string) Key {
	return Key(string(s) + "_has_protocol_" + protocol)
}

// VulnerabilitiesKey returns the key holding the server's vulnerability records.
func VulnerabilitiesKey(s Server) Key {
	return Key(string(s) + "_vulnerabilities")
}

var schema = buildSchema()

func buildSchema() map[Key]Kind {
	m := map[Key]Kind{
		KeyThirdPartiesCount:                KindInt,
		KeyThirdParties:                     KindStrings,
		KeyTrackerRequests:                  KindStrings,
		KeyCookieStats:                      KindCookies,
		KeyGoogleAnalyticsPresent:           KindBool,
		KeyGoogleAnalyticsAnonymizeIPNotSet: KindBool,
		KeyALocations:                       KindStrings,
		KeyMXLocations:                      KindStrings,

		KeyLeaks:        KindStrings,
		KeyHeaderChecks: KindHeaders,

		KeyWebScanFailed:           KindBool,
		KeyWebSSLFinished:          KindBool,
		KeyFinalURL:                KindString,
		KeyFinalHTTPSURL:           KindString,
		KeyInitialURL:              KindString,
		KeySameContentViaHTTPS:     KindBool,
		KeyWebCertTrusted:          KindBool,
		KeyWebCertTrustedReason:    KindString,
		KeyRedirectedToHTTPS:       KindBool,
		KeyHTTPS:                   KindBool,
		KeyWebPFS:                  KindBool,
		KeyWebHasHSTSHeader:        KindBool,
		KeyWebHasHSTSPreloadHeader: KindBool,
		KeyWebHasHSTSPreload:       KindBool,
		KeyWebHasHPKPHeader:        KindBool,
		KeyMixedContent:            KindBool,

		KeyMXRecords:     KindStrings,
		KeyMXSSLFinished: KindBool,
	}
	for _, s := range []Server{ServerWeb, ServerMail} {
		m[HasSSLKey(s)] = KindBool
		m[VulnerabilitiesKey(s)] = KindVulnerabilities
		for _, p := range Protocols {
			m[ProtocolKey(s, p)] = KindBool
		}
	}
	return m
}

// KindOf returns the declared kind of a key.
func KindOf(k Key) (Kind, bool) {
	kind, ok := schema[k]
	return kind, ok
}

// KnownKeys returns every key of the schema in lexical order.
func KnownKeys() []Key {
	keys := make([]Key, 0, len(schema))
	for k := range schema {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
