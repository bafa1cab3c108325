package check

import (
	"testing"

	"github.com/nao1215/sitescore/internal/facts"
	"github.com/nao1215/sitescore/internal/model"
)

// TestMXChecks covers the mail server checks.
func TestMXChecks(t *testing.T) {
	t.Parallel()

	mxSSL := facts.HasSSLKey(facts.ServerMail)
	scan := func(finished, ssl bool, records []string) map[facts.Key]any {
		return map[facts.Key]any{facts.KeyMXSSLFinished: finished, mxSSL: ssl, facts.KeyMXRecords: records}
	}

	runCheckCases(t, model.CategoryMX, []checkCase{
		{
			name:    "mail server present",
			check:   "has_mx",
			facts:   map[facts.Key]any{facts.KeyMXRecords: []string{"mx.example.com"}},
			abstain: true,
		},
		{
			name:     "mail server without encryption",
			check:    "mx_scan_finished",
			facts:    scan(true, false, []string{"mx.example.com"}),
			want:     model.ClassificationCritical,
			wantText: "The mail server does not seem to support encryption.",
		},
		{
			name:    "mail server with encryption",
			check:   "mx_scan_finished",
			facts:   scan(true, true, []string{"mx.example.com"}),
			abstain: true,
		},
		{
			name:    "no mail server to scan",
			check:   "mx_scan_finished",
			facts:   scan(true, false, []string{}),
			abstain: true,
		},
		{
			name:     "mail scan timed out",
			check:    "mx_scan_finished",
			facts:    map[facts.Key]any{facts.KeyMXRecords: []string{"mx.example.com"}},
			want:     model.ClassificationNeutral,
			wantText: "The SSL scan of the mail server timed out.",
		},
		{
			name:     "protocol texts name TLS",
			check:    "mx_secure_protocols_tls1",
			facts:    map[facts.Key]any{facts.ProtocolKey(facts.ServerMail, "tls1"): true, mxSSL: false},
			want:     model.ClassificationNeutral,
			wantText: "The server supports TLS 1.0.",
		},
		{
			name:     "protocol not checked without TLS",
			check:    "mx_insecure_protocols_sslv3",
			facts:    map[facts.Key]any{facts.ProtocolKey(facts.ServerMail, "sslv3"): true, mxSSL: false},
			want:     model.ClassificationNeutral,
			wantText: "Not checking for SSLv3 support, as the server does not offer TLS.",
		},
		{
			name:     "missing tls 1.2 is critical for mail too",
			check:    "mx_secure_protocols_tls1_2",
			facts:    map[facts.Key]any{facts.ProtocolKey(facts.ServerMail, "tls1_2"): false, mxSSL: true},
			want:     model.ClassificationCritical,
			wantText: "The server does not support TLS 1.2.",
		},
		{
			name:  "vulnerability on the mail server",
			check: "mx_vuln_logjam",
			facts: map[facts.Key]any{
				facts.VulnerabilitiesKey(facts.ServerMail): facts.Vulnerabilities{"logjam": {Finding: "DH 1024"}},
				mxSSL: true,
			},
			want:     model.ClassificationBad,
			wantText: "The server may be vulnerable to the LOGJAM attack.",
		},
		{
			name:  "vulnerability not checked without TLS",
			check: "mx_vuln_beast",
			facts: map[facts.Key]any{
				facts.VulnerabilitiesKey(facts.ServerMail): facts.Vulnerabilities{},
				mxSSL: false,
			},
			want:     model.ClassificationNeutral,
			wantText: "Not checking for the BEAST vulnerability, as the server does not offer TLS.",
		},
	})
}
