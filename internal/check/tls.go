package check

import (
	"fmt"

	"github.com/nao1215/sitescore/internal/facts"
	"github.com/nao1215/sitescore/internal/model"
)

// server describes one of the two TLS endpoints a site exposes.
type server struct {
	prefix   facts.Server
	category model.Category

	// transport is the name used in "as the server does not offer ..." texts.
	transport string
}

var (
	webServer  = server{prefix: facts.ServerWeb, category: model.CategorySSL, transport: "HTTPS"}
	mailServer = server{prefix: facts.ServerMail, category: model.CategoryMX, transport: "TLS"}
)

func (s server) hasSSL() facts.Key {
	return facts.HasSSLKey(s.prefix)
}

func (s server) notOffered() string {
	return ", as the server does not offer " + s.transport + "."
}

// protocol describes a TLS protocol version check.
type protocol struct {
	// fact is the protocol suffix of the *_has_protocol_* fact.
	fact string

	// name is the check name suffix, e.g. "insecure_protocols_sslv2".
	name string

	// label is the protocol as printed, e.g. "SSLv2" or "TLS 1.0".
	label string

	// subject completes "Not checking for ..." texts.
	subject string

	// decisive is the support value that is rated without looking at
	// whether the server offers TLS at all: absence for insecure protocols,
	// presence for the TLS versions.
	decisive bool

	// supported and unsupported are the classifications of the two support states.
	supported   model.Classification
	unsupported model.Classification
}

var protocols = []protocol{
	{
		fact: "sslv2", name: "insecure_protocols_sslv2", label: "SSLv2", subject: "SSLv2 support",
		decisive: false, supported: model.ClassificationBad, unsupported: model.ClassificationGood,
	},
	{
		fact: "sslv3", name: "insecure_protocols_sslv3", label: "SSLv3", subject: "SSLv3 support",
		decisive: false, supported: model.ClassificationBad, unsupported: model.ClassificationGood,
	},
	{
		fact: "tls1", name: "secure_protocols_tls1", label: "TLS 1.0", subject: "TLS 1.0-support",
		decisive: true, supported: model.ClassificationNeutral, unsupported: model.ClassificationGood,
	},
	{
		fact: "tls1_1", name: "secure_protocols_tls1_1", label: "TLS 1.1", subject: "TLS 1.1-support",
		decisive: true, supported: model.ClassificationNeutral, unsupported: model.ClassificationNeutral,
	},
	{
		fact: "tls1_2", name: "secure_protocols_tls1_2", label: "TLS 1.2", subject: "TLS 1.2-support",
		decisive: true, supported: model.ClassificationGood, unsupported: model.ClassificationCritical,
	},
}

// protocolCheck builds the support check of one protocol version on one server.
func protocolCheck(s server, p protocol) Definition {
	fact := facts.ProtocolKey(s.prefix, p.fact)
	outcome := func(supported bool) model.Result {
		if supported {
			return result("The server supports "+p.label+".", p.supported)
		}
		return result("The server does not support "+p.label+".", p.unsupported)
	}
	return Definition{
		Name:     string(s.prefix) + "_" + p.name,
		Category: s.category,
		Keys:     keys(fact, s.hasSSL()),
		Labels:   []string{LabelUnreliable},
		Rules: []Rule{
			when(func(in *Input) bool { return in.Bool(fact) == p.decisive }, outcome(p.decisive)),
			when(isTrue(s.hasSSL()), outcome(!p.decisive)),
			otherwise(neutral("Not checking for " + p.subject + s.notOffered())),
		},
	}
}

// vulnerability describes a TLS vulnerability check.
type vulnerability struct {
	// name is the check name suffix, e.g. "poodle".
	name string

	// record is the scanner's record name, e.g. "poodle_ssl".
	record string

	vulnerable  string
	secure      string
	notChecking string
}

// attack builds the usual texts for a named attack.
func attack(name, record, label string) vulnerability {
	return vulnerability{
		name:        name,
		record:      record,
		vulnerable:  fmt.Sprintf("The server may be vulnerable to the %s attack.", label),
		secure:      fmt.Sprintf("The server is secure against the %s attack.", label),
		notChecking: fmt.Sprintf("Not checking for the %s vulnerability", label),
	}
}

var vulnerabilities = []vulnerability{
	attack("heartbleed", "heartbleed", "Heartbleed"),
	attack("ccs", "ccs", "CCS"),
	attack("ticketbleed", "ticketbleed", "Ticketbleed"),
	{
		name:        "secure_renego",
		record:      "secure-renego",
		vulnerable:  "The server may be vulnerable to a Secure Re-Negotiation attack.",
		secure:      "The server is secure against the Secure Re-Negotiation attack.",
		notChecking: "Not checking for the Secure Re-Negotiation vulnerability",
	},
	attack("secure_client_renego", "sec_client_renego", "Secure Client Re-Negotiation"),
	attack("crime", "crime", "CRIME"),
	attack("breach", "breach", "BREACH"),
	attack("poodle", "poodle_ssl", "POODLE"),
	attack("sweet32", "sweet32", "SWEET32"),
	attack("freak", "freak", "FREAK"),
	attack("drown", "drown", "DROWN"),
	attack("logjam", "logjam", "LOGJAM"),
	attack("beast", "beast", "BEAST"),
	attack("lucky13", "lucky13", "LUCKY13"),
	{
		name:        "rc4",
		record:      "rc4",
		vulnerable:  "The server supports the outdated and insecure RC4 cipher.",
		secure:      "The server does not support the outdated and insecure RC4 cipher.",
		notChecking: "Not checking for RC4 cipher support",
	},
	{
		name:        "fallback_scsv",
		record:      "fallback_scsv",
		vulnerable:  "The server is not using TLS_FALLBACK_SCSV to prevent downgrade attacks.",
		secure:      "The server uses TLS_FALLBACK_SCSV to prevent downgrade attacks.",
		notChecking: "Not checking for TLS_FALLBACK_SCSV support",
	},
}

// vulnerabilityCheck builds the check of one vulnerability on one server.
// A present record is rated bad and carries the scanner's finding, even
// when the server is not known to offer TLS.
func vulnerabilityCheck(s server, v vulnerability) Definition {
	recs := facts.VulnerabilitiesKey(s.prefix)
	present := func(in *Input) bool {
		_, ok := in.Vulnerabilities(recs).Lookup(v.record)
		return ok
	}
	return Definition{
		Name:     string(s.prefix) + "_vuln_" + v.name,
		Category: s.category,
		Keys:     keys(recs, s.hasSSL()),
		Labels:   []string{LabelUnreliable},
		Rules: []Rule{
			{
				When: present,
				Then: func(in *Input) model.Result {
					rec, _ := in.Vulnerabilities(recs).Lookup(v.record)
					return bad(v.vulnerable).WithFinding(rec.Finding)
				},
			},
			when(isTrue(s.hasSSL()), good(v.secure)),
			otherwise(neutral(v.notChecking + s.notOffered())),
		},
	}
}

// protocolChecks returns the protocol version checks of one server.
func protocolChecks(s server) []Definition {
	defs := make([]Definition, 0, len(protocols))
	for _, p := range protocols {
		defs = append(defs, protocolCheck(s, p))
	}
	return defs
}

// vulnerabilityChecks returns the vulnerability checks of one server.
func vulnerabilityChecks(s server) []Definition {
	defs := make([]Definition, 0, len(vulnerabilities))
	for _, v := range vulnerabilities {
		defs = append(defs, vulnerabilityCheck(s, v))
	}
	return defs
}
