package check

import (
	"github.com/nao1215/sitescore/internal/facts"
	"github.com/nao1215/sitescore/internal/model"
)

// securityHeader describes a response header check.
type securityHeader struct {
	name   string
	header string
	set    string
	unset  string
}

var securityHeaders = []securityHeader{
	{
		name:   "header_csp",
		header: "content-security-policy",
		set:    "The site sets a Content-Security-Policy (CSP) header.",
		unset:  "The site does not set a Content-Security-Policy (CSP) header.",
	},
	{
		name:   "header_xfo",
		header: "x-frame-options",
		set:    "The site sets a X-Frame-Options (XFO) header.",
		unset:  "The site does not set a X-Frame-Options (XFO) header.",
	},
	{
		name:   "header_xssp",
		header: "x-xss-protection",
		set:    "The site sets a X-XSS-Protection  header.",
		unset:  "The site does not set a X-XSS-Protection header.",
	},
	{
		name:   "header_xcto",
		header: "x-content-type-options",
		set:    "The site sets a X-Content-Type-Options header.",
		unset:  "The site does not set a X-Content-Type-Options header.",
	},
	{
		name:   "header_ref",
		header: "referrer-policy",
		set:    "The site sets a Referrer-Policy header.",
		unset:  "The site does not set a referrer-policy header.",
	},
}

func headerCheck(h securityHeader) Definition {
	return Definition{
		Name: h.name,
		Keys: keys(facts.KeyHeaderChecks),
		Rules: []Rule{
			when(func(in *Input) bool { return in.Headers(facts.KeyHeaderChecks).IsSet(h.header) }, good(h.set)),
			otherwise(bad(h.unset)),
		},
	}
}

func securityChecks() []Definition {
	defs := []Definition{
		{
			Name: "leaks",
			Keys: keys(facts.KeyLeaks),
			Rules: []Rule{
				when(func(in *Input) bool { return len(in.Strings(facts.KeyLeaks)) == 0 },
					good("The site does not disclose internal system information at usual paths.")),
				{Then: func(in *Input) model.Result {
					return bad("The site discloses internal system information that should not be available.").
						WithDetails(model.SingleColumn(in.Strings(facts.KeyLeaks)))
				}},
			},
		},
	}
	for _, h := range securityHeaders {
		defs = append(defs, headerCheck(h))
	}
	return inCategory(model.CategorySecurity, defs)
}
