package check

import (
	"github.com/nao1215/sitescore/internal/facts"
	"github.com/nao1215/sitescore/internal/model"
)

func hasMailServers(in *Input) bool {
	return len(in.Strings(facts.KeyMXRecords)) > 0
}

func mxChecks() []Definition {
	mailSSL := mailServer.hasSSL()

	defs := []Definition{
		{
			Name: "has_mx",
			Keys: keys(facts.KeyMXRecords),
			Rules: []Rule{
				when(not(hasMailServers),
					neutral("No mail server is available for this site.", model.DevaluatesGroup())),
				abstainOtherwise(),
			},
		},
		{
			Name: "mx_scan_finished",
			Keys: keys(facts.KeyMXSSLFinished, mailSSL, facts.KeyMXRecords),
			Rules: []Rule{
				when(allOf(isTrue(facts.KeyMXSSLFinished), isFalse(mailSSL), hasMailServers),
					critical("The mail server does not seem to support encryption.")),
				abstainOtherwise(),
			},
			Missing: missing(neutral("The SSL scan of the mail server timed out.")),
		},
	}
	defs = append(defs, protocolChecks(mailServer)...)
	defs = append(defs, vulnerabilityChecks(mailServer)...)
	return inCategory(model.CategoryMX, defs)
}
