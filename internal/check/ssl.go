package check

import (
	"strings"

	"github.com/nao1215/sitescore/internal/facts"
	"github.com/nao1215/sitescore/internal/model"
)

func hasPrefix(k facts.Key, prefix string) Condition {
	return func(in *Input) bool { return strings.HasPrefix(in.String(k), prefix) }
}

// servedOverHTTPOnly holds when the final URL is plain HTTP while an
// HTTPS version of the site was reachable.
func servedOverHTTPOnly(in *Input) bool {
	return !strings.HasPrefix(in.String(facts.KeyFinalURL), "https") &&
		strings.HasPrefix(in.String(facts.KeyFinalHTTPSURL), "https")
}

func sslChecks() []Definition {
	webSSL := webServer.hasSSL()
	hsts := keys(facts.KeyWebHasHSTSPreloadHeader, facts.KeyWebHasHSTSHeader, facts.KeyWebHasHSTSPreload, webSSL)

	defs := []Definition{
		{
			Name: "https_scan_failed",
			Keys: keys(facts.KeyWebScanFailed),
			Rules: []Rule{
				when(isTrue(facts.KeyWebScanFailed), neutral(
					"The SSL scan experienced an unexpected error. Please rescan and contact us if the problem persists.",
					model.DevaluatesGroup())),
				abstainOtherwise(),
			},
		},
		{
			Name: "https_scan_finished",
			Keys: keys(facts.KeyWebSSLFinished, webSSL),
			Rules: []Rule{
				when(allOf(isTrue(facts.KeyWebSSLFinished), isFalse(webSSL)),
					critical("The website does not offer an encrypted (HTTPS) version.")),
				abstainOtherwise(),
			},
			Missing: missing(neutral(
				"The SSL scan experienced a problem and had to be aborted, some SSL checks were not performed.",
				model.DevaluatesGroup())),
		},
		{
			Name: "no_https_by_default_but_same_content_via_https",
			Keys: keys(facts.KeyFinalURL, facts.KeyFinalHTTPSURL, facts.KeySameContentViaHTTPS),
			Rules: []Rule{
				when(allOf(servedOverHTTPOnly, isTrue(facts.KeySameContentViaHTTPS)),
					good("The site does not use HTTPS by default but it makes available the same content via HTTPS upon request.")),
				when(allOf(servedOverHTTPOnly, isFalse(facts.KeySameContentViaHTTPS)),
					critical("The web server does not support HTTPS by default. It hosts an HTTPS site, but it does not serve the same content over HTTPS that is offered via HTTP.")),
				when(hasPrefix(facts.KeyFinalURL, "https:"),
					neutral("Not comparing between HTTP and HTTPS version, as the website was scanned only over HTTPS.", model.Unranked())),
				abstainOtherwise(),
			},
		},
		{
			Name: "web_cert",
			Keys: keys(webSSL, facts.KeyWebCertTrusted, facts.KeyWebCertTrustedReason),
			Rules: []Rule{
				when(allOf(isTrue(webSSL), isTrue(facts.KeyWebCertTrusted)),
					good("The website uses a valid security certificate.")),
				when(isFalse(webSSL),
					neutral("Not checking SSL certificate, as the server does not offer SSL")),
				{Then: func(in *Input) model.Result {
					return critical("Server uses an invalid SSL certificate.").
						WithDetails([]model.DetailRow{{in.String(facts.KeyWebCertTrustedReason)}})
				}},
			},
		},
		{
			Name: "site_redirects_to_https",
			Keys: keys(facts.KeyRedirectedToHTTPS, facts.KeyHTTPS, facts.KeyFinalHTTPSURL, webSSL,
				facts.KeyWebCertTrusted, facts.KeyInitialURL),
			Rules: []Rule{
				when(isTrue(facts.KeyRedirectedToHTTPS),
					good("The website redirects visitors to the secure (HTTPS) version.")),
				when(hasPrefix(facts.KeyInitialURL, "https"),
					neutral("Not checking if websites automatically redirects to HTTPS version, as the provided URL already was HTTPS.")),
				when(allOf(isTrue(webSSL), isTrue(facts.KeyWebCertTrusted)),
					critical("The website does not redirect visitors to the secure (HTTPS) version, even though one is available.")),
				otherwise(neutral("Not testing for forward to HTTPS, as the webserver does not offer a well-configured HTTPS.")),
			},
			Missing: missing(neutral("No functional HTTPS version found, so not checking for automated forwarding to HTTPS.")),
		},
		{
			Name: "redirects_from_https_to_http",
			Keys: keys(facts.KeyFinalHTTPSURL, webSSL),
			Rules: []Rule{
				when(hasPrefix(facts.KeyFinalHTTPSURL, "http:"),
					critical("The web server redirects to HTTP if content is requested via HTTPS.")),
				when(isFalse(webSSL),
					neutral("Not checking for HTTPS->HTTP redirection, as the server does not offer HTTPS.")),
				otherwise(good("The web server does not redirect to HTTP if content is requested via HTTPS")),
			},
		},
		{
			Name: "web_pfs",
			Keys: keys(facts.KeyWebPFS),
			Rules: []Rule{
				when(isTrue(facts.KeyWebPFS), good("The web server is supporting perfect forward secrecy.")),
				otherwise(bad("The web server is not supporting perfect forward secrecy.")),
			},
		},
		{
			Name: "web_hsts_header",
			Keys: hsts,
			Rules: []Rule{
				when(isFalse(webSSL), neutral("Not checking for HSTS support, as the server does not offer HTTPS.")),
				when(anyOf(isTrue(facts.KeyWebHasHSTSHeader), isTrue(facts.KeyWebHasHSTSPreload)),
					good("The server uses HSTS to prevent insecure requests.")),
				otherwise(bad("The site is not using HSTS to prevent insecure requests.")),
			},
		},
		{
			Name: "web_hsts_preload_prepared",
			Keys: hsts,
			Rules: []Rule{
				when(isFalse(webSSL),
					neutral("Not checking for HSTS Preloading support, as the server does not offer HTTPS.")),
				when(anyOf(isTrue(facts.KeyWebHasHSTSPreload), isTrue(facts.KeyWebHasHSTSPreloadHeader)),
					good("The server is ready for HSTS preloading.")),
				when(isTrue(facts.KeyWebHasHSTSHeader),
					bad("The site is not using HSTS preloading to prevent insecure requests.")),
				otherwise(neutral("Not checking for HSTS preloading, as the website does not offer HSTS.")),
			},
		},
		{
			Name: "web_hsts_preload_listed",
			Keys: hsts,
			Rules: []Rule{
				when(isFalse(webSSL),
					neutral("Not checking for HSTS Preloading list inclusion, as the server does not offer HTTPS.")),
				when(isTrue(facts.KeyWebHasHSTSPreload),
					good("The server is part of the Chrome HSTS preload list.")),
				when(isTrue(facts.KeyWebHasHSTSPreloadHeader),
					bad("The server is ready for HSTS preloading, but not in the preloading database yet.")),
				when(isTrue(facts.KeyWebHasHSTSHeader),
					neutral("Not checking for inclusion in HSTS preloading lists, as the website does not advertise it.")),
				otherwise(neutral("Not checking for inclusion in HSTS preloading lists, as the website does not offer HSTS.")),
			},
		},
		{
			Name: "web_has_hpkp_header",
			Keys: keys(facts.KeyWebHasHPKPHeader, webSSL),
			Rules: []Rule{
				when(isTrue(facts.KeyWebHasHPKPHeader),
					good("The site uses Public Key Pinning to prevent attackers from using invalid certificates.", model.Unranked())),
				when(isTrue(webSSL),
					bad("The site is not using Public Key Pinning to prevent attackers from using invalid certificates.", model.Unranked())),
				otherwise(neutral("Not checking for HPKP support, as the server does not offer HTTPS.", model.Unranked())),
			},
		},
	}

	defs = append(defs, protocolChecks(webServer)...)
	defs = append(defs, Definition{
		Name: "mixed_content",
		Keys: keys(facts.KeyFinalURL, facts.KeyMixedContent),
		Rules: []Rule{
			when(allOf(isTrue(facts.KeyMixedContent), hasPrefix(facts.KeyFinalURL, "https")),
				bad("The site uses HTTPS, but some objects are retrieved via HTTP (mixed content).")),
			when(allOf(isFalse(facts.KeyMixedContent), hasPrefix(facts.KeyFinalURL, "https")),
				good("The site uses HTTPS and all objects are retrieved via HTTPS (no mixed content).")),
			otherwise(neutral("The site was scanned via HTTP only, mixed content checks do not apply.")),
		},
	})
	defs = append(defs, vulnerabilityChecks(webServer)...)
	return inCategory(model.CategorySSL, defs)
}
