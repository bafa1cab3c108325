package check

import (
	"fmt"
	"maps"
	"slices"

	"github.com/nao1215/sitescore/internal/facts"
	"github.com/nao1215/sitescore/internal/model"
)

const (
	thirdPartiesDescription = "Many websites are using services provided by third parties to enhance their websites. " +
		"However, this use of third parties has privacy implications for the users, as the information that they are " +
		"visiting a particular website is also disclosed to all used third parties.\n\n" +
		"Conditions for passing: Test passes if no 3rd party resources are being embedded on the website.\n\n" +
		"Scan Module: openwpm"

	trackersDescription = "Often, web tracking is done through embedding trackers and advertising companies as third " +
		"parties in the website. This test checks if any of the 3rd parties are known trackers or advertisers, as " +
		"determined by matching them against a number of blocking lists.\n\n" +
		"Conditions for passing: Test passes if none of the embedded 3rd parties is a known tracker, as determined by " +
		"a combination of three common blocking rulesets for AdBlock Plus: the EasyList, EasyPrivacy and Fanboy's " +
		"Annoyance List (which covers social media embeds).\n\n" +
		"Potential scan errors: Due to modifications to the list to make them compatible with our system, false " +
		"positives may be introduced in rare conditions (e.g., if rules were blocking only specific resource types).\n\n" +
		"Scan Module: openwpm\n\n" +
		"Further reading: https://easylist.to/"
)

func privacyChecks(gdpr countrySet) []Definition {
	defs := []Definition{
		{
			Name:            "third_parties",
			Keys:            keys(facts.KeyThirdPartiesCount, facts.KeyThirdParties),
			Title:           "Check if 3rd party embeds are being used",
			LongDescription: thirdPartiesDescription,
			Labels:          []string{LabelReliable},
			Rules: []Rule{
				when(func(in *Input) bool { return in.Int(facts.KeyThirdPartiesCount) == 0 },
					good("The site does not use any third parties.")),
				{Then: func(in *Input) model.Result {
					n := in.Int(facts.KeyThirdPartiesCount)
					return bad(pluralize(n, "The site is using one third party.", "The site is using %d third parties.")).
						WithDetails(model.SingleColumn(in.Strings(facts.KeyThirdParties)))
				}},
			},
		},
		{
			Name:            "third_party-trackers",
			Keys:            keys(facts.KeyTrackerRequests),
			Title:           "Check if embedded 3rd parties are known trackers",
			LongDescription: trackersDescription,
			Labels:          []string{LabelReliable},
			Rules: []Rule{
				when(func(in *Input) bool { return len(in.Strings(facts.KeyTrackerRequests)) == 0 },
					good("The site does not use any known tracking- or advertising companies.").
						WithDetails(model.SingleColumn(nil))),
				{Then: func(in *Input) model.Result {
					trackers := in.Strings(facts.KeyTrackerRequests)
					return bad(pluralize(len(trackers),
						"The site is using one known tracking- or advertising company.",
						"The site is using %d known tracking- or advertising companies.")).
						WithDetails(model.SingleColumn(trackers))
				}},
			},
		},
		{
			Name: "cookies_1st_party",
			Keys: keys(facts.KeyCookieStats),
			Rules: []Rule{
				when(func(in *Input) bool {
					c := in.Cookies(facts.KeyCookieStats)
					return c.FirstPartyShort == 0 && c.FirstPartyLong == 0
				}, good("The website itself is not setting any cookies.")),
				{Then: func(in *Input) model.Result {
					c := in.Cookies(facts.KeyCookieStats)
					return neutral(fmt.Sprintf(
						"The website itself is setting %d short-term and %d long-term cookies, and %d flash cookies.",
						c.FirstPartyShort, c.FirstPartyLong, c.FirstPartyFlash))
				}},
			},
		},
		{
			Name: "cookies_3rd_party",
			Keys: keys(facts.KeyCookieStats),
			Rules: []Rule{
				when(func(in *Input) bool {
					c := in.Cookies(facts.KeyCookieStats)
					return c.ThirdPartyShort == 0 && c.ThirdPartyLong == 0
				}, good("No one else is setting any cookies.").WithDetails(model.SingleColumn(nil))),
				{Then: func(in *Input) model.Result {
					c := in.Cookies(facts.KeyCookieStats)
					res := bad(fmt.Sprintf(
						"Third parties are setting %d short-term, %d long-term and %d flash cookies, %d of which are set by %d known trackers.",
						c.ThirdPartyShort, c.ThirdPartyLong, c.ThirdPartyFlash, c.ThirdPartyTrack, c.ThirdPartyTrackUniq))
					if c.HasTrackDomains() {
						res = res.WithDetails(model.SingleColumn(c.ThirdPartyTrackDomains))
					}
					return res
				}},
			},
		},
		{
			Name: "google_analytics_present",
			Keys: keys(facts.KeyGoogleAnalyticsPresent),
			Rules: []Rule{
				when(isTrue(facts.KeyGoogleAnalyticsPresent), bad("The site uses Google Analytics.")),
				otherwise(good("The site does not use Google Analytics.")),
			},
		},
		{
			Name: "google_analytics_anonymizeIP_not_set",
			Keys: keys(facts.KeyGoogleAnalyticsAnonymizeIPNotSet, facts.KeyGoogleAnalyticsPresent),
			Rules: []Rule{
				when(isFalse(facts.KeyGoogleAnalyticsPresent),
					neutral("Not checking if Google Analytics data is being anonymized, as the site does not use Google Analytics.")),
				when(isTrue(facts.KeyGoogleAnalyticsAnonymizeIPNotSet),
					bad("The site uses Google Analytics without the AnonymizeIP Privacy extension.")),
				otherwise(good("The site uses Google Analytics, however it instructs Google to store only anonymized IPs.")),
			},
		},
		{
			Name: "webserver_locations",
			Keys: keys(facts.KeyALocations),
			Rules: []Rule{
				{Then: func(in *Input) model.Result {
					return describeLocations("web servers", in.Strings(facts.KeyALocations), gdpr)
				}},
			},
		},
		{
			Name: "mailserver_locations",
			Keys: keys(facts.KeyMXLocations),
			Rules: []Rule{
				{Then: func(in *Input) model.Result {
					return describeLocations("mail servers", in.Strings(facts.KeyMXLocations), gdpr)
				}},
			},
		},
		{
			Name: "server_locations",
			Keys: keys(facts.KeyALocations, facts.KeyMXLocations),
			Rules: []Rule{
				when(func(in *Input) bool {
					web := in.Strings(facts.KeyALocations)
					mail := in.Strings(facts.KeyMXLocations)
					return len(web) > 0 && len(mail) > 0 && !sameSet(web, mail)
				}, bad("The geo-location(s) of the web server(s) and the mail server(s) are not identical.")),
				when(func(in *Input) bool { return len(in.Strings(facts.KeyMXLocations)) > 0 },
					good("The geo-location(s) of the web server(s) and the mail server(s) are identical.")),
				otherwise(neutral("Not checking if web and mail servers are in the same country, as there are no mail servers.")),
			},
		},
	}
	return inCategory(model.CategoryPrivacy, defs)
}

// sameSet reports whether two lists hold the same distinct values.
func sameSet(a, b []string) bool {
	setA := make(map[string]struct{}, len(a))
	for _, v := range a {
		setA[v] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, v := range b {
		setB[v] = struct{}{}
	}
	return slices.Equal(slices.Sorted(maps.Keys(setA)), slices.Sorted(maps.Keys(setB)))
}

// inCategory assigns a category to definitions and labels the ones
// without labels as unreliable.
func inCategory(cat model.Category, defs []Definition) []Definition {
	for i := range defs {
		defs[i].Category = cat
		if len(defs[i].Labels) == 0 {
			defs[i].Labels = []string{LabelUnreliable}
		}
	}
	return defs
}
