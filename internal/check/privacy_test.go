package check

import (
	"testing"

	"github.com/nao1215/sitescore/internal/facts"
	"github.com/nao1215/sitescore/internal/model"
)

// TestPrivacyChecks covers the branches of every privacy check.
func TestPrivacyChecks(t *testing.T) {
	t.Parallel()

	cookies := func(c facts.CookieStats) map[facts.Key]any {
		return map[facts.Key]any{facts.KeyCookieStats: c}
	}

	runCheckCases(t, model.CategoryPrivacy, []checkCase{
		{
			name:  "one third party uses the singular",
			check: "third_parties",
			facts: map[facts.Key]any{
				facts.KeyThirdPartiesCount: 1,
				facts.KeyThirdParties:      []string{"cdn.example"},
			},
			want:     model.ClassificationBad,
			wantText: "The site is using one third party.",
		},
		{
			name:  "several third parties use the count",
			check: "third_parties",
			facts: map[facts.Key]any{
				facts.KeyThirdPartiesCount: 3,
				facts.KeyThirdParties:      []string{"a", "b", "c"},
			},
			want:     model.ClassificationBad,
			wantText: "The site is using 3 third parties.",
		},
		{
			name:     "one tracker",
			check:    "third_party-trackers",
			facts:    map[facts.Key]any{facts.KeyTrackerRequests: []string{"t.example"}},
			want:     model.ClassificationBad,
			wantText: "The site is using one known tracking- or advertising company.",
		},
		{
			name:     "no trackers",
			check:    "third_party-trackers",
			facts:    map[facts.Key]any{facts.KeyTrackerRequests: []string{}},
			want:     model.ClassificationGood,
			wantText: "The site does not use any known tracking- or advertising companies.",
		},
		{
			name:     "no first party cookies",
			check:    "cookies_1st_party",
			facts:    cookies(facts.CookieStats{FirstPartyFlash: 2}),
			want:     model.ClassificationGood,
			wantText: "The website itself is not setting any cookies.",
		},
		{
			name:     "first party cookies are neutral",
			check:    "cookies_1st_party",
			facts:    cookies(facts.CookieStats{FirstPartyShort: 2, FirstPartyLong: 1, FirstPartyFlash: 0}),
			want:     model.ClassificationNeutral,
			wantText: "The website itself is setting 2 short-term and 1 long-term cookies, and 0 flash cookies.",
		},
		{
			name:     "no third party cookies",
			check:    "cookies_3rd_party",
			facts:    cookies(facts.CookieStats{FirstPartyShort: 4}),
			want:     model.ClassificationGood,
			wantText: "No one else is setting any cookies.",
		},
		{
			name:  "third party cookies",
			check: "cookies_3rd_party",
			facts: cookies(facts.CookieStats{
				ThirdPartyShort: 3, ThirdPartyLong: 2, ThirdPartyFlash: 1,
				ThirdPartyTrack: 4, ThirdPartyTrackUniq: 2,
			}),
			want:     model.ClassificationBad,
			wantText: "Third parties are setting 3 short-term, 2 long-term and 1 flash cookies, 4 of which are set by 2 known trackers.",
		},
		{
			name:     "google analytics present",
			check:    "google_analytics_present",
			facts:    map[facts.Key]any{facts.KeyGoogleAnalyticsPresent: true},
			want:     model.ClassificationBad,
			wantText: "The site uses Google Analytics.",
		},
		{
			name:     "google analytics absent",
			check:    "google_analytics_present",
			facts:    map[facts.Key]any{facts.KeyGoogleAnalyticsPresent: false},
			want:     model.ClassificationGood,
			wantText: "The site does not use Google Analytics.",
		},
		{
			name:  "anonymize ip without analytics is not checked",
			check: "google_analytics_anonymizeIP_not_set",
			facts: map[facts.Key]any{
				facts.KeyGoogleAnalyticsPresent:           false,
				facts.KeyGoogleAnalyticsAnonymizeIPNotSet: true,
			},
			want: model.ClassificationNeutral,
		},
		{
			name:  "anonymize ip not set",
			check: "google_analytics_anonymizeIP_not_set",
			facts: map[facts.Key]any{
				facts.KeyGoogleAnalyticsPresent:           true,
				facts.KeyGoogleAnalyticsAnonymizeIPNotSet: true,
			},
			want:     model.ClassificationBad,
			wantText: "The site uses Google Analytics without the AnonymizeIP Privacy extension.",
		},
		{
			name:  "anonymize ip set",
			check: "google_analytics_anonymizeIP_not_set",
			facts: map[facts.Key]any{
				facts.KeyGoogleAnalyticsPresent:           true,
				facts.KeyGoogleAnalyticsAnonymizeIPNotSet: false,
			},
			want: model.ClassificationGood,
		},
		{
			name:      "web server locations unknown",
			check:     "webserver_locations",
			facts:     map[facts.Key]any{facts.KeyALocations: []string{"", ""}},
			want:      model.ClassificationNeutral,
			wantText:  "The locations of the web servers could not be detected.",
			wantFlags: []model.RatingOption{model.Unranked()},
		},
		{
			name:     "mail servers inside the GDPR area",
			check:    "mailserver_locations",
			facts:    map[facts.Key]any{facts.KeyMXLocations: []string{"Germany", "Norway"}},
			want:     model.ClassificationGood,
			wantText: "The mail servers are located in Germany and Norway.",
		},
		{
			name:  "different server locations",
			check: "server_locations",
			facts: map[facts.Key]any{
				facts.KeyALocations:  []string{"Germany"},
				facts.KeyMXLocations: []string{"Germany", "United States"},
			},
			want: model.ClassificationBad,
		},
		{
			name:  "same server locations regardless of order",
			check: "server_locations",
			facts: map[facts.Key]any{
				facts.KeyALocations:  []string{"France", "Germany"},
				facts.KeyMXLocations: []string{"Germany", "France", "Germany"},
			},
			want:     model.ClassificationGood,
			wantText: "The geo-location(s) of the web server(s) and the mail server(s) are identical.",
		},
		{
			name:  "no mail server locations",
			check: "server_locations",
			facts: map[facts.Key]any{
				facts.KeyALocations:  []string{"France"},
				facts.KeyMXLocations: []string{},
			},
			want: model.ClassificationNeutral,
		},
		{
			name:    "missing facts abstain",
			check:   "third_parties",
			facts:   map[facts.Key]any{facts.KeyThirdPartiesCount: 0},
			abstain: true,
		},
	})
}

// TestCountDetails verifies that count-based checks list one row per item.
func TestCountDetails(t *testing.T) {
	t.Parallel()

	res, _ := evaluate(t, model.CategoryPrivacy, "third_parties", map[facts.Key]any{
		facts.KeyThirdPartiesCount: 2,
		facts.KeyThirdParties:      []string{"a.example", "b.example"},
	})
	if len(res.Details) != 2 {
		t.Errorf("expected 2 detail rows, got %d", len(res.Details))
	}

	withDomains, _ := evaluate(t, model.CategoryPrivacy, "cookies_3rd_party", map[facts.Key]any{
		facts.KeyCookieStats: facts.CookieStats{
			ThirdPartyShort: 5, ThirdPartyTrackUniq: 2,
			ThirdPartyTrackDomains: []string{"t1.example", "t2.example"},
		},
	})
	if len(withDomains.Details) != 2 {
		t.Errorf("expected one row per tracking domain, got %d", len(withDomains.Details))
	}

	withoutDomains, _ := evaluate(t, model.CategoryPrivacy, "cookies_3rd_party", map[facts.Key]any{
		facts.KeyCookieStats: facts.CookieStats{ThirdPartyLong: 1},
	})
	if withoutDomains.Details != nil {
		t.Errorf("expected no details when domains were not recorded, got %v", withoutDomains.Details)
	}

	none, _ := evaluate(t, model.CategoryPrivacy, "third_party-trackers", map[facts.Key]any{
		facts.KeyTrackerRequests: []string{},
	})
	if none.Details == nil || len(none.Details) != 0 {
		t.Errorf("expected an empty details list, got %v", none.Details)
	}
}
