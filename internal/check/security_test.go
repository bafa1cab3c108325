package check

import (
	"testing"

	"github.com/nao1215/sitescore/internal/facts"
	"github.com/nao1215/sitescore/internal/model"
)

// TestSecurityChecks covers leaks and the response header checks.
func TestSecurityChecks(t *testing.T) {
	t.Parallel()

	headers := map[facts.Key]any{
		facts.KeyHeaderChecks: facts.Headers{
			"content-security-policy": {Status: "OK", Value: "default-src 'self'"},
			"x-frame-options":         {Status: facts.HeaderStatusMissing},
			"x-xss-protection":        {Status: "INFO"},
			"referrer-policy":         nil,
		},
	}

	runCheckCases(t, model.CategorySecurity, []checkCase{
		{
			name:     "no leaks",
			check:    "leaks",
			facts:    map[facts.Key]any{facts.KeyLeaks: []string{}},
			want:     model.ClassificationGood,
			wantText: "The site does not disclose internal system information at usual paths.",
		},
		{
			name:     "leaks",
			check:    "leaks",
			facts:    map[facts.Key]any{facts.KeyLeaks: []string{"/.git/HEAD", "/server-status"}},
			want:     model.ClassificationBad,
			wantText: "The site discloses internal system information that should not be available.",
		},
		{
			name:     "header present",
			check:    "header_csp",
			facts:    headers,
			want:     model.ClassificationGood,
			wantText: "The site sets a Content-Security-Policy (CSP) header.",
		},
		{
			name:     "header reported missing",
			check:    "header_xfo",
			facts:    headers,
			want:     model.ClassificationBad,
			wantText: "The site does not set a X-Frame-Options (XFO) header.",
		},
		{
			name:     "header with informational status",
			check:    "header_xssp",
			facts:    headers,
			want:     model.ClassificationGood,
			wantText: "The site sets a X-XSS-Protection  header.",
		},
		{
			name:     "header not recorded",
			check:    "header_xcto",
			facts:    headers,
			want:     model.ClassificationBad,
			wantText: "The site does not set a X-Content-Type-Options header.",
		},
		{
			name:     "header recorded as null",
			check:    "header_ref",
			facts:    headers,
			want:     model.ClassificationBad,
			wantText: "The site does not set a referrer-policy header.",
		},
		{
			name:    "headers not scanned",
			check:   "header_ref",
			facts:   map[facts.Key]any{facts.KeyLeaks: []string{}},
			abstain: true,
		},
	})
}

// TestLeakDetails verifies one detail row per leaked path.
func TestLeakDetails(t *testing.T) {
	t.Parallel()

	res, _ := evaluate(t, model.CategorySecurity, "leaks", map[facts.Key]any{
		facts.KeyLeaks: []string{"/.git/HEAD", "/server-status"},
	})
	want := []model.DetailRow{{"/.git/HEAD"}, {"/server-status"}}
	if !res.Equal(bad("The site discloses internal system information that should not be available.").WithDetails(want)) {
		t.Errorf("got %+v", res)
	}
}
