package check

import (
	"slices"
	"strings"

	"github.com/nao1215/sitescore/internal/model"
)

// gdprStates are the countries whose data protection law implements the
// GDPR: the EU member states, the EEA states and the United Kingdom.
// "Europe" is included because GeoIP databases report it for many
// EU-wide networks.
var gdprStates = []string{
	"Austria",
	"Belgium",
	"Bulgaria",
	"Croatia",
	"Cyprus",
	"Czech Republic",
	"Denmark",
	"Estonia",
	"Europe",
	"Finland",
	"France",
	"Germany",
	"Greece",
	"Hungary",
	"Ireland",
	"Italy",
	"Latvia",
	"Lithuania",
	"Luxembourg",
	"Malta",
	"Netherlands",
	"Poland",
	"Portugal",
	"Romania",
	"Slovakia",
	"Slovenia",
	"Spain",
	"Sweden",
	"United Kingdom",
	"Iceland",
	"Liechtenstein",
	"Norway",
}

// GDPRStates returns the built-in list of GDPR countries.
func GDPRStates() []string {
	return slices.Clone(gdprStates)
}

type countrySet map[string]struct{}

func newGDPRStates(extra []string) countrySet {
	set := make(countrySet, len(gdprStates)+len(extra))
	for _, c := range gdprStates {
		set[c] = struct{}{}
	}
	for _, c := range extra {
		if c = strings.TrimSpace(c); c != "" {
			set[c] = struct{}{}
		}
	}
	return set
}

func (s countrySet) contains(country string) bool {
	_, ok := s[country]
	return ok
}

// describeLocations rates the countries a kind of server is located in.
// Empty entries are ignored. Any country outside the GDPR states makes
// the result bad.
func describeLocations(serverType string, locations []string, gdpr countrySet) model.Result {
	var found []string
	for _, l := range locations {
		if l != "" {
			found = append(found, l)
		}
	}
	if len(found) == 0 {
		return neutral("The locations of the "+serverType+" could not be detected.", model.Unranked())
	}

	classification := model.ClassificationGood
	for _, country := range found {
		if !gdpr.contains(country) {
			classification = model.ClassificationBad
		}
	}

	if len(found) == 1 {
		return result("All "+serverType+" are located in "+found[0]+".", classification)
	}
	countries := strings.Join(found[:len(found)-1], ", ") + " and " + found[len(found)-1]
	return result("The "+serverType+" are located in "+countries+".", classification).
		WithDetails(model.SingleColumn(found))
}
