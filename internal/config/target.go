package config

import (
	"slices"

	"github.com/nao1215/sitescore/internal/target"
)

// TargetConfig holds the evaluation settings for one site.
type TargetConfig struct {
	// Categories restricts the evaluated categories. Empty means all.
	Categories []string `yaml:"categories,omitempty"`

	// ExtraGDPRCountries are treated like GDPR states by the location checks.
	ExtraGDPRCountries []string `yaml:"extraGDPRCountries,omitempty"`

	// Labels restricts the reported results to checks carrying one of these labels.
	Labels []string `yaml:"labels,omitempty"`
}

func (tc TargetConfig) validate() error {
	_, err := ParseCategories(tc.Categories)
	return err
}

// File represents the structure of the .sitescore configuration file.
type File struct {
	// Targets maps site URLs to their configuration.
	Targets map[string]TargetConfig `yaml:"targets,omitempty"`

	// Defaults applies to all targets unless overridden.
	Defaults TargetConfig `yaml:"defaults,omitempty"`
}

// TargetConfig returns the configuration for a site, merged with the defaults.
// Lists given for the site replace the default lists, except for
// ExtraGDPRCountries which are added to them.
func (cf *File) TargetConfig(site string) TargetConfig {
	if cf == nil {
		return TargetConfig{}
	}

	result := TargetConfig{
		Categories:         slices.Clone(cf.Defaults.Categories),
		ExtraGDPRCountries: slices.Clone(cf.Defaults.ExtraGDPRCountries),
		Labels:             slices.Clone(cf.Defaults.Labels),
	}

	override, ok := cf.Targets[site]
	if !ok {
		if normalized, err := target.Normalize(site); err == nil {
			override, ok = cf.Targets[normalized]
		}
	}
	if !ok {
		return result
	}

	if len(override.Categories) > 0 {
		result.Categories = slices.Clone(override.Categories)
	}
	for _, c := range override.ExtraGDPRCountries {
		if !slices.Contains(result.ExtraGDPRCountries, c) {
			result.ExtraGDPRCountries = append(result.ExtraGDPRCountries, c)
		}
	}
	if len(override.Labels) > 0 {
		result.Labels = slices.Clone(override.Labels)
	}
	return result
}
