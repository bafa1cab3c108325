// Package config provides configuration structures and utilities for sitescore.
// It defines the options for evaluating fact files, the per-target overrides
// read from the .sitescore file, and the report and history settings.
package config
