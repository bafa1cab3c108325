// Package main provides the entry point for the sitescore CLI.
//
// sitescore evaluates the facts collected by privacy and security scanners
// for a web site and its mail servers, and classifies every check as good,
// neutral, bad or critical.
//
// Usage:
//
//	sitescore evaluate <fact-file>...
//	sitescore compare <target>
//	sitescore checks
//
// See --help for all available options.
package main

func main() {
	Execute()
}
