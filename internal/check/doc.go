// Package check implements the catalogue of site checks and their evaluation.
//
// A Definition names the facts it needs (Keys), an ordered list of Rules
// evaluated first-match-wins, and the Result to emit when a fact is missing.
// Evaluate resolves one Definition against a facts.Store; Catalogue.Run
// resolves every Definition of a category in declaration order.
//
// The catalogue is built once by Build (or Default) and validated at that
// point: duplicate names, unknown keys and rules reading facts outside the
// declared Keys are reported as errors, and a catalogue that fails
// validation must not be used.
//
// Checks that exist for both the web server and the mail servers (protocol
// support and TLS vulnerabilities) are generated from one template per
// server, see protocolCheck and vulnerabilityCheck.
package check
