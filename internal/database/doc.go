// Package database provides SQLite-based storage for sitescore.
//
// The HistoryDB keeps every evaluation report together with the
// fingerprint of the facts it was computed from, so that later
// evaluations of the same target can be compared with earlier ones.
// Re-evaluating identical facts refreshes the existing row instead of
// adding a new one.
//
// The database is a single file opened through modernc.org/sqlite, a
// CGO-free driver.
package database
