// Package model defines the data structures produced by check evaluation.
//
// This package contains the following main types:
//   - Classification: the severity verdict of a single check (good, neutral, bad, critical)
//   - Rating: a Classification plus the flags consumed by score aggregation
//   - Result: one check verdict with its description, detail rows and finding
//   - EvaluationReport: all category results for one target
//   - Summary: per-classification counts derived from an EvaluationReport
//
// Types live in their own package so that the check engine, the renderers
// and the history database can share them without import cycles.
//
// The models are serializable to JSON for report output and database storage.
package model
