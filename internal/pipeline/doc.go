// Package pipeline runs the evaluation of fact files as a sequence of steps.
//
// A Job carries one fact file through the pipeline: the facts are loaded
// and fingerprinted, the per-target settings are resolved from the
// configuration file, the check catalogue is run over the selected
// categories, and the resulting report is optionally stored in the
// history database. Each stage is a Step that receives the Job and can
// modify it.
//
// The BatchProcessor evaluates many fact files concurrently with a bounded
// number of goroutines using errgroup.
package pipeline
