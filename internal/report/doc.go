// Package report renders evaluation reports.
//
// This package contains writers for different output formats:
//   - SimpleWriter: colored text for terminal display
//   - JSONWriter: structured JSON, optionally wrapped with the tool version
//   - MarkdownWriter: Markdown with summary tables and a mermaid pie chart
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output. Writers that can
// also render the difference between two evaluations implement
// ComparisonWriter.
package report
