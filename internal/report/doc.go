// Package report renders comparison results.
//
// This package contains writers for different output formats:
//   - TextWriter: human-readable page mapping for terminal display
//   - JSONWriter: the DiffReport envelope for tool integration
//   - MarkdownWriter: tables, a verdict pie chart and alerts for sharing
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output. Every writer is
// deterministic: equal comparisons produce identical bytes.
package report
