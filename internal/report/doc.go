// Package report renders IMPACT Radar snapshots for export.
//
// Writers exist for each export format:
//   - MarkdownWriter: structured document in GitHub Flavored Markdown
//   - DocxWriter: structured document as a Word package
//   - JSONWriter: machine-readable summary with ordered dimension keys
//   - TextWriter: plain text summary
//   - SVGWriter: standalone radar chart
//
// Markdown and Word output share one outline, so both documents carry the
// same sections in the same order. Every writer validates the snapshot first
// and fails with model.ErrMalformedModel on a damaged one.
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package report
