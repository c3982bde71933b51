// Package output renders aggregated review reports.
//
// Three formats are supported:
//   - markdown: the pull-request comment, deterministic for identical input
//   - text: a console summary with coloured severity labels
//   - json: the aggregated report as structured JSON
//
// [WriteOutputs] emits the has_errors and per-severity counts a calling
// workflow branches on, appending to $GITHUB_OUTPUT when it is set.
package output
