// Package autofix runs one remediation attempt for the blocking findings of
// an aggregated review.
//
// The controller reads the persisted fix request, gathers the current
// content of every file the errors reference together with the diff against
// the previous commit, and asks the gateway for complete replacement files.
// Fixes are applied all-or-nothing: everything is staged before the first
// target is replaced, and committed files are restored if a later one fails.
// Looping until the review is clean is left to the calling workflow.
package autofix
