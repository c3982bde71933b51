// Package backlog turns a specification document, and optionally a plan,
// into GitHub issues: one epic per major feature and one child issue per
// reviewable unit of work, labelled from the configured taxonomy and added
// to a project board.
package backlog
