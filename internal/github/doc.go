// Package github is the issue-tracking client used by prgate.
//
// It wraps go-github for pull-request diffs, issues, comments and labels,
// and issues GraphQL requests through the same authenticated client to add
// issues to a Projects (v2) board. The repository is taken from
// GITHUB_REPOSITORY or detected from the git remote.
package github
