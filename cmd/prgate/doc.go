// Prgate is a CI review gate that runs three independent AI review passes
// over a pull request and merges their findings into one report.
//
// Blocking errors are written to a findings file that a single auto-fix
// attempt consumes. A separate command turns a specification and an
// optional plan into GitHub epics and issues.
//
// Usage:
//
//	prgate review --pass=fast           # run one pass, write its artifact
//	prgate review --aggregate           # merge artifacts, post the report
//	prgate review --all --dry-run       # run every pass locally and print
//	prgate autofix                      # apply fixes for blocking errors
//	prgate backlog --dry-run            # preview the generated backlog
package main
