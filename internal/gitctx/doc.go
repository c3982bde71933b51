// Package gitctx reads diffs from the local git repository.
//
// It shells out to git for the branch diff reviewed when no pull request is
// configured, for the HEAD~1 reference diff used by auto-fix and for the
// origin remote URL. Diffs from any source can be passed through [Filter] to
// drop excluded paths.
package gitctx
