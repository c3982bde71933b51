package gitctx

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Diff is a unified diff plus the files it touches.
type Diff struct {
	Text  string
	Files []string
	Range string
}

// Empty reports whether the diff has no reviewable content.
func (d Diff) Empty() bool {
	return strings.TrimSpace(d.Text) == ""
}

// BaseRange returns the diff range used for a branch review. A bare branch
// name such as "main" is resolved against origin; an empty base means
// origin/main.
func BaseRange(base string) string {
	switch {
	case base == "":
		base = "origin/main"
	case !strings.Contains(base, "/"):
		base = "origin/" + base
	}
	return base + "...HEAD"
}

// Range returns the diff for a revision range with excluded paths removed.
func Range(revRange string, excludes []string) (Diff, error) {
	out, err := gitOutput("diff", revRange)
	if err != nil {
		return Diff{}, fmt.Errorf("git diff %s: %w", revRange, err)
	}
	d := Filter(out, excludes)
	d.Range = revRange
	return d, nil
}

// ParentDiff returns the diff between HEAD's parent and the working tree.
// It is the reference diff handed to auto-fix.
func ParentDiff() (string, error) {
	out, err := gitOutput("diff", "HEAD~1")
	if err != nil {
		return "", fmt.Errorf("git diff HEAD~1: %w", err)
	}
	return out, nil
}

// RemoteURL returns the fetch URL of the origin remote.
func RemoteURL() (string, error) {
	out, err := gitOutput("remote", "get-url", "origin")
	if err != nil {
		return "", fmt.Errorf("git remote get-url origin: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// Filter drops the sections of diff whose path matches any exclude glob.
func Filter(diff string, excludes []string) Diff {
	if len(excludes) > 0 {
		diff = filterExcluded(diff, excludes)
	}
	return Diff{Text: diff, Files: Files(diff)}
}

// Files returns the distinct post-image paths of diff in order of first
// appearance.
func Files(diff string) []string {
	var files []string
	seen := make(map[string]bool)
	for _, line := range strings.Split(diff, "\n") {
		if strings.HasPrefix(line, "+++ b/") {
			f := strings.TrimPrefix(line, "+++ b/")
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}
	return files
}

func filterExcluded(diff string, excludes []string) string {
	sections := splitDiffSections(diff)
	var kept []string
	for _, section := range sections {
		path := extractPathFromSection(section)
		if path == "" || !MatchesAny(path, excludes) {
			kept = append(kept, section)
		}
	}
	return strings.Join(kept, "")
}

func splitDiffSections(diff string) []string {
	var sections []string
	var current strings.Builder
	for _, line := range strings.SplitAfter(diff, "\n") {
		if strings.HasPrefix(line, "diff --git") && current.Len() > 0 {
			sections = append(sections, current.String())
			current.Reset()
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		sections = append(sections, current.String())
	}
	return sections
}

// extractPathFromSection prefers the post-image path and falls back to the
// pre-image path for deletions.
func extractPathFromSection(section string) string {
	var minus string
	for _, line := range strings.Split(section, "\n") {
		if strings.HasPrefix(line, "+++ b/") {
			return strings.TrimPrefix(line, "+++ b/")
		}
		if strings.HasPrefix(line, "--- a/") && minus == "" {
			minus = strings.TrimPrefix(line, "--- a/")
		}
	}
	return minus
}

// MatchesAny returns true if the path matches any of the given glob patterns.
func MatchesAny(path string, patterns []string) bool {
	for _, pattern := range patterns {
		matched, err := filepath.Match(pattern, path)
		if err == nil && matched {
			return true
		}
		clean := strings.TrimPrefix(pattern, "**/")
		if clean != pattern {
			matched, err = filepath.Match(clean, filepath.Base(path))
			if err == nil && matched {
				return true
			}
			matched, err = filepath.Match(clean, path)
			if err == nil && matched {
				return true
			}
		}
		if prefix, ok := strings.CutSuffix(pattern, "/**"); ok && !strings.Contains(prefix, "*") {
			if strings.HasPrefix(path, prefix+"/") {
				return true
			}
		}
	}
	return false
}

func gitOutput(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return string(out), fmt.Errorf("%s: %s", err, string(exitErr.Stderr))
		}
		return "", err
	}
	return string(out), nil
}
