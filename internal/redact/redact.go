package redact

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

const placeholder = "[REDACTED]"

type rule struct {
	name string
	re   *regexp.Regexp
}

// rules are regex heuristics for common secret shapes. Order matters: the
// provider-specific key shapes run before the generic ones.
var rules = []rule{
	{"private-key", regexp.MustCompile(`-----BEGIN\s+(RSA\s+|EC\s+|OPENSSH\s+)?PRIVATE KEY-----`)},
	{"aws-access-key", regexp.MustCompile(`AKIA[0-9A-Z]{16}`)},
	{"aws-secret-key", regexp.MustCompile(`(?i)(aws[_-]?secret[_-]?access[_-]?key)\s*[:=]\s*["']?([A-Za-z0-9/+=]{40})["']?`)},
	{"github-token", regexp.MustCompile(`gh[pousr]_[A-Za-z0-9_]{36,}`)},
	{"slack-token", regexp.MustCompile(`xox[bporas]-[A-Za-z0-9-]{10,}`)},
	{"anthropic-key", regexp.MustCompile(`sk-ant-[A-Za-z0-9_-]{20,}`)},
	{"openai-key", regexp.MustCompile(`sk-[A-Za-z0-9]{20,}`)},
	{"jwt", regexp.MustCompile(`eyJ[A-Za-z0-9_-]{10,}\.eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}`)},
	{"bearer", regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9._-]{20,}`)},
	{"connection-string", regexp.MustCompile(`(?i)(postgres|postgresql|mysql|mongodb(\+srv)?|redis|amqp)://[^:\s/]+:[^@\s]+@`)},
	{"api-key", regexp.MustCompile(`(?i)(api[_-]?key|apikey|api[_-]?secret)\s*[:=]\s*["']?([A-Za-z0-9/+=_-]{20,})["']?`)},
	{"assignment", regexp.MustCompile(`(?i)(secret|token|password|passwd|credential)\s*[:=]\s*["']([^"']{8,})["']`)},
	{"hex-secret", regexp.MustCompile(`(?i)(key|secret|token)\s*[:=]\s*["']?[0-9a-f]{32,}["']?`)},
}

// DefaultPaths are files whose diff hunks are withheld entirely.
var DefaultPaths = []string{"**/.env", "**/.env.*", "**/*.pem", "**/*.key", "**/id_rsa", "**/*secrets*"}

// Report counts what a Redactor removed.
type Report struct {
	// Matches maps rule name to the number of replacements.
	Matches map[string]int
	// Files lists paths whose hunks were withheld by path policy.
	Files []string
}

// Total returns the number of redactions of either kind.
func (r Report) Total() int {
	n := len(r.Files)
	for _, c := range r.Matches {
		n += c
	}
	return n
}

// Rules returns the rule names with at least one match, sorted.
func (r Report) Rules() []string {
	names := make([]string, 0, len(r.Matches))
	for name := range r.Matches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Redactor strips secrets from text before it leaves the process.
type Redactor struct {
	paths []string
}

// New returns a Redactor that also withholds whole files matching paths.
func New(paths []string) *Redactor {
	return &Redactor{paths: paths}
}

// Text replaces secrets in s with [REDACTED].
func (r *Redactor) Text(s string) (string, Report) {
	rep := Report{Matches: map[string]int{}}
	return r.text(s, &rep), rep
}

func (r *Redactor) text(s string, rep *Report) string {
	for _, rl := range rules {
		s = rl.re.ReplaceAllStringFunc(s, func(string) string {
			rep.Matches[rl.name]++
			return placeholder
		})
	}
	return s
}

// Diff redacts a unified diff. Sections for files matching the path policy
// keep their headers but lose every hunk; all other sections are scanned for
// secrets.
func (r *Redactor) Diff(diff string) (string, Report) {
	rep := Report{Matches: map[string]int{}}
	if diff == "" {
		return diff, rep
	}

	var out strings.Builder
	for _, section := range splitSections(diff) {
		path := sectionPath(section)
		if path != "" && r.withheld(path) {
			rep.Files = append(rep.Files, path)
			out.WriteString(sectionHeader(section))
			out.WriteString(placeholder + " (file content withheld by path policy)\n")
			continue
		}
		out.WriteString(r.text(section, &rep))
	}
	return out.String(), rep
}

func (r *Redactor) withheld(path string) bool {
	for _, pattern := range r.paths {
		if MatchPath(pattern, path) {
			return true
		}
	}
	return false
}

// MatchPath reports whether path matches a glob pattern. A leading "**/"
// matches in any directory.
func MatchPath(pattern, path string) bool {
	if matched, err := filepath.Match(pattern, path); err == nil && matched {
		return true
	}
	if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
		if matched, err := filepath.Match(rest, filepath.Base(path)); err == nil && matched {
			return true
		}
		if matched, err := filepath.Match(rest, path); err == nil && matched {
			return true
		}
	}
	return false
}

// splitSections splits a diff at each "diff --git" line. Text before the
// first header forms its own section.
func splitSections(diff string) []string {
	lines := strings.SplitAfter(diff, "\n")
	var sections []string
	var cur strings.Builder
	for _, line := range lines {
		if strings.HasPrefix(line, "diff --git ") && cur.Len() > 0 {
			sections = append(sections, cur.String())
			cur.Reset()
		}
		cur.WriteString(line)
	}
	if cur.Len() > 0 {
		sections = append(sections, cur.String())
	}
	return sections
}

func sectionPath(section string) string {
	first, _, _ := strings.Cut(section, "\n")
	if !strings.HasPrefix(first, "diff --git ") {
		return ""
	}
	if i := strings.LastIndex(first, " b/"); i >= 0 {
		return first[i+3:]
	}
	return ""
}

// sectionHeader returns the lines of a section before its first hunk.
func sectionHeader(section string) string {
	if i := strings.Index(section, "\n@@"); i >= 0 {
		return section[:i+1]
	}
	if i := strings.Index(section, "\nBinary files"); i >= 0 {
		return section[:i+1]
	}
	return section
}
