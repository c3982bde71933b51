package review

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

const systemPrompt = `You are an expert code reviewer working on a pull request. You review only the changes shown in the diff.

You MUST respond with ONLY a JSON object. No preamble and no explanation outside the JSON.

The object must have this exact structure:
{
  "pass": "<the pass name given below>",
  "findings": [
    {
      "severity": "error" | "warning" | "suggestion",
      "category": "security" | "bugs" | "performance" | "architecture" | "style" | "other",
      "message": "Clear description of the issue",
      "file": "path/to/file",
      "line": 42,
      "suggestion": "How to fix it"
    }
  ],
  "summary": "One-line overall assessment of the change"
}

"file", "line" and "suggestion" are optional. "line" is a positive line number in the new version of the file.

Severity definitions:
- error: must be fixed before merge (bugs, security issues, broken functionality)
- warning: should be fixed (code smells, performance issues, bad patterns)
- suggestion: nice to have (improvements, alternative approaches)

If there are no issues, return an empty "findings" array.`

var personas = map[Pass]string{
	PassFast: `You are the fast reviewer. Focus on:
- Obvious bugs and errors
- Code style and formatting
- Basic security issues (injection, XSS and similar)
- Missing error handling
- Unused imports and variables

Be quick and practical. Only flag clear issues.`,

	PassDeep: `You are the deep reviewer. Focus on:
- Architecture and design patterns
- Edge cases and error scenarios
- Performance implications
- Scalability concerns
- Over-engineering or under-engineering
- Code maintainability
- API design quality
- Database query efficiency
- Security in depth

Be thorough and consider long-term implications.`,

	PassIndependent: `You are the independent reviewer providing a fresh perspective. Focus on:
- Things the other reviewers might have missed
- User experience implications
- Alternative approaches
- Potential technical debt
- Testing coverage gaps
- Documentation clarity

Do not repeat what a bug-focused or architecture-focused review would catch; provide novel insights.`,
}

// SystemPrompt returns the instructions shared by every pass.
func SystemPrompt() string {
	return systemPrompt
}

// BuildPrompt returns the persona prompt for pass with the diff embedded.
func BuildPrompt(pass Pass, diff string, files []string) string {
	var b strings.Builder

	b.WriteString(personas[pass])
	fmt.Fprintf(&b, "\n\nPass name: %s\n", pass)

	if langs := detectLanguages(files); len(langs) > 0 {
		fmt.Fprintf(&b, "Languages: %s\n", strings.Join(langs, ", "))
	}

	b.WriteString("\nHere is the pull request diff:\n\n```diff\n")
	b.WriteString(diff)
	if !strings.HasSuffix(diff, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("```\n\nAnalyze the changes and return the JSON object described above.\n")

	return b.String()
}

var langByExt = map[string]string{
	".go":    "Go",
	".py":    "Python",
	".js":    "JavaScript",
	".ts":    "TypeScript",
	".tsx":   "TypeScript/React",
	".jsx":   "JavaScript/React",
	".rs":    "Rust",
	".java":  "Java",
	".rb":    "Ruby",
	".cpp":   "C++",
	".c":     "C",
	".h":     "C/C++",
	".cs":    "C#",
	".php":   "PHP",
	".swift": "Swift",
	".kt":    "Kotlin",
	".sql":   "SQL",
	".sh":    "Shell",
	".yaml":  "YAML",
	".yml":   "YAML",
	".json":  "JSON",
	".tf":    "Terraform",
}

// detectLanguages returns the sorted, distinct languages of files.
func detectLanguages(files []string) []string {
	seen := make(map[string]bool)
	var langs []string
	for _, f := range files {
		lang, ok := langByExt[strings.ToLower(filepath.Ext(f))]
		if ok && !seen[lang] {
			seen[lang] = true
			langs = append(langs, lang)
		}
	}
	sort.Strings(langs)
	return langs
}
