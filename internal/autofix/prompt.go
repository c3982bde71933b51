package autofix

import (
	"fmt"
	"strings"

	"github.com/dshills/prgate/internal/review"
)

const systemPrompt = `You are a senior engineer fixing errors reported by an automated code review.

For every file you change, return its COMPLETE new content. The content you
return replaces the whole file, so anything you leave out is deleted.

Respond with ONLY a JSON array, no prose and no markdown fences:
[
  {"file": "relative/path", "content": "full file content", "changes": "one-line description"}
]

Rules:
- Fix only the listed errors. Do not refactor unrelated code.
- Use paths exactly as given. Never return a file outside the repository.
- Return each file at most once.
- If no change is needed, return [].`

// BuildPrompt assembles the consolidated fix request.
func BuildPrompt(errs []review.Finding, files []SourceFile, diff string) string {
	var sb strings.Builder

	sb.WriteString("Fix the following errors found during code review.\n\n")
	sb.WriteString("## Errors\n\n")
	for i, f := range errs {
		fmt.Fprintf(&sb, "%d. **%s**", i+1, f.Category)
		if loc := f.Location(); loc != "" {
			fmt.Fprintf(&sb, " (%s)", loc)
		}
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "   %s\n", f.Message)
		if f.Suggestion != "" {
			fmt.Fprintf(&sb, "   Suggestion: %s\n", f.Suggestion)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Current Code\n\n")
	if len(files) == 0 {
		sb.WriteString("No files are referenced by the errors.\n\n")
	}
	for _, f := range files {
		fmt.Fprintf(&sb, "### %s\n\n", f.Path)
		if !f.Exists {
			sb.WriteString("(file does not exist)\n\n")
			continue
		}
		sb.WriteString("```\n")
		sb.WriteString(f.Content)
		if !strings.HasSuffix(f.Content, "\n") {
			sb.WriteString("\n")
		}
		sb.WriteString("```\n\n")
	}

	sb.WriteString("## Recent Diff\n\n")
	sb.WriteString("```diff\n")
	sb.WriteString(diff)
	if !strings.HasSuffix(diff, "\n") {
		sb.WriteString("\n")
	}
	sb.WriteString("```\n")

	return sb.String()
}

// SystemPrompt returns the instructions sent with every fix request.
func SystemPrompt() string {
	return systemPrompt
}
