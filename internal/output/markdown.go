package output

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dshills/prgate/internal/review"
)

// MarkdownWriter renders the pull-request comment. Identical reports always
// render to identical bytes.
type MarkdownWriter struct{}

type bucket struct {
	title    string
	findings []review.Finding
}

func (m *MarkdownWriter) Write(w io.Writer, report review.Report) error {
	ew := &errWriter{w: w}

	ew.println("## Multi-Pass Review Results")
	ew.println("")
	ew.println("### Pass Results")
	ew.println("")
	for _, s := range report.Summaries {
		ew.printf("- **%s Review:** %s\n", s.Pass.Title(), oneLine(s.Summary))
	}
	ew.println("")
	ew.println("---")
	ew.println("")

	ew.println("### Findings Summary")
	ew.println("")
	ew.println("| Severity | Count |")
	ew.println("|----------|-------|")
	ew.printf("| Errors | %d |\n", report.Counts.Errors)
	ew.printf("| Warnings | %d |\n", report.Counts.Warnings)
	ew.printf("| Suggestions | %d |\n", report.Counts.Suggestions)
	ew.printf("| **Total** | **%d** |\n", report.Counts.Total())

	buckets := []bucket{
		{"Errors (Must Fix)", report.Errors},
		{"Warnings (Should Fix)", report.Warnings},
		{"Suggestions (Nice to Have)", report.Suggestions},
	}
	for _, b := range buckets {
		if len(b.findings) == 0 {
			continue
		}
		ew.println("")
		ew.printf("### %s\n\n", b.title)
		for i, f := range b.findings {
			writeFinding(ew, i+1, f)
		}
	}

	ew.println("")
	ew.println("---")
	ew.println("")
	ew.println(statusLine(report))

	return ew.err
}

func writeFinding(ew *errWriter, n int, f review.Finding) {
	ew.printf("%d. **%s**: %s", n, oneLine(f.Category), indent(f.Message, "   "))
	if loc := f.Location(); loc != "" {
		ew.printf(" (`%s`)", loc)
	}
	ew.println("")
	if f.Suggestion == "" {
		return
	}
	if looksLikeCode(f.Suggestion) {
		ew.println("   Suggestion:")
		ew.println("")
		ew.printf("   ```%s\n", inferLang(f.File))
		ew.printf("   %s\n", indent(f.Suggestion, "   "))
		ew.println("   ```")
		return
	}
	ew.printf("   Suggestion: %s\n", indent(f.Suggestion, "   "))
}

// statusLine summarises the gate with count-aware wording.
func statusLine(report review.Report) string {
	if !report.HasErrors {
		return "No blocking issues found."
	}
	return fmt.Sprintf("%s must be fixed before merge. Auto-fix will be triggered.",
		plural(report.Counts.Errors, "error", "errors"))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// indent prefixes every line after the first so multi-line text stays inside
// its list item.
func indent(s, prefix string) string {
	s = strings.TrimRight(s, "\n")
	return strings.ReplaceAll(s, "\n", "\n"+prefix)
}

func looksLikeCode(s string) bool {
	codeIndicators := []string{
		"func ", "if ", "for ", "return ", "var ", "const ",
		"def ", "class ", "import ", "from ",
		"{", "}", "=>", "->", ":=", "==",
		"()", "[];",
	}
	for _, indicator := range codeIndicators {
		if strings.Contains(s, indicator) {
			return true
		}
	}
	return false
}

var langByExt = map[string]string{
	".go":   "go",
	".py":   "python",
	".js":   "javascript",
	".ts":   "typescript",
	".tsx":  "tsx",
	".jsx":  "jsx",
	".rs":   "rust",
	".java": "java",
	".rb":   "ruby",
	".cpp":  "cpp",
	".c":    "c",
	".cs":   "csharp",
	".php":  "php",
	".sh":   "bash",
	".sql":  "sql",
	".yaml": "yaml",
	".yml":  "yaml",
	".json": "json",
	".tf":   "hcl",
}

func inferLang(path string) string {
	return langByExt[strings.ToLower(filepath.Ext(path))]
}
