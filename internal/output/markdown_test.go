package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dshills/prgate/internal/review"
)

func render(t *testing.T, r review.Report) string {
	t.Helper()
	var buf bytes.Buffer
	if err := (&MarkdownWriter{}).Write(&buf, r); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	return buf.String()
}

func TestMarkdownWriter_Scenario(t *testing.T) {
	out := render(t, scenarioReport())

	for _, want := range []string{
		"- **Fast Review:** Looks clean.",
		"- **Deep Review:** One correctness bug.",
		"- **Independent Review:** Consider docs.",
		"| Errors | 1 |",
		"| Warnings | 0 |",
		"| Suggestions | 1 |",
		"| **Total** | **2** |",
		"### Errors (Must Fix)",
		"1. **bugs**: Off-by-one in loop bound (`src/a.ts:10`)",
		"   Suggestion: Use < instead of <=",
		"### Suggestions (Nice to Have)",
		"1. **docs**: Document the retry policy\n",
		"1 error must be fixed before merge.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("comment missing %q\n---\n%s", want, out)
		}
	}
	if strings.Contains(out, "Warnings (Should Fix)") {
		t.Error("empty warnings bucket should not be rendered")
	}
	if strings.Contains(out, "1 errors") {
		t.Error("singular count rendered as plural")
	}
}

func TestMarkdownWriter_Deterministic(t *testing.T) {
	first := render(t, scenarioReport())
	second := render(t, scenarioReport())
	if first != second {
		t.Error("rendering the same report twice produced different bytes")
	}
}

func TestMarkdownWriter_Clean(t *testing.T) {
	r := review.Aggregate(
		review.Result{Pass: review.PassFast, Summary: "ok"},
		review.Result{Pass: review.PassDeep, Summary: "ok"},
		review.Result{Pass: review.PassIndependent, Summary: "ok"},
	)
	out := render(t, r)
	if !strings.Contains(out, "No blocking issues found.") {
		t.Error("clean report should say no blocking issues")
	}
	if strings.Contains(out, "(Must Fix)") || strings.Contains(out, "(Nice to Have)") {
		t.Error("clean report should have no finding sections")
	}
}

func TestMarkdownWriter_PluralErrors(t *testing.T) {
	e := review.Finding{Severity: review.SeverityError, Category: "bugs", Message: "x"}
	r := review.Aggregate(
		review.Result{Pass: review.PassFast, Findings: []review.Finding{e, e}},
		review.Result{Pass: review.PassDeep},
		review.Result{Pass: review.PassIndependent},
	)
	out := render(t, r)
	if !strings.Contains(out, "2 errors must be fixed") {
		t.Errorf("expected plural wording:\n%s", out)
	}
	if !strings.Contains(out, "2. **bugs**: x") {
		t.Error("findings should be numbered")
	}
}

func TestMarkdownWriter_CodeSuggestionAndMultiline(t *testing.T) {
	r := review.Aggregate(
		review.Result{Pass: review.PassFast, Summary: "line one\nline two", Findings: []review.Finding{{
			Severity:   review.SeverityWarning,
			Category:   "bugs",
			Message:    "first\nsecond",
			File:       "main.go",
			Suggestion: "if err != nil {\n\treturn err\n}",
		}}},
		review.Result{Pass: review.PassDeep},
		review.Result{Pass: review.PassIndependent},
	)
	out := render(t, r)
	if !strings.Contains(out, "**Fast Review:** line one line two") {
		t.Error("pass summary should be collapsed to one line")
	}
	if !strings.Contains(out, "first\n   second") {
		t.Error("multi-line message should stay inside the list item")
	}
	if !strings.Contains(out, "   ```go\n") {
		t.Error("code suggestion should be fenced with inferred language")
	}
	if !strings.Contains(out, "(`main.go`)") {
		t.Error("file without line should be shown without a line number")
	}
}

func TestLooksLikeCode(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"if x == nil { return }", true},
		{"x := 1", true},
		{"Consider renaming the variable", false},
	}
	for _, tt := range tests {
		if got := looksLikeCode(tt.in); got != tt.want {
			t.Errorf("looksLikeCode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInferLang(t *testing.T) {
	tests := map[string]string{
		"main.go":      "go",
		"src/a.ts":     "typescript",
		"src/App.tsx":  "tsx",
		"script.PY":    "python",
		"README":       "",
		"infra/x.tf":   "hcl",
	}
	for path, want := range tests {
		if got := inferLang(path); got != want {
			t.Errorf("inferLang(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestRender(t *testing.T) {
	got, err := Render(scenarioReport())
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if got != render(t, scenarioReport()) {
		t.Error("Render should match MarkdownWriter output")
	}
}
