package backlog

import (
	"fmt"
	"io"
	"strings"
)

// EpicTitle is the issue title used for an epic.
func EpicTitle(e Epic) string {
	return "[EPIC] " + e.Title
}

// EpicBody renders the issue body for an epic.
func EpicBody(e Epic) string {
	var sb strings.Builder
	sb.WriteString(e.Description)
	sb.WriteString("\n\n## Goals\n")
	writeList(&sb, "- ", e.Goals)
	sb.WriteString("\n## Scope\n**In Scope:**\n")
	writeList(&sb, "- ", e.Scope.InScope)
	sb.WriteString("\n**Out of Scope:**\n")
	writeList(&sb, "- ", e.Scope.OutOfScope)
	return strings.TrimRight(sb.String(), "\n")
}

// IssueBody renders the issue body for a child issue of epic number epicNum.
func IssueBody(is Issue, epicNum int) string {
	var sb strings.Builder
	sb.WriteString(is.Description)
	sb.WriteString("\n\n## Acceptance Criteria\n")
	writeList(&sb, "- [ ] ", is.AcceptanceCriteria)
	fmt.Fprintf(&sb, "\n**Epic:** #%d\n", epicNum)
	if len(is.Dependencies) > 0 {
		fmt.Fprintf(&sb, "\n**Dependencies:** %s\n", strings.Join(is.Dependencies, ", "))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func writeList(sb *strings.Builder, prefix string, items []string) {
	for _, it := range items {
		sb.WriteString(prefix)
		sb.WriteString(it)
		sb.WriteString("\n")
	}
}

// Summary records what a run created.
type Summary struct {
	DryRun    bool
	Epics     []CreatedEpic
	Gaps      []string
	Questions []string
}

// CreatedEpic is an epic and its children. Numbers are zero on a dry run.
type CreatedEpic struct {
	Number int
	Title  string
	Issues []CreatedIssue
}

// CreatedIssue is a child issue.
type CreatedIssue struct {
	Number int
	Title  string
}

// WriteSummary prints the epics with their children, spec gaps and open
// questions.
func WriteSummary(w io.Writer, s Summary) error {
	ew := &errWriter{w: w}
	ew.printf("\nBacklog summary")
	if s.DryRun {
		ew.printf(" (dry run, nothing created)")
	}
	ew.printf("\n%s\n\n", strings.Repeat("=", 40))

	for _, e := range s.Epics {
		ew.printf("Epic %s: %s\n", ref(e.Number), e.Title)
		for _, is := range e.Issues {
			ew.printf("   - %s: %s\n", ref(is.Number), is.Title)
		}
		ew.printf("\n")
	}
	if len(s.Gaps) > 0 {
		ew.printf("Spec gaps:\n")
		for _, g := range s.Gaps {
			ew.printf("   - %s\n", g)
		}
		ew.printf("\n")
	}
	if len(s.Questions) > 0 {
		ew.printf("Questions for the spec author:\n")
		for _, q := range s.Questions {
			ew.printf("   - %s\n", q)
		}
		ew.printf("\n")
	}
	return ew.err
}

func ref(n int) string {
	if n == 0 {
		return "(new)"
	}
	return fmt.Sprintf("#%d", n)
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
