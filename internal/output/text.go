package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/dshills/prgate/internal/review"
	"github.com/fatih/color"
)

// TextWriter prints a console summary. Colour is only used when Color is set.
type TextWriter struct {
	Color bool
}

func (t *TextWriter) Write(w io.Writer, report review.Report) error {
	ew := &errWriter{w: w}
	paint := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if t.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	labels := map[review.Severity]*color.Color{
		review.SeverityError:      paint(color.FgRed, color.Bold),
		review.SeverityWarning:    paint(color.FgYellow, color.Bold),
		review.SeveritySuggestion: paint(color.FgCyan),
	}
	ok := paint(color.FgGreen, color.Bold)

	ew.println("prgate review summary")
	ew.println(strings.Repeat("─", 60))
	for _, s := range report.Summaries {
		ew.printf("%-12s %s\n", s.Pass.Title()+":", oneLine(s.Summary))
	}
	ew.println(strings.Repeat("─", 60))
	ew.printf("Findings: %d total (%s, %s, %s)\n",
		report.Counts.Total(),
		plural(report.Counts.Errors, "error", "errors"),
		plural(report.Counts.Warnings, "warning", "warnings"),
		plural(report.Counts.Suggestions, "suggestion", "suggestions"),
	)

	for _, group := range []struct {
		sev      review.Severity
		findings []review.Finding
	}{
		{review.SeverityError, report.Errors},
		{review.SeverityWarning, report.Warnings},
		{review.SeveritySuggestion, report.Suggestions},
	} {
		for _, f := range group.findings {
			label := labels[group.sev].Sprint(strings.ToUpper(string(group.sev)))
			loc := f.Location()
			if loc == "" {
				loc = "-"
			}
			ew.printf("\n  %s  %s  [%s]\n", label, loc, f.Category)
			for _, line := range wrapText(f.Message, 70) {
				ew.printf("    %s\n", line)
			}
			if f.Suggestion != "" {
				ew.println("    Suggestion:")
				for _, line := range wrapText(f.Suggestion, 70) {
					ew.printf("      %s\n", line)
				}
			}
		}
	}

	ew.println("")
	if report.HasErrors {
		ew.println(labels[review.SeverityError].Sprint(statusLine(report)))
	} else {
		ew.println(ok.Sprint(statusLine(report)))
	}
	return ew.err
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}

func wrapText(text string, width int) []string {
	if len(text) <= width {
		return []string{text}
	}
	var lines []string
	words := strings.Fields(text)
	var current strings.Builder
	for _, word := range words {
		if current.Len()+len(word)+1 > width && current.Len() > 0 {
			lines = append(lines, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}
