package review

import (
	"fmt"
	"strconv"
)

// Severity is the gating level of a finding.
type Severity string

const (
	SeverityError      Severity = "error"
	SeverityWarning    Severity = "warning"
	SeveritySuggestion Severity = "suggestion"
)

// Valid reports whether s is one of the three known severities.
func (s Severity) Valid() bool {
	switch s {
	case SeverityError, SeverityWarning, SeveritySuggestion:
		return true
	}
	return false
}

// Pass identifies one review persona.
type Pass string

const (
	PassFast        Pass = "fast"
	PassDeep        Pass = "deep"
	PassIndependent Pass = "independent"
)

// Passes lists every pass in aggregation order.
var Passes = []Pass{PassFast, PassDeep, PassIndependent}

// ParsePass converts a flag value into a Pass.
func ParsePass(s string) (Pass, error) {
	for _, p := range Passes {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown pass %q (want fast, deep or independent)", s)
}

// Title returns the pass name with an upper-case first letter.
func (p Pass) Title() string {
	if p == "" {
		return ""
	}
	s := string(p)
	return string(s[0]-'a'+'A') + s[1:]
}

// Finding is a single review observation. It is never modified once produced.
type Finding struct {
	Severity   Severity `json:"severity" validate:"required,oneof=error warning suggestion"`
	Category   string   `json:"category" validate:"required"`
	Message    string   `json:"message" validate:"required"`
	File       string   `json:"file,omitempty"`
	Line       int      `json:"line,omitempty" validate:"omitempty,min=1"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// Location returns "file:line", "file" or "" depending on what is known.
func (f Finding) Location() string {
	if f.File == "" {
		return ""
	}
	if f.Line > 0 {
		return f.File + ":" + strconv.Itoa(f.Line)
	}
	return f.File
}

// Result is the outcome of one review pass.
type Result struct {
	Pass     Pass      `json:"pass" validate:"required,oneof=fast deep independent"`
	Findings []Finding `json:"findings" validate:"dive"`
	Summary  string    `json:"summary"`
}

// FixRequest is the persisted blocking subset handed to auto-fix.
type FixRequest struct {
	Errors      []Finding `json:"errors" validate:"dive"`
	Warnings    []Finding `json:"warnings" validate:"dive"`
	Suggestions []Finding `json:"suggestions" validate:"dive"`
}

// Counts holds the number of findings per severity.
type Counts struct {
	Errors      int `json:"errors"`
	Warnings    int `json:"warnings"`
	Suggestions int `json:"suggestions"`
}

// Total returns the number of findings of any severity.
func (c Counts) Total() int {
	return c.Errors + c.Warnings + c.Suggestions
}

// PassSummary is one pass's one-line assessment.
type PassSummary struct {
	Pass    Pass   `json:"pass"`
	Summary string `json:"summary"`
}

// Report is the aggregated view of the three passes. It is derived on demand
// and never stored as is.
type Report struct {
	Summaries   []PassSummary `json:"summaries"`
	Errors      []Finding     `json:"errors"`
	Warnings    []Finding     `json:"warnings"`
	Suggestions []Finding     `json:"suggestions"`
	Counts      Counts        `json:"counts"`
	HasErrors   bool          `json:"hasErrors"`
}

// FixRequest returns the artifact persisted for auto-fix.
func (r Report) FixRequest() FixRequest {
	return FixRequest{
		Errors:      r.Errors,
		Warnings:    r.Warnings,
		Suggestions: r.Suggestions,
	}
}
