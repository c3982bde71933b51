package output

import "github.com/dshills/prgate/internal/review"

// scenarioReport is the aggregate of an empty fast pass, a deep pass with one
// error and an independent pass with one file-less suggestion.
func scenarioReport() review.Report {
	return review.Aggregate(
		review.Result{Pass: review.PassFast, Findings: []review.Finding{}, Summary: "Looks clean."},
		review.Result{Pass: review.PassDeep, Summary: "One correctness bug.", Findings: []review.Finding{
			{Severity: review.SeverityError, Category: "bugs", Message: "Off-by-one in loop bound", File: "src/a.ts", Line: 10, Suggestion: "Use < instead of <="},
		}},
		review.Result{Pass: review.PassIndependent, Summary: "Consider docs.", Findings: []review.Finding{
			{Severity: review.SeveritySuggestion, Category: "docs", Message: "Document the retry policy"},
		}},
	)
}
