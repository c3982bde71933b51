package review

// Aggregate merges the three pass results. Findings keep pass order then
// within-pass order and are partitioned by severity without deduplication.
func Aggregate(fast, deep, independent Result) Report {
	r := Report{
		Errors:      []Finding{},
		Warnings:    []Finding{},
		Suggestions: []Finding{},
	}
	for _, res := range []Result{fast, deep, independent} {
		r.Summaries = append(r.Summaries, PassSummary{Pass: res.Pass, Summary: res.Summary})
		for _, f := range res.Findings {
			switch f.Severity {
			case SeverityError:
				r.Errors = append(r.Errors, f)
			case SeverityWarning:
				r.Warnings = append(r.Warnings, f)
			case SeveritySuggestion:
				r.Suggestions = append(r.Suggestions, f)
			}
		}
	}
	r.Counts = Counts{
		Errors:      len(r.Errors),
		Warnings:    len(r.Warnings),
		Suggestions: len(r.Suggestions),
	}
	r.HasErrors = r.Counts.Errors > 0
	return r
}
