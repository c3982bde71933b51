package output

import (
	"fmt"
	"io"
	"os"

	"github.com/dshills/prgate/internal/review"
	"github.com/spf13/afero"
)

// Outputs are the key/value pairs a calling workflow branches on.
type Outputs struct {
	HasErrors       bool
	ErrorCount      int
	WarningCount    int
	SuggestionCount int
}

// OutputsFor derives the workflow outputs of a report.
func OutputsFor(r review.Report) Outputs {
	return Outputs{
		HasErrors:       r.HasErrors,
		ErrorCount:      r.Counts.Errors,
		WarningCount:    r.Counts.Warnings,
		SuggestionCount: r.Counts.Suggestions,
	}
}

// Lines returns the outputs as key=value lines in a fixed order.
func (o Outputs) Lines() []string {
	return []string{
		fmt.Sprintf("has_errors=%t", o.HasErrors),
		fmt.Sprintf("error_count=%d", o.ErrorCount),
		fmt.Sprintf("warning_count=%d", o.WarningCount),
		fmt.Sprintf("suggestion_count=%d", o.SuggestionCount),
	}
}

// WriteOutputs appends the outputs to the file at path (the workflow's
// GITHUB_OUTPUT) or, when path is empty, prints them to stdout.
func WriteOutputs(fs afero.Fs, path string, stdout io.Writer, o Outputs) error {
	w := stdout
	if path != "" {
		f, err := fs.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("opening outputs file: %w", err)
		}
		defer f.Close()
		w = f
	}
	ew := &errWriter{w: w}
	for _, line := range o.Lines() {
		ew.println(line)
	}
	if ew.err != nil {
		return fmt.Errorf("writing outputs: %w", ew.err)
	}
	return nil
}
