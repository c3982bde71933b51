package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dshills/prgate/internal/review"
)

// JSONWriter encodes the aggregated report as indented JSON.
type JSONWriter struct{}

func (j *JSONWriter) Write(w io.Writer, report review.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}
