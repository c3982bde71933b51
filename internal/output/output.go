package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dshills/prgate/internal/review"
)

// Writer writes a report in a specific format.
type Writer interface {
	Write(w io.Writer, report review.Report) error
}

// GetWriter returns a writer for the specified format.
func GetWriter(format string, color bool) (Writer, error) {
	switch format {
	case "text", "":
		return &TextWriter{Color: color}, nil
	case "json":
		return &JSONWriter{}, nil
	case "markdown", "md":
		return &MarkdownWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// Render returns the pull-request comment for report.
func Render(report review.Report) (string, error) {
	var sb strings.Builder
	if err := (&MarkdownWriter{}).Write(&sb, report); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// WriteReport writes the report to outPath, or to fallback when outPath is
// empty.
func WriteReport(report review.Report, format, outPath string, fallback io.Writer, color bool) error {
	writer, err := GetWriter(format, color && outPath == "")
	if err != nil {
		return err
	}

	w := fallback
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	return writer.Write(w, report)
}
