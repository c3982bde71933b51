package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/dshills/prgate/internal/artifact"
	"github.com/dshills/prgate/internal/output"
	"github.com/dshills/prgate/internal/review"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// commentPoster publishes the rendered report on the pull request.
type commentPoster interface {
	CreateComment(ctx context.Context, number int, body string) error
}

// aggregation merges the three pass artifacts and publishes the result.
type aggregation struct {
	store *artifact.Store
	fs    afero.Fs
	// poster is nil when no comment should be posted.
	poster   commentPoster
	prNumber int
	// outputsPath receives key=value outputs; empty writes them to stdout.
	outputsPath string
	format      string
	outPath     string
	color       bool
	stdout      io.Writer
	stderr      io.Writer
	log         *logrus.Entry
}

// run loads every artifact before producing any output, so a missing pass
// leaves nothing behind. The comment is posted last.
func (a *aggregation) run(ctx context.Context) (review.Report, error) {
	results, err := a.store.ReadResults()
	if err != nil {
		return review.Report{}, err
	}
	report := review.Aggregate(results[0], results[1], results[2])

	comment, err := output.Render(report)
	if err != nil {
		return review.Report{}, fmt.Errorf("rendering comment: %w", err)
	}

	if err := output.WriteReport(report, a.format, a.outPath, a.stderr, a.color); err != nil {
		return review.Report{}, fmt.Errorf("writing report: %w", err)
	}
	if err := output.WriteOutputs(a.fs, a.outputsPath, a.stdout, output.OutputsFor(report)); err != nil {
		return review.Report{}, err
	}

	if report.HasErrors {
		if err := a.store.WriteFixRequest(report.FixRequest()); err != nil {
			return review.Report{}, fmt.Errorf("writing findings: %w", err)
		}
		a.log.WithField("errors", report.Counts.Errors).Info("wrote findings for auto-fix")
	} else {
		removed, err := a.store.RemoveFixRequest()
		if err != nil {
			return review.Report{}, err
		}
		if removed {
			a.log.Info("removed stale findings file")
		}
	}

	if a.poster == nil || a.prNumber == 0 {
		fmt.Fprintln(a.stdout, comment)
		return report, nil
	}
	if err := a.poster.CreateComment(ctx, a.prNumber, comment); err != nil {
		return report, fmt.Errorf("posting review comment: %w", err)
	}
	a.log.WithField("pr", a.prNumber).Info("posted review comment")
	return report, nil
}
