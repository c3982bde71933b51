package backlog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dshills/prgate/internal/github"
	"github.com/dshills/prgate/internal/llmjson"
	"github.com/dshills/prgate/internal/providers"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Tracker is the subset of the issue tracker the backlog flow needs.
type Tracker interface {
	CreateIssue(ctx context.Context, title, body string, labels []string) (github.Issue, error)
	GetProjectID(ctx context.Context, number int) (string, error)
	AddToProject(ctx context.Context, contentID, projectID string) (string, error)
}

// Options configures a Runner.
type Options struct {
	Model     string
	MaxTokens int
	SpecPath  string
	// PlanPath is optional; a missing plan file is skipped.
	PlanPath string
	// ProjectNumber adds every created issue to that project when non-zero.
	ProjectNumber int
	Taxonomy      Taxonomy
	// DryRun creates nothing and prints what would be created.
	DryRun bool
}

// Runner turns a specification into epics and issues.
type Runner struct {
	gateway providers.Gateway
	tracker Tracker
	fs      afero.Fs
	out     io.Writer
	opts    Options
	log     *logrus.Entry
}

// NewRunner creates a Runner. tracker may be nil on a dry run.
func NewRunner(gw providers.Gateway, tracker Tracker, fs afero.Fs, out io.Writer, opts Options, log *logrus.Entry) *Runner {
	return &Runner{gateway: gw, tracker: tracker, fs: fs, out: out, opts: opts, log: log}
}

// Run parses the spec into a backlog, creates it and prints a summary.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	b, err := r.Parse(ctx)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{DryRun: r.opts.DryRun, Gaps: b.Gaps, Questions: b.Questions}
	if r.opts.DryRun {
		for _, e := range b.Epics {
			fmt.Fprintf(r.out, "[dry run] would create epic: %s %v\n", EpicTitle(e), EpicLabels(e))
			ce := CreatedEpic{Title: e.Title}
			for _, is := range e.Issues {
				fmt.Fprintf(r.out, "[dry run] would create issue: %s %v\n", is.Title, IssueLabels(is))
				ce.Issues = append(ce.Issues, CreatedIssue{Title: is.Title})
			}
			summary.Epics = append(summary.Epics, ce)
		}
		return summary, WriteSummary(r.out, summary)
	}

	if r.tracker == nil {
		return Summary{}, errors.New("no issue tracker configured")
	}

	var projectID string
	if r.opts.ProjectNumber > 0 {
		if projectID, err = r.tracker.GetProjectID(ctx, r.opts.ProjectNumber); err != nil {
			return Summary{}, err
		}
	}

	for _, e := range b.Epics {
		epic, err := r.create(ctx, EpicTitle(e), EpicBody(e), EpicLabels(e), projectID)
		if err != nil {
			return summary, err
		}
		r.log.WithField("number", epic.Number).Infof("created epic: %s", e.Title)
		ce := CreatedEpic{Number: epic.Number, Title: e.Title}

		for _, is := range e.Issues {
			child, err := r.create(ctx, is.Title, IssueBody(is, epic.Number), IssueLabels(is), projectID)
			if err != nil {
				summary.Epics = append(summary.Epics, ce)
				return summary, err
			}
			r.log.WithFields(logrus.Fields{"number": child.Number, "epic": epic.Number}).Infof("created issue: %s", is.Title)
			ce.Issues = append(ce.Issues, CreatedIssue{Number: child.Number, Title: is.Title})
		}
		summary.Epics = append(summary.Epics, ce)
	}

	return summary, WriteSummary(r.out, summary)
}

// Parse reads the spec and optional plan and asks the gateway for a backlog.
func (r *Runner) Parse(ctx context.Context) (Backlog, error) {
	spec, err := afero.ReadFile(r.fs, r.opts.SpecPath)
	if err != nil {
		return Backlog{}, fmt.Errorf("reading spec: %w", err)
	}

	var plan []byte
	if r.opts.PlanPath != "" {
		plan, err = afero.ReadFile(r.fs, r.opts.PlanPath)
		switch {
		case errors.Is(err, os.ErrNotExist):
			r.log.WithField("path", r.opts.PlanPath).Info("plan file not found; continuing without it")
		case err != nil:
			return Backlog{}, fmt.Errorf("reading plan: %w", err)
		}
	}

	r.log.WithFields(logrus.Fields{"spec": r.opts.SpecPath, "model": r.opts.Model}).Info("parsing spec")
	resp, err := r.gateway.Chat(ctx, providers.ChatRequest{
		Model:     r.opts.Model,
		System:    SystemPrompt(),
		Prompt:    BuildPrompt(string(spec), string(plan), r.opts.Taxonomy),
		MaxTokens: r.opts.MaxTokens,
		Accept:    llmjson.Accept[Backlog](Schema),
	})
	if err != nil {
		return Backlog{}, fmt.Errorf("backlog: %w", err)
	}

	b, err := llmjson.Parse[Backlog](resp.Content, Schema)
	if err != nil {
		return Backlog{}, fmt.Errorf("backlog: %w", err)
	}
	Normalize(&b, r.opts.Taxonomy, r.log)
	r.log.Infof("found %d epics", len(b.Epics))
	return b, nil
}

func (r *Runner) create(ctx context.Context, title, body string, labels []string, projectID string) (github.Issue, error) {
	issue, err := r.tracker.CreateIssue(ctx, title, body, labels)
	if err != nil {
		return github.Issue{}, err
	}
	if projectID != "" {
		if _, err := r.tracker.AddToProject(ctx, issue.NodeID, projectID); err != nil {
			return issue, err
		}
	}
	return issue, nil
}
