package autofix

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/prgate/internal/llmjson"
	"github.com/dshills/prgate/internal/providers"
	"github.com/dshills/prgate/internal/redact"
	"github.com/dshills/prgate/internal/review"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// FixSource loads the persisted findings file.
type FixSource interface {
	ReadFixRequest() (review.FixRequest, error)
}

// Options configures a Controller.
type Options struct {
	Model     string
	MaxTokens int
	// Root is the working tree the fixes are applied to.
	Root string
	// Redactor strips secrets from the reference diff; nil sends it as is.
	Redactor *redact.Redactor
	// Diff returns the reference diff against the previous commit.
	Diff func() (string, error)
}

// Controller runs a single remediation attempt.
type Controller struct {
	gateway providers.Gateway
	source  FixSource
	fs      afero.Fs
	opts    Options
	log     *logrus.Entry
}

// New creates a Controller.
func New(gw providers.Gateway, source FixSource, fs afero.Fs, opts Options, log *logrus.Entry) *Controller {
	if opts.Root == "" {
		opts.Root = "."
	}
	return &Controller{gateway: gw, source: source, fs: fs, opts: opts, log: log}
}

// Run loads the fix request, asks the gateway for rewrites of every file the
// errors touch and applies them. An empty error list is a successful no-op.
// The findings file is never removed.
func (c *Controller) Run(ctx context.Context) ([]FileFix, error) {
	req, err := c.source.ReadFixRequest()
	if err != nil {
		return nil, fmt.Errorf("loading fix request: %w", err)
	}
	if len(req.Errors) == 0 {
		c.log.Info("no errors to fix")
		return nil, nil
	}

	diff, err := c.referenceDiff()
	if err != nil {
		return nil, err
	}

	paths := AffectedFiles(req.Errors)
	files, err := c.readFiles(ctx, paths)
	if err != nil {
		return nil, err
	}

	c.log.WithFields(logrus.Fields{
		"errors": len(req.Errors),
		"files":  len(paths),
		"model":  c.opts.Model,
	}).Info("requesting fixes")

	resp, err := c.gateway.Chat(ctx, providers.ChatRequest{
		Model:     c.opts.Model,
		System:    SystemPrompt(),
		Prompt:    BuildPrompt(req.Errors, files, diff),
		MaxTokens: c.opts.MaxTokens,
		Accept:    llmjson.Accept[[]FileFix](FixesSchema),
	})
	if err != nil {
		return nil, fmt.Errorf("auto-fix: %w", err)
	}

	fixes, err := llmjson.Parse[[]FileFix](resp.Content, FixesSchema)
	if err != nil {
		return nil, fmt.Errorf("auto-fix: %w", err)
	}
	if len(fixes) == 0 {
		c.log.Warn("gateway returned no fixes")
		return fixes, nil
	}

	if err := Apply(c.fs, c.opts.Root, fixes, c.log); err != nil {
		return nil, fmt.Errorf("applying fixes: %w", err)
	}
	return fixes, nil
}

func (c *Controller) referenceDiff() (string, error) {
	if c.opts.Diff == nil {
		return "", nil
	}
	diff, err := c.opts.Diff()
	if err != nil {
		return "", fmt.Errorf("reference diff: %w", err)
	}
	if c.opts.Redactor != nil {
		var rep redact.Report
		diff, rep = c.opts.Redactor.Diff(diff)
		if rep.Total() > 0 {
			c.log.WithFields(logrus.Fields{
				"rules": strings.Join(rep.Rules(), ","),
				"count": rep.Total(),
			}).Warn("redacted secrets from reference diff")
		}
	}
	return diff, nil
}

// readFiles reads every path concurrently, preserving order. A missing file
// is reported as not existing rather than failing the run.
func (c *Controller) readFiles(ctx context.Context, paths []string) ([]SourceFile, error) {
	files := make([]SourceFile, len(paths))
	g, _ := errgroup.WithContext(ctx)
	for i, p := range paths {
		g.Go(func() error {
			files[i] = SourceFile{Path: p}
			if !insideTree(p) {
				c.log.WithField("file", p).Warn("affected file is outside the working tree")
				return nil
			}
			data, err := afero.ReadFile(c.fs, filepath.Join(c.opts.Root, p))
			if errors.Is(err, os.ErrNotExist) {
				c.log.WithField("file", p).Warn("affected file does not exist")
				return nil
			}
			if err != nil {
				return fmt.Errorf("reading %s: %w", p, err)
			}
			files[i].Content = string(data)
			files[i].Exists = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// AffectedFiles returns the distinct files named by findings in first-seen
// order. Findings without a file contribute nothing.
func AffectedFiles(findings []review.Finding) []string {
	seen := make(map[string]bool)
	var paths []string
	for _, f := range findings {
		if f.File == "" || seen[f.File] {
			continue
		}
		seen[f.File] = true
		paths = append(paths, f.File)
	}
	return paths
}
