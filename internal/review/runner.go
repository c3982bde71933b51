package review

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/prgate/internal/gitctx"
	"github.com/dshills/prgate/internal/llmjson"
	"github.com/dshills/prgate/internal/providers"
	"github.com/dshills/prgate/internal/redact"
	"github.com/sirupsen/logrus"
)

// EmptyDiffSummary is recorded for a pass run against an empty diff.
const EmptyDiffSummary = "No changes to review."

// ResultStore persists pass results.
type ResultStore interface {
	WriteResult(Result) error
}

// Options configures a Runner.
type Options struct {
	// Models maps each pass to the model it calls.
	Models map[Pass]string
	// MaxTokens bounds the response length; zero uses the gateway default.
	MaxTokens int
	// Redactor strips secrets from the diff; nil sends the diff as is.
	Redactor *redact.Redactor
}

// Runner executes review passes against a gateway.
type Runner struct {
	gateway providers.Gateway
	store   ResultStore
	opts    Options
	log     *logrus.Entry
}

// NewRunner creates a Runner.
func NewRunner(gw providers.Gateway, store ResultStore, opts Options, log *logrus.Entry) *Runner {
	return &Runner{gateway: gw, store: store, opts: opts, log: log}
}

// RunPass reviews diff with the persona for pass and writes the result
// before returning. Gateway failures and schema violations are returned
// unchanged in the error chain and leave no artifact behind.
func (r *Runner) RunPass(ctx context.Context, pass Pass, diff gitctx.Diff) (Result, error) {
	log := r.log.WithField("pass", pass)

	if diff.Empty() {
		log.Info("diff is empty; skipping gateway call")
		result := Result{Pass: pass, Findings: []Finding{}, Summary: EmptyDiffSummary}
		if err := r.store.WriteResult(result); err != nil {
			return Result{}, fmt.Errorf("writing %s result: %w", pass, err)
		}
		return result, nil
	}

	model := r.opts.Models[pass]
	if model == "" {
		return Result{}, fmt.Errorf("no model configured for %s pass", pass)
	}

	text := diff.Text
	if r.opts.Redactor != nil {
		var rep redact.Report
		text, rep = r.opts.Redactor.Diff(text)
		if rep.Total() > 0 {
			log.WithFields(logrus.Fields{
				"rules": strings.Join(rep.Rules(), ","),
				"files": strings.Join(rep.Files, ","),
				"count": rep.Total(),
			}).Warn("redacted secrets from diff")
		}
	}

	log.WithField("model", model).Info("running review pass")
	resp, err := r.gateway.Chat(ctx, providers.ChatRequest{
		Model:     model,
		System:    SystemPrompt(),
		Prompt:    BuildPrompt(pass, text, diff.Files),
		MaxTokens: r.opts.MaxTokens,
		Accept:    llmjson.Accept[Result](ResultSchema),
	})
	if err != nil {
		return Result{}, fmt.Errorf("%s pass: %w", pass, err)
	}

	result, err := llmjson.Parse[Result](resp.Content, ResultSchema)
	if err != nil {
		var sv *llmjson.SchemaViolation
		if errors.As(err, &sv) {
			log.WithField("response", sv.Snippet(500)).Debug("malformed review response")
		}
		return Result{}, fmt.Errorf("%s pass: %w", pass, err)
	}
	result.Pass = pass
	if result.Findings == nil {
		result.Findings = []Finding{}
	}

	if err := r.store.WriteResult(result); err != nil {
		return Result{}, fmt.Errorf("writing %s result: %w", pass, err)
	}
	log.WithFields(logrus.Fields{
		"findings": len(result.Findings),
		"tokens":   resp.TokensUsed,
	}).Info("review pass complete")
	return result, nil
}
