package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dshills/prgate/internal/artifact"
	"github.com/dshills/prgate/internal/cache"
	"github.com/dshills/prgate/internal/config"
	"github.com/dshills/prgate/internal/gitctx"
	"github.com/dshills/prgate/internal/github"
	"github.com/dshills/prgate/internal/providers"
	"github.com/dshills/prgate/internal/redact"
	"github.com/dshills/prgate/internal/review"
	"github.com/spf13/afero"
)

// newGateway builds the configured provider with a per-call timeout and,
// when enabled, the response cache in front of it. The returned func
// releases the provider's connections.
func newGateway(ctx context.Context, cfg config.Config) (providers.Gateway, func(), error) {
	base, err := providers.New(ctx, cfg.Provider)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := providers.Close(base); err != nil {
			logE.WithError(err).Debug("closing gateway")
		}
	}
	gw := providers.WithTimeout(base, time.Duration(cfg.GatewayTimeoutSeconds)*time.Second)

	if cfg.Cache.Enabled {
		store, err := openCache(cfg)
		if err != nil {
			closeFn()
			return nil, nil, err
		}
		gw = cache.Wrap(gw, store, logE)
	}
	return gw, closeFn, nil
}

func openCache(cfg config.Config) (*cache.Store, error) {
	store, err := cache.Open(afero.NewOsFs(), cfg.Cache.Dir, time.Duration(cfg.Cache.TTLSeconds)*time.Second)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	return store, nil
}

func newRedactor(cfg config.Config) *redact.Redactor {
	if !cfg.Privacy.Redacts() {
		logE.Warn("secret redaction is disabled")
		return nil
	}
	return redact.New(cfg.Privacy.RedactPaths)
}

func newArtifactStore(cfg config.Config) *artifact.Store {
	return artifact.NewStore(afero.NewOsFs(), cfg.ArtifactDir)
}

// newGitHub creates a client for the configured repository, falling back to
// the origin remote.
func newGitHub(ctx context.Context, cfg config.Config) (*github.Client, error) {
	owner, repo := cfg.GitHub.Owner, cfg.GitHub.Repo
	if owner == "" || repo == "" {
		var err error
		if owner, repo, err = github.DetectRepo(); err != nil {
			return nil, err
		}
	}
	return github.NewClient(ctx, owner, repo)
}

func reviewOptions(cfg config.Config) review.Options {
	models := make(map[review.Pass]string, len(review.Passes))
	for _, pass := range review.Passes {
		models[pass] = cfg.Models.ForPass(string(pass))
	}
	return review.Options{
		Models:    models,
		MaxTokens: cfg.MaxTokens.Review,
		Redactor:  newRedactor(cfg),
	}
}

// loadDiff fetches the pull request diff when a PR and token are available,
// otherwise diffs the base branch locally.
func loadDiff(ctx context.Context, cfg config.Config) (gitctx.Diff, error) {
	if cfg.GitHub.PRNumber > 0 && os.Getenv("GITHUB_TOKEN") != "" {
		gh, err := newGitHub(ctx, cfg)
		if err != nil {
			return gitctx.Diff{}, err
		}
		logE.WithField("pr", cfg.GitHub.PRNumber).Info("fetching pull request diff")
		text, err := gh.GetPullRequestDiff(ctx, cfg.GitHub.PRNumber)
		if err != nil {
			return gitctx.Diff{}, err
		}
		d := gitctx.Filter(text, cfg.Exclude)
		d.Range = fmt.Sprintf("%s#%d", gh.Repo(), cfg.GitHub.PRNumber)
		return d, nil
	}

	revRange := gitctx.BaseRange(cfg.GitHub.BaseRef)
	logE.WithField("range", revRange).Info("diffing against base branch")
	return gitctx.Range(revRange, cfg.Exclude)
}
