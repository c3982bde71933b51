package cli

import (
	"context"
	"os"

	"github.com/dshills/prgate/internal/config"
	"github.com/dshills/prgate/internal/review"
	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// Review flags
var (
	flagPass      string
	flagAggregate bool
	flagAll       bool
	flagDryRun    bool
	flagFormat    string
	flagOut       string
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Run a review pass or aggregate pass results",
	Long: `Run one review pass (--pass), merge the three pass artifacts into the
gating report (--aggregate), or run every pass concurrently and aggregate
(--all). Aggregation posts the report on the pull request unless --dry-run
is set or no PR number is configured.`,
	Example: `  prgate review --pass=fast
  prgate review --aggregate --dry-run
  prgate review --all`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pass, err := reviewMode(cmd)
		if err != nil {
			return err
		}

		cfg, err := config.Load(nil)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		if flagAggregate {
			return runAggregate(ctx, cfg)
		}

		gw, closeGateway, err := newGateway(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeGateway()
		diff, err := loadDiff(ctx, cfg)
		if err != nil {
			return err
		}
		runner := review.NewRunner(gw, newArtifactStore(cfg), reviewOptions(cfg), logE)

		if flagAll {
			if _, err := runner.RunAll(ctx, diff); err != nil {
				return err
			}
			return runAggregate(ctx, cfg)
		}

		result, err := runner.RunPass(ctx, pass, diff)
		if err != nil {
			return err
		}
		logE.WithField("pass", pass).WithField("findings", len(result.Findings)).Info("review pass complete")
		return nil
	},
}

// reviewMode validates that exactly one mode was requested and returns the
// pass for --pass.
func reviewMode(cmd *cobra.Command) (review.Pass, error) {
	modes := 0
	for _, set := range []bool{flagPass != "", flagAggregate, flagAll} {
		if set {
			modes++
		}
	}
	if modes != 1 {
		return "", newUsageError(cmd, "exactly one of --pass, --aggregate or --all is required")
	}
	if flagPass == "" {
		return "", nil
	}
	pass, err := review.ParsePass(flagPass)
	if err != nil {
		return "", newUsageError(cmd, "%v", err)
	}
	return pass, nil
}

func runAggregate(ctx context.Context, cfg config.Config) error {
	agg := &aggregation{
		store:       newArtifactStore(cfg),
		fs:          afero.NewOsFs(),
		prNumber:    cfg.GitHub.PRNumber,
		outputsPath: os.Getenv("GITHUB_OUTPUT"),
		format:      flagFormat,
		outPath:     flagOut,
		color:       !color.NoColor,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		log:         logE,
	}
	if !flagDryRun && cfg.GitHub.PRNumber > 0 {
		gh, err := newGitHub(ctx, cfg)
		if err != nil {
			return err
		}
		agg.poster = gh
	}
	_, err := agg.run(ctx)
	return err
}

func init() {
	reviewCmd.Flags().StringVar(&flagPass, "pass", "", "Run one review pass (fast, deep, independent)")
	reviewCmd.Flags().BoolVar(&flagAggregate, "aggregate", false, "Aggregate the three pass artifacts into the gating report")
	reviewCmd.Flags().BoolVar(&flagAll, "all", false, "Run every pass concurrently, then aggregate")
	reviewCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Print the report instead of posting it")
	reviewCmd.Flags().StringVar(&flagFormat, "format", "text", "Console report format (text, json, markdown)")
	reviewCmd.Flags().StringVar(&flagOut, "out", "", "Write the console report to a file instead of stderr")
}
