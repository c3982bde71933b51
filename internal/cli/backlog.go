package cli

import (
	"github.com/dshills/prgate/internal/backlog"
	"github.com/dshills/prgate/internal/config"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var flagBacklogDryRun bool

var backlogCmd = &cobra.Command{
	Use:   "backlog",
	Short: "Create epics and issues from a specification",
	Long: `Parse the configured spec (and plan, when present) into epics and issues,
create them on GitHub with labels from the configured taxonomy and add them
to the configured project.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(nil)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		gw, closeGateway, err := newGateway(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeGateway()

		var tracker backlog.Tracker
		if !flagBacklogDryRun {
			gh, err := newGitHub(ctx, cfg)
			if err != nil {
				return err
			}
			tracker = gh
		}

		runner := backlog.NewRunner(gw, tracker, afero.NewOsFs(), cmd.OutOrStdout(), backlog.Options{
			Model:         cfg.Models.Backlog,
			MaxTokens:     cfg.MaxTokens.Backlog,
			SpecPath:      cfg.Paths.Spec,
			PlanPath:      cfg.Paths.Plan,
			ProjectNumber: cfg.GitHub.ProjectNumber,
			Taxonomy: backlog.Taxonomy{
				Areas:      cfg.Labels.Areas,
				Priorities: cfg.Labels.Priorities,
				Sizes:      cfg.Labels.Sizes,
			},
			DryRun: flagBacklogDryRun,
		}, logE)

		_, err = runner.Run(ctx)
		return err
	},
}

func init() {
	backlogCmd.Flags().BoolVar(&flagBacklogDryRun, "dry-run", false, "Print what would be created without calling GitHub")
}
