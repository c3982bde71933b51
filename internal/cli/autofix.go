package cli

import (
	"github.com/dshills/prgate/internal/autofix"
	"github.com/dshills/prgate/internal/config"
	"github.com/dshills/prgate/internal/gitctx"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var autofixCmd = &cobra.Command{
	Use:   "autofix",
	Short: "Apply one auto-fix attempt for the blocking findings",
	Long: `Read the findings file written by "prgate review --aggregate", ask the
configured model for complete rewrites of every affected file and apply them
all-or-nothing. Exits successfully without changes when there are no errors.`,
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

		ctrl := autofix.New(gw, newArtifactStore(cfg), afero.NewOsFs(), autofix.Options{
			Model:     cfg.Models.AutoFix,
			MaxTokens: cfg.MaxTokens.AutoFix,
			Root:      ".",
			Redactor:  newRedactor(cfg),
			Diff:      gitctx.ParentDiff,
		}, logE)

		fixes, err := ctrl.Run(ctx)
		if err != nil {
			return err
		}
		logE.WithFields(logrus.Fields{
			"files":          len(fixes),
			"max_iterations": cfg.MaxAutoFixIterations,
		}).Info("auto-fix complete")
		return nil
	},
}
