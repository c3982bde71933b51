package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/dshills/prgate/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var flagConfigFormat string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and edit prgate configuration",
	Long: `Configuration is merged from defaults, the first config file found
(PRGATE_CONFIG, .prgate.json/.toml/.yaml in the working directory, then the
user config file) and PRGATE_* environment variables.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default user configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.UserConfigPath()
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err == nil {
			logE.WithField("path", path).Warn("config file already exists, leaving it unchanged")
			return nil
		}
		if err := config.Save(config.Default()); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Config file created at %s\n", path)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:     "set <key> <value>",
	Short:   "Set one key in the user configuration file",
	Example: "  prgate config set models.deep claude-opus-4-1\n  prgate config set labels.areas api,cli",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		path, err := config.UserConfigPath()
		if err != nil {
			return err
		}

		// A missing or empty user file starts from the defaults.
		cfg, err := config.ReadFile(path)
		if err != nil {
			return err
		}
		if cfg.Provider == "" {
			cfg = config.Default()
		}

		if err := config.SetField(&cfg, key, value); err != nil {
			return newUsageError(cmd, "%v", err)
		}
		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(nil)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		switch flagConfigFormat {
		case "json":
			return printJSON(w, cfg)
		case "yaml":
			enc := yaml.NewEncoder(w)
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return fmt.Errorf("encoding config: %w", err)
			}
			return enc.Close()
		case "toml":
			return toml.NewEncoder(w).Encode(cfg)
		default:
			return newUsageError(cmd, "unknown format %q (want json, yaml or toml)", flagConfigFormat)
		}
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file prgate reads",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.ConfigPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func init() {
	configShowCmd.Flags().StringVar(&flagConfigFormat, "format", "json", "Output format (json, yaml, toml)")
	configCmd.AddCommand(configInitCmd, configSetCmd, configShowCmd, configPathCmd)
}
