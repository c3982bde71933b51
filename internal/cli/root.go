package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dshills/prgate/internal/github"
	"github.com/dshills/prgate/internal/providers"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/suzuki-shunsuke/logrus-error/logerr"
)

const version = "0.1.0"

// Exit codes
const (
	ExitSuccess      = 0
	ExitUsageError   = 2
	ExitAuthError    = 3
	ExitRuntimeError = 4
)

var rootCmd = &cobra.Command{
	Use:           "prgate",
	Short:         "Multi-pass AI pull-request review gate",
	Long:          "prgate runs independent AI review passes over a pull request, aggregates their findings into one gating report, and drives a single auto-fix attempt for blocking errors.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Run executes the root command and returns an exit code.
func Run() int {
	// A missing .env is not an error.
	_ = godotenv.Load()

	logE = newLogger(os.Stderr, os.Getenv("PRGATE_LOG_LEVEL"))
	return execute(os.Args[1:])
}

func execute(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	var ue *usageError
	if errors.As(err, &ue) || isFlagError(err) {
		cmd := rootCmd
		if ue != nil && ue.cmd != nil {
			cmd = ue.cmd
		} else if found, _, findErr := rootCmd.Find(args); findErr == nil {
			cmd = found
		}
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n\n%s", err, cmd.UsageString())
		return ExitUsageError
	}

	logerr.WithError(logE, err).Error("prgate failed")
	return exitCodeFor(err)
}

// logE is the process logger. Output goes to stderr so stdout stays
// machine-readable.
var logE = newLogger(os.Stderr, "")

func newLogger(w io.Writer, level string) *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	return logrus.NewEntry(logger).WithField("program", "prgate")
}

func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case providers.IsAuthError(err), github.IsAuthError(err):
		return ExitAuthError
	default:
		return ExitRuntimeError
	}
}

// usageError marks invalid command-line arguments.
type usageError struct {
	cmd *cobra.Command
	msg string
}

func (e *usageError) Error() string { return e.msg }

func newUsageError(cmd *cobra.Command, format string, args ...any) error {
	return &usageError{cmd: cmd, msg: fmt.Sprintf(format, args...)}
}

// isFlagError reports cobra's argument and flag parsing failures.
func isFlagError(err error) bool {
	msg := err.Error()
	for _, prefix := range []string{"unknown flag", "unknown shorthand flag", "unknown command", "invalid argument", "flag needs an argument", "accepts ", "requires at least"} {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return false
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print prgate version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "prgate version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(autofixCmd)
	rootCmd.AddCommand(backlogCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)
}
