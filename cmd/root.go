// Package cmd provides the command-line interface for the log sequence
// auditor.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"logsequence/config"
	"logsequence/ingest"
	"logsequence/util"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// CLI output formatters
var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow)
	infoColor    = color.New(color.FgCyan)
)

// ErrInconsistenciesFound distinguishes a completed audit that found
// violations from real failures; callers map it to its own exit code. The
// report has already been rendered when this is returned.
var ErrInconsistenciesFound = errors.New("inconsistencies found")

// PrintError reports a fatal error on stderr. The inconsistencies-found
// outcome is not an error and is never printed; the report already was.
func PrintError(err error) {
	if err == nil || errors.Is(err, ErrInconsistenciesFound) {
		return
	}
	errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
}

// ExitCode maps an Execute error onto the process-exit contract: 0 clean,
// 1 configuration error, 2 ingestion failure, 3 inconsistencies found.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrInconsistenciesFound):
		return 3
	case errors.Is(err, ingest.ErrIngestion):
		return 2
	default:
		return 1
	}
}

// Global flags
var (
	verbose bool
	noColor bool
)

// NewRootCmd creates the root command with all subcommands.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "logsequence",
		Short: "Audit logs for per-ID state transition consistency",
		Long: `Audit logs for per-correlation-ID state transition consistency.

Log lines (JSON-lines or plain text with regex extraction) are grouped by a
correlation ID and checked against a declared allowed state order such as
NEW>RUNNING>DONE. Duplicates, regressions, skipped states and unknown states
are reported per ID.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(newAuditCmd())
	rootCmd.AddCommand(newIDsCmd())
	rootCmd.AddCommand(newHistoryCmd())

	return rootCmd
}

// newLogger builds the CLI logger. Output goes to stderr so reports on
// stdout stay machine-readable; warn level unless --verbose.
func newLogger() *zap.SugaredLogger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return logger.Sugar()
}

// buildAdapter constructs the input adapter for the configured format.
func buildAdapter(cfg *config.Config) (ingest.Adapter, error) {
	if cfg.Format == config.FormatText {
		patterns, err := ingest.CompilePatterns(cfg.RegexID, cfg.RegexState, cfg.RegexTimestamp, util.NewRegexValidator())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", config.ErrConfig, err)
		}
		return ingest.NewTextAdapter(patterns), nil
	}
	return ingest.NewJSONAdapter(ingest.FieldMap{
		ID:        cfg.IDField,
		State:     cfg.StateField,
		Timestamp: cfg.TimestampField,
	}), nil
}
