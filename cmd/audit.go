package cmd

import (
	"context"
	"fmt"
	"os"

	"logsequence/audit"
	"logsequence/config"
	"logsequence/core"
	"logsequence/ingest"
	"logsequence/report"
	"logsequence/storage"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// registerIngestFlags declares the flags shared by the audit and ids
// commands and binds them onto the viper instance, giving the
// flag > environment > default resolution order.
func registerIngestFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().StringSlice("logs", nil, "Log files or glob patterns to inspect (repeatable)")
	cmd.Flags().String("format", "json", "Log format: 'json' for JSON-lines, 'text' for regex extraction")
	cmd.Flags().String("id-field", "id", "JSON field name for the correlation ID")
	cmd.Flags().String("state-field", "state", "JSON field name for the state")
	cmd.Flags().String("timestamp-field", "timestamp", "JSON field name for the timestamp")
	cmd.Flags().String("regex-id", "", "Regex with named group 'id' (or first group) for plain text logs")
	cmd.Flags().String("regex-state", "", "Regex with named group 'state' (or first group) for plain text logs")
	cmd.Flags().String("regex-timestamp", "", "Regex with named group 'ts' (or whole match) for plain text logs")
	cmd.Flags().Int("max-ids", 0, "Limit the number of distinct IDs processed (0 = unlimited)")
	cmd.Flags().Int("max-events-per-id", 0, "Limit the number of events kept per ID, earliest kept (0 = unlimited)")
	cmd.Flags().String("timestamp-format", "auto", "Timestamp parsing: auto, iso8601 or iso8601_z")

	_ = v.BindPFlag("logs", cmd.Flags().Lookup("logs"))
	_ = v.BindPFlag("format", cmd.Flags().Lookup("format"))
	_ = v.BindPFlag("id_field", cmd.Flags().Lookup("id-field"))
	_ = v.BindPFlag("state_field", cmd.Flags().Lookup("state-field"))
	_ = v.BindPFlag("timestamp_field", cmd.Flags().Lookup("timestamp-field"))
	_ = v.BindPFlag("regex_id", cmd.Flags().Lookup("regex-id"))
	_ = v.BindPFlag("regex_state", cmd.Flags().Lookup("regex-state"))
	_ = v.BindPFlag("regex_timestamp", cmd.Flags().Lookup("regex-timestamp"))
	_ = v.BindPFlag("max_ids", cmd.Flags().Lookup("max-ids"))
	_ = v.BindPFlag("max_events_per_id", cmd.Flags().Lookup("max-events-per-id"))
	_ = v.BindPFlag("timestamp_format", cmd.Flags().Lookup("timestamp-format"))
}

func newAuditCmd() *cobra.Command {
	v := config.NewViper()

	auditCmd := &cobra.Command{
		Use:   "audit",
		Short: "Run the state sequence audit",
		Long: `Run the per-correlation-ID state sequence audit.

Exit codes:
  0 = audit passed, no inconsistencies found
  1 = configuration error
  2 = failed to read logs (no files matched or unreadable)
  3 = inconsistencies found`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(cmd, v)
		},
	}

	registerIngestFlags(auditCmd, v)
	auditCmd.Flags().String("allowed-order", "", "Allowed state order, e.g. 'NEW>RUNNING>DONE'")
	auditCmd.Flags().String("order-file", "", "YAML file with the allowed state order")
	auditCmd.Flags().Bool("ignore-duplicates", false, "Ignore duplicate consecutive states for the same ID")
	auditCmd.Flags().Bool("json", false, "Emit a JSON report instead of human-readable output")
	auditCmd.Flags().Int("workers", 4, "Number of parallel audit workers")
	auditCmd.Flags().Bool("store", false, "Persist the run into the history store")
	auditCmd.Flags().String("store-path", "./data/logsequence.db", "Path of the history store database")

	_ = v.BindPFlag("allowed_order", auditCmd.Flags().Lookup("allowed-order"))
	_ = v.BindPFlag("order_file", auditCmd.Flags().Lookup("order-file"))
	_ = v.BindPFlag("ignore_duplicates", auditCmd.Flags().Lookup("ignore-duplicates"))
	_ = v.BindPFlag("json_output", auditCmd.Flags().Lookup("json"))
	_ = v.BindPFlag("workers", auditCmd.Flags().Lookup("workers"))
	_ = v.BindPFlag("store.enabled", auditCmd.Flags().Lookup("store"))
	_ = v.BindPFlag("store.path", auditCmd.Flags().Lookup("store-path"))

	return auditCmd
}

// loadOrder builds the allowed-order definition from whichever source the
// configuration names.
func loadOrder(cfg *config.Config) (*core.StateOrder, error) {
	var (
		order *core.StateOrder
		err   error
	)
	if cfg.OrderFile != "" {
		order, err = core.LoadOrderFile(cfg.OrderFile)
	} else {
		order, err = core.ParseOrder(cfg.AllowedOrder)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrConfig, err)
	}
	return order, nil
}

func runAudit(cmd *cobra.Command, v *viper.Viper) error {
	logger := newLogger()
	defer logger.Sync() //nolint:errcheck

	cfg, err := config.Resolve(v)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Everything configuration-shaped is resolved before any file is read.
	order, err := loadOrder(cfg)
	if err != nil {
		return err
	}
	parseTS, err := ingest.ParserForMode(cfg.TimestampFormat)
	if err != nil {
		return fmt.Errorf("%w: %v", config.ErrConfig, err)
	}
	adapter, err := buildAdapter(cfg)
	if err != nil {
		return err
	}
	auditor, err := audit.New(order, cfg.IgnoreDuplicates, cfg.Workers, logger)
	if err != nil {
		return fmt.Errorf("%w: %v", config.ErrConfig, err)
	}

	paths, err := ingest.ExpandFiles(cfg.Logs)
	if err != nil {
		return err
	}
	ingestor := ingest.NewIngestor(parseTS, ingest.Limits{
		MaxIDs:         cfg.MaxIDs,
		MaxEventsPerID: cfg.MaxEventsPerID,
	}, cfg.Format, logger)
	if err := ingest.ReadFiles(paths, adapter, ingestor, logger); err != nil {
		return err
	}

	group := ingestor.Group()
	if len(group) == 0 {
		warningColor.Fprintln(os.Stderr, "WARNING: No events were parsed from the provided logs.")
	}

	incs := auditor.Run(group)
	rep := report.New(uuid.New().String(), group, incs)

	if cfg.JSONOutput {
		if err := rep.WriteJSON(cmd.OutOrStdout()); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	} else {
		rep.WriteHuman(cmd.OutOrStdout())
	}

	if cfg.Store.Enabled {
		store, err := storage.Open(cfg.Store.Path, logger)
		if err != nil {
			return fmt.Errorf("failed to open history store: %w", err)
		}
		defer store.Close()
		if err := store.SaveRun(context.Background(), rep); err != nil {
			return fmt.Errorf("failed to persist run: %w", err)
		}
	}

	if !rep.Clean() {
		return ErrInconsistenciesFound
	}
	return nil
}
