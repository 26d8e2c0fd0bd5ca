package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"logsequence/storage"

	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var (
		storePath  string
		outputJSON bool
	)

	historyCmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List persisted audit runs, or show one run's inconsistencies",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			defer logger.Sync() //nolint:errcheck

			store, err := storage.Open(storePath, logger)
			if err != nil {
				return fmt.Errorf("failed to open history store: %w", err)
			}
			defer store.Close()

			if len(args) == 1 {
				return showRun(cmd, store, args[0], outputJSON)
			}
			return listRuns(cmd, store, outputJSON)
		},
	}

	historyCmd.Flags().StringVar(&storePath, "store-path", "./data/logsequence.db", "Path of the history store database")
	historyCmd.Flags().BoolVar(&outputJSON, "json", false, "Output in JSON format")
	return historyCmd
}

func listRuns(cmd *cobra.Command, store *storage.Store, outputJSON bool) error {
	runs, err := store.ListRuns(context.Background())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outputJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No audit runs recorded.")
		return nil
	}
	for _, run := range runs {
		marker := "ok"
		if run.TotalInconsistencies > 0 {
			marker = fmt.Sprintf("%d inconsistencies", run.TotalInconsistencies)
		}
		fmt.Fprintf(out, "%s  %s  ids=%d events=%d  %s\n",
			run.RunID, run.CreatedAt.Format(time.RFC3339), run.TotalIDs, run.TotalEvents, marker)
	}
	return nil
}

func showRun(cmd *cobra.Command, store *storage.Store, runID string, outputJSON bool) error {
	recs, err := store.GetRunInconsistencies(context.Background(), runID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outputJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(recs)
	}

	if len(recs) == 0 {
		fmt.Fprintf(out, "No inconsistencies recorded for run %s.\n", runID)
		return nil
	}
	for i, rec := range recs {
		fmt.Fprintf(out, "[%d] ID=%s TYPE=%s\n", i+1, rec.CorrelationID, rec.Kind)
		fmt.Fprintf(out, "    %s\n", rec.Message)
		fmt.Fprintf(out, "    at %s:%d state=%s\n", rec.SourceFile, rec.LineNo, rec.State)
	}
	return nil
}
