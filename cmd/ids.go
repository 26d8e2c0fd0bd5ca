package cmd

import (
	"fmt"
	"os"

	"logsequence/config"
	"logsequence/ingest"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newIDsCmd() *cobra.Command {
	v := config.NewViper()

	idsCmd := &cobra.Command{
		Use:   "ids",
		Short: "List the correlation IDs discovered in the logs (no audit)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIDs(cmd, v)
		},
	}

	registerIngestFlags(idsCmd, v)
	return idsCmd
}

func runIDs(cmd *cobra.Command, v *viper.Viper) error {
	logger := newLogger()
	defer logger.Sync() //nolint:errcheck

	cfg, err := config.Resolve(v)
	if err != nil {
		return err
	}
	if err := cfg.ValidateIngestion(); err != nil {
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

	out := cmd.OutOrStdout()
	infoColor.Fprintln(out, "IDs discovered:")
	for _, id := range group.IDs() {
		fmt.Fprintf(out, "  %s\n", id)
	}
	return nil
}
