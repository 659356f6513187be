package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pmcorreia/vitals/internal/api"
	"github.com/pmcorreia/vitals/internal/config"
	"github.com/pmcorreia/vitals/internal/home"
	"github.com/pmcorreia/vitals/internal/whoop"
)

var (
	syncType         string
	syncForceRefresh bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync WHOOP data to the local store",
	Long: `Fetch new WHOOP records and merge them into the local JSON store,
without a running server.

Requires WHOOP_ACCESS_TOKEN (or whoop.access_token in the config file).

Examples:
  vitals sync                        # Incremental sync of all data types
  vitals sync --type sleep           # Sync a single data type
  vitals sync --force-refresh        # Full historical re-pull`,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfg := cm.Get()

		token := config.ResolveEnvVars(cfg.Whoop.AccessToken)
		if token == "" {
			return fmt.Errorf("no WHOOP access token configured (set WHOOP_ACCESS_TOKEN)")
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))

		store := whoop.NewFileStore(h, logger)
		client := whoop.NewClient(whoop.ClientConfig{
			AccessToken:       token,
			BaseURL:           cfg.Whoop.BaseURL,
			RequestsPerMinute: cfg.Whoop.RequestsPerMinute,
			MaxRetries:        cfg.Whoop.MaxRetries,
			Logger:            logger,
		})
		fetcher := whoop.NewFetcher(client, store, logger)

		ctx := cmd.Context()
		var results []whoop.Result
		if syncType != "" {
			dt, err := whoop.ParseDataType(syncType)
			if err != nil {
				return err
			}
			res, err := fetcher.FetchIncremental(ctx, dt, syncForceRefresh)
			if err != nil {
				fmt.Fprintf(os.Stderr, "sync failed for %s: %v\n", dt, err)
			}
			results = append(results, res)
		} else {
			var syncErr error
			results, syncErr = fetcher.SyncAll(ctx, syncForceRefresh)
			if syncErr != nil {
				// Per-type failures are reported in the results; still print them.
				fmt.Fprintf(os.Stderr, "sync completed with errors: %v\n", syncErr)
			}
		}

		return api.Output(results)
	},
}

func init() {
	syncCmd.Flags().StringVar(&syncType, "type", "", "data type to sync: sleep, strain, or recovery (default: all)")
	syncCmd.Flags().BoolVar(&syncForceRefresh, "force-refresh", false, "ignore stored state and re-pull full history")
	rootCmd.AddCommand(syncCmd)
}
