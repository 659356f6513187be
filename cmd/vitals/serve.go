package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pmcorreia/vitals/internal/config"
	"github.com/pmcorreia/vitals/internal/home"
	"github.com/pmcorreia/vitals/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the vitals server",
	Long: `Start the vitals HTTP server.

The server exposes report extraction, WHOOP sync, and the Eve assistant over
HTTP, and runs scheduled syncs in the background when whoop.sync_interval is
set.

Examples:
  vitals serve                       # Start with config defaults
  vitals serve --config ./dev.yaml   # Start with a specific config file`,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		configPath := cfgFile
		if configPath == "" && h.ConfigExists() {
			configPath = h.ConfigPath()
		}
		cm, err := config.NewManager(configPath)
		if err != nil {
			return err
		}
		cm.WatchConfig()

		logger := newLogger(cm.Get().Logging)

		srv, err := server.New(server.Config{
			Home:          h,
			ConfigManager: cm,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		// Blocks until shutdown.
		return srv.Start(cmd.Context())
	},
}

// newLogger builds the slog logger from logging config.
func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
