package main

import (
	"github.com/spf13/cobra"

	"github.com/pmcorreia/vitals/internal/api"
	"github.com/pmcorreia/vitals/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "vitals",
	Short: "Personal health data hub for lab reports and wearable data",
	Long: `Vitals extracts structured data from gut microbiome lab report PDFs and
keeps WHOOP wearable data synced to local JSON files.

It provides:
  - PDF lab report extraction (taxonomy tables, biomarkers, functional tests)
  - Incremental WHOOP sync (sleep, strain, recovery)
  - An HTTP API plus matching CLI commands
  - Eve, an assistant that answers questions over the stored data`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.vitals/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "vitals home directory (default: ~/.vitals)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}
