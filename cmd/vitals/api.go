package main

import (
	"github.com/spf13/cobra"

	"github.com/pmcorreia/vitals/internal/server/endpoints"
)

var serverURL string

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Commands that call the running server",
	Long: `API commands call the running vitals server via HTTP.

These commands require a running server (vitals serve).
Use --server to specify a custom server URL.

Examples:
  vitals api health                  # Check server health
  vitals api reports upload lab.pdf  # Upload a lab report PDF
  vitals api sync --type sleep       # Trigger a WHOOP sync
  vitals api ask "How did I sleep?"  # Ask Eve a question`,
}

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Lab report commands",
}

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Background job commands",
}

var whoopCmd = &cobra.Command{
	Use:   "whoop",
	Short: "WHOOP data commands",
}

// getServerURL returns the server URL at runtime (after flag parsing).
func getServerURL() string {
	return serverURL
}

func init() {
	// Add --server flag to api command (persistent so all subcommands inherit it)
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8590", "Server URL",
	)

	// Health endpoints at top level of api
	apiCmd.AddCommand((&endpoints.HealthEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.StatusEndpoint{}).Command(getServerURL))

	// Sync and Eve at top level
	apiCmd.AddCommand((&endpoints.SyncEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.AskEndpoint{}).Command(getServerURL))

	// Reports as subcommand group
	reportsCmd.AddCommand((&endpoints.UploadReportEndpoint{}).Command(getServerURL))
	reportsCmd.AddCommand((&endpoints.ListReportsEndpoint{}).Command(getServerURL))
	reportsCmd.AddCommand((&endpoints.GetReportEndpoint{}).Command(getServerURL))

	// Jobs as subcommand group
	jobsCmd.AddCommand((&endpoints.ListJobsEndpoint{}).Command(getServerURL))
	jobsCmd.AddCommand((&endpoints.GetJobEndpoint{}).Command(getServerURL))

	// WHOOP data as subcommand group
	whoopCmd.AddCommand((&endpoints.WhoopDataEndpoint{}).Command(getServerURL))

	apiCmd.AddCommand(reportsCmd)
	apiCmd.AddCommand(jobsCmd)
	apiCmd.AddCommand(whoopCmd)
	rootCmd.AddCommand(apiCmd)
}
