package endpoints

import (
	"github.com/pmcorreia/vitals/internal/api"
)

// All returns all endpoint instances.
func All() []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&StatusEndpoint{},

		// Report endpoints
		&UploadReportEndpoint{},
		&ListReportsEndpoint{},
		&GetReportEndpoint{},

		// Job endpoints
		&ListJobsEndpoint{},
		&GetJobEndpoint{},

		// Sync endpoints
		&SyncEndpoint{},
		&WhoopDataEndpoint{},

		// Assistant endpoint
		&AskEndpoint{},
	}
}

// ReportCommands groups report endpoints under the "reports" subcommand.
func ReportCommands() []api.Endpoint {
	return []api.Endpoint{
		&UploadReportEndpoint{},
		&ListReportsEndpoint{},
		&GetReportEndpoint{},
	}
}

// JobCommands groups job endpoints under the "jobs" subcommand.
func JobCommands() []api.Endpoint {
	return []api.Endpoint{
		&ListJobsEndpoint{},
		&GetJobEndpoint{},
	}
}

// WhoopCommands groups WHOOP endpoints under the "whoop" subcommand.
func WhoopCommands() []api.Endpoint {
	return []api.Endpoint{
		&WhoopDataEndpoint{},
	}
}
