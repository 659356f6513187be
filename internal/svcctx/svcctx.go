// Package svcctx provides service context for dependency injection via context.
// This package is separate from server to avoid import cycles with endpoints.
package svcctx

import (
	"context"
	"log/slog"

	"github.com/pmcorreia/vitals/internal/eve"
	"github.com/pmcorreia/vitals/internal/home"
	"github.com/pmcorreia/vitals/internal/jobs"
	"github.com/pmcorreia/vitals/internal/report"
	"github.com/pmcorreia/vitals/internal/whoop"
)

// Services holds all core services that flow through context.
// Components extract what they need via the individual extractors.
type Services struct {
	Home       *home.Dir
	JobManager *jobs.Manager
	Reports    *report.Store
	WhoopStore *whoop.FileStore
	Fetcher    *whoop.Fetcher
	Pipeline   *report.Pipeline
	Eve        *eve.Assistant
	Logger     *slog.Logger
}

type servicesKey struct{}

// WithServices returns a new context with services attached.
func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// ServicesFrom extracts the full Services struct from context.
// Returns nil if not present.
func ServicesFrom(ctx context.Context) *Services {
	s, _ := ctx.Value(servicesKey{}).(*Services)
	return s
}

// HomeFrom extracts the home directory from context.
func HomeFrom(ctx context.Context) *home.Dir {
	if s := ServicesFrom(ctx); s != nil {
		return s.Home
	}
	return nil
}

// JobManagerFrom extracts the job manager from context.
func JobManagerFrom(ctx context.Context) *jobs.Manager {
	if s := ServicesFrom(ctx); s != nil {
		return s.JobManager
	}
	return nil
}

// ReportsFrom extracts the report store from context.
func ReportsFrom(ctx context.Context) *report.Store {
	if s := ServicesFrom(ctx); s != nil {
		return s.Reports
	}
	return nil
}

// WhoopStoreFrom extracts the WHOOP file store from context.
func WhoopStoreFrom(ctx context.Context) *whoop.FileStore {
	if s := ServicesFrom(ctx); s != nil {
		return s.WhoopStore
	}
	return nil
}

// FetcherFrom extracts the WHOOP fetcher from context.
func FetcherFrom(ctx context.Context) *whoop.Fetcher {
	if s := ServicesFrom(ctx); s != nil {
		return s.Fetcher
	}
	return nil
}

// PipelineFrom extracts the extraction pipeline from context.
func PipelineFrom(ctx context.Context) *report.Pipeline {
	if s := ServicesFrom(ctx); s != nil {
		return s.Pipeline
	}
	return nil
}

// EveFrom extracts the assistant from context.
func EveFrom(ctx context.Context) *eve.Assistant {
	if s := ServicesFrom(ctx); s != nil {
		return s.Eve
	}
	return nil
}

// LoggerFrom extracts the logger from context.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if s := ServicesFrom(ctx); s != nil {
		return s.Logger
	}
	return nil
}
