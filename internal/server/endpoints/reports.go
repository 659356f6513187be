package endpoints

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pmcorreia/vitals/internal/api"
	"github.com/pmcorreia/vitals/internal/report"
	"github.com/pmcorreia/vitals/internal/svcctx"
)

const maxUploadBytes = 64 << 20 // 64 MiB

// UploadResponse is returned by the report upload endpoint; extraction runs
// asynchronously and is tracked through the returned job.
type UploadResponse struct {
	JobID string `json:"job_id"`
}

// UploadReportEndpoint handles POST /reports: accept a PDF and start an
// extraction job.
type UploadReportEndpoint struct{}

func (e *UploadReportEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/reports", e.handler
}

func (e *UploadReportEndpoint) RequiresInit() bool { return true }

func (e *UploadReportEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field: "+err.Error())
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		writeError(w, http.StatusBadRequest, "only PDF files are accepted")
		return
	}

	tmp, err := os.CreateTemp("", "vitals-upload-*.pdf")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to stage upload")
		return
	}
	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		writeError(w, http.StatusInternalServerError, "failed to stage upload")
		return
	}
	tmp.Close()

	pipeline := svcctx.PipelineFrom(r.Context())
	reports := svcctx.ReportsFrom(r.Context())
	manager := svcctx.JobManagerFrom(r.Context())

	tmpPath := tmp.Name()
	originalName := filepath.Base(header.Filename)
	jobID, err := manager.Submit("report_extract", func(ctx context.Context) (map[string]any, error) {
		defer os.Remove(tmpPath)

		consolidated, pages, err := pipeline.Run(ctx, tmpPath)
		if err != nil {
			return nil, err
		}

		id, err := reports.Save(consolidated, tmpPath, originalName)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"report_id": id,
			"pages":     len(pages),
			"bacteria":  len(consolidated.BacterialTaxonomy),
		}, nil
	})
	if err != nil {
		os.Remove(tmpPath)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, UploadResponse{JobID: jobID})
}

func (e *UploadReportEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file.pdf>",
		Short: "Upload a lab report PDF for extraction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp UploadResponse
			if err := client.PostFile(cmd.Context(), "/reports", "file", args[0], &resp); err != nil {
				return err
			}
			fmt.Printf("Extraction started, job: %s\n", resp.JobID)
			return nil
		},
	}
}

// ListReportsEndpoint handles GET /reports.
type ListReportsEndpoint struct{}

func (e *ListReportsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/reports", e.handler
}

func (e *ListReportsEndpoint) RequiresInit() bool { return true }

func (e *ListReportsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	summaries, err := svcctx.ReportsFrom(r.Context()).List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (e *ListReportsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored lab reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp []report.Summary
			if err := client.Get(cmd.Context(), "/reports", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// GetReportEndpoint handles GET /reports/{id}.
type GetReportEndpoint struct{}

func (e *GetReportEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/reports/{id}", e.handler
}

func (e *GetReportEndpoint) RequiresInit() bool { return true }

func (e *GetReportEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	stored, err := svcctx.ReportsFrom(r.Context()).Get(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

func (e *GetReportEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <report-id>",
		Short: "Get one stored lab report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp report.StoredReport
			if err := client.Get(cmd.Context(), "/reports/"+args[0], &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
