package endpoints

import (
	"context"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pmcorreia/vitals/internal/api"
	"github.com/pmcorreia/vitals/internal/svcctx"
	"github.com/pmcorreia/vitals/internal/whoop"
)

// SyncResponse is returned by the sync endpoint; the sync itself runs as a
// job.
type SyncResponse struct {
	JobID string `json:"job_id"`
}

// SyncEndpoint handles POST /sync. Optional query parameters: type restricts
// the sync to one collection, forceRefresh pulls the full history.
type SyncEndpoint struct{}

func (e *SyncEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/sync", e.handler
}

func (e *SyncEndpoint) RequiresInit() bool { return true }

func (e *SyncEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	fetcher := svcctx.FetcherFrom(r.Context())
	manager := svcctx.JobManagerFrom(r.Context())

	forceRefresh, _ := strconv.ParseBool(r.URL.Query().Get("forceRefresh"))

	var only whoop.DataType
	if typeParam := r.URL.Query().Get("type"); typeParam != "" {
		t, err := whoop.ParseDataType(typeParam)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		only = t
	}

	jobID, err := manager.Submit("whoop_sync", func(ctx context.Context) (map[string]any, error) {
		var results []whoop.Result
		var err error
		if only != "" {
			var res whoop.Result
			res, err = fetcher.FetchIncremental(ctx, only, forceRefresh)
			results = []whoop.Result{res}
		} else {
			results, err = fetcher.SyncAll(ctx, forceRefresh)
		}
		if err != nil {
			return nil, err
		}
		return map[string]any{"results": results}, nil
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, SyncResponse{JobID: jobID})
}

func (e *SyncEndpoint) Command(getServerURL func() string) *cobra.Command {
	var dataType string
	var forceRefresh bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync WHOOP data",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/sync"
			sep := "?"
			if dataType != "" {
				path += sep + "type=" + dataType
				sep = "&"
			}
			if forceRefresh {
				path += sep + "forceRefresh=true"
			}

			client := api.NewClient(getServerURL())
			var resp SyncResponse
			if err := client.Post(cmd.Context(), path, nil, &resp); err != nil {
				return err
			}
			cmd.Printf("Sync started, job: %s\n", resp.JobID)
			return nil
		},
	}
	cmd.Flags().StringVar(&dataType, "type", "", "sync only one collection (sleep, strain, recovery)")
	cmd.Flags().BoolVar(&forceRefresh, "force-refresh", false, "refetch the full history")
	return cmd
}

// WhoopDataEndpoint handles GET /whoop/{type}.
type WhoopDataEndpoint struct{}

func (e *WhoopDataEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/whoop/{type}", e.handler
}

func (e *WhoopDataEndpoint) RequiresInit() bool { return true }

func (e *WhoopDataEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	t, err := whoop.ParseDataType(r.PathValue("type"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tf := svcctx.WhoopStoreFrom(r.Context()).Load(t)
	writeJSON(w, http.StatusOK, tf)
}

func (e *WhoopDataEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:       "data <type>",
		Short:     "Show synced WHOOP data (sleep, strain, recovery)",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"sleep", "strain", "recovery"},
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp whoop.TypeFile
			if err := client.Get(cmd.Context(), "/whoop/"+args[0], &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
