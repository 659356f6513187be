package endpoints

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pmcorreia/vitals/internal/api"
	"github.com/pmcorreia/vitals/internal/svcctx"
)

// AskRequest is the body for POST /eve/ask.
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse carries the assistant's answer.
type AskResponse struct {
	Answer string `json:"answer"`
}

// AskEndpoint handles POST /eve/ask.
type AskEndpoint struct{}

func (e *AskEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/eve/ask", e.handler
}

func (e *AskEndpoint) RequiresInit() bool { return true }

func (e *AskEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	assistant := svcctx.EveFrom(r.Context())
	if assistant == nil {
		writeError(w, http.StatusServiceUnavailable, "assistant not configured (set eve.api_key)")
		return
	}

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}

	answer, err := assistant.Ask(r.Context(), req.Question)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, AskResponse{Answer: answer})
}

func (e *AskEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask Eve about your health data",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp AskResponse
			req := AskRequest{Question: strings.Join(args, " ")}
			if err := client.Post(cmd.Context(), "/eve/ask", req, &resp); err != nil {
				return err
			}
			cmd.Println(resp.Answer)
			return nil
		},
	}
}
