package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pmcorreia/vitals/internal/config"
	"github.com/pmcorreia/vitals/internal/home"
	"github.com/pmcorreia/vitals/internal/jobs"
)

// newTestServer wires a full server against a stub WHOOP API.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	whoopStub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"records": []map[string]any{
				{"id": "r1", "created_at": "2024-06-01T00:00:00Z"},
			},
		})
	}))
	t.Cleanup(whoopStub.Close)

	dir := t.TempDir()
	h, err := home.New(dir)
	if err != nil {
		t.Fatal(err)
	}

	cfgPath := filepath.Join(dir, "config.yaml")
	cfgYAML := fmt.Sprintf(`server:
  host: 127.0.0.1
  port: 0
whoop:
  access_token: test-token
  base_url: %s
  requests_per_minute: 100000
  max_retries: 1
  sync_interval: 0
eve:
  api_key: ""
logging:
  level: info
`, whoopStub.URL)
	if err := os.WriteFile(cfgPath, []byte(cfgYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	cm, err := config.NewManager(cfgPath)
	if err != nil {
		t.Fatal(err)
	}

	s, err := New(Config{Home: h, ConfigManager: cm})
	if err != nil {
		t.Fatalf("server.New: %v", err)
	}
	return s
}

func doRequest(t *testing.T, s *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestServerEndpoints(t *testing.T) {
	s := newTestServer(t)

	t.Run("health", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/health")
		if rec.Code != http.StatusOK {
			t.Fatalf("health status = %d", rec.Code)
		}
	})

	t.Run("status", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/status")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body)
		}
	})

	t.Run("reports empty", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/reports")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var list []any
		if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
			t.Fatalf("reports response not a list: %v", err)
		}
		if len(list) != 0 {
			t.Fatalf("expected no reports, got %d", len(list))
		}
	})

	t.Run("report not found", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/reports/nope")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("whoop unknown type", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/whoop/steps")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("whoop empty collection", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/whoop/sleep")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("sync runs as job", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPost, "/sync?type=strain")
		if rec.Code != http.StatusAccepted {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body)
		}
		var resp struct {
			JobID string `json:"job_id"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}

		deadline := time.Now().Add(5 * time.Second)
		for {
			rec := doRequest(t, s, http.MethodGet, "/jobs/"+resp.JobID)
			if rec.Code != http.StatusOK {
				t.Fatalf("job status = %d", rec.Code)
			}
			var job jobs.Record
			if err := json.Unmarshal(rec.Body.Bytes(), &job); err != nil {
				t.Fatal(err)
			}
			if job.Status == jobs.StatusCompleted {
				break
			}
			if job.Status == jobs.StatusFailed {
				t.Fatalf("sync job failed: %s", job.Error)
			}
			if time.Now().After(deadline) {
				t.Fatalf("sync job stuck in %s", job.Status)
			}
			time.Sleep(20 * time.Millisecond)
		}

		rec = doRequest(t, s, http.MethodGet, "/whoop/strain")
		var tf struct {
			TotalCount int `json:"totalCount"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &tf); err != nil {
			t.Fatal(err)
		}
		if tf.TotalCount != 1 {
			t.Fatalf("synced totalCount = %d, want 1", tf.TotalCount)
		}
	})

	t.Run("eve not configured", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPost, "/eve/ask")
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("status = %d, want 503", rec.Code)
		}
	})

	t.Run("sync invalid type", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPost, "/sync?type=bogus")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}
