package whoop

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(ClientConfig{
		AccessToken:       "test-token",
		BaseURL:           srv.URL,
		MaxRetries:        3,
		RetryDelay:        time.Millisecond,
		RequestsPerMinute: 100000,
	})
}

func TestFetchPagePagination(t *testing.T) {
	var tokens []string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("authorization header = %q", got)
		}
		token := r.URL.Query().Get("nextToken")
		tokens = append(tokens, token)

		resp := pageResponse{Records: []Record{{"id": "r" + token}}}
		if token == "" {
			resp.NextToken = "page2"
		}
		json.NewEncoder(w).Encode(resp)
	})

	records, next, err := client.FetchPage(context.Background(), TypeSleep, time.Time{}, time.Time{}, "")
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	if next != "page2" {
		t.Fatalf("next token = %q, want page2", next)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	_, next, err = client.FetchPage(context.Background(), TypeSleep, time.Time{}, time.Time{}, next)
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if next != "" {
		t.Fatalf("final page returned token %q", next)
	}
	if tokens[1] != "page2" {
		t.Fatalf("server saw tokens %v", tokens)
	}
}

func TestFetchPageUnauthorizedNotRetried(t *testing.T) {
	calls := 0
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, _, err := client.FetchPage(context.Background(), TypeSleep, time.Time{}, time.Time{}, "")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if calls != 1 {
		t.Fatalf("401 retried %d times, want a single attempt", calls)
	}
}

func TestFetchPageRateLimitRetried(t *testing.T) {
	calls := 0
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(pageResponse{Records: []Record{{"id": "ok"}}})
	})

	records, _, err := client.FetchPage(context.Background(), TypeSleep, time.Time{}, time.Time{}, "")
	if err != nil {
		t.Fatalf("FetchPage after 429: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls (429 then success), got %d", calls)
	}
}

func TestFetchPageRetriesExhausted(t *testing.T) {
	calls := 0
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, _, err := client.FetchPage(context.Background(), TypeSleep, time.Time{}, time.Time{}, "")
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestFetchPageWindowParams(t *testing.T) {
	var query string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		json.NewEncoder(w).Encode(pageResponse{})
	})

	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	if _, _, err := client.FetchPage(context.Background(), TypeStrain, start, time.Time{}, ""); err != nil {
		t.Fatal(err)
	}

	if want := "start=2024-06-01T00%3A00%3A00Z"; !strings.Contains(query, want) {
		t.Errorf("query %q missing %q", query, want)
	}
	if want := "limit=25"; !strings.Contains(query, want) {
		t.Errorf("query %q missing %q", query, want)
	}
}
