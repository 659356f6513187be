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

func testFetcher(t *testing.T, handler http.HandlerFunc) (*Fetcher, *FileStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient(ClientConfig{
		AccessToken:       "test-token",
		BaseURL:           srv.URL,
		MaxRetries:        1,
		RetryDelay:        time.Millisecond,
		RequestsPerMinute: 100000,
	})
	store := testFileStore(t)
	return NewFetcher(client, store, nil), store
}

func TestFetchIncrementalStartsAfterLatestRecord(t *testing.T) {
	var gotStart string
	fetcher, store := testFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		gotStart = r.URL.Query().Get("start")
		json.NewEncoder(w).Encode(pageResponse{})
	})

	seed := []Record{{"id": "a", "created_at": "2024-06-01T00:00:00Z"}}
	if err := store.Save(TypeSleep, seed); err != nil {
		t.Fatal(err)
	}

	if _, err := fetcher.FetchIncremental(context.Background(), TypeSleep, false); err != nil {
		t.Fatalf("FetchIncremental: %v", err)
	}

	// One second past the newest stored record, so it isn't refetched.
	if gotStart != "2024-06-01T00:00:01Z" {
		t.Fatalf("start = %q, want 2024-06-01T00:00:01Z", gotStart)
	}
}

func TestFetchIncrementalForceRefresh(t *testing.T) {
	var gotStart string
	fetcher, store := testFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		gotStart = r.URL.Query().Get("start")
		json.NewEncoder(w).Encode(pageResponse{
			Records: []Record{{"id": "fresh", "created_at": "2024-07-01T00:00:00Z"}},
		})
	})

	stale := []Record{{"id": "stale", "created_at": "2024-01-01T00:00:00Z"}}
	if err := store.Save(TypeSleep, stale); err != nil {
		t.Fatal(err)
	}

	res, err := fetcher.FetchIncremental(context.Background(), TypeSleep, true)
	if err != nil {
		t.Fatalf("FetchIncremental: %v", err)
	}

	if gotStart != "" {
		t.Errorf("force refresh sent start=%q, want full history", gotStart)
	}
	if res.Total != 1 {
		t.Errorf("total = %d, want stored data replaced", res.Total)
	}
	tf := store.Load(TypeSleep)
	if len(tf.Records) != 1 || tf.Records[0]["id"] != "fresh" {
		t.Errorf("stale records survived force refresh: %v", tf.Records)
	}
}

func TestFetchIncrementalPersistsPartialRun(t *testing.T) {
	calls := 0
	fetcher, store := testFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			json.NewEncoder(w).Encode(pageResponse{
				Records:   []Record{{"id": "p1", "created_at": "2024-06-01T00:00:00Z"}},
				NextToken: "more",
			})
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	})

	res, err := fetcher.FetchIncremental(context.Background(), TypeSleep, false)
	if err == nil {
		t.Fatal("expected error from failed second page")
	}
	if res.Fetched != 1 {
		t.Fatalf("fetched = %d, want the first page's record", res.Fetched)
	}

	tf := store.Load(TypeSleep)
	if len(tf.Records) != 1 {
		t.Fatalf("partial run not persisted: %d records on disk", len(tf.Records))
	}
}

func TestFetchIncrementalUpdatesMetadata(t *testing.T) {
	fetcher, store := testFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(pageResponse{
			Records: []Record{{"id": "a", "created_at": "2024-06-01T00:00:00Z"}},
		})
	})

	if _, err := fetcher.FetchIncremental(context.Background(), TypeStrain, false); err != nil {
		t.Fatal(err)
	}

	meta := store.LoadMetadata()
	if meta.LastFetch["strain"] == "" {
		t.Error("lastFetch not recorded")
	}
	if meta.DateRanges["strain"].Latest != "2024-06-01T00:00:00Z" {
		t.Errorf("dateRanges not updated: %+v", meta.DateRanges)
	}
}

func TestSyncAllIsolatesFailures(t *testing.T) {
	fetcher, store := testFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "sleep") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(pageResponse{
			Records: []Record{{"id": "ok", "created_at": "2024-06-01T00:00:00Z"}},
		})
	})

	results, err := fetcher.SyncAll(context.Background(), false)
	if err == nil {
		t.Fatal("expected joined error from failed sleep sync")
	}
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized in chain", err)
	}
	if len(results) != len(AllDataTypes) {
		t.Fatalf("expected %d results, got %d", len(AllDataTypes), len(results))
	}

	// The failing collection must not block the others.
	if tf := store.Load(TypeStrain); len(tf.Records) != 1 {
		t.Errorf("strain not synced after sleep failure: %d records", len(tf.Records))
	}
	if tf := store.Load(TypeRecovery); len(tf.Records) != 1 {
		t.Errorf("recovery not synced after sleep failure: %d records", len(tf.Records))
	}
}
