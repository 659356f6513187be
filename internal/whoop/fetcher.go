package whoop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

const (
	// maxPages caps a single sync run; a full year of records fits well
	// under this at 25 records per page.
	maxPages = 100

	// interPageDelay spaces paginated requests out on top of the token
	// bucket, staying clear of the API's burst detection.
	interPageDelay = 750 * time.Millisecond
)

// Result summarizes one collection's sync run.
type Result struct {
	Type    DataType `json:"type"`
	Fetched int      `json:"fetched"`
	Total   int      `json:"total"`
	Pages   int      `json:"pages"`
	Error   string   `json:"error,omitempty"`
}

// Fetcher drives incremental sync: it pages through the API from the newest
// stored record forward, merges into the on-disk collection, and updates the
// sync metadata.
type Fetcher struct {
	client *Client
	store  *FileStore
	logger *slog.Logger
}

// NewFetcher builds a fetcher over a client and store.
func NewFetcher(client *Client, store *FileStore, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{client: client, store: store, logger: logger}
}

// FetchIncremental syncs one collection. The window starts one second after
// the newest stored record so the boundary record is not refetched;
// forceRefresh ignores stored data and pulls the full history. Pages fetched
// before a mid-run failure are still merged and persisted, so a partial run
// never loses data.
func (f *Fetcher) FetchIncremental(ctx context.Context, t DataType, forceRefresh bool) (Result, error) {
	existing := f.store.Load(t)

	var start time.Time
	if !forceRefresh {
		if latest := LatestTime(existing.Records); !latest.IsZero() {
			start = latest.Add(time.Second)
		}
	}

	fresh, pages, fetchErr := f.fetchAll(ctx, t, start)

	base := existing.Records
	if forceRefresh {
		base = nil
	}
	merged := Merge(t, fresh, base)

	result := Result{Type: t, Fetched: len(fresh), Total: len(merged), Pages: pages}

	// A successful run always rewrites the file, even with zero new records;
	// a failed run persists only if it fetched something worth keeping.
	if fetchErr == nil || len(fresh) > 0 || forceRefresh {
		if err := f.store.Save(t, merged); err != nil {
			f.logger.Error("failed to persist synced data", "type", t, "error", err)
			if fetchErr == nil {
				fetchErr = err
			}
		} else {
			f.updateMetadata(t, merged)
		}
	}

	if fetchErr != nil {
		result.Error = fetchErr.Error()
		return result, fmt.Errorf("sync %s: %w", t, fetchErr)
	}

	f.logger.Info("sync complete", "type", t, "fetched", len(fresh), "total", len(merged), "pages", pages)
	return result, nil
}

// fetchAll pages through the API until the token runs out, the page cap is
// hit, or a request fails. Records fetched before a failure are returned
// alongside the error.
func (f *Fetcher) fetchAll(ctx context.Context, t DataType, start time.Time) ([]Record, int, error) {
	var all []Record
	var nextToken string

	for page := 0; page < maxPages; page++ {
		if page > 0 {
			select {
			case <-ctx.Done():
				return all, page, ctx.Err()
			case <-time.After(interPageDelay):
			}
		}

		records, token, err := f.client.FetchPage(ctx, t, start, time.Time{}, nextToken)
		if err != nil {
			return all, page, err
		}

		all = append(all, records...)
		if token == "" {
			return all, page + 1, nil
		}
		nextToken = token
	}

	f.logger.Warn("page cap reached, sync will resume next run", "type", t, "pages", maxPages)
	return all, maxPages, nil
}

func (f *Fetcher) updateMetadata(t DataType, merged []Record) {
	meta := f.store.LoadMetadata()
	meta.LastFetch[string(t)] = time.Now().UTC().Format(time.RFC3339)
	meta.DateRanges[string(t)] = dateRangeOf(merged)
	if err := f.store.SaveMetadata(meta); err != nil {
		f.logger.Warn("failed to update sync metadata", "type", t, "error", err)
	}
}

// SyncAll syncs every collection in order. Collections are isolated: one
// failing sync does not stop the rest, and all failures are joined into the
// returned error.
func (f *Fetcher) SyncAll(ctx context.Context, forceRefresh bool) ([]Result, error) {
	results := make([]Result, 0, len(AllDataTypes))
	var errs []error

	for _, t := range AllDataTypes {
		res, err := f.FetchIncremental(ctx, t, forceRefresh)
		results = append(results, res)
		if err != nil {
			errs = append(errs, err)
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				break
			}
		}
	}

	return results, errors.Join(errs...)
}
