package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Func is the work a job performs. The returned map becomes the job's result
// on success.
type Func func(ctx context.Context) (map[string]any, error)

// Manager submits jobs and tracks their lifecycle in a Store. Each job runs
// on its own goroutine with a context derived from the manager's root
// context, so shutting the manager down cancels in-flight work.
type Manager struct {
	store  Store
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewManager creates a Manager over the given store.
func NewManager(store Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{store: store, logger: logger, ctx: ctx, cancel: cancel}
}

// Submit records a queued job and starts it on a new goroutine, returning the
// job ID immediately.
func (m *Manager) Submit(jobType string, fn Func) (string, error) {
	rec := NewRecord(jobType)
	id, err := m.store.Create(rec)
	if err != nil {
		return "", fmt.Errorf("failed to create job record: %w", err)
	}

	m.wg.Add(1)
	go m.run(id, jobType, fn)
	return id, nil
}

func (m *Manager) run(id, jobType string, fn Func) {
	defer m.wg.Done()

	rec, err := m.store.Get(id)
	if err != nil {
		m.logger.Error("job record vanished before start", "job", id, "error", err)
		return
	}

	now := time.Now().UTC()
	rec.Status = StatusRunning
	rec.StartedAt = &now
	if err := m.store.Update(rec); err != nil {
		m.logger.Error("failed to mark job running", "job", id, "error", err)
	}

	result, runErr := fn(m.ctx)

	done := time.Now().UTC()
	rec.CompletedAt = &done
	if runErr != nil {
		rec.Status = StatusFailed
		rec.Error = runErr.Error()
		m.logger.Error("job failed", "job", id, "type", jobType, "error", runErr)
	} else {
		rec.Status = StatusCompleted
		rec.Result = result
		m.logger.Info("job completed", "job", id, "type", jobType,
			"duration", done.Sub(*rec.StartedAt))
	}

	if err := m.store.Update(rec); err != nil {
		m.logger.Error("failed to record job completion", "job", id, "error", err)
	}
}

// Get returns one job record.
func (m *Manager) Get(id string) (*Record, error) {
	return m.store.Get(id)
}

// List returns all job records, newest first.
func (m *Manager) List() ([]*Record, error) {
	return m.store.List()
}

// Shutdown cancels running jobs and waits for them to finish, up to the
// context deadline.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.cancel()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("jobs still running at shutdown: %w", ctx.Err())
	}
}
