package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/gomantics/repolens/domains/insights"
)

var (
	ErrNotFound = errors.New("job not found")

	// ErrTerminal is returned for updates against a completed or failed
	// job; terminal states are final.
	ErrTerminal = errors.New("job is in a terminal state")
)

// Store persists analysis jobs. Update is atomic per job id: a concurrent
// Get never observes a partially applied update, and a Get after a
// terminal update always returns the terminal state.
type Store interface {
	Create(ctx context.Context, job *Job) error
	Get(ctx context.Context, id string) (*Job, error)
	Update(ctx context.Context, id string, u Update) error

	// ClaimPending atomically claims the oldest pending job, moving it to
	// processing. Returns ErrNotFound when no pending job exists.
	ClaimPending(ctx context.Context) (*Job, error)

	// Ping reports backend reachability for health checks.
	Ping(ctx context.Context) error
}

// SetError marks the job failed with a human-readable message.
func SetError(ctx context.Context, store Store, id string, msg string) error {
	status := StatusFailed
	now := time.Now().Unix()
	return store.Update(ctx, id, Update{
		Status:    &status,
		Error:     &msg,
		Completed: &now,
	})
}

// Complete marks the job completed with its consolidated insights.
func Complete(ctx context.Context, store Store, id string, results []insights.Insight) error {
	status := StatusCompleted
	now := time.Now().Unix()
	return store.Update(ctx, id, Update{
		Status:    &status,
		Insights:  results,
		Completed: &now,
	})
}
