// Package jobs holds the analysis job record, its status state machine,
// and the store implementations the orchestrator writes through.
package jobs

import (
	"time"

	"github.com/google/uuid"
	"github.com/gomantics/repolens/domains/ingest"
	"github.com/gomantics/repolens/domains/insights"
	"github.com/gomantics/repolens/libs/githost"
)

// Status represents the lifecycle state of an analysis job.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// Terminal reports whether the status is final. Terminal states never
// revert.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job is the unit of analysis work and its eventual result. Transitions
// are strictly pending -> processing -> completed|failed, driven by a
// single writer (the orchestrator handling the job).
type Job struct {
	ID       string
	Ref      githost.Ref
	Status   Status
	Error    string
	Insights []insights.Insight

	// Source carries the ingestion artifact into the analysis phase.
	Source *ingest.Repository

	Created   int64
	Started   int64
	Completed int64
}

// New creates a pending job for an ingested repository.
func New(source *ingest.Repository) *Job {
	return &Job{
		ID:      uuid.NewString(),
		Ref:     source.Ref,
		Status:  StatusPending,
		Source:  source,
		Created: time.Now().Unix(),
	}
}

// Update carries partial field changes for Store.Update. Nil pointers
// leave the field untouched.
type Update struct {
	Status    *Status
	Error     *string
	Insights  []insights.Insight
	Started   *int64
	Completed *int64
}
