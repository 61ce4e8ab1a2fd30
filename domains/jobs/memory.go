package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/gomantics/repolens/domains/insights"
)

// MemoryStore is a mutex-guarded in-process job store, the default
// backend. Jobs are held by value so readers never observe partial
// updates.
type MemoryStore struct {
	mu    sync.Mutex
	byID  map[string]*Job
	order []string // insertion order, for ClaimPending fairness
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID: make(map[string]*Job),
	}
}

// Create implements Store.
func (s *MemoryStore) Create(ctx context.Context, job *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := copyJob(job)
	s.byID[job.ID] = stored
	s.order = append(s.order, job.ID)
	return nil
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyJob(job), nil
}

// Update implements Store. Updates against terminal jobs return
// ErrTerminal.
func (s *MemoryStore) Update(ctx context.Context, id string, u Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	if job.Status.Terminal() {
		return ErrTerminal
	}

	applyUpdate(job, u)
	return nil
}

// ClaimPending implements Store.
func (s *MemoryStore) ClaimPending(ctx context.Context) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.order {
		job := s.byID[id]
		if job.Status != StatusPending {
			continue
		}
		job.Status = StatusProcessing
		job.Started = time.Now().Unix()
		return copyJob(job), nil
	}
	return nil, ErrNotFound
}

// Ping implements Store.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

func applyUpdate(job *Job, u Update) {
	if u.Status != nil {
		job.Status = *u.Status
	}
	if u.Error != nil {
		job.Error = *u.Error
	}
	if u.Insights != nil {
		job.Insights = append([]insights.Insight(nil), u.Insights...)
	}
	if u.Started != nil {
		job.Started = *u.Started
	}
	if u.Completed != nil {
		job.Completed = *u.Completed
	}
}

func copyJob(job *Job) *Job {
	dup := *job
	dup.Insights = append([]insights.Insight(nil), job.Insights...)
	return &dup
}
