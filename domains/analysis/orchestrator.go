package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gomantics/repolens/config"
	"github.com/gomantics/repolens/domains/insights"
	"github.com/gomantics/repolens/domains/jobs"
	"github.com/gomantics/repolens/libs/chunking"
	"go.uber.org/zap"
)

// Orchestrator runs the analysis pipeline for one job at a time: chunk
// planning, per-chunk model calls with rate-limit retry, consolidation,
// and the terminal store write. It is the single writer for the jobs it
// handles.
type Orchestrator struct {
	l     *zap.Logger
	store jobs.Store
	model ModelClient

	chunkBudget  int
	maxRetries   int
	backoff      time.Duration
	chunkTimeout time.Duration
}

// NewOrchestrator creates an orchestrator with limits taken from config.
func NewOrchestrator(l *zap.Logger, store jobs.Store, model ModelClient) *Orchestrator {
	return &Orchestrator{
		l:            l,
		store:        store,
		model:        model,
		chunkBudget:  config.Analysis.ChunkSizeBudget(),
		maxRetries:   config.Analysis.RateLimitMaxRetries(),
		backoff:      time.Duration(config.Analysis.RateLimitBackoffMs()) * time.Millisecond,
		chunkTimeout: time.Duration(config.Analysis.ChunkTimeoutMs()) * time.Millisecond,
	}
}

// Analyze processes a job to a terminal state. The returned error is for
// logging only; every failure is already captured in the job record.
func (o *Orchestrator) Analyze(ctx context.Context, job *jobs.Job) error {
	l := o.l.With(zap.String("job_id", job.ID), zap.String("repo", job.Ref.Owner+"/"+job.Ref.Name))

	if job.Source == nil || job.Source.Content == "" {
		return o.fail(ctx, l, job.ID, "ingestion artifact is missing or empty")
	}

	if job.Status == jobs.StatusPending {
		status := jobs.StatusProcessing
		now := time.Now().Unix()
		if err := o.store.Update(ctx, job.ID, jobs.Update{Status: &status, Started: &now}); err != nil {
			return o.fail(ctx, l, job.ID, "failed to start job: "+err.Error())
		}
	}

	chunks := chunking.Plan(job.Source.Content, o.chunkBudget)
	l.Info("analysis started",
		zap.Int("chunks", len(chunks)),
		zap.Int("content_bytes", len(job.Source.Content)),
	)

	var collected []insights.Insight
	for _, chunk := range chunks {
		found, err := o.analyzeChunk(ctx, l, chunk, len(chunks))
		if errors.Is(err, ErrAuth) {
			return o.fail(ctx, l, job.ID, "model authentication failed: "+err.Error())
		}
		if err != nil {
			// This chunk is lost; the others still count.
			l.Warn("chunk analysis failed", zap.Int("chunk", chunk.Index), zap.Error(err))
			continue
		}
		collected = append(collected, found...)
	}

	if len(collected) == 0 {
		return o.fail(ctx, l, job.ID, "no insights could be produced from any chunk")
	}

	merged := insights.Consolidate(collected)

	if err := jobs.Complete(ctx, o.store, job.ID, merged); err != nil {
		return o.fail(ctx, l, job.ID, "failed to store results: "+err.Error())
	}

	l.Info("analysis completed",
		zap.Int("raw_insights", len(collected)),
		zap.Int("insights", len(merged)),
	)
	return nil
}

// analyzeChunk calls the model for one chunk, retrying on rate limiting
// with exponential backoff up to the retry budget. A response that defeats
// parsing degrades to a single diagnostic insight.
func (o *Orchestrator) analyzeChunk(ctx context.Context, l *zap.Logger, chunk chunking.Chunk, total int) ([]insights.Insight, error) {
	req := ChunkRequest{Index: chunk.Index, Total: total, Content: chunk.Content}

	var lastErr error
	for attempt := 0; attempt <= o.maxRetries; attempt++ {
		if attempt > 0 {
			delay := o.backoff * time.Duration(1<<uint(attempt-1))
			l.Info("rate limited, backing off",
				zap.Int("chunk", chunk.Index),
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
			)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		raw, err := o.callModel(ctx, req)
		if err == nil {
			found, perr := insights.ParseResponse(raw)
			if perr != nil {
				l.Warn("model response unparsable, recording diagnostic",
					zap.Int("chunk", chunk.Index),
					zap.Error(perr),
				)
				return []insights.Insight{insights.Diagnostic(chunk.Index, perr)}, nil
			}
			return found, nil
		}

		lastErr = err
		if !errors.Is(err, ErrRateLimited) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("rate limit retries exhausted: %w", lastErr)
}

func (o *Orchestrator) callModel(ctx context.Context, req ChunkRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.chunkTimeout)
	defer cancel()
	return o.model.AnalyzeChunk(ctx, req)
}

func (o *Orchestrator) fail(ctx context.Context, l *zap.Logger, jobID, msg string) error {
	if err := jobs.SetError(ctx, o.store, jobID, msg); err != nil {
		l.Error("failed to record job failure", zap.String("cause", msg), zap.Error(err))
	}
	l.Error("analysis failed", zap.String("cause", msg))
	return errors.New(msg)
}
