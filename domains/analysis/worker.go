package analysis

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gomantics/repolens/config"
	"github.com/gomantics/repolens/domains/jobs"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const pollInterval = 2 * time.Second

// Worker handles background analysis jobs
type Worker struct {
	l            *zap.Logger
	store        jobs.Store
	orchestrator *Orchestrator
	wg           sync.WaitGroup
	cancel       context.CancelFunc
}

// StartWorkers starts the background worker fleet under the fx lifecycle.
func StartWorkers(lc fx.Lifecycle, l *zap.Logger, store jobs.Store, model ModelClient) {
	worker := &Worker{
		l:            l,
		store:        store,
		orchestrator: NewOrchestrator(l, store, model),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			workerCtx, cancel := context.WithCancel(context.Background())
			worker.cancel = cancel
			worker.start(workerCtx)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			worker.stop()
			return nil
		},
	})
}

// start begins the worker goroutines
func (w *Worker) start(ctx context.Context) {
	maxJobs := max(config.Analysis.MaxConcurrentJobs(), 1)

	w.l.Info("starting analysis workers", zap.Int64("workers", maxJobs))

	for i := range maxJobs {
		w.wg.Add(1)
		go w.run(ctx, i)
	}
}

// stop gracefully stops all workers
func (w *Worker) stop() {
	w.l.Info("stopping analysis workers")
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
	w.l.Info("all workers stopped")
}

// run is the main worker loop
func (w *Worker) run(ctx context.Context, workerID int64) {
	defer w.wg.Done()

	l := w.l.With(zap.Int64("worker_id", workerID))
	l.Info("worker started")

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.Info("worker stopping")
			return
		case <-ticker.C:
			w.processJob(ctx, l)
		}
	}
}

// processJob attempts to claim and process a pending job
func (w *Worker) processJob(ctx context.Context, l *zap.Logger) {
	job, err := w.store.ClaimPending(ctx)
	if errors.Is(err, jobs.ErrNotFound) {
		return // No pending jobs
	}
	if err != nil {
		l.Error("failed to claim pending job", zap.Error(err))
		return
	}

	l.Info("claimed pending job",
		zap.String("job_id", job.ID),
		zap.String("url", job.Ref.URL),
	)

	if err := w.orchestrator.Analyze(ctx, job); err != nil {
		l.Error("analysis failed",
			zap.String("job_id", job.ID),
			zap.Error(err),
		)
	}
}
