package service

import (
	"context"
	"time"

	"iga/internal/logger"
	"iga/internal/port"
)

// RetentionConfig holds settings for the retention worker.
type RetentionConfig struct {
	SweepInterval time.Duration
	BatchSize     int
}

// RetentionWorker periodically deletes expired submissions and their stored
// uploads.
type RetentionWorker struct {
	subRepo port.SubmissionRepository
	storage port.ObjectStorage
	cfg     RetentionConfig
	log     *logger.Logger
	now     func() time.Time
}

// NewRetentionWorker creates a new RetentionWorker.
func NewRetentionWorker(subRepo port.SubmissionRepository, storage port.ObjectStorage, cfg RetentionConfig, log *logger.Logger) *RetentionWorker {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	return &RetentionWorker{
		subRepo: subRepo,
		storage: storage,
		cfg:     cfg,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Start sweeps on every tick until ctx is canceled.
func (w *RetentionWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.SweepInterval)
	defer ticker.Stop()

	w.log.Info("retentionWorker.Start: started",
		"interval", w.cfg.SweepInterval.String(), "batch_size", w.cfg.BatchSize)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("retentionWorker.Start: shutting down")
			return
		case <-ticker.C:
			if n := w.Sweep(ctx); n > 0 {
				w.log.Info("retentionWorker.Start: sweep complete", "deleted", n)
			}
		}
	}
}

// Sweep deletes expired submissions in batches and returns how many were
// removed. A submission whose upload cannot be deleted is kept for the next
// sweep.
func (w *RetentionWorker) Sweep(ctx context.Context) int {
	deleted := 0
	for {
		subs, err := w.subRepo.ListExpired(ctx, w.now(), w.cfg.BatchSize)
		if err != nil {
			if ctx.Err() == nil {
				w.log.Error("retentionWorker.Sweep: listing expired submissions", "error", err)
			}
			return deleted
		}

		progress := 0
		for i := range subs {
			sub := &subs[i]
			if sub.S3Key != "" {
				if err := w.storage.Delete(ctx, sub.S3Bucket, sub.S3Key); err != nil {
					w.log.Warn("retentionWorker.Sweep: deleting upload", "submission_id", sub.ID, "error", err)
					continue
				}
			}
			if err := w.subRepo.Delete(ctx, sub.ID); err != nil {
				w.log.Warn("retentionWorker.Sweep: deleting submission", "submission_id", sub.ID, "error", err)
				continue
			}
			progress++
		}
		deleted += progress

		// A short batch means nothing else has expired; a batch with no
		// progress would only return the same rows again.
		if len(subs) < w.cfg.BatchSize || progress == 0 {
			return deleted
		}
	}
}
