package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"crm-dashboard-service/internal/integration"
)

// Syncer is the part of the Facebook adapter the worker drives.
type Syncer interface {
	SyncInsights(ctx context.Context, integrationID string) (integration.InsightSync, error)
	SyncLeads(ctx context.Context, integrationID string) error
}

// SyncJob asks for a full sync of one integration.
type SyncJob struct {
	IntegrationID string
}

// SyncWorker runs syncs in the background so a fresh connection gets its
// first data without holding the OAuth redirect open.
type SyncWorker interface {
	// Enqueue schedules a job, reporting false when the queue is full.
	Enqueue(job SyncJob) bool

	// Shutdown drains pending jobs and stops the worker.
	Shutdown()
}

type syncWorker struct {
	syncer  Syncer
	jobs    chan SyncJob
	timeout time.Duration
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewSyncWorker starts the background sync loop.
func NewSyncWorker(syncer Syncer, queueSize int, log zerolog.Logger) SyncWorker {
	w := &syncWorker{
		syncer:  syncer,
		jobs:    make(chan SyncJob, queueSize),
		timeout: time.Minute,
		log:     log.With().Str("component", "sync_worker").Logger(),
	}
	w.wg.Add(1)
	go w.loop()
	return w
}

// Enqueue never blocks the caller: a first sync is best effort and the
// dashboard triggers another one on load anyway.
func (w *syncWorker) Enqueue(job SyncJob) bool {
	select {
	case w.jobs <- job:
		return true
	default:
		w.log.Warn().Str("integration_id", job.IntegrationID).Msg("sync queue full, job dropped")
		return false
	}
}

func (w *syncWorker) Shutdown() {
	close(w.jobs)
	w.wg.Wait()
	w.log.Info().Msg("sync worker stopped")
}

func (w *syncWorker) loop() {
	defer w.wg.Done()

	for job := range w.jobs {
		w.run(job)
	}
}

func (w *syncWorker) run(job SyncJob) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	if _, err := w.syncer.SyncInsights(ctx, job.IntegrationID); err != nil {
		w.log.Error().Err(err).Str("integration_id", job.IntegrationID).Msg("insight sync failed")
	}
	if err := w.syncer.SyncLeads(ctx, job.IntegrationID); err != nil {
		w.log.Error().Err(err).Str("integration_id", job.IntegrationID).Msg("lead sync failed")
	}
}
