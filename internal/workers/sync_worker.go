package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/alimgiray/ghmirror/internal/models"
	"github.com/alimgiray/ghmirror/internal/repositories"
	"github.com/alimgiray/ghmirror/internal/services"
	"github.com/alimgiray/ghmirror/pkg/logger"
)

// SyncWorker drains the job queue, running queued mirror syncs. A single
// worker handles every sync job type; the job's type picks the entry point.
type SyncWorker struct {
	*BaseWorker
	jobRepo     *repositories.JobRepository
	syncService *services.SyncService
}

func NewSyncWorker(workerID string, jobRepo *repositories.JobRepository, syncService *services.SyncService) *SyncWorker {
	return &SyncWorker{
		BaseWorker:  NewBaseWorker(workerID),
		jobRepo:     jobRepo,
		syncService: syncService,
	}
}

// Start begins the sync worker's poll loop
func (w *SyncWorker) Start(ctx context.Context) error {
	w.Running = true
	logger.Infof("Sync worker %s started", w.WorkerID)

	for {
		select {
		case <-ctx.Done():
			logger.Infof("Sync worker %s stopping due to context cancellation", w.WorkerID)
			return ctx.Err()
		case <-w.StopChan:
			logger.Infof("Sync worker %s stopping", w.WorkerID)
			return nil
		default:
			// Try to claim a pending sync job
			job, err := w.jobRepo.GetNextPendingJob(w.WorkerID)
			if err != nil {
				logger.WithError(err).Errorf("Sync worker %s error getting job", w.WorkerID)
				time.Sleep(5 * time.Second)
				continue
			}

			if job == nil {
				// No jobs available, sleep and try again
				time.Sleep(10 * time.Second)
				continue
			}

			w.processJob(ctx, job)
		}
	}
}

// processJob runs one claimed job to completion and records its outcome
func (w *SyncWorker) processJob(ctx context.Context, job *models.Job) {
	logger.Infof("Sync worker %s processing job %s (%s)", w.WorkerID, job.ID, job.JobType)

	err := w.runJob(ctx, job)
	if err != nil {
		job.MarkFailed()
		job.SetError(err.Error())
		logger.WithError(err).Errorf("Sync worker %s job %s failed", w.WorkerID, job.ID)
	} else {
		job.MarkCompleted()
		logger.Infof("Sync worker %s job %s completed", w.WorkerID, job.ID)
	}

	if updateErr := w.jobRepo.Update(job); updateErr != nil {
		logger.WithError(updateErr).Errorf("Sync worker %s error updating job %s", w.WorkerID, job.ID)
	}
}

func (w *SyncWorker) runJob(ctx context.Context, job *models.Job) error {
	switch job.JobType {
	case models.JobTypeFullSync:
		_, err := w.syncService.RunFullSync(ctx, job.UserID)
		return err
	case models.JobTypeOrganizationSync:
		if job.Target == nil {
			return fmt.Errorf("organization sync job %s has no target", job.ID)
		}
		_, err := w.syncService.SyncOrganization(ctx, job.UserID, *job.Target)
		return err
	case models.JobTypeRepositorySync:
		if job.Target == nil {
			return fmt.Errorf("repository sync job %s has no target", job.ID)
		}
		return w.syncService.SyncRepository(ctx, job.UserID, *job.Target)
	default:
		return fmt.Errorf("unknown job type: %s", job.JobType)
	}
}
