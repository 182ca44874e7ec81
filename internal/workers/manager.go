package workers

import (
	"context"
	"fmt"
	"sync"

	"github.com/alimgiray/ghmirror/internal/repositories"
	"github.com/alimgiray/ghmirror/internal/services"
	"github.com/alimgiray/ghmirror/pkg/logger"
)

// WorkerManager manages the pool of sync workers
type WorkerManager struct {
	workers     []Worker
	jobRepo     *repositories.JobRepository
	syncService *services.SyncService
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
}

// NewWorkerManager creates a new worker manager
func NewWorkerManager(jobRepo *repositories.JobRepository, syncService *services.SyncService) *WorkerManager {
	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerManager{
		workers:     make([]Worker, 0),
		jobRepo:     jobRepo,
		syncService: syncService,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// StartAll starts the configured number of sync workers
func (wm *WorkerManager) StartAll(count int) error {
	if count < 1 {
		count = 1
	}

	for i := 0; i < count; i++ {
		worker := NewSyncWorker(fmt.Sprintf("sync-%d", i+1), wm.jobRepo, wm.syncService)
		wm.workers = append(wm.workers, worker)
		wm.startWorker(worker)
	}

	logger.Infof("Started %d sync workers", len(wm.workers))
	return nil
}

// StopAll gracefully stops all workers
func (wm *WorkerManager) StopAll() error {
	logger.Infof("Stopping all workers...")

	// Cancel the context to signal all workers to stop
	wm.cancel()

	for _, worker := range wm.workers {
		if err := worker.Stop(); err != nil {
			logger.WithError(err).Errorf("Error stopping worker %s", worker.GetWorkerID())
		}
	}

	// Wait for all workers to finish
	wm.wg.Wait()

	logger.Infof("All workers stopped")
	return nil
}

// startWorker starts a single worker in a goroutine
func (wm *WorkerManager) startWorker(worker Worker) {
	wm.wg.Add(1)
	go func() {
		defer wm.wg.Done()
		if err := worker.Start(wm.ctx); err != nil && err != context.Canceled {
			logger.WithError(err).Errorf("Worker %s stopped with error", worker.GetWorkerID())
		}
	}()
}
