package repositories

import (
	"database/sql"
	"sync"
	"time"

	"github.com/alimgiray/ghmirror/internal/models"
)

// JobRepository handles database operations for sync jobs
type JobRepository struct {
	db *sql.DB
	mu sync.Mutex
}

// NewJobRepository creates a new JobRepository
func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create creates a new job
func (r *JobRepository) Create(job *models.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	query := `
		INSERT INTO jobs (id, user_id, job_type, target, status, error_message, started_at, completed_at, worker_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		job.ID, job.UserID, job.JobType, job.Target, job.Status,
		job.ErrorMessage, job.StartedAt, job.CompletedAt, job.WorkerID,
		job.CreatedAt, job.UpdatedAt,
	)
	return err
}

// GetByID retrieves a job by ID
func (r *JobRepository) GetByID(id string) (*models.Job, error) {
	query := `
		SELECT id, user_id, job_type, target, status, error_message, started_at, completed_at, worker_id, created_at, updated_at
		FROM jobs WHERE id = ?
	`

	job := &models.Job{}
	err := r.db.QueryRow(query, id).Scan(
		&job.ID, &job.UserID, &job.JobType, &job.Target, &job.Status,
		&job.ErrorMessage, &job.StartedAt, &job.CompletedAt, &job.WorkerID,
		&job.CreatedAt, &job.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return job, nil
}

// GetNextPendingJob claims the oldest pending job (FIFO), marking it
// in-progress for the given worker. Returns nil when no job is pending.
func (r *JobRepository) GetNextPendingJob(workerID string) (*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `
		SELECT id, user_id, job_type, target, status, error_message, started_at, completed_at, worker_id, created_at, updated_at
		FROM jobs
		WHERE status = ?
		ORDER BY created_at ASC
		LIMIT 1
	`

	job := &models.Job{}
	err = tx.QueryRow(query, models.JobStatusPending).Scan(
		&job.ID, &job.UserID, &job.JobType, &job.Target, &job.Status,
		&job.ErrorMessage, &job.StartedAt, &job.CompletedAt, &job.WorkerID,
		&job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // No pending jobs found
		}
		return nil, err
	}

	job.MarkStarted()
	job.WorkerID = &workerID
	job.UpdatedAt = time.Now()

	updateQuery := `
		UPDATE jobs SET status = ?, started_at = ?, worker_id = ?, updated_at = ?
		WHERE id = ?
	`
	if _, err := tx.Exec(updateQuery, job.Status, job.StartedAt, job.WorkerID, job.UpdatedAt, job.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return job, nil
}

// Update updates a job
func (r *JobRepository) Update(job *models.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job.UpdatedAt = time.Now()

	query := `
		UPDATE jobs SET status = ?, error_message = ?, started_at = ?, completed_at = ?, worker_id = ?, updated_at = ?
		WHERE id = ?
	`

	_, err := r.db.Exec(query,
		job.Status, job.ErrorMessage, job.StartedAt, job.CompletedAt,
		job.WorkerID, job.UpdatedAt, job.ID,
	)
	return err
}

// GetByUserID retrieves all jobs for a tenant, newest first
func (r *JobRepository) GetByUserID(userID string) ([]*models.Job, error) {
	query := `
		SELECT id, user_id, job_type, target, status, error_message, started_at, completed_at, worker_id, created_at, updated_at
		FROM jobs
		WHERE user_id = ?
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*models.Job
	for rows.Next() {
		job := &models.Job{}
		err := rows.Scan(
			&job.ID, &job.UserID, &job.JobType, &job.Target, &job.Status,
			&job.ErrorMessage, &job.StartedAt, &job.CompletedAt, &job.WorkerID,
			&job.CreatedAt, &job.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	return jobs, rows.Err()
}
