package repository

import (
	"context"
	"time"

	"courtdraft-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AssemblyJobRepository handles database operations for assembly jobs
type AssemblyJobRepository struct {
	db *pgxpool.Pool
}

// NewAssemblyJobRepository creates a new assembly job repository
func NewAssemblyJobRepository(db *pgxpool.Pool) *AssemblyJobRepository {
	return &AssemblyJobRepository{db: db}
}

// Create creates a new assembly job
func (r *AssemblyJobRepository) Create(ctx context.Context, job *models.AssemblyJob) error {
	query := `
		INSERT INTO assembly_jobs (id, filing_id, status, steps)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	return r.db.QueryRow(
		ctx, query,
		job.ID,
		job.FilingID,
		job.Status,
		job.Steps,
	).Scan(&job.CreatedAt, &job.UpdatedAt)
}

// GetByID retrieves an assembly job by ID
func (r *AssemblyJobRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AssemblyJob, error) {
	job := &models.AssemblyJob{}
	query := `
		SELECT id, filing_id, status, current_step, steps, error_message,
		       created_at, updated_at, completed_at
		FROM assembly_jobs
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&job.ID,
		&job.FilingID,
		&job.Status,
		&job.CurrentStep,
		&job.Steps,
		&job.ErrorMessage,
		&job.CreatedAt,
		&job.UpdatedAt,
		&job.CompletedAt,
	)

	if err != nil {
		return nil, err
	}

	return job, nil
}

// GetLatestByFilingID retrieves the most recent assembly job for a filing
func (r *AssemblyJobRepository) GetLatestByFilingID(ctx context.Context, filingID uuid.UUID) (*models.AssemblyJob, error) {
	job := &models.AssemblyJob{}
	query := `
		SELECT id, filing_id, status, current_step, steps, error_message,
		       created_at, updated_at, completed_at
		FROM assembly_jobs
		WHERE filing_id = $1
		ORDER BY created_at DESC
		LIMIT 1`

	err := r.db.QueryRow(ctx, query, filingID).Scan(
		&job.ID,
		&job.FilingID,
		&job.Status,
		&job.CurrentStep,
		&job.Steps,
		&job.ErrorMessage,
		&job.CreatedAt,
		&job.UpdatedAt,
		&job.CompletedAt,
	)

	if err != nil {
		return nil, err
	}

	return job, nil
}

// UpdateStatus updates a job's status
func (r *AssemblyJobRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.AssemblyJobStatus) error {
	query := `
		UPDATE assembly_jobs
		SET status = $2, updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, status)
	return err
}

// UpdateProgress updates the current step and the step list
func (r *AssemblyJobRepository) UpdateProgress(ctx context.Context, id uuid.UUID, currentStep string, steps models.AssemblySteps) error {
	query := `
		UPDATE assembly_jobs
		SET current_step = $2, steps = $3, updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, currentStep, steps)
	return err
}

// Complete marks a job as completed
func (r *AssemblyJobRepository) Complete(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	query := `
		UPDATE assembly_jobs
		SET status = $2, completed_at = $3, updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, models.JobStatusCompleted, now)
	return err
}

// Fail marks a job as failed with an error message
func (r *AssemblyJobRepository) Fail(ctx context.Context, id uuid.UUID, errorMessage string) error {
	query := `
		UPDATE assembly_jobs
		SET status = $2, error_message = $3, updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, models.JobStatusFailed, errorMessage)
	return err
}
