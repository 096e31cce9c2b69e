package repository

import (
	"context"
	"time"

	"courtdraft-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FilingRepository handles database operations for filings
type FilingRepository struct {
	db *pgxpool.Pool
}

// NewFilingRepository creates a new filing repository
func NewFilingRepository(db *pgxpool.Pool) *FilingRepository {
	return &FilingRepository{db: db}
}

// Create creates a new filing
func (r *FilingRepository) Create(ctx context.Context, filing *models.Filing) error {
	query := `
		INSERT INTO filings (
			user_id, status, case_number, title, court_id, document_type, sections
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(
		ctx, query,
		filing.UserID,
		filing.Status,
		filing.CaseNumber,
		filing.Title,
		filing.CourtID,
		filing.DocumentType,
		filing.Sections,
	).Scan(&filing.ID, &filing.CreatedAt, &filing.UpdatedAt)

	return err
}

// GetByID retrieves a filing by ID
func (r *FilingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Filing, error) {
	filing := &models.Filing{}
	query := `
		SELECT id, user_id, status, case_number, title, court_id, document_type,
		       sections, assembled_content, report, created_at, updated_at, completed_at
		FROM filings
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&filing.ID,
		&filing.UserID,
		&filing.Status,
		&filing.CaseNumber,
		&filing.Title,
		&filing.CourtID,
		&filing.DocumentType,
		&filing.Sections,
		&filing.AssembledContent,
		&filing.Report,
		&filing.CreatedAt,
		&filing.UpdatedAt,
		&filing.CompletedAt,
	)

	if err != nil {
		return nil, err
	}

	return filing, nil
}

// Update updates a filing's intake fields and section plan
func (r *FilingRepository) Update(ctx context.Context, filing *models.Filing) error {
	query := `
		UPDATE filings
		SET case_number = $2, title = $3, court_id = $4, document_type = $5,
		    sections = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	return r.db.QueryRow(
		ctx, query,
		filing.ID,
		filing.CaseNumber,
		filing.Title,
		filing.CourtID,
		filing.DocumentType,
		filing.Sections,
	).Scan(&filing.UpdatedAt)
}

// UpdateStatus updates a filing's status
func (r *FilingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.FilingStatus) error {
	query := `
		UPDATE filings
		SET status = $2, updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, status)
	return err
}

// UpdateAssembled stores the assembled document and its compliance report,
// moving the filing to assembled status.
func (r *FilingRepository) UpdateAssembled(ctx context.Context, id uuid.UUID, content string, report models.ComplianceReport) error {
	now := time.Now()
	query := `
		UPDATE filings
		SET status = $2, assembled_content = $3, report = $4,
		    completed_at = $5, updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, models.FilingStatusAssembled, content, report, now)
	return err
}

// ListByUserID retrieves filings for a user with optional status filtering
func (r *FilingRepository) ListByUserID(ctx context.Context, userID uuid.UUID, status *models.FilingStatus, limit, offset int) ([]*models.Filing, error) {
	query := `
		SELECT id, user_id, status, case_number, title, court_id, document_type,
		       sections, assembled_content, report, created_at, updated_at, completed_at
		FROM filings
		WHERE user_id = $1
		AND ($2::text IS NULL OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`

	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(ctx, query, userID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var filings []*models.Filing
	for rows.Next() {
		filing := &models.Filing{}
		err := rows.Scan(
			&filing.ID,
			&filing.UserID,
			&filing.Status,
			&filing.CaseNumber,
			&filing.Title,
			&filing.CourtID,
			&filing.DocumentType,
			&filing.Sections,
			&filing.AssembledContent,
			&filing.Report,
			&filing.CreatedAt,
			&filing.UpdatedAt,
			&filing.CompletedAt,
		)
		if err != nil {
			return nil, err
		}
		filings = append(filings, filing)
	}

	return filings, rows.Err()
}

// Delete deletes a filing
func (r *FilingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM filings WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}
