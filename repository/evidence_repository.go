package repository

import (
	"context"

	"courtdraft-backend/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EvidenceRepository persists evidence sources so the in-memory registry can
// be reseeded at startup. Source IDs are caller-assigned, so writes are
// upserts keyed on source_id.
type EvidenceRepository struct {
	db *pgxpool.Pool
}

// NewEvidenceRepository creates a new evidence repository
func NewEvidenceRepository(db *pgxpool.Pool) *EvidenceRepository {
	return &EvidenceRepository{db: db}
}

// Upsert inserts or replaces an evidence source
func (r *EvidenceRepository) Upsert(ctx context.Context, source models.EvidenceSource) error {
	query := `
		INSERT INTO evidence_sources (
			source_id, description, file_path, page_numbers, exhibit_label
		) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (source_id) DO UPDATE
		SET description = EXCLUDED.description,
		    file_path = EXCLUDED.file_path,
		    page_numbers = EXCLUDED.page_numbers,
		    exhibit_label = EXCLUDED.exhibit_label,
		    updated_at = NOW()`

	_, err := r.db.Exec(
		ctx, query,
		source.SourceID,
		source.Description,
		source.FilePath,
		source.PageNumbers,
		source.ExhibitLabel,
	)

	return err
}

// GetBySourceID retrieves an evidence source by its source ID
func (r *EvidenceRepository) GetBySourceID(ctx context.Context, sourceID string) (*models.EvidenceSource, error) {
	source := &models.EvidenceSource{}
	query := `
		SELECT source_id, description, file_path, page_numbers, exhibit_label
		FROM evidence_sources
		WHERE source_id = $1`

	err := r.db.QueryRow(ctx, query, sourceID).Scan(
		&source.SourceID,
		&source.Description,
		&source.FilePath,
		&source.PageNumbers,
		&source.ExhibitLabel,
	)

	if err != nil {
		return nil, err
	}

	return source, nil
}

// ListAll retrieves every evidence source, ordered by source ID
func (r *EvidenceRepository) ListAll(ctx context.Context) ([]models.EvidenceSource, error) {
	query := `
		SELECT source_id, description, file_path, page_numbers, exhibit_label
		FROM evidence_sources
		ORDER BY source_id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []models.EvidenceSource
	for rows.Next() {
		var source models.EvidenceSource
		err := rows.Scan(
			&source.SourceID,
			&source.Description,
			&source.FilePath,
			&source.PageNumbers,
			&source.ExhibitLabel,
		)
		if err != nil {
			return nil, err
		}
		sources = append(sources, source)
	}

	return sources, rows.Err()
}
