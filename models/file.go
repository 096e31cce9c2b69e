package models

import (
	"time"

	"github.com/google/uuid"
)

// File represents an uploaded document (evidence exhibit, supporting
// material) tracked in the database and held in blob storage.
type File struct {
	ID               uuid.UUID  `json:"id"`
	UserID           uuid.UUID  `json:"user_id"`
	FilingID         *uuid.UUID `json:"filing_id,omitempty"`
	EvidenceSourceID *string    `json:"evidence_source_id,omitempty"`
	Filename         string     `json:"filename"`
	MimeType         string     `json:"mime_type"`
	Size             int64      `json:"size"`
	StoragePath      string     `json:"storage_path"`
	CreatedAt        time.Time  `json:"created_at"`
}
