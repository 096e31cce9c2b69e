package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AssemblyJobStatus represents the status of an assembly job
type AssemblyJobStatus string

const (
	JobStatusPending    AssemblyJobStatus = "pending"
	JobStatusInProgress AssemblyJobStatus = "in_progress"
	JobStatusCompleted  AssemblyJobStatus = "completed"
	JobStatusFailed     AssemblyJobStatus = "failed"
)

// AssemblyStep represents a step in the assembly process
type AssemblyStep struct {
	Name        string `json:"name"`
	Status      string `json:"status"` // "pending", "in_progress", "completed", "failed"
	Description string `json:"description,omitempty"`
}

// AssemblySteps represents a list of assembly steps
type AssemblySteps []AssemblyStep

// Value implements driver.Valuer for JSONB
func (a AssemblySteps) Value() (driver.Value, error) {
	return json.Marshal(a)
}

// Scan implements sql.Scanner for JSONB
func (a *AssemblySteps) Scan(value interface{}) error {
	if value == nil {
		*a = make(AssemblySteps, 0)
		return nil
	}

	// Handle different types that pgx might return for JSONB
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*a = make(AssemblySteps, 0)
		return nil
	}

	if len(bytes) == 0 {
		*a = make(AssemblySteps, 0)
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// AssemblyJob represents a document assembly job entity
type AssemblyJob struct {
	ID           uuid.UUID         `json:"id"`
	FilingID     uuid.UUID         `json:"filing_id"`
	Status       AssemblyJobStatus `json:"status"`
	CurrentStep  *string           `json:"current_step,omitempty"`
	Steps        AssemblySteps     `json:"steps"`
	ErrorMessage *string           `json:"error_message,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	CompletedAt  *time.Time        `json:"completed_at,omitempty"`
}
