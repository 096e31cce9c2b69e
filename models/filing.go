package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// FilingStatus represents the status of a filing
type FilingStatus string

const (
	FilingStatusDraft      FilingStatus = "draft"
	FilingStatusAssembling FilingStatus = "assembling"
	FilingStatusAssembled  FilingStatus = "assembled"
	FilingStatusFiled      FilingStatus = "filed"
)

// DocumentType represents the kind of court document being assembled
type DocumentType string

const (
	DocumentTypeMotion      DocumentType = "motion"
	DocumentTypeBrief       DocumentType = "brief"
	DocumentTypeDeclaration DocumentType = "declaration"
	DocumentTypePetition    DocumentType = "petition"
)

// FilingSection describes one section of a filing to be drafted. The
// evidence IDs listed here are bound to the generated text at draft time;
// a section with RequireCitation set cannot be assembled without them.
type FilingSection struct {
	Heading         string   `json:"heading"`
	Instructions    string   `json:"instructions"`
	EvidenceIDs     []string `json:"evidence_ids"`
	RequireCitation bool     `json:"require_citation"`
}

// FilingSections represents the ordered sections of a filing
type FilingSections []FilingSection

// Value implements driver.Valuer for JSONB
func (f FilingSections) Value() (driver.Value, error) {
	return json.Marshal(f)
}

// Scan implements sql.Scanner for JSONB
func (f *FilingSections) Scan(value interface{}) error {
	if value == nil {
		*f = make(FilingSections, 0)
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*f = make(FilingSections, 0)
		return nil
	}

	if len(bytes) == 0 {
		*f = make(FilingSections, 0)
		return nil
	}

	return json.Unmarshal(bytes, f)
}

// ComplianceReport is the outcome of the claim scan and the court-rule
// checks run against an assembled filing.
type ComplianceReport struct {
	Compliant     bool     `json:"compliant"`
	Violations    []string `json:"violations"`
	UncitedClaims []string `json:"uncited_claims"`
}

// Value implements driver.Valuer for JSONB
func (c ComplianceReport) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan implements sql.Scanner for JSONB
func (c *ComplianceReport) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	if len(bytes) == 0 {
		return nil
	}

	return json.Unmarshal(bytes, c)
}

// Filing represents a court filing under assembly
type Filing struct {
	ID     uuid.UUID    `json:"id"`
	UserID uuid.UUID    `json:"user_id"`
	Status FilingStatus `json:"status"`

	// Intake
	CaseNumber   string       `json:"case_number"`
	Title        string       `json:"title"`
	CourtID      string       `json:"court_id"`
	DocumentType DocumentType `json:"document_type"`

	// Section plan
	Sections FilingSections `json:"sections"`

	// Assembly output
	AssembledContent *string           `json:"assembled_content"`
	Report           *ComplianceReport `json:"report,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
