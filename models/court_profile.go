package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// CourtLevel represents a court hierarchy level
type CourtLevel string

const (
	CourtLevelStateFamily     CourtLevel = "state_family"
	CourtLevelStateDistrict   CourtLevel = "state_district"
	CourtLevelStateSupreme    CourtLevel = "state_supreme"
	CourtLevelFederalDistrict CourtLevel = "federal_district"
	CourtLevelFederalCircuit  CourtLevel = "federal_circuit"
	CourtLevelFederalSupreme  CourtLevel = "federal_supreme"
)

// FormattingRules holds court-specific formatting requirements.
// All numeric fields must be strictly positive.
type FormattingRules struct {
	FontFamily         string  `json:"font_family"`
	FontSize           int     `json:"font_size"`
	LineSpacing        float64 `json:"line_spacing"`
	MarginTop          float64 `json:"margin_top"` // inches
	MarginBottom       float64 `json:"margin_bottom"`
	MarginLeft         float64 `json:"margin_left"`
	MarginRight        float64 `json:"margin_right"`
	PageNumberLocation string  `json:"page_number_location"`
}

// Validate checks that all numeric formatting fields are strictly positive.
func (f FormattingRules) Validate() error {
	if f.FontSize <= 0 {
		return fmt.Errorf("font size must be positive, got %d", f.FontSize)
	}
	if f.LineSpacing <= 0 {
		return fmt.Errorf("line spacing must be positive, got %g", f.LineSpacing)
	}
	margins := map[string]float64{
		"top":    f.MarginTop,
		"bottom": f.MarginBottom,
		"left":   f.MarginLeft,
		"right":  f.MarginRight,
	}
	for name, m := range margins {
		if m <= 0 {
			return fmt.Errorf("%s margin must be positive, got %g", name, m)
		}
	}
	return nil
}

// CitationRules holds citation format requirements
type CitationRules struct {
	CaseCitationFormat    string            `json:"case_citation_format"`
	StatuteCitationFormat string            `json:"statute_citation_format"`
	PinCiteRequired       bool              `json:"pin_cite_required"`
	ShortFormRules        map[string]string `json:"short_form_rules,omitempty"`
}

// FilingRules holds filing-specific requirements
type FilingRules struct {
	MaxPages                      *int `json:"max_pages,omitempty"`
	CertificateOfServiceRequired  bool `json:"certificate_of_service_required"`
	VerificationRequired          bool `json:"verification_required"`
	ExhibitsMustBeLabeled         bool `json:"exhibits_must_be_labeled"`
	TableOfContentsRequiredPages  *int `json:"table_of_contents_required_pages,omitempty"`
	TableOfAuthoritiesRequired    bool `json:"table_of_authorities_required"`
}

// SpecialRules is an open mapping of court-specific rule flags
type SpecialRules map[string]interface{}

// Value implements driver.Valuer for JSONB
func (s SpecialRules) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements sql.Scanner for JSONB
func (s *SpecialRules) Scan(value interface{}) error {
	if value == nil {
		*s = make(SpecialRules)
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
		*s = make(SpecialRules)
		return nil
	}

	return json.Unmarshal(bytes, s)
}

// Flag reports whether a special rule is set and truthy.
func (s SpecialRules) Flag(key string) bool {
	v, ok := s[key]
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

// CourtProfile is the complete rule set for one jurisdiction/court.
// Immutable once handed to a validator call.
type CourtProfile struct {
	CourtID      string          `json:"court_id"`
	CourtName    string          `json:"court_name"`
	CourtLevel   CourtLevel      `json:"court_level"`
	Jurisdiction string          `json:"jurisdiction"`
	Formatting   FormattingRules `json:"formatting"`
	Citations    CitationRules   `json:"citations"`
	Filing       FilingRules     `json:"filing"`
	SpecialRules SpecialRules    `json:"special_rules,omitempty"`
}

// Validate checks the profile is registrable.
func (p *CourtProfile) Validate() error {
	if p.CourtID == "" {
		return fmt.Errorf("court profile missing court_id")
	}
	if err := p.Formatting.Validate(); err != nil {
		return fmt.Errorf("court %s: %w", p.CourtID, err)
	}
	return nil
}
