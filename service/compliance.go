package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"courtdraft-backend/models"
	"courtdraft-backend/storage"
)

var ErrUnknownCourt = errors.New("unknown court ID")

// ComplianceValidator checks assembled documents against court profiles.
// Rule violations accumulate into a report; only an unregistered court ID
// halts validation.
type ComplianceValidator struct {
	registry *JurisdictionRegistry
	storage  storage.Storage
}

// ComplianceValidatorOption is a functional option for ComplianceValidator
type ComplianceValidatorOption func(*ComplianceValidator)

// WithJurisdictionRegistry sets the jurisdiction registry
func WithJurisdictionRegistry(registry *JurisdictionRegistry) ComplianceValidatorOption {
	return func(v *ComplianceValidator) {
		v.registry = registry
	}
}

// WithDocumentStorage sets the storage backend used by ValidateStored
func WithDocumentStorage(s storage.Storage) ComplianceValidatorOption {
	return func(v *ComplianceValidator) {
		v.storage = s
	}
}

// NewComplianceValidator creates a new compliance validator
func NewComplianceValidator(opts ...ComplianceValidatorOption) *ComplianceValidator {
	v := &ComplianceValidator{}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ValidateDocument reads the document at path and checks it against the
// court's profile. A missing file is not an error: it validates as empty
// text, which fails every check the profile requires.
func (v *ComplianceValidator) ValidateDocument(path string, courtID string) (bool, []string, error) {
	content := ""
	data, err := os.ReadFile(path)
	if err == nil {
		content = string(data)
	} else if !os.IsNotExist(err) {
		return false, nil, fmt.Errorf("failed to read document: %w", err)
	}

	return v.ValidateContent(content, courtID)
}

// ValidateStored reads a document from the storage backend and checks it.
// An absent object validates as empty text, matching ValidateDocument.
func (v *ComplianceValidator) ValidateStored(ctx context.Context, storagePath string, courtID string) (bool, []string, error) {
	if v.storage == nil {
		return false, nil, errors.New("document storage not set")
	}

	content := ""
	reader, err := v.storage.Download(ctx, storagePath)
	if err != nil {
		log.Printf("Warning: stored document %s not readable, validating as empty: %v", storagePath, err)
	} else {
		defer reader.Close()
		data, err := io.ReadAll(reader)
		if err != nil {
			return false, nil, fmt.Errorf("failed to read stored document: %w", err)
		}
		content = string(data)
	}

	return v.ValidateContent(content, courtID)
}

// ValidateContent checks document text against a court's profile. Returns
// whether the document is fully compliant plus the ordered violation list.
func (v *ComplianceValidator) ValidateContent(content string, courtID string) (bool, []string, error) {
	if v.registry == nil {
		return false, nil, errors.New("jurisdiction registry not set")
	}

	profile, ok := v.registry.GetProfile(courtID)
	if !ok {
		return false, nil, fmt.Errorf("%w: %s", ErrUnknownCourt, courtID)
	}

	var violations []string
	violations = append(violations, checkFormatting(content, profile.Formatting)...)
	violations = append(violations, checkFilingRules(content, profile.Filing)...)
	violations = append(violations, checkSpecialRules(content, profile.SpecialRules)...)

	return len(violations) == 0, violations, nil
}

// checkFormatting verifies the styling directives a court requires appear
// verbatim in the document.
func checkFormatting(content string, rules models.FormattingRules) []string {
	var violations []string

	if rules.FontFamily != "" {
		directive := fmt.Sprintf(`\setmainfont{%s}`, rules.FontFamily)
		if !strings.Contains(content, directive) {
			violations = append(violations,
				fmt.Sprintf("Required font '%s' not specified", rules.FontFamily))
		}
	}

	if rules.LineSpacing > 0 {
		directive := fmt.Sprintf(`\linespread{%.1f}`, rules.LineSpacing)
		if !strings.Contains(content, directive) {
			violations = append(violations,
				fmt.Sprintf("Required line spacing %g not set", rules.LineSpacing))
		}
	}

	return violations
}

func checkFilingRules(content string, rules models.FilingRules) []string {
	var violations []string
	lower := strings.ToLower(content)

	if rules.CertificateOfServiceRequired && !strings.Contains(lower, "certificate of service") {
		violations = append(violations, "Certificate of Service required but not found")
	}
	if rules.VerificationRequired && !strings.Contains(lower, "verification") {
		violations = append(violations, "Verification required but not found")
	}
	if rules.TableOfAuthoritiesRequired && !strings.Contains(lower, "table of authorities") {
		violations = append(violations, "Table of Authorities required but not found")
	}

	return violations
}

func checkSpecialRules(content string, rules models.SpecialRules) []string {
	var violations []string
	lower := strings.ToLower(content)

	if rules.Flag("pro_se_notice_required") && !strings.Contains(lower, "pro se") {
		violations = append(violations, "Pro se notice may be required for self-represented litigants")
	}
	if rules.Flag("certificate_of_compliance_required") && !strings.Contains(lower, "certificate of compliance") {
		violations = append(violations, "Certificate of Compliance required but not found")
	}

	return violations
}
