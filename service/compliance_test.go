package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestValidator() *ComplianceValidator {
	return NewComplianceValidator(
		WithJurisdictionRegistry(NewJurisdictionRegistry()),
	)
}

func TestValidateContent_UnknownCourt(t *testing.T) {
	v := newTestValidator()

	_, _, err := v.ValidateContent("anything", "mars_district")
	require.ErrorIs(t, err, ErrUnknownCourt)
	assert.Contains(t, err.Error(), "mars_district")
}

func TestValidateContent_EmptyDocumentAccumulatesViolations(t *testing.T) {
	v := newTestValidator()

	compliant, violations, err := v.ValidateContent("", "hi_family")
	require.NoError(t, err)
	assert.False(t, compliant)

	// Font, line spacing, certificate of service, verification, pro se
	// notice all fail on empty text.
	assert.Len(t, violations, 5)

	joined := strings.Join(violations, "\n")
	assert.Contains(t, joined, "Certificate of Service")
	assert.Contains(t, joined, "Verification")
	assert.Contains(t, joined, "Pro se notice")
}

func TestValidateContent_CompliantHawaiiFiling(t *testing.T) {
	v := newTestValidator()

	document := `\setmainfont{Times New Roman}
\linespread{2.0}
IN THE FAMILY COURT OF THE FIRST CIRCUIT
Petitioner appears pro se.
VERIFICATION
I declare under penalty of perjury that the foregoing is true.
CERTIFICATE OF SERVICE
I certify that a copy was served on all parties.`

	compliant, violations, err := v.ValidateContent(document, "hi_family")
	require.NoError(t, err)
	assert.True(t, compliant)
	assert.Empty(t, violations)
}

func TestValidateContent_NinthCircuitRequiresComplianceCertificate(t *testing.T) {
	v := newTestValidator()

	document := `\setmainfont{Century Schoolbook}
\linespread{2.0}
TABLE OF AUTHORITIES
CERTIFICATE OF SERVICE`

	compliant, violations, err := v.ValidateContent(document, "ca9")
	require.NoError(t, err)
	assert.False(t, compliant)
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "Certificate of Compliance")
}

func TestValidateContent_ChecksAreCaseInsensitiveForFilingRules(t *testing.T) {
	v := newTestValidator()

	document := `\setmainfont{Times New Roman}
\linespread{2.0}
Appearing Pro Se.
Verification of Petitioner.
Certificate Of Service attached.`

	compliant, violations, err := v.ValidateContent(document, "hi_family")
	require.NoError(t, err)
	assert.True(t, compliant, "violations: %v", violations)
}

func TestValidateContent_WrongFontFlagged(t *testing.T) {
	v := newTestValidator()

	document := `\setmainfont{Comic Sans}
\linespread{2.0}
pro se
verification
certificate of service`

	compliant, violations, err := v.ValidateContent(document, "hi_family")
	require.NoError(t, err)
	assert.False(t, compliant)
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "Times New Roman")
}

func TestValidateDocument_MissingFileValidatesAsEmpty(t *testing.T) {
	v := newTestValidator()

	compliant, violations, err := v.ValidateDocument("/nonexistent/path/to/doc.txt", "hi_family")
	require.NoError(t, err)
	assert.False(t, compliant)
	assert.NotEmpty(t, violations)
}
