package service

import (
	"testing"

	"courtdraft-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeSteps_OneDraftStepPerSectionPlusPipeline(t *testing.T) {
	sections := models.FilingSections{
		{Heading: "Introduction"},
		{Heading: "Statement of Facts"},
		{Heading: "Argument"},
	}

	steps := initializeSteps(sections)
	require.Len(t, steps, 6)

	assert.Equal(t, "Drafting Introduction", steps[0].Name)
	assert.Equal(t, "Drafting Statement of Facts", steps[1].Name)
	assert.Equal(t, "Drafting Argument", steps[2].Name)
	assert.Equal(t, stepAssembling, steps[3].Name)
	assert.Equal(t, stepClaimScan, steps[4].Name)
	assert.Equal(t, stepComplianceCheck, steps[5].Name)

	for _, step := range steps {
		assert.Equal(t, "pending", step.Status)
	}
}

func TestBuildSectionPrompt_IncludesEvidenceDescriptions(t *testing.T) {
	registry := newTestRegistry()
	filing := &models.Filing{
		Title:        "Motion for Temporary Orders",
		CaseNumber:   "FC-D-24-0001",
		DocumentType: models.DocumentTypeMotion,
	}
	section := models.FilingSection{
		Heading:      "Statement of Facts",
		Instructions: "Describe the unauthorized withdrawal.",
		EvidenceIDs:  []string{"ev-001", "ev-404"},
	}

	prompt := buildSectionPrompt(filing, section, registry)

	assert.Contains(t, prompt, "Motion for Temporary Orders")
	assert.Contains(t, prompt, "FC-D-24-0001")
	assert.Contains(t, prompt, "SECTION: Statement of Facts")
	assert.Contains(t, prompt, "Describe the unauthorized withdrawal.")
	assert.Contains(t, prompt, "Bank statement showing withdrawal")
	// Unresolvable IDs are skipped silently; the drafter rejects them later.
	assert.NotContains(t, prompt, "ev-404")
}

func TestBuildSectionPrompt_NoEvidenceOmitsEvidenceBlock(t *testing.T) {
	registry := newTestRegistry()
	filing := &models.Filing{Title: "Brief", DocumentType: models.DocumentTypeBrief}
	section := models.FilingSection{
		Heading:      "Introduction",
		Instructions: "Introduce the parties.",
	}

	prompt := buildSectionPrompt(filing, section, registry)
	assert.NotContains(t, prompt, "SUPPORTING EVIDENCE")
}
