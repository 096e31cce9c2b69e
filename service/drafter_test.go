package service

import (
	"strings"
	"testing"

	"courtdraft-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry() *EvidenceRegistry {
	registry := NewEvidenceRegistry()
	registry.Register(models.EvidenceSource{
		SourceID:     "ev-001",
		Description:  "Bank statement showing withdrawal",
		PageNumbers:  []int{1, 2, 3},
		ExhibitLabel: "A",
	})
	registry.Register(models.EvidenceSource{
		SourceID:     "ev-002",
		Description:  "Text message from respondent",
		PageNumbers:  []int{5},
		ExhibitLabel: "B",
	})
	registry.Register(models.EvidenceSource{
		SourceID:    "ev-003",
		Description: "Witness declaration",
	})
	registry.Register(models.EvidenceSource{
		SourceID:     "ev-004",
		Description:  "Photograph of the residence",
		ExhibitLabel: "C",
	})
	return registry
}

func TestDraftParagraph_FormatsCitationSuffix(t *testing.T) {
	d := NewDrafter(newTestRegistry())

	paragraph, err := d.DraftParagraph(
		"Respondent withdrew funds without authorization.",
		[]string{"ev-001", "ev-002"},
		true,
	)
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(paragraph, "(Ex. A, pp. 1-3; Ex. B, p. 5)"))
	assert.Contains(t, paragraph, "Respondent withdrew funds")
}

func TestDraftParagraph_SinglePageUsesSingularForm(t *testing.T) {
	d := NewDrafter(newTestRegistry())

	paragraph, err := d.DraftParagraph("The message was sent at night.", []string{"ev-002"}, true)
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(paragraph, "(Ex. B, p. 5)"))
}

func TestDraftParagraph_MissingEvidenceFails(t *testing.T) {
	d := NewDrafter(newTestRegistry())

	_, err := d.DraftParagraph("An unsupported factual assertion.", nil, true)
	require.ErrorIs(t, err, ErrMissingEvidence)

	assert.Empty(t, d.Citations())
	assert.Empty(t, d.AssembledText())
}

func TestDraftParagraph_UnknownEvidenceFails(t *testing.T) {
	d := NewDrafter(newTestRegistry())

	_, err := d.DraftParagraph("A claim.", []string{"ev-001", "ev-999", "ev-998"}, true)
	require.ErrorIs(t, err, ErrUnknownEvidence)

	// All unresolved IDs are named, in the order given.
	assert.Contains(t, err.Error(), "ev-999, ev-998")
	assert.Empty(t, d.Citations())
}

func TestDraftParagraph_NoCitationRequiredNoTrailingSpace(t *testing.T) {
	d := NewDrafter(newTestRegistry())

	paragraph, err := d.DraftParagraph("This document is submitted pursuant to court order.", nil, false)
	require.NoError(t, err)

	assert.Equal(t, "This document is submitted pursuant to court order.", paragraph)
	// The citation log still records the paragraph.
	require.Len(t, d.Citations(), 1)
}

func TestDraftParagraph_LabelWithoutPagesYieldsLabelOnlyFragment(t *testing.T) {
	d := NewDrafter(newTestRegistry())

	paragraph, err := d.DraftParagraph("The photograph shows the damage.", []string{"ev-004"}, true)
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(paragraph, "(Ex. C)"))
}

func TestDraftParagraph_EvidenceWithoutLabelOrPagesYieldsNoSuffix(t *testing.T) {
	d := NewDrafter(newTestRegistry())

	paragraph, err := d.DraftParagraph("The witness confirmed the account.", []string{"ev-003"}, true)
	require.NoError(t, err)

	assert.Equal(t, "The witness confirmed the account.", paragraph)
}

func TestDraftParagraph_LocationsAreDocumentOffsets(t *testing.T) {
	d := NewDrafter(newTestRegistry())

	first, err := d.DraftParagraph("First paragraph.", []string{"ev-001"}, true)
	require.NoError(t, err)
	_, err = d.DraftParagraph("Second paragraph.", []string{"ev-002"}, true)
	require.NoError(t, err)

	citations := d.Citations()
	require.Len(t, citations, 2)
	assert.Equal(t, 0, citations[0].Location)
	assert.Equal(t, len(first)+2, citations[1].Location)
}

func TestValidateDocument_ClaimNearCitationIsCovered(t *testing.T) {
	d := NewDrafter(newTestRegistry())

	_, err := d.DraftParagraph(
		"On January 5, 2024, Respondent Smith failed to appear.",
		[]string{"ev-001"},
		true,
	)
	require.NoError(t, err)

	ok, uncited := d.ValidateDocument(d.AssembledText())
	assert.True(t, ok)
	assert.Empty(t, uncited)
}

func TestValidateDocument_DistantClaimIsFlagged(t *testing.T) {
	d := NewDrafter(newTestRegistry())

	_, err := d.DraftParagraph("Introductory text with no claims.", []string{"ev-001"}, true)
	require.NoError(t, err)

	// Push a money-amount claim well past the proximity window.
	padding := strings.Repeat("x", 500)
	document := d.AssembledText() + padding + " The amount was $5,000 in total."

	ok, uncited := d.ValidateDocument(document)
	assert.False(t, ok)
	require.Len(t, uncited, 1)
	assert.Equal(t, "$5,000", uncited[0])
}

func TestValidateDocument_DetectsEachClaimPattern(t *testing.T) {
	d := NewDrafter(newTestRegistry())

	document := "Respondent Jones refused to comply. " +
		"On March 12, 2023 the incident occurred. " +
		"The loss totaled $12,500. " +
		"This happened 4 times overall."

	ok, uncited := d.ValidateDocument(document)
	assert.False(t, ok)
	assert.Len(t, uncited, 4)
}

func TestGenerateExhibitList_SortedAndDeduplicated(t *testing.T) {
	d := NewDrafter(newTestRegistry())

	// Cite B before A, and A twice.
	_, err := d.DraftParagraph("Claim one.", []string{"ev-002"}, true)
	require.NoError(t, err)
	_, err = d.DraftParagraph("Claim two.", []string{"ev-001"}, true)
	require.NoError(t, err)
	_, err = d.DraftParagraph("Claim three.", []string{"ev-001"}, true)
	require.NoError(t, err)

	list := d.GenerateExhibitList()
	lines := strings.Split(strings.TrimSpace(list), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "EXHIBIT LIST", lines[0])
	assert.Equal(t, "Exhibit A: Bank statement showing withdrawal", lines[1])
	assert.Equal(t, "Exhibit B: Text message from respondent", lines[2])
}

func TestGenerateExhibitList_UnlabeledEvidenceExcluded(t *testing.T) {
	d := NewDrafter(newTestRegistry())

	_, err := d.DraftParagraph("Claim.", []string{"ev-003"}, true)
	require.NoError(t, err)

	list := d.GenerateExhibitList()
	assert.Equal(t, "EXHIBIT LIST\n", list)
}

func TestExhibitListFor_DedupAndOrderWithoutDrafting(t *testing.T) {
	registry := newTestRegistry()

	// Unordered references with duplicates, an unlabeled source, and an
	// unknown ID; the list still comes out one entry per label, ascending.
	list := ExhibitListFor(registry, []string{"ev-002", "ev-001", "ev-003", "ev-001", "ev-999"})
	lines := strings.Split(strings.TrimSpace(list), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "EXHIBIT LIST", lines[0])
	assert.Equal(t, "Exhibit A: Bank statement showing withdrawal", lines[1])
	assert.Equal(t, "Exhibit B: Text message from respondent", lines[2])

	assert.Equal(t, "EXHIBIT LIST\n", ExhibitListFor(registry, nil))
}

func TestWriteHeading_AppendsWithoutCitation(t *testing.T) {
	d := NewDrafter(newTestRegistry())

	d.WriteHeading("STATEMENT OF FACTS")
	_, err := d.DraftParagraph("A supported fact.", []string{"ev-001"}, true)
	require.NoError(t, err)

	text := d.AssembledText()
	assert.True(t, strings.HasPrefix(text, "STATEMENT OF FACTS\n\n"))

	citations := d.Citations()
	require.Len(t, citations, 1)
	assert.Equal(t, len("STATEMENT OF FACTS")+2, citations[0].Location)
}

func TestValidateCitations_ReportsAllMissing(t *testing.T) {
	registry := newTestRegistry()

	ok, missing := registry.ValidateCitations([]string{"ev-001", "nope-1", "ev-002", "nope-2"})
	assert.False(t, ok)
	assert.Equal(t, []string{"nope-1", "nope-2"}, missing)

	ok, missing = registry.ValidateCitations([]string{"ev-001", "ev-002"})
	assert.True(t, ok)
	assert.Empty(t, missing)
}
