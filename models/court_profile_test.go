package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFormatting() FormattingRules {
	return FormattingRules{
		FontFamily:  "Times New Roman",
		FontSize:    12,
		LineSpacing: 2.0,
		MarginTop:   1, MarginBottom: 1, MarginLeft: 1, MarginRight: 1,
	}
}

func TestFormattingRulesValidate(t *testing.T) {
	require.NoError(t, validFormatting().Validate())

	bad := validFormatting()
	bad.FontSize = 0
	assert.Error(t, bad.Validate())

	bad = validFormatting()
	bad.LineSpacing = -1
	assert.Error(t, bad.Validate())

	bad = validFormatting()
	bad.MarginLeft = 0
	assert.Error(t, bad.Validate())
}

func TestCourtProfileValidate_RequiresCourtID(t *testing.T) {
	p := &CourtProfile{Formatting: validFormatting()}
	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "court_id")

	p.CourtID = "hi_family"
	assert.NoError(t, p.Validate())
}

func TestSpecialRulesFlag(t *testing.T) {
	rules := SpecialRules{
		"bool_true":   true,
		"bool_false":  false,
		"string_rule": "CAND Local Rules",
		"number_rule": 14000,
	}

	assert.True(t, rules.Flag("bool_true"))
	assert.False(t, rules.Flag("bool_false"))
	assert.False(t, rules.Flag("string_rule"))
	assert.False(t, rules.Flag("number_rule"))
	assert.False(t, rules.Flag("absent"))
}

func TestSpecialRulesScan_HandlesJSONBValues(t *testing.T) {
	var rules SpecialRules
	require.NoError(t, rules.Scan([]byte(`{"ecf_filing_required": true}`)))
	assert.True(t, rules.Flag("ecf_filing_required"))

	var empty SpecialRules
	require.NoError(t, empty.Scan(nil))
	assert.NotNil(t, empty)
	assert.False(t, empty.Flag("anything"))
}

func TestFilingSectionsScan(t *testing.T) {
	var sections FilingSections
	data := `[{"heading":"Argument","instructions":"Argue.","evidence_ids":["ev-1"],"require_citation":true}]`
	require.NoError(t, sections.Scan(data))

	require.Len(t, sections, 1)
	assert.Equal(t, "Argument", sections[0].Heading)
	assert.True(t, sections[0].RequireCitation)
	assert.Equal(t, []string{"ev-1"}, sections[0].EvidenceIDs)

	var empty FilingSections
	require.NoError(t, empty.Scan(nil))
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
