package service

import (
	"testing"

	"courtdraft-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJurisdictionRegistry_LoadsDefaults(t *testing.T) {
	r := NewJurisdictionRegistry()

	for _, courtID := range []string{"hi_family", "cand", "ca9"} {
		profile, ok := r.GetProfile(courtID)
		require.True(t, ok, "default profile %s missing", courtID)
		assert.Equal(t, courtID, profile.CourtID)
	}

	assert.Len(t, r.ListCourts(), 3)
}

func TestDefaultProfiles_CourtSpecificRules(t *testing.T) {
	r := NewJurisdictionRegistry()

	hi, _ := r.GetProfile("hi_family")
	assert.True(t, hi.Filing.VerificationRequired)
	assert.True(t, hi.SpecialRules.Flag("pro_se_notice_required"))
	assert.Equal(t, "Times New Roman", hi.Formatting.FontFamily)

	cand, _ := r.GetProfile("cand")
	require.NotNil(t, cand.Filing.MaxPages)
	assert.Equal(t, 25, *cand.Filing.MaxPages)
	assert.False(t, cand.Filing.VerificationRequired)

	ca9, _ := r.GetProfile("ca9")
	assert.Equal(t, "Century Schoolbook", ca9.Formatting.FontFamily)
	assert.Equal(t, 14, ca9.Formatting.FontSize)
	assert.True(t, ca9.SpecialRules.Flag("certificate_of_compliance_required"))

	// Ninth Circuit briefs are capped by words, not pages.
	assert.Nil(t, ca9.Filing.MaxPages)
	assert.EqualValues(t, 14000, ca9.SpecialRules["word_count_limit"])
}

func TestRegisterProfile_RejectsInvalid(t *testing.T) {
	r := NewJurisdictionRegistry()

	err := r.RegisterProfile(&models.CourtProfile{
		CourtName: "Nameless Court",
		Formatting: models.FormattingRules{
			FontSize: 12, LineSpacing: 2.0,
			MarginTop: 1, MarginBottom: 1, MarginLeft: 1, MarginRight: 1,
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "court_id")

	err = r.RegisterProfile(&models.CourtProfile{
		CourtID: "bad_margins",
		Formatting: models.FormattingRules{
			FontSize: 12, LineSpacing: 2.0,
			MarginTop: 0, MarginBottom: 1, MarginLeft: 1, MarginRight: 1,
		},
	})
	require.Error(t, err)

	_, ok := r.GetProfile("bad_margins")
	assert.False(t, ok)
}

func TestRegisterProfile_UpsertsValidProfile(t *testing.T) {
	r := NewJurisdictionRegistry()

	profile := &models.CourtProfile{
		CourtID:    "tx_probate",
		CourtName:  "Texas Probate Court",
		CourtLevel: models.CourtLevelStateDistrict,
		Formatting: models.FormattingRules{
			FontFamily: "Arial", FontSize: 12, LineSpacing: 1.5,
			MarginTop: 1, MarginBottom: 1, MarginLeft: 1.25, MarginRight: 1,
		},
	}
	require.NoError(t, r.RegisterProfile(profile))

	got, ok := r.GetProfile("tx_probate")
	require.True(t, ok)
	assert.Equal(t, "Texas Probate Court", got.CourtName)

	// Re-registration replaces.
	profile.CourtName = "Texas Probate Court, Travis County"
	require.NoError(t, r.RegisterProfile(profile))
	got, _ = r.GetProfile("tx_probate")
	assert.Equal(t, "Texas Probate Court, Travis County", got.CourtName)
}
