package service

import (
	"fmt"

	"courtdraft-backend/models"
)

// JurisdictionRegistry holds court rule profiles keyed by court ID.
// Construct it once at startup; registered profiles are treated as
// immutable by validator calls.
type JurisdictionRegistry struct {
	profiles map[string]*models.CourtProfile
}

// NewJurisdictionRegistry creates a registry prepopulated with the default
// court profiles.
func NewJurisdictionRegistry() *JurisdictionRegistry {
	r := &JurisdictionRegistry{
		profiles: make(map[string]*models.CourtProfile),
	}
	r.loadDefaultProfiles()
	return r
}

// RegisterProfile upserts a court profile after validating it
func (r *JurisdictionRegistry) RegisterProfile(profile *models.CourtProfile) error {
	if err := profile.Validate(); err != nil {
		return fmt.Errorf("invalid court profile: %w", err)
	}
	r.profiles[profile.CourtID] = profile
	return nil
}

// GetProfile retrieves a court profile by ID
func (r *JurisdictionRegistry) GetProfile(courtID string) (*models.CourtProfile, bool) {
	profile, ok := r.profiles[courtID]
	return profile, ok
}

// ListCourts returns all registered court IDs
func (r *JurisdictionRegistry) ListCourts() []string {
	ids := make([]string, 0, len(r.profiles))
	for id := range r.profiles {
		ids = append(ids, id)
	}
	return ids
}

func (r *JurisdictionRegistry) loadDefaultProfiles() {
	defaults := []*models.CourtProfile{
		{
			CourtID:      "hi_family",
			CourtName:    "Hawaii Family Court",
			CourtLevel:   models.CourtLevelStateFamily,
			Jurisdiction: "Hawaii",
			Formatting: models.FormattingRules{
				FontFamily:         "Times New Roman",
				FontSize:           12,
				LineSpacing:        2.0,
				MarginTop:          1.0,
				MarginBottom:       1.0,
				MarginLeft:         1.0,
				MarginRight:        1.0,
				PageNumberLocation: "bottom center",
			},
			Citations: models.CitationRules{
				CaseCitationFormat:    "Bluebook",
				StatuteCitationFormat: "Hawaii Revised Statutes",
				PinCiteRequired:       true,
			},
			Filing: models.FilingRules{
				CertificateOfServiceRequired: true,
				VerificationRequired:         true,
				ExhibitsMustBeLabeled:        true,
			},
			SpecialRules: models.SpecialRules{
				"caption_format":           "hawaii_standard",
				"signature_block_required": true,
				"pro_se_notice_required":   true,
			},
		},
		{
			CourtID:      "cand",
			CourtName:    "United States District Court for the Northern District of California",
			CourtLevel:   models.CourtLevelFederalDistrict,
			Jurisdiction: "California (Northern District)",
			Formatting: models.FormattingRules{
				FontFamily:         "Times New Roman",
				FontSize:           12,
				LineSpacing:        2.0,
				MarginTop:          1.0,
				MarginBottom:       1.0,
				MarginLeft:         1.0,
				MarginRight:        1.0,
				PageNumberLocation: "bottom center",
			},
			Citations: models.CitationRules{
				CaseCitationFormat:    "Bluebook",
				StatuteCitationFormat: "U.S.C.",
				PinCiteRequired:       true,
			},
			Filing: models.FilingRules{
				MaxPages:                     intPtr(25), // without leave of court
				CertificateOfServiceRequired: true,
				VerificationRequired:         false,
				ExhibitsMustBeLabeled:        true,
				TableOfContentsRequiredPages: intPtr(25),
				TableOfAuthoritiesRequired:   true,
			},
			SpecialRules: models.SpecialRules{
				"ecf_filing_required": true,
				"local_rules_apply":   "CAND Local Rules",
				"civil_lr_compliance": true,
			},
		},
		{
			CourtID:      "ca9",
			CourtName:    "United States Court of Appeals for the Ninth Circuit",
			CourtLevel:   models.CourtLevelFederalCircuit,
			Jurisdiction: "Ninth Circuit",
			Formatting: models.FormattingRules{
				FontFamily:         "Century Schoolbook",
				FontSize:           14,
				LineSpacing:        2.0,
				MarginTop:          1.0,
				MarginBottom:       1.0,
				MarginLeft:         1.0,
				MarginRight:        1.0,
				PageNumberLocation: "bottom center",
			},
			Citations: models.CitationRules{
				CaseCitationFormat:    "Bluebook",
				StatuteCitationFormat: "U.S.C.",
				PinCiteRequired:       true,
			},
			Filing: models.FilingRules{
				CertificateOfServiceRequired: true,
				VerificationRequired:         false,
				ExhibitsMustBeLabeled:        true,
				TableOfContentsRequiredPages: intPtr(1), // always required
				TableOfAuthoritiesRequired:   true,
			},
			SpecialRules: models.SpecialRules{
				"word_count_limit":                   14000,
				"certificate_of_compliance_required": true,
				"separate_volume_for_excerpts":       true,
			},
		},
	}

	for _, profile := range defaults {
		// Defaults are hand-maintained; a validation failure here is a
		// programming error.
		if err := r.RegisterProfile(profile); err != nil {
			panic(err)
		}
	}
}

func intPtr(n int) *int {
	return &n
}
