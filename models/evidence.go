package models

// EvidenceSource is a registered piece of supporting material (document,
// exhibit) identifiable by a stable source ID. Owned by the evidence
// registry; registration is an upsert and there is no deletion path.
type EvidenceSource struct {
	SourceID     string `json:"source_id"`
	Description  string `json:"description"`
	FilePath     string `json:"file_path,omitempty"`
	PageNumbers  []int  `json:"page_numbers,omitempty"`
	ExhibitLabel string `json:"exhibit_label,omitempty"`
}

// Citation is a recorded binding between drafted text and the evidence IDs
// supporting it. Location is the character offset of the paragraph within
// the drafter's assembled document. Citations are append-only and never
// mutated after creation.
type Citation struct {
	Text        string   `json:"text"`
	EvidenceIDs []string `json:"evidence_ids"`
	Location    int      `json:"location"`
}
