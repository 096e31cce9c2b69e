package service

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"courtdraft-backend/models"
)

var (
	ErrMissingEvidence = errors.New("evidence required but not provided")
	ErrUnknownEvidence = errors.New("evidence IDs not found in registry")
)

// Claim patterns: text shapes that typically assert a fact requiring
// evidentiary support.
var claimPatterns = []*regexp.Regexp{
	regexp.MustCompile(`Respondent \w+ (?:did|failed to|refused to)`),
	regexp.MustCompile(`On \w+\s+\d+,\s+\d{4}`),           // calendar dates
	regexp.MustCompile(`\$[\d,]+`),                        // money amounts
	regexp.MustCompile(`\d+ (?:times|instances|occasions)`), // quantified events
}

// citationProximity is the window, in characters, within which a recorded
// citation covers a claim-pattern match.
const citationProximity = 200

// contentPreviewLen bounds the content excerpt included in drafting errors.
const contentPreviewLen = 50

// Drafter builds a document paragraph by paragraph, refusing any paragraph
// whose evidence cannot be verified in the registry. One Drafter instance
// owns one in-progress document and its append-only citation log.
type Drafter struct {
	registry  *EvidenceRegistry
	citations []models.Citation
	doc       strings.Builder
}

// NewDrafter creates a drafter bound to an evidence registry
func NewDrafter(registry *EvidenceRegistry) *Drafter {
	return &Drafter{registry: registry}
}

// DraftParagraph binds content to its supporting evidence and returns the
// paragraph with a formatted citation suffix. When requireCitation is set,
// an empty evidence list fails with ErrMissingEvidence and unresolvable IDs
// fail with ErrUnknownEvidence; in both cases no text is produced and
// nothing is recorded.
func (d *Drafter) DraftParagraph(content string, evidenceIDs []string, requireCitation bool) (string, error) {
	if requireCitation {
		if len(evidenceIDs) == 0 {
			return "", fmt.Errorf("%w for: %s", ErrMissingEvidence, preview(content))
		}
		if ok, missing := d.registry.ValidateCitations(evidenceIDs); !ok {
			return "", fmt.Errorf("%w: %s (content: %s)",
				ErrUnknownEvidence, strings.Join(missing, ", "), preview(content))
		}
	}

	suffix := d.formatCitations(evidenceIDs)

	// Location is the paragraph's true offset in the assembled document,
	// so proximity-based claim scanning stays accurate past paragraph one.
	location := d.doc.Len()

	paragraph := content
	if suffix != "" {
		paragraph = content + " " + suffix
	}

	d.citations = append(d.citations, models.Citation{
		Text:        content,
		EvidenceIDs: evidenceIDs,
		Location:    location,
	})

	d.doc.WriteString(paragraph)
	d.doc.WriteString("\n\n")

	return paragraph, nil
}

// WriteHeading appends a section heading to the assembled document.
// Headings carry no factual claims and record no citation.
func (d *Drafter) WriteHeading(heading string) {
	d.doc.WriteString(heading)
	d.doc.WriteString("\n\n")
}

// formatCitations renders the parenthetical citation suffix:
// (Ex. A, pp. 1-3; Ex. B, p. 5)
func (d *Drafter) formatCitations(evidenceIDs []string) string {
	if len(evidenceIDs) == 0 {
		return ""
	}

	var cites []string
	for _, id := range evidenceIDs {
		evidence, ok := d.registry.Get(id)
		if !ok {
			continue
		}
		var parts []string
		if evidence.ExhibitLabel != "" {
			parts = append(parts, "Ex. "+evidence.ExhibitLabel)
		}
		if n := len(evidence.PageNumbers); n == 1 {
			parts = append(parts, fmt.Sprintf("p. %d", evidence.PageNumbers[0]))
		} else if n > 1 {
			parts = append(parts, fmt.Sprintf("pp. %d-%d",
				evidence.PageNumbers[0], evidence.PageNumbers[n-1]))
		}
		if len(parts) > 0 {
			cites = append(cites, strings.Join(parts, ", "))
		}
	}

	if len(cites) == 0 {
		return ""
	}
	return "(" + strings.Join(cites, "; ") + ")"
}

// ValidateDocument scans the document for claim patterns lacking a recorded
// citation within the proximity window. It returns true when no uncited
// claims remain, plus the matched substrings in scan order (duplicates
// preserved).
func (d *Drafter) ValidateDocument(document string) (bool, []string) {
	var uncited []string
	for _, pattern := range claimPatterns {
		for _, loc := range pattern.FindAllStringIndex(document, -1) {
			pos := loc[0]
			covered := false
			for _, c := range d.citations {
				if abs(c.Location-pos) < citationProximity {
					covered = true
					break
				}
			}
			if !covered {
				uncited = append(uncited, document[loc[0]:loc[1]])
			}
		}
	}
	return len(uncited) == 0, uncited
}

// GenerateExhibitList renders the exhibit list for every cited evidence
// source carrying an exhibit label, deduplicated by label, ascending.
func (d *Drafter) GenerateExhibitList() string {
	var ids []string
	for _, citation := range d.citations {
		ids = append(ids, citation.EvidenceIDs...)
	}
	return ExhibitListFor(d.registry, ids)
}

// ExhibitListFor renders the exhibit list a set of evidence references would
// produce, without an in-progress document. Sources missing from the
// registry or lacking an exhibit label are skipped; duplicates collapse to
// one entry per label, ascending.
func ExhibitListFor(registry *EvidenceRegistry, evidenceIDs []string) string {
	exhibits := make(map[string]models.EvidenceSource)
	for _, id := range evidenceIDs {
		if evidence, ok := registry.Get(id); ok && evidence.ExhibitLabel != "" {
			exhibits[evidence.ExhibitLabel] = evidence
		}
	}

	labels := make([]string, 0, len(exhibits))
	for label := range exhibits {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var builder strings.Builder
	builder.WriteString("EXHIBIT LIST\n")
	for _, label := range labels {
		builder.WriteString(fmt.Sprintf("Exhibit %s: %s\n", label, exhibits[label].Description))
	}
	return builder.String()
}

// Citations returns the append-only citation log in recording order
func (d *Drafter) Citations() []models.Citation {
	return d.citations
}

// AssembledText returns the document drafted so far
func (d *Drafter) AssembledText() string {
	return d.doc.String()
}

func preview(content string) string {
	if len(content) > contentPreviewLen {
		return content[:contentPreviewLen] + "..."
	}
	return content
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
