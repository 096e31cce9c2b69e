package service

import (
	"sync"

	"courtdraft-backend/models"
)

// EvidenceRegistry is the source of truth for citation validity. It is
// seeded at startup and extended through the evidence endpoints, which can
// race with assembly goroutines, so access is guarded by an RWMutex.
type EvidenceRegistry struct {
	mu      sync.RWMutex
	sources map[string]models.EvidenceSource
}

// NewEvidenceRegistry creates an empty evidence registry
func NewEvidenceRegistry() *EvidenceRegistry {
	return &EvidenceRegistry{
		sources: make(map[string]models.EvidenceSource),
	}
}

// Register upserts an evidence source by its source ID
func (r *EvidenceRegistry) Register(evidence models.EvidenceSource) {
	r.mu.Lock()
	r.sources[evidence.SourceID] = evidence
	r.mu.Unlock()
}

// Get retrieves an evidence source by ID
func (r *EvidenceRegistry) Get(sourceID string) (models.EvidenceSource, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	evidence, ok := r.sources[sourceID]
	return evidence, ok
}

// List returns all registered evidence sources
func (r *EvidenceRegistry) List() []models.EvidenceSource {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sources := make([]models.EvidenceSource, 0, len(r.sources))
	for _, evidence := range r.sources {
		sources = append(sources, evidence)
	}
	return sources
}

// ValidateCitations checks every ID against the registry. It does not stop
// at the first miss: the returned slice holds all unresolved IDs in the
// order they were given.
func (r *EvidenceRegistry) ValidateCitations(evidenceIDs []string) (bool, []string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var missing []string
	for _, id := range evidenceIDs {
		if _, ok := r.sources[id]; !ok {
			missing = append(missing, id)
		}
	}
	return len(missing) == 0, missing
}
