package handlers

import (
	"net/http"

	"courtdraft-backend/models"
	"courtdraft-backend/repository"
	"courtdraft-backend/service"

	"github.com/gin-gonic/gin"
)

// EvidenceHandler handles HTTP requests for evidence sources. Writes go
// through to the database and the in-memory registry so the drafter sees new
// sources immediately and they survive restarts.
type EvidenceHandler struct {
	registry     *service.EvidenceRegistry
	evidenceRepo *repository.EvidenceRepository
}

// NewEvidenceHandler creates a new evidence handler
func NewEvidenceHandler(registry *service.EvidenceRegistry, evidenceRepo *repository.EvidenceRepository) *EvidenceHandler {
	return &EvidenceHandler{
		registry:     registry,
		evidenceRepo: evidenceRepo,
	}
}

// RegisterEvidenceRequest represents the request body for registering evidence
type RegisterEvidenceRequest struct {
	SourceID     string `json:"source_id" binding:"required"`
	Description  string `json:"description" binding:"required"`
	FilePath     string `json:"file_path"`
	PageNumbers  []int  `json:"page_numbers"`
	ExhibitLabel string `json:"exhibit_label"`
}

// RegisterEvidence handles POST /api/evidence
func (h *EvidenceHandler) RegisterEvidence(c *gin.Context) {
	var req RegisterEvidenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	source := models.EvidenceSource{
		SourceID:     req.SourceID,
		Description:  req.Description,
		FilePath:     req.FilePath,
		PageNumbers:  req.PageNumbers,
		ExhibitLabel: req.ExhibitLabel,
	}

	if h.evidenceRepo != nil {
		if err := h.evidenceRepo.Upsert(c.Request.Context(), source); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": err.Error(),
				},
			})
			return
		}
	}
	h.registry.Register(source)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    source,
	})
}

// GetEvidence handles GET /api/evidence/:source_id
func (h *EvidenceHandler) GetEvidence(c *gin.Context) {
	sourceID := c.Param("source_id")

	source, ok := h.registry.Get(sourceID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Evidence source not found: " + sourceID,
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    source,
	})
}

// ListEvidence handles GET /api/evidence
func (h *EvidenceHandler) ListEvidence(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    h.registry.List(),
	})
}
