package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"courtdraft-backend/models"
	"courtdraft-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// FilingHandler handles HTTP requests for filings and their assembly jobs
type FilingHandler struct {
	filingService   *service.FilingService
	assemblyService *service.AssemblyService
	validator       *service.ComplianceValidator
	evidence        *service.EvidenceRegistry
}

// NewFilingHandler creates a new filing handler
func NewFilingHandler(filingService *service.FilingService, assemblyService *service.AssemblyService, validator *service.ComplianceValidator, evidence *service.EvidenceRegistry) *FilingHandler {
	return &FilingHandler{
		filingService:   filingService,
		assemblyService: assemblyService,
		validator:       validator,
		evidence:        evidence,
	}
}

// CreateFilingRequest represents the request body for creating a filing
type CreateFilingRequest struct {
	UserID       string                 `json:"user_id" binding:"required"`
	CaseNumber   string                 `json:"case_number"`
	Title        string                 `json:"title" binding:"required"`
	CourtID      string                 `json:"court_id" binding:"required"`
	DocumentType string                 `json:"document_type" binding:"required"`
	Sections     []models.FilingSection `json:"sections"`
}

// CreateFiling handles POST /api/filings
func (h *FilingHandler) CreateFiling(c *gin.Context) {
	var req CreateFilingRequest
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

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_USER_ID",
				"message": "Invalid user_id format",
			},
		})
		return
	}

	result, err := h.filingService.CreateFiling(c.Request.Context(), service.CreateFilingRequest{
		UserID:       userID,
		CaseNumber:   req.CaseNumber,
		Title:        req.Title,
		CourtID:      req.CourtID,
		DocumentType: models.DocumentType(req.DocumentType),
		Sections:     req.Sections,
	})
	if err != nil {
		if errors.Is(err, service.ErrUnknownCourt) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNKNOWN_COURT",
					"message": "Court ID is not registered: " + req.CourtID,
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CREATE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    result.Filing,
	})
}

// GetFiling handles GET /api/filings/:id
func (h *FilingHandler) GetFiling(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid filing ID format",
			},
		})
		return
	}

	result, err := h.filingService.GetFiling(c.Request.Context(), service.GetFilingRequest{ID: id})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Filing not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Filing,
	})
}

// ListFilings handles GET /api/filings?user_id=...
func (h *FilingHandler) ListFilings(c *gin.Context) {
	userID, err := uuid.Parse(c.Query("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_USER_ID",
				"message": "Valid user_id query parameter is required",
			},
		})
		return
	}

	var status *models.FilingStatus
	if s := c.Query("status"); s != "" {
		fs := models.FilingStatus(s)
		status = &fs
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	result, err := h.filingService.ListFilings(c.Request.Context(), service.ListFilingsRequest{
		UserID: userID,
		Status: status,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "LIST_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Filings,
	})
}

// UpdateFilingRequest represents the request body for updating a filing
type UpdateFilingRequest struct {
	CaseNumber   *string                 `json:"case_number"`
	Title        *string                 `json:"title"`
	CourtID      *string                 `json:"court_id"`
	DocumentType *string                 `json:"document_type"`
	Sections     *[]models.FilingSection `json:"sections"`
}

// UpdateFiling handles PUT /api/filings/:id
func (h *FilingHandler) UpdateFiling(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid filing ID format",
			},
		})
		return
	}

	existing, err := h.filingService.GetFiling(c.Request.Context(), service.GetFilingRequest{ID: id})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Filing not found",
			},
		})
		return
	}

	var req UpdateFilingRequest
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

	filing := existing.Filing
	if req.CaseNumber != nil {
		filing.CaseNumber = *req.CaseNumber
	}
	if req.Title != nil {
		filing.Title = *req.Title
	}
	if req.CourtID != nil {
		filing.CourtID = *req.CourtID
	}
	if req.DocumentType != nil {
		filing.DocumentType = models.DocumentType(*req.DocumentType)
	}
	if req.Sections != nil {
		filing.Sections = *req.Sections
	}

	result, err := h.filingService.UpdateFiling(c.Request.Context(), service.UpdateFilingRequest{Filing: filing})
	if err != nil {
		if errors.Is(err, service.ErrUnknownCourt) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNKNOWN_COURT",
					"message": "Court ID is not registered: " + filing.CourtID,
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPDATE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Filing,
	})
}

// AssembleFiling handles POST /api/filings/:id/assemble. It creates the
// assembly job and returns immediately; the work runs on a goroutine.
func (h *FilingHandler) AssembleFiling(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid filing ID format",
			},
		})
		return
	}

	result, err := h.assemblyService.StartAssembly(c.Request.Context(), service.StartAssemblyRequest{FilingID: id})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFilingNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Filing not found",
				},
			})
		case errors.Is(err, service.ErrUnknownCourt):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNKNOWN_COURT",
					"message": err.Error(),
				},
			})
		case errors.Is(err, service.ErrNoSections):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NO_SECTIONS",
					"message": "Filing has no sections to assemble",
				},
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ASSEMBLY_START_FAILED",
					"message": err.Error(),
				},
			})
		}
		return
	}

	// Background work must not inherit the request's cancellation.
	go func(jobID uuid.UUID) {
		if err := h.assemblyService.ProcessAssembly(context.Background(), jobID); err != nil {
			log.Printf("Assembly job %s failed: %v", jobID, err)
		}
	}(result.JobID)

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"data": gin.H{
			"job_id": result.JobID,
			"status": models.JobStatusPending,
		},
	})
}

// GetAssemblyJob handles GET /api/assembly-jobs/:id
func (h *FilingHandler) GetAssemblyJob(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid job ID format",
			},
		})
		return
	}

	result, err := h.assemblyService.GetJobStatus(c.Request.Context(), service.GetJobStatusRequest{JobID: id})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Assembly job not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Job,
	})
}

// GetLatestAssemblyJob handles GET /api/filings/:id/assembly-job, returning
// the filing's most recent assembly job.
func (h *FilingHandler) GetLatestAssemblyJob(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid filing ID format",
			},
		})
		return
	}

	result, err := h.assemblyService.GetLatestJob(c.Request.Context(), service.GetLatestJobRequest{FilingID: id})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "No assembly job found for filing",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Job,
	})
}

// GetFilingExhibits handles GET /api/filings/:id/exhibits, rendering the
// exhibit list the filing's section plan would produce.
func (h *FilingHandler) GetFilingExhibits(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid filing ID format",
			},
		})
		return
	}

	result, err := h.filingService.GetFiling(c.Request.Context(), service.GetFilingRequest{ID: id})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Filing not found",
			},
		})
		return
	}

	var evidenceIDs []string
	for _, section := range result.Filing.Sections {
		evidenceIDs = append(evidenceIDs, section.EvidenceIDs...)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"exhibit_list": service.ExhibitListFor(h.evidence, evidenceIDs),
		},
	})
}

// ValidateStoredRequest represents the request body for validating a
// document held in blob storage
type ValidateStoredRequest struct {
	StoragePath string `json:"storage_path" binding:"required"`
	CourtID     string `json:"court_id" binding:"required"`
}

// ValidateStored handles POST /api/compliance/validate-stored, reading a
// document from blob storage and checking it against a court profile. An
// absent object validates as empty text.
func (h *FilingHandler) ValidateStored(c *gin.Context) {
	var req ValidateStoredRequest
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

	compliant, violations, err := h.validator.ValidateStored(c.Request.Context(), req.StoragePath, req.CourtID)
	if err != nil {
		if errors.Is(err, service.ErrUnknownCourt) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNKNOWN_COURT",
					"message": err.Error(),
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"compliant":  compliant,
			"violations": violations,
		},
	})
}

// ValidateFiling handles POST /api/filings/:id/validate, re-running the
// compliance checks against the stored assembled content.
func (h *FilingHandler) ValidateFiling(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid filing ID format",
			},
		})
		return
	}

	result, err := h.filingService.GetFiling(c.Request.Context(), service.GetFilingRequest{ID: id})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Filing not found",
			},
		})
		return
	}

	filing := result.Filing
	if filing.AssembledContent == nil {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_ASSEMBLED",
				"message": "Filing has not been assembled yet",
			},
		})
		return
	}

	compliant, violations, err := h.validator.ValidateContent(*filing.AssembledContent, filing.CourtID)
	if err != nil {
		if errors.Is(err, service.ErrUnknownCourt) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNKNOWN_COURT",
					"message": err.Error(),
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"compliant":  compliant,
			"violations": violations,
		},
	})
}
