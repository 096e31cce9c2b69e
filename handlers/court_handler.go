package handlers

import (
	"net/http"

	"courtdraft-backend/models"
	"courtdraft-backend/service"

	"github.com/gin-gonic/gin"
)

// CourtHandler handles HTTP requests for court profiles and router
// diagnostics
type CourtHandler struct {
	jurisdictions *service.JurisdictionRegistry
	router        *service.ModelRouter
}

// NewCourtHandler creates a new court handler
func NewCourtHandler(jurisdictions *service.JurisdictionRegistry, router *service.ModelRouter) *CourtHandler {
	return &CourtHandler{
		jurisdictions: jurisdictions,
		router:        router,
	}
}

// ListCourts handles GET /api/courts
func (h *CourtHandler) ListCourts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    h.jurisdictions.ListCourts(),
	})
}

// GetCourt handles GET /api/courts/:id
func (h *CourtHandler) GetCourt(c *gin.Context) {
	courtID := c.Param("id")

	profile, ok := h.jurisdictions.GetProfile(courtID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Court not registered: " + courtID,
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    profile,
	})
}

// RegisterCourt handles POST /api/courts
func (h *CourtHandler) RegisterCourt(c *gin.Context) {
	var profile models.CourtProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	if err := h.jurisdictions.RegisterProfile(&profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_PROFILE",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    profile,
	})
}

// GetRouterStats handles GET /api/router/stats
func (h *CourtHandler) GetRouterStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    h.router.GetPerformanceStats(),
	})
}
