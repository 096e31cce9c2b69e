package service

import (
	"context"
	"errors"

	"courtdraft-backend/models"
	"courtdraft-backend/repository"

	"github.com/google/uuid"
)

// FilingService handles business logic for filings
type FilingService struct {
	filingRepo    *repository.FilingRepository
	jurisdictions *JurisdictionRegistry
}

// FilingServiceOption is a functional option for FilingService
type FilingServiceOption func(*FilingService)

// WithFilingRepository sets the filing repository
func WithFilingRepository(repo *repository.FilingRepository) FilingServiceOption {
	return func(s *FilingService) {
		s.filingRepo = repo
	}
}

// WithFilingJurisdictions sets the jurisdiction registry
func WithFilingJurisdictions(registry *JurisdictionRegistry) FilingServiceOption {
	return func(s *FilingService) {
		s.jurisdictions = registry
	}
}

// NewFilingService creates a new filing service
func NewFilingService(opts ...FilingServiceOption) *FilingService {
	s := &FilingService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateFilingRequest represents a request to create a filing
type CreateFilingRequest struct {
	UserID       uuid.UUID
	CaseNumber   string
	Title        string
	CourtID      string
	DocumentType models.DocumentType
	Sections     models.FilingSections
}

// CreateFilingResult represents the result of creating a filing
type CreateFilingResult struct {
	Filing *models.Filing
}

// CreateFiling creates a new filing in draft status. The target court must
// already be registered.
func (s *FilingService) CreateFiling(ctx context.Context, req CreateFilingRequest) (*CreateFilingResult, error) {
	if s.filingRepo == nil {
		return nil, errors.New("filing repository not set")
	}
	if s.jurisdictions == nil {
		return nil, errors.New("jurisdiction registry not set")
	}

	if req.CourtID != "" {
		if _, ok := s.jurisdictions.GetProfile(req.CourtID); !ok {
			return nil, ErrUnknownCourt
		}
	}

	filing := &models.Filing{
		UserID:       req.UserID,
		Status:       models.FilingStatusDraft,
		CaseNumber:   req.CaseNumber,
		Title:        req.Title,
		CourtID:      req.CourtID,
		DocumentType: req.DocumentType,
		Sections:     req.Sections,
	}
	if filing.Sections == nil {
		filing.Sections = make(models.FilingSections, 0)
	}

	if err := s.filingRepo.Create(ctx, filing); err != nil {
		return nil, err
	}

	return &CreateFilingResult{Filing: filing}, nil
}

// GetFilingRequest represents a request to get a filing
type GetFilingRequest struct {
	ID uuid.UUID
}

// GetFilingResult represents the result of getting a filing
type GetFilingResult struct {
	Filing *models.Filing
}

// GetFiling retrieves a filing by ID
func (s *FilingService) GetFiling(ctx context.Context, req GetFilingRequest) (*GetFilingResult, error) {
	if s.filingRepo == nil {
		return nil, errors.New("filing repository not set")
	}

	filing, err := s.filingRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	return &GetFilingResult{Filing: filing}, nil
}

// UpdateFilingRequest represents a request to update a filing
type UpdateFilingRequest struct {
	Filing *models.Filing
}

// UpdateFilingResult represents the result of updating a filing
type UpdateFilingResult struct {
	Filing *models.Filing
}

// UpdateFiling updates a filing
func (s *FilingService) UpdateFiling(ctx context.Context, req UpdateFilingRequest) (*UpdateFilingResult, error) {
	if s.filingRepo == nil {
		return nil, errors.New("filing repository not set")
	}
	if s.jurisdictions == nil {
		return nil, errors.New("jurisdiction registry not set")
	}

	if req.Filing.CourtID != "" {
		if _, ok := s.jurisdictions.GetProfile(req.Filing.CourtID); !ok {
			return nil, ErrUnknownCourt
		}
	}

	if err := s.filingRepo.Update(ctx, req.Filing); err != nil {
		return nil, err
	}

	return &UpdateFilingResult{Filing: req.Filing}, nil
}

// ListFilingsRequest represents a request to list filings
type ListFilingsRequest struct {
	UserID uuid.UUID
	Status *models.FilingStatus
	Limit  int
	Offset int
}

// ListFilingsResult represents the result of listing filings
type ListFilingsResult struct {
	Filings []*models.Filing
}

// ListFilings lists filings for a user
func (s *FilingService) ListFilings(ctx context.Context, req ListFilingsRequest) (*ListFilingsResult, error) {
	if s.filingRepo == nil {
		return nil, errors.New("filing repository not set")
	}

	filings, err := s.filingRepo.ListByUserID(ctx, req.UserID, req.Status, req.Limit, req.Offset)
	if err != nil {
		return nil, err
	}

	return &ListFilingsResult{Filings: filings}, nil
}
