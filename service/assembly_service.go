package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"courtdraft-backend/models"
	"courtdraft-backend/repository"
	"courtdraft-backend/storage"

	"github.com/google/uuid"
)

var (
	ErrFilingNotFound    = errors.New("filing not found")
	ErrNoSections        = errors.New("filing has no sections to assemble")
	ErrJobCreationFailed = errors.New("failed to create assembly job")
	ErrJobNotFound       = errors.New("assembly job not found")
)

const (
	stepAssembling      = "Assembling Document"
	stepClaimScan       = "Claim Scan"
	stepComplianceCheck = "Compliance Check"
)

// AssemblyService turns a filing's section plan into an assembled, evidence
// bound document. Kickoff is fast and returns a job ID; the work happens on
// a background goroutine that drafts each section through the model router,
// binds evidence through the drafter, and finishes with the claim scan and
// the court-rule compliance check.
type AssemblyService struct {
	filingRepo    *repository.FilingRepository
	jobRepo       *repository.AssemblyJobRepository
	evidence      *EvidenceRegistry
	jurisdictions *JurisdictionRegistry
	validator     *ComplianceValidator
	router        *ModelRouter
	generator     SectionGenerator
	docStorage    storage.Storage
}

// AssemblyServiceOption is a functional option for AssemblyService
type AssemblyServiceOption func(*AssemblyService)

// AssemblyWithFilingRepository sets the filing repository
func AssemblyWithFilingRepository(repo *repository.FilingRepository) AssemblyServiceOption {
	return func(s *AssemblyService) {
		s.filingRepo = repo
	}
}

// AssemblyWithJobRepository sets the assembly job repository
func AssemblyWithJobRepository(repo *repository.AssemblyJobRepository) AssemblyServiceOption {
	return func(s *AssemblyService) {
		s.jobRepo = repo
	}
}

// AssemblyWithEvidenceRegistry sets the evidence registry
func AssemblyWithEvidenceRegistry(registry *EvidenceRegistry) AssemblyServiceOption {
	return func(s *AssemblyService) {
		s.evidence = registry
	}
}

// AssemblyWithJurisdictionRegistry sets the jurisdiction registry
func AssemblyWithJurisdictionRegistry(registry *JurisdictionRegistry) AssemblyServiceOption {
	return func(s *AssemblyService) {
		s.jurisdictions = registry
	}
}

// AssemblyWithComplianceValidator sets the compliance validator
func AssemblyWithComplianceValidator(validator *ComplianceValidator) AssemblyServiceOption {
	return func(s *AssemblyService) {
		s.validator = validator
	}
}

// AssemblyWithModelRouter sets the model router
func AssemblyWithModelRouter(router *ModelRouter) AssemblyServiceOption {
	return func(s *AssemblyService) {
		s.router = router
	}
}

// AssemblyWithSectionGenerator sets the section generator
func AssemblyWithSectionGenerator(generator SectionGenerator) AssemblyServiceOption {
	return func(s *AssemblyService) {
		s.generator = generator
	}
}

// AssemblyWithDocumentStorage sets the blob storage used to archive
// assembled documents
func AssemblyWithDocumentStorage(docStorage storage.Storage) AssemblyServiceOption {
	return func(s *AssemblyService) {
		s.docStorage = docStorage
	}
}

// NewAssemblyService creates a new assembly service
func NewAssemblyService(opts ...AssemblyServiceOption) *AssemblyService {
	s := &AssemblyService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartAssemblyRequest represents a request to assemble a filing
type StartAssemblyRequest struct {
	FilingID uuid.UUID
}

// StartAssemblyResult represents the result of creating an assembly job
type StartAssemblyResult struct {
	JobID uuid.UUID
}

// StartAssembly validates the filing and creates an assembly job. It must
// stay fast; the caller spawns ProcessAssembly separately.
func (s *AssemblyService) StartAssembly(ctx context.Context, req StartAssemblyRequest) (*StartAssemblyResult, error) {
	if s.filingRepo == nil {
		return nil, errors.New("filing repository not set")
	}
	if s.jobRepo == nil {
		return nil, errors.New("assembly job repository not set")
	}
	if s.jurisdictions == nil {
		return nil, errors.New("jurisdiction registry not set")
	}

	filing, err := s.filingRepo.GetByID(ctx, req.FilingID)
	if err != nil {
		return nil, ErrFilingNotFound
	}

	if _, ok := s.jurisdictions.GetProfile(filing.CourtID); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCourt, filing.CourtID)
	}
	if len(filing.Sections) == 0 {
		return nil, ErrNoSections
	}

	job := &models.AssemblyJob{
		ID:       uuid.New(),
		FilingID: req.FilingID,
		Status:   models.JobStatusPending,
		Steps:    initializeSteps(filing.Sections),
	}

	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, ErrJobCreationFailed
	}

	return &StartAssemblyResult{JobID: job.ID}, nil
}

// GetJobStatusRequest represents a request to get job status
type GetJobStatusRequest struct {
	JobID uuid.UUID
}

// GetJobStatusResult represents the result of getting job status
type GetJobStatusResult struct {
	Job *models.AssemblyJob
}

// GetJobStatus retrieves the status of an assembly job
func (s *AssemblyService) GetJobStatus(ctx context.Context, req GetJobStatusRequest) (*GetJobStatusResult, error) {
	if s.jobRepo == nil {
		return nil, errors.New("assembly job repository not set")
	}

	job, err := s.jobRepo.GetByID(ctx, req.JobID)
	if err != nil {
		return nil, ErrJobNotFound
	}

	return &GetJobStatusResult{Job: job}, nil
}

// GetLatestJobRequest represents a request for a filing's most recent job
type GetLatestJobRequest struct {
	FilingID uuid.UUID
}

// GetLatestJobResult represents the result of getting the latest job
type GetLatestJobResult struct {
	Job *models.AssemblyJob
}

// GetLatestJob retrieves the most recent assembly job for a filing
func (s *AssemblyService) GetLatestJob(ctx context.Context, req GetLatestJobRequest) (*GetLatestJobResult, error) {
	if s.jobRepo == nil {
		return nil, errors.New("assembly job repository not set")
	}

	job, err := s.jobRepo.GetLatestByFilingID(ctx, req.FilingID)
	if err != nil {
		return nil, ErrJobNotFound
	}

	return &GetLatestJobResult{Job: job}, nil
}

func initializeSteps(sections models.FilingSections) models.AssemblySteps {
	steps := make(models.AssemblySteps, 0, len(sections)+3)
	for _, section := range sections {
		steps = append(steps, models.AssemblyStep{
			Name:   draftStepName(section),
			Status: "pending",
		})
	}
	steps = append(steps,
		models.AssemblyStep{Name: stepAssembling, Status: "pending"},
		models.AssemblyStep{Name: stepClaimScan, Status: "pending"},
		models.AssemblyStep{Name: stepComplianceCheck, Status: "pending"},
	)
	return steps
}

func draftStepName(section models.FilingSection) string {
	return "Drafting " + section.Heading
}

// ProcessAssembly performs the assembly work in the background. It runs in
// a goroutine and can take as long as the slowest model in the fallback
// chains.
func (s *AssemblyService) ProcessAssembly(ctx context.Context, jobID uuid.UUID) error {
	if s.jobRepo == nil || s.filingRepo == nil {
		return errors.New("repositories not set")
	}
	if s.evidence == nil || s.validator == nil || s.router == nil || s.generator == nil {
		return errors.New("assembly pipeline not fully configured")
	}

	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("failed to load assembly job: %w", err)
	}

	filing, err := s.filingRepo.GetByID(ctx, job.FilingID)
	if err != nil {
		s.markJobFailed(ctx, jobID, "failed to load filing: "+err.Error())
		return err
	}

	if err := s.jobRepo.UpdateStatus(ctx, jobID, models.JobStatusInProgress); err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}
	if err := s.filingRepo.UpdateStatus(ctx, filing.ID, models.FilingStatusAssembling); err != nil {
		s.markJobFailed(ctx, jobID, "failed to update filing status: "+err.Error())
		return err
	}

	// One drafter per assembly: it owns this document's citation log.
	drafter := NewDrafter(s.evidence)

	for _, section := range filing.Sections {
		stepName := draftStepName(section)
		if err := s.updateStepStatus(ctx, jobID, stepName, "in_progress", ""); err != nil {
			s.markJobFailed(ctx, jobID, "failed to update step: "+err.Error())
			return err
		}

		prompt := buildSectionPrompt(filing, section, s.evidence)
		result, err := s.router.ExecuteWithFallback(ctx, models.TaskDocumentGeneration,
			func(ctx context.Context, model models.ModelType) (string, error) {
				return s.generator.GenerateSection(ctx, model, prompt)
			})
		if err != nil {
			s.markJobFailed(ctx, jobID, fmt.Sprintf("failed to generate section %q: %v", section.Heading, err))
			return fmt.Errorf("failed to generate section %q: %w", section.Heading, err)
		}

		drafter.WriteHeading(strings.ToUpper(section.Heading))

		// The zero-hallucination gate: generated text enters the document
		// only if its evidence resolves in the registry.
		if _, err := drafter.DraftParagraph(result.Output, section.EvidenceIDs, section.RequireCitation); err != nil {
			s.markJobFailed(ctx, jobID, fmt.Sprintf("evidence binding failed for %q: %v", section.Heading, err))
			return fmt.Errorf("evidence binding failed for %q: %w", section.Heading, err)
		}

		if err := s.updateStepStatus(ctx, jobID, stepName, "completed", ""); err != nil {
			s.markJobFailed(ctx, jobID, "failed to update step: "+err.Error())
			return err
		}
	}

	// Assemble the full document around the drafted body.
	if err := s.updateStepStatus(ctx, jobID, stepAssembling, "in_progress", ""); err != nil {
		s.markJobFailed(ctx, jobID, "failed to update step: "+err.Error())
		return err
	}
	body := drafter.AssembledText()
	assembled := s.assembleFiling(filing, body, drafter.GenerateExhibitList())
	if err := s.updateStepStatus(ctx, jobID, stepAssembling, "completed", ""); err != nil {
		s.markJobFailed(ctx, jobID, "failed to update step: "+err.Error())
		return err
	}

	// Claim scan runs over the drafted body, where citation locations are
	// exact offsets.
	if err := s.updateStepStatus(ctx, jobID, stepClaimScan, "in_progress", ""); err != nil {
		s.markJobFailed(ctx, jobID, "failed to update step: "+err.Error())
		return err
	}
	scanClean, uncited := drafter.ValidateDocument(body)
	scanNote := "no uncited claims"
	if !scanClean {
		scanNote = fmt.Sprintf("%d uncited claim(s) flagged", len(uncited))
	}
	if err := s.updateStepStatus(ctx, jobID, stepClaimScan, "completed", scanNote); err != nil {
		s.markJobFailed(ctx, jobID, "failed to update step: "+err.Error())
		return err
	}

	if err := s.updateStepStatus(ctx, jobID, stepComplianceCheck, "in_progress", ""); err != nil {
		s.markJobFailed(ctx, jobID, "failed to update step: "+err.Error())
		return err
	}
	compliant, violations, err := s.validator.ValidateContent(assembled, filing.CourtID)
	if err != nil {
		s.markJobFailed(ctx, jobID, "compliance check failed: "+err.Error())
		return err
	}
	complianceNote := "fully compliant"
	if !compliant {
		complianceNote = fmt.Sprintf("%d violation(s) found", len(violations))
	}
	if err := s.updateStepStatus(ctx, jobID, stepComplianceCheck, "completed", complianceNote); err != nil {
		s.markJobFailed(ctx, jobID, "failed to update step: "+err.Error())
		return err
	}

	report := models.ComplianceReport{
		Compliant:     compliant && scanClean,
		Violations:    violations,
		UncitedClaims: uncited,
	}
	if err := s.filingRepo.UpdateAssembled(ctx, filing.ID, assembled, report); err != nil {
		s.markJobFailed(ctx, jobID, "failed to store assembled content: "+err.Error())
		return err
	}

	// Archive a copy in blob storage. The database row is authoritative, so
	// an archive failure does not fail the job.
	if s.docStorage != nil {
		name := fmt.Sprintf("filing_%s.txt", filing.ID)
		if _, err := storage.UploadText(ctx, s.docStorage, filing.ID, name, assembled); err != nil {
			log.Printf("Warning: failed to archive assembled filing %s: %v", filing.ID, err)
		}
	}

	if err := s.jobRepo.Complete(ctx, jobID); err != nil {
		return fmt.Errorf("failed to complete job: %w", err)
	}
	return nil
}

// updateStepStatus updates the status of a specific step in the assembly job
func (s *AssemblyService) updateStepStatus(ctx context.Context, jobID uuid.UUID, stepName, status, description string) error {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return err
	}

	steps := job.Steps
	var currentStep string
	if job.CurrentStep != nil {
		currentStep = *job.CurrentStep
	}

	for i := range steps {
		if steps[i].Name == stepName {
			steps[i].Status = status
			if description != "" {
				steps[i].Description = description
			}
			if status == "in_progress" {
				currentStep = stepName
			}
			break
		}
	}

	return s.jobRepo.UpdateProgress(ctx, jobID, currentStep, steps)
}

// markJobFailed marks a job as failed with an error message
func (s *AssemblyService) markJobFailed(ctx context.Context, jobID uuid.UUID, errorMessage string) {
	if err := s.jobRepo.Fail(ctx, jobID, errorMessage); err != nil {
		log.Printf("Failed to mark assembly job %s as failed: %v", jobID, err)
	}
}

// buildSectionPrompt gives the model the section plan plus the descriptions
// of the evidence it may rely on. Citation formatting is not the model's
// job; the drafter appends the parenthetical afterwards.
func buildSectionPrompt(filing *models.Filing, section models.FilingSection, registry *EvidenceRegistry) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("DOCUMENT: %s (%s), case %s\n",
		filing.Title, filing.DocumentType, filing.CaseNumber))
	builder.WriteString(fmt.Sprintf("SECTION: %s\n\n", section.Heading))
	builder.WriteString("INSTRUCTIONS:\n")
	builder.WriteString(section.Instructions)
	builder.WriteString("\n")

	if len(section.EvidenceIDs) > 0 {
		builder.WriteString("\nSUPPORTING EVIDENCE (assert only what these support):\n")
		for _, id := range section.EvidenceIDs {
			if evidence, ok := registry.Get(id); ok {
				builder.WriteString(fmt.Sprintf("- %s\n", evidence.Description))
			}
		}
	}

	builder.WriteString("\nWrite the section text now, as flowing paragraphs without a heading.")
	return builder.String()
}

// assembleFiling wraps the drafted body in a caption and the exhibit list
func (s *AssemblyService) assembleFiling(filing *models.Filing, body, exhibitList string) string {
	var builder strings.Builder

	if profile, ok := s.jurisdictions.GetProfile(filing.CourtID); ok {
		builder.WriteString(strings.ToUpper(profile.CourtName) + "\n")
	}
	if filing.CaseNumber != "" {
		builder.WriteString("Case No. " + filing.CaseNumber + "\n")
	}
	builder.WriteString("\n" + strings.ToUpper(filing.Title) + "\n\n")

	builder.WriteString(body)
	builder.WriteString(exhibitList)

	return builder.String()
}
