package models

import "time"

// ModelType identifies an AI model in the capability table
type ModelType string

const (
	ModelGPT4          ModelType = "gpt-4"
	ModelClaude3Opus   ModelType = "claude-3-opus"
	ModelClaude3Sonnet ModelType = "claude-3-sonnet"
	ModelGemini15Pro   ModelType = "gemini-1.5-pro"
	ModelPerplexity    ModelType = "perplexity"
	ModelLocalLlama    ModelType = "local-llama"
)

// TaskType identifies a legal task category. The vocabulary is closed:
// unrecognized task types are rejected by the router.
type TaskType string

const (
	TaskLegalResearch      TaskType = "legal_research"
	TaskDocumentGeneration TaskType = "document_generation"
	TaskLegalAnalysis      TaskType = "legal_analysis"
	TaskEvidenceReview     TaskType = "evidence_review"
	TaskCitationChecking   TaskType = "citation_checking"
)

// Priority selects the model-ranking policy
type Priority string

const (
	PriorityQuality Priority = "quality"
	PriorityCost    Priority = "cost"
	PrioritySpeed   Priority = "speed"
)

// ModelProfile is an AI model capability profile. Constructed once,
// never mutated.
type ModelProfile struct {
	ModelType       ModelType  `json:"model_type"`
	Strengths       []TaskType `json:"strengths"`
	MaxContext      int        `json:"max_context"` // tokens
	CostPer1KTokens float64    `json:"cost_per_1k_tokens"`
	AvgLatency      float64    `json:"avg_latency"` // seconds
	Reliability     float64    `json:"reliability"` // 0-1
}

// TaskResult is the outcome of one model execution attempt. Appended to
// the router's performance log; never mutated.
type TaskResult struct {
	Success       bool          `json:"success"`
	Output        string        `json:"output,omitempty"`
	ModelUsed     ModelType     `json:"model_used"`
	ExecutionTime time.Duration `json:"execution_time"`
	TokensUsed    int           `json:"tokens_used"`
	Error         string        `json:"error,omitempty"`
}
