package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"courtdraft-backend/models"
)

var (
	ErrUnknownTaskType = errors.New("unknown task type")
	ErrChainExhausted  = errors.New("all models in fallback chain failed")
)

// defaultModel is the general-purpose fallback when context filtering
// leaves no candidate.
const defaultModel = models.ModelGPT4

// TaskFunc executes a task against a specific model. Call sites close over
// their own arguments (prompt, section, document text).
type TaskFunc func(ctx context.Context, model models.ModelType) (string, error)

// ModelRouter selects models for legal tasks by static capability and
// fallback tables, and executes tasks with ordered fallback on failure.
// The performance log is guarded by a mutex because assembly jobs run on
// separate goroutines; the tables themselves are immutable after
// construction.
type ModelRouter struct {
	profiles       map[models.ModelType]models.ModelProfile
	fallbackChains map[models.TaskType][]models.ModelType

	mu             sync.Mutex
	performanceLog []models.TaskResult
}

// NewModelRouter creates a router with the static capability and fallback
// tables.
func NewModelRouter() *ModelRouter {
	r := &ModelRouter{
		profiles:       modelProfiles(),
		fallbackChains: fallbackChains(),
	}
	// Chains are hand-curated: non-empty, duplicate-free, every member
	// profiled. A failure here is a programming error.
	for task, chain := range r.fallbackChains {
		if len(chain) == 0 {
			panic(fmt.Sprintf("fallback chain for %s is empty", task))
		}
		seen := make(map[models.ModelType]bool, len(chain))
		for _, model := range chain {
			if seen[model] {
				panic(fmt.Sprintf("fallback chain for %s repeats %s", task, model))
			}
			seen[model] = true
			if _, ok := r.profiles[model]; !ok {
				panic(fmt.Sprintf("fallback chain for %s names unprofiled model %s", task, model))
			}
		}
	}
	return r
}

func modelProfiles() map[models.ModelType]models.ModelProfile {
	return map[models.ModelType]models.ModelProfile{
		models.ModelGPT4: {
			ModelType: models.ModelGPT4,
			Strengths: []models.TaskType{
				models.TaskLegalAnalysis,
				models.TaskDocumentGeneration,
				models.TaskCitationChecking,
			},
			MaxContext:      128000,
			CostPer1KTokens: 0.03,
			AvgLatency:      2.5,
			Reliability:     0.95,
		},
		models.ModelClaude3Opus: {
			ModelType: models.ModelClaude3Opus,
			Strengths: []models.TaskType{
				models.TaskLegalResearch,
				models.TaskDocumentGeneration,
				models.TaskLegalAnalysis,
			},
			MaxContext:      200000,
			CostPer1KTokens: 0.015,
			AvgLatency:      3.0,
			Reliability:     0.93,
		},
		models.ModelClaude3Sonnet: {
			ModelType: models.ModelClaude3Sonnet,
			Strengths: []models.TaskType{
				models.TaskEvidenceReview,
				models.TaskCitationChecking,
			},
			MaxContext:      200000,
			CostPer1KTokens: 0.003,
			AvgLatency:      1.5,
			Reliability:     0.90,
		},
		models.ModelGemini15Pro: {
			ModelType: models.ModelGemini15Pro,
			Strengths: []models.TaskType{
				models.TaskDocumentGeneration,
				models.TaskEvidenceReview,
			},
			MaxContext:      1000000,
			CostPer1KTokens: 0.00125,
			AvgLatency:      2.0,
			Reliability:     0.92,
		},
		models.ModelPerplexity: {
			ModelType: models.ModelPerplexity,
			Strengths: []models.TaskType{
				models.TaskLegalResearch,
			},
			MaxContext:      16000,
			CostPer1KTokens: 0.001,
			AvgLatency:      2.0,
			Reliability:     0.88,
		},
		models.ModelLocalLlama: {
			ModelType: models.ModelLocalLlama,
			Strengths: []models.TaskType{
				models.TaskCitationChecking,
				models.TaskEvidenceReview,
			},
			MaxContext:      32000,
			CostPer1KTokens: 0.0, // local, no API cost
			AvgLatency:      5.0,
			Reliability:     0.75,
		},
	}
}

// fallbackChains maps each task type to its ordered candidate models,
// best-fit model first, ending in a general-purpose model.
func fallbackChains() map[models.TaskType][]models.ModelType {
	return map[models.TaskType][]models.ModelType{
		models.TaskLegalResearch: {
			models.ModelPerplexity,
			models.ModelClaude3Opus,
			models.ModelGPT4,
		},
		models.TaskDocumentGeneration: {
			models.ModelClaude3Opus,
			models.ModelGemini15Pro,
			models.ModelGPT4,
		},
		models.TaskLegalAnalysis: {
			models.ModelGPT4,
			models.ModelClaude3Opus,
			models.ModelClaude3Sonnet,
		},
		models.TaskEvidenceReview: {
			models.ModelClaude3Sonnet,
			models.ModelGemini15Pro,
			models.ModelGPT4,
		},
		models.TaskCitationChecking: {
			models.ModelClaude3Sonnet,
			models.ModelLocalLlama,
			models.ModelGPT4,
		},
	}
}

// Profile returns the capability profile for a model
func (r *ModelRouter) Profile(model models.ModelType) (models.ModelProfile, bool) {
	profile, ok := r.profiles[model]
	return profile, ok
}

// SelectModel picks the best model for a task. contextSize of zero means
// no context requirement. The task type vocabulary is closed: an
// unrecognized task type is an error, not a silent default.
func (r *ModelRouter) SelectModel(taskType models.TaskType, contextSize int, priority models.Priority) (models.ModelType, error) {
	chain, ok := r.fallbackChains[taskType]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTaskType, taskType)
	}

	candidates := chain
	if contextSize > 0 {
		filtered := make([]models.ModelType, 0, len(chain))
		for _, model := range chain {
			if r.profiles[model].MaxContext >= contextSize {
				filtered = append(filtered, model)
			}
		}
		candidates = filtered
	}

	if len(candidates) == 0 {
		return defaultModel, nil
	}

	// Ties break by earliest chain position: only a strict improvement
	// displaces the current pick.
	best := candidates[0]
	for _, model := range candidates[1:] {
		switch priority {
		case models.PriorityCost:
			if r.profiles[model].CostPer1KTokens < r.profiles[best].CostPer1KTokens {
				best = model
			}
		case models.PrioritySpeed:
			if r.profiles[model].AvgLatency < r.profiles[best].AvgLatency {
				best = model
			}
		default: // quality
			if r.profiles[model].Reliability > r.profiles[best].Reliability {
				best = model
			}
		}
	}

	return best, nil
}

// ExecuteWithFallback walks the task's fallback chain in order, invoking fn
// once per model until one succeeds. Every attempt is appended to the
// performance log. On exhaustion the final failure is returned along with
// ErrChainExhausted wrapping the last model error.
func (r *ModelRouter) ExecuteWithFallback(ctx context.Context, taskType models.TaskType, fn TaskFunc) (*models.TaskResult, error) {
	result, _, err := r.execute(ctx, taskType, fn)
	return result, err
}

// ExecuteWithFallbackVerbose behaves like ExecuteWithFallback but also
// returns the full per-model attempt sequence, preserving the diagnostic
// detail of every failed candidate.
func (r *ModelRouter) ExecuteWithFallbackVerbose(ctx context.Context, taskType models.TaskType, fn TaskFunc) (*models.TaskResult, []models.TaskResult, error) {
	return r.execute(ctx, taskType, fn)
}

func (r *ModelRouter) execute(ctx context.Context, taskType models.TaskType, fn TaskFunc) (*models.TaskResult, []models.TaskResult, error) {
	chain, ok := r.fallbackChains[taskType]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownTaskType, taskType)
	}

	var attempts []models.TaskResult
	for i, model := range chain {
		start := time.Now()
		output, err := fn(ctx, model)
		elapsed := time.Since(start)

		if err == nil {
			result := models.TaskResult{
				Success:       true,
				Output:        output,
				ModelUsed:     model,
				ExecutionTime: elapsed,
			}
			r.appendResult(result)
			attempts = append(attempts, result)
			return &result, attempts, nil
		}

		result := models.TaskResult{
			Success:       false,
			ModelUsed:     model,
			ExecutionTime: elapsed,
			Error:         err.Error(),
		}
		r.appendResult(result)
		attempts = append(attempts, result)

		if i == len(chain)-1 {
			return &result, attempts, fmt.Errorf("%w: last error from %s: %v",
				ErrChainExhausted, model, err)
		}
	}

	// Chains are validated non-empty at construction; unreachable.
	return nil, nil, fmt.Errorf("%w: %q has empty fallback chain", ErrUnknownTaskType, taskType)
}

func (r *ModelRouter) appendResult(result models.TaskResult) {
	r.mu.Lock()
	r.performanceLog = append(r.performanceLog, result)
	r.mu.Unlock()
}

// PerformanceLog returns a snapshot of the attempt log in append order
func (r *ModelRouter) PerformanceLog() []models.TaskResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	log := make([]models.TaskResult, len(r.performanceLog))
	copy(log, r.performanceLog)
	return log
}

// PerformanceStats summarizes the performance log
type PerformanceStats struct {
	TotalTasks       int                      `json:"total_tasks"`
	SuccessRate      float64                  `json:"success_rate"`
	ModelUsage       map[models.ModelType]int `json:"model_usage"`
	AvgExecutionTime time.Duration            `json:"avg_execution_time"`
}

// GetPerformanceStats aggregates the performance log. An empty log yields
// an explicitly empty result.
func (r *ModelRouter) GetPerformanceStats() PerformanceStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := PerformanceStats{
		ModelUsage: make(map[models.ModelType]int),
	}
	if len(r.performanceLog) == 0 {
		return stats
	}

	var successful int
	var total time.Duration
	for _, result := range r.performanceLog {
		if result.Success {
			successful++
		}
		stats.ModelUsage[result.ModelUsed]++
		total += result.ExecutionTime
	}

	stats.TotalTasks = len(r.performanceLog)
	stats.SuccessRate = float64(successful) / float64(stats.TotalTasks)
	stats.AvgExecutionTime = total / time.Duration(stats.TotalTasks)
	return stats
}
