package service

import (
	"context"
	"errors"
	"testing"

	"courtdraft-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectModel_UnknownTaskType(t *testing.T) {
	r := NewModelRouter()

	_, err := r.SelectModel("astrology", 0, models.PriorityQuality)
	require.ErrorIs(t, err, ErrUnknownTaskType)
}

func TestSelectModel_CostPriority(t *testing.T) {
	r := NewModelRouter()

	model, err := r.SelectModel(models.TaskLegalResearch, 0, models.PriorityCost)
	require.NoError(t, err)
	assert.Equal(t, models.ModelPerplexity, model)
}

func TestSelectModel_QualityPriority(t *testing.T) {
	r := NewModelRouter()

	model, err := r.SelectModel(models.TaskLegalResearch, 0, models.PriorityQuality)
	require.NoError(t, err)
	assert.Equal(t, models.ModelGPT4, model)
}

func TestSelectModel_SpeedPriority(t *testing.T) {
	r := NewModelRouter()

	model, err := r.SelectModel(models.TaskCitationChecking, 0, models.PrioritySpeed)
	require.NoError(t, err)
	assert.Equal(t, models.ModelClaude3Sonnet, model)
}

func TestSelectModel_ContextFilteringExcludesSmallModels(t *testing.T) {
	r := NewModelRouter()

	// 50k context excludes Perplexity (16k); cheapest survivor is Opus.
	model, err := r.SelectModel(models.TaskLegalResearch, 50000, models.PriorityCost)
	require.NoError(t, err)
	assert.Equal(t, models.ModelClaude3Opus, model)
}

func TestSelectModel_NoCandidateFallsBackToDefault(t *testing.T) {
	r := NewModelRouter()

	// Nothing in any chain holds 2M tokens.
	model, err := r.SelectModel(models.TaskLegalResearch, 2000000, models.PriorityQuality)
	require.NoError(t, err)
	assert.Equal(t, models.ModelGPT4, model)
}

func TestSelectModel_TieBreaksByChainOrder(t *testing.T) {
	r := NewModelRouter()

	// Perplexity and Gemini share 2.0s latency elsewhere, but within the
	// legal_research chain Perplexity comes first and only a strictly
	// faster model may displace it.
	model, err := r.SelectModel(models.TaskLegalResearch, 0, models.PrioritySpeed)
	require.NoError(t, err)
	assert.Equal(t, models.ModelPerplexity, model)
}

func TestExecuteWithFallback_FirstModelSucceeds(t *testing.T) {
	r := NewModelRouter()

	result, err := r.ExecuteWithFallback(context.Background(), models.TaskLegalResearch,
		func(ctx context.Context, model models.ModelType) (string, error) {
			return "output from " + string(model), nil
		})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, models.ModelPerplexity, result.ModelUsed)
	assert.Equal(t, "output from perplexity", result.Output)

	log := r.PerformanceLog()
	require.Len(t, log, 1)
	assert.True(t, log[0].Success)
}

func TestExecuteWithFallback_FallsThroughToSecondModel(t *testing.T) {
	r := NewModelRouter()

	result, err := r.ExecuteWithFallback(context.Background(), models.TaskLegalResearch,
		func(ctx context.Context, model models.ModelType) (string, error) {
			if model == models.ModelPerplexity {
				return "", errors.New("rate limited")
			}
			return "recovered", nil
		})
	require.NoError(t, err)

	assert.Equal(t, models.ModelClaude3Opus, result.ModelUsed)
	assert.Equal(t, "recovered", result.Output)

	// Both attempts are logged, failure first.
	log := r.PerformanceLog()
	require.Len(t, log, 2)
	assert.False(t, log[0].Success)
	assert.Equal(t, models.ModelPerplexity, log[0].ModelUsed)
	assert.Equal(t, "rate limited", log[0].Error)
	assert.True(t, log[1].Success)
}

func TestExecuteWithFallback_ChainExhausted(t *testing.T) {
	r := NewModelRouter()

	result, err := r.ExecuteWithFallback(context.Background(), models.TaskLegalResearch,
		func(ctx context.Context, model models.ModelType) (string, error) {
			return "", errors.New("everything is down")
		})
	require.ErrorIs(t, err, ErrChainExhausted)

	// The final failed attempt is returned for diagnostics.
	require.NotNil(t, result)
	assert.False(t, result.Success)
	assert.Equal(t, models.ModelGPT4, result.ModelUsed)

	assert.Len(t, r.PerformanceLog(), 3)
}

func TestExecuteWithFallbackVerbose_ReturnsAllAttempts(t *testing.T) {
	r := NewModelRouter()

	result, attempts, err := r.ExecuteWithFallbackVerbose(context.Background(), models.TaskDocumentGeneration,
		func(ctx context.Context, model models.ModelType) (string, error) {
			if model == models.ModelGPT4 {
				return "third time lucky", nil
			}
			return "", errors.New("unavailable")
		})
	require.NoError(t, err)

	assert.Equal(t, models.ModelGPT4, result.ModelUsed)
	require.Len(t, attempts, 3)
	assert.Equal(t, models.ModelClaude3Opus, attempts[0].ModelUsed)
	assert.Equal(t, models.ModelGemini15Pro, attempts[1].ModelUsed)
	assert.True(t, attempts[2].Success)
}

func TestExecuteWithFallback_UnknownTaskType(t *testing.T) {
	r := NewModelRouter()

	_, err := r.ExecuteWithFallback(context.Background(), "fortune_telling",
		func(ctx context.Context, model models.ModelType) (string, error) {
			t.Fatal("task function must not run for an unknown task type")
			return "", nil
		})
	require.ErrorIs(t, err, ErrUnknownTaskType)
	assert.Empty(t, r.PerformanceLog())
}

func TestGetPerformanceStats_EmptyLog(t *testing.T) {
	r := NewModelRouter()

	stats := r.GetPerformanceStats()
	assert.Zero(t, stats.TotalTasks)
	assert.Zero(t, stats.SuccessRate)
	assert.Empty(t, stats.ModelUsage)
}

func TestGetPerformanceStats_Aggregates(t *testing.T) {
	r := NewModelRouter()

	_, err := r.ExecuteWithFallback(context.Background(), models.TaskLegalResearch,
		func(ctx context.Context, model models.ModelType) (string, error) {
			if model == models.ModelPerplexity {
				return "", errors.New("down")
			}
			return "ok", nil
		})
	require.NoError(t, err)

	stats := r.GetPerformanceStats()
	assert.Equal(t, 2, stats.TotalTasks)
	assert.InDelta(t, 0.5, stats.SuccessRate, 1e-9)
	assert.Equal(t, 1, stats.ModelUsage[models.ModelPerplexity])
	assert.Equal(t, 1, stats.ModelUsage[models.ModelClaude3Opus])
}
