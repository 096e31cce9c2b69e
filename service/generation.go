package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"courtdraft-backend/models"

	"github.com/google/generative-ai-go/genai"
	openai "github.com/sashabaranov/go-openai"
)

var (
	ErrGenerationFailed   = errors.New("failed to generate content")
	ErrModelNotConfigured = errors.New("no backend configured for model")
)

const (
	anthropicAPI     = "https://api.anthropic.com/v1/messages"
	anthropicVersion = "2023-06-01"

	maxRetries     = 3
	initialBackoff = time.Second

	// Prompts past this length are truncated to stay inside context limits.
	maxPromptChars = 30000

	maxOutputTokens = 4096
)

const systemInstruction = "You are drafting one section of a court filing. " +
	"Use formal legal language and an objective, factual tone. State only what " +
	"the provided instructions assert; do not invent facts, dates, amounts, or " +
	"events. Plain text only, no markdown."

// SectionGenerator produces document text from a prompt using a specific
// model. The assembly pipeline depends on this interface so tests can
// substitute a stub.
type SectionGenerator interface {
	GenerateSection(ctx context.Context, model models.ModelType, prompt string) (string, error)
}

// GenerationService executes generation tasks against the configured model
// backends: Gemini through the genai SDK, OpenAI-compatible endpoints
// (OpenAI, Perplexity, local llama servers) through go-openai, and the
// Anthropic messages API over plain HTTP.
type GenerationService struct {
	geminiClient     *genai.Client
	openaiClient     *openai.Client
	perplexityClient *openai.Client
	localClient      *openai.Client
	anthropicKey     string
	httpClient       *http.Client
}

// GenerationServiceOption is a functional option for GenerationService
type GenerationServiceOption func(*GenerationService)

// GenerationWithGeminiClient sets the Gemini client
func GenerationWithGeminiClient(client *genai.Client) GenerationServiceOption {
	return func(s *GenerationService) {
		s.geminiClient = client
	}
}

// GenerationWithOpenAIClient sets the OpenAI client
func GenerationWithOpenAIClient(client *openai.Client) GenerationServiceOption {
	return func(s *GenerationService) {
		s.openaiClient = client
	}
}

// GenerationWithPerplexityClient sets the Perplexity client (the Perplexity
// API is OpenAI-compatible)
func GenerationWithPerplexityClient(client *openai.Client) GenerationServiceOption {
	return func(s *GenerationService) {
		s.perplexityClient = client
	}
}

// GenerationWithLocalClient sets the client for a local OpenAI-compatible
// llama server
func GenerationWithLocalClient(client *openai.Client) GenerationServiceOption {
	return func(s *GenerationService) {
		s.localClient = client
	}
}

// GenerationWithAnthropicKey sets the Anthropic API key
func GenerationWithAnthropicKey(key string) GenerationServiceOption {
	return func(s *GenerationService) {
		s.anthropicKey = key
	}
}

// NewGenerationService creates a new generation service
func NewGenerationService(opts ...GenerationServiceOption) *GenerationService {
	s := &GenerationService{
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateSection generates section text with the given model, retrying
// transient failures with exponential backoff.
func (s *GenerationService) GenerateSection(ctx context.Context, model models.ModelType, prompt string) (string, error) {
	if len(prompt) > maxPromptChars {
		log.Printf("Warning: prompt too long (%d chars), truncating to %d chars", len(prompt), maxPromptChars)
		prompt = prompt[:maxPromptChars] + "\n\n[Content truncated due to length...]"
	}

	var content string
	var err error
	backoff := initialBackoff
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(backoff)
			backoff *= 2
		}

		content, err = s.callBackend(ctx, model, prompt)
		if err == nil && content != "" {
			return content, nil
		}
		// Misconfiguration never heals on retry.
		if errors.Is(err, ErrModelNotConfigured) {
			return "", err
		}
	}

	if err != nil {
		return "", fmt.Errorf("%s failed after %d attempts: %w", model, maxRetries, err)
	}
	return "", ErrGenerationFailed
}

func (s *GenerationService) callBackend(ctx context.Context, model models.ModelType, prompt string) (string, error) {
	switch model {
	case models.ModelGemini15Pro:
		return s.callGemini(ctx, prompt)
	case models.ModelClaude3Opus:
		return s.callAnthropic(ctx, "claude-3-opus-20240229", prompt)
	case models.ModelClaude3Sonnet:
		return s.callAnthropic(ctx, "claude-3-sonnet-20240229", prompt)
	case models.ModelGPT4:
		return s.callOpenAICompatible(ctx, s.openaiClient, openai.GPT4, prompt)
	case models.ModelPerplexity:
		return s.callOpenAICompatible(ctx, s.perplexityClient, "sonar-pro", prompt)
	case models.ModelLocalLlama:
		return s.callOpenAICompatible(ctx, s.localClient, "llama3", prompt)
	default:
		return "", fmt.Errorf("%w: %s", ErrModelNotConfigured, model)
	}
}

func (s *GenerationService) callGemini(ctx context.Context, prompt string) (string, error) {
	if s.geminiClient == nil {
		return "", fmt.Errorf("%w: %s", ErrModelNotConfigured, models.ModelGemini15Pro)
	}

	gm := s.geminiClient.GenerativeModel("gemini-1.5-pro")
	gm.SetTemperature(0.2)
	gm.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemInstruction)},
	}

	resp, err := gm.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				builder.WriteString(string(text))
			}
		}
	}

	if builder.Len() == 0 {
		return "", errors.New("gemini returned no text candidates")
	}
	return builder.String(), nil
}

func (s *GenerationService) callOpenAICompatible(ctx context.Context, client *openai.Client, apiModel string, prompt string) (string, error) {
	if client == nil {
		return "", fmt.Errorf("%w: %s", ErrModelNotConfigured, apiModel)
	}

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       apiModel,
		Temperature: 0.2,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// callAnthropic calls the Anthropic messages API directly via HTTP
func (s *GenerationService) callAnthropic(ctx context.Context, apiModel string, prompt string) (string, error) {
	if s.anthropicKey == "" {
		return "", fmt.Errorf("%w: %s", ErrModelNotConfigured, apiModel)
	}

	reqBody := map[string]interface{}{
		"model":       apiModel,
		"max_tokens":  maxOutputTokens,
		"temperature": 0.2,
		"system":      systemInstruction,
		"messages": []map[string]interface{}{
			{"role": "user", "content": prompt},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", anthropicAPI, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", s.anthropicKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		log.Printf("Anthropic API error: Status %d, Body: %s", resp.StatusCode, string(bodyBytes))
		return "", fmt.Errorf("API error: %d - %s", resp.StatusCode, string(bodyBytes))
	}

	var apiResp struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		StopReason string `json:"stop_reason,omitempty"`
		Error      struct {
			Type    string `json:"type,omitempty"`
			Message string `json:"message,omitempty"`
		} `json:"error,omitempty"`
	}

	if err := json.Unmarshal(bodyBytes, &apiResp); err != nil {
		log.Printf("Failed to decode response. Body: %s", string(bodyBytes))
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if apiResp.Error.Message != "" {
		return "", fmt.Errorf("API error: %s (%s)", apiResp.Error.Message, apiResp.Error.Type)
	}

	var builder strings.Builder
	for _, block := range apiResp.Content {
		if block.Type == "text" {
			builder.WriteString(block.Text)
		}
	}

	if builder.Len() == 0 {
		return "", fmt.Errorf("API returned no text content (stop reason: %s)", apiResp.StopReason)
	}
	return builder.String(), nil
}
