package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/recipegenie/backend/internal/types"
)

var (
	// ErrServiceBusy reports a non-success status from the generation
	// endpoint. Not retried; the caller asks the user to try again.
	ErrServiceBusy = errors.New("recipe service is busy")

	// ErrInvalidFormat reports a model payload that did not parse to a
	// recipe array.
	ErrInvalidFormat = errors.New("invalid recipe format received")
)

// GeminiService talks to the generative completion endpoint. One request
// per generation, no retries, no caching.
type GeminiService struct {
	apiKey string
	apiURL string
	client *http.Client
	logger *zap.Logger
}

// NewGeminiService creates a GeminiService for the configured endpoint.
func NewGeminiService(apiKey, apiURL string, logger *zap.Logger) (*GeminiService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key must be set")
	}
	if apiURL == "" {
		return nil, fmt.Errorf("gemini api url must be set")
	}
	return &GeminiService{
		apiKey: apiKey,
		apiURL: apiURL,
		client: &http.Client{Timeout: 90 * time.Second},
		logger: logger,
	}, nil
}

type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string `json:"responseMimeType"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate sends the prompt and returns at most count parsed recipes. The
// model may return more or fewer than asked: more is truncated, fewer is
// passed through as-is. Each recipe gets a server-assigned id.
func (s *GeminiService) Generate(ctx context.Context, prompt string, count int) ([]types.Recipe, error) {
	body, err := json.Marshal(geminiRequest{
		Contents:         []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: generationConfig{ResponseMimeType: "application/json"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s?key=%s", s.apiURL, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		s.logger.Error("generation endpoint returned error",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", respBody))
		return nil, fmt.Errorf("%w: status %d", ErrServiceBusy, resp.StatusCode)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: empty candidate list", ErrInvalidFormat)
	}

	return s.parseRecipes(parsed.Candidates[0].Content.Parts[0].Text, count)
}

// parseRecipes turns the model's text payload into typed recipes. Accepts a
// payload wrapped in ```json fences and truncates to count.
func (s *GeminiService) parseRecipes(text string, count int) ([]types.Recipe, error) {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	text = strings.TrimSpace(text)

	var raw json.RawMessage
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	trimmed := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(trimmed, "[") {
		return nil, fmt.Errorf("%w: expected an array", ErrInvalidFormat)
	}

	var recipes []types.Recipe
	if err := json.Unmarshal(raw, &recipes); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	if count <= 0 {
		count = 2
	}
	if len(recipes) > count {
		recipes = recipes[:count]
	}
	for i := range recipes {
		recipes[i].ID = uuid.New().String()
	}
	return recipes, nil
}
