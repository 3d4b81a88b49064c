package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"iga/internal/config"
	"iga/internal/domain"
	"iga/internal/essaymodel"
)

const (
	apiURL = "https://api.openai.com/v1/chat/completions"
)

// Model implements port.EssayModel using the OpenAI Chat Completions API.
type Model struct {
	apiKey   string
	model    string
	endpoint string
	trait    domain.Trait
	client   *http.Client
}

// NewModel creates an OpenAI-backed trait model from a provider config.
func NewModel(cfg *config.ModelProviderConfig, trait domain.Trait) *Model {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = apiURL
	}
	return newModel(cfg, trait, endpoint)
}

// NewModelWithEndpoint creates a model pointing at a custom API endpoint (for testing).
func NewModelWithEndpoint(cfg *config.ModelProviderConfig, trait domain.Trait, endpoint string) *Model {
	return newModel(cfg, trait, endpoint)
}

func newModel(cfg *config.ModelProviderConfig, trait domain.Trait, endpoint string) *Model {
	model := cfg.DefaultModel
	if model == "" {
		model = "gpt-4o"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Model{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		trait:    trait,
		client:   &http.Client{Timeout: timeout},
	}
}

func (m *Model) Evaluate(ctx context.Context, text string) (float64, error) {
	reqBody := map[string]interface{}{
		"model":                 m.model,
		"max_completion_tokens": 64,
		"temperature":           0,
		"messages": []map[string]interface{}{
			{"role": "system", "content": essaymodel.BuildTraitPrompt(m.trait)},
			{"role": "user", "content": text},
		},
		"response_format": map[string]interface{}{
			"type": "json_object",
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return 0, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("calling openai API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("openai API error (status %d): %s", resp.StatusCode, string(respBody))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := domain.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return 0, domain.NewRateLimitError("openai", baseErr, retryAfter)
		}
		return 0, baseErr
	}

	return parseResponse(respBody)
}

// apiResponse models the OpenAI Chat Completions API response.
type apiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func parseResponse(body []byte) (float64, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("unmarshaling response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return 0, fmt.Errorf("empty response from API: no choices")
	}
	if resp.Choices[0].FinishReason == "length" {
		return 0, fmt.Errorf("output truncated (finish_reason: length)")
	}
	return essaymodel.ParseScore(resp.Choices[0].Message.Content)
}
