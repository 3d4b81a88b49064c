package claude

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
	apiURL     = "https://api.anthropic.com/v1/messages"
	apiVersion = "2023-06-01"
)

// Model implements port.EssayModel using the Anthropic Messages API.
type Model struct {
	apiKey   string
	model    string
	endpoint string
	trait    domain.Trait
	client   *http.Client
}

// NewModel creates a Claude-backed trait model from a provider config.
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
		model = "claude-sonnet-4-20250514"
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
		"model":       m.model,
		"max_tokens":  64,
		"temperature": 0,
		"system":      essaymodel.BuildTraitPrompt(m.trait),
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": text,
			},
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
	req.Header.Set("x-api-key", m.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := m.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("calling anthropic API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("anthropic API error (status %d): %s", resp.StatusCode, string(respBody))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := domain.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return 0, domain.NewRateLimitError("claude", baseErr, retryAfter)
		}
		return 0, baseErr
	}

	return parseResponse(respBody)
}

// apiResponse models the Anthropic Messages API response.
type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func parseResponse(body []byte) (float64, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("unmarshaling response: %w", err)
	}
	for _, c := range resp.Content {
		if c.Type == "text" {
			return essaymodel.ParseScore(c.Text)
		}
	}
	return 0, fmt.Errorf("empty response from API")
}
