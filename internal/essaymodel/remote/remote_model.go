// Package remote talks to a self-hosted essay scoring service that exposes
// one trained model per trait.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"iga/internal/config"
	"iga/internal/domain"
)

// Model implements port.EssayModel against POST {endpoint}/evaluate.
type Model struct {
	endpoint string
	apiKey   string
	trait    domain.Trait
	client   *http.Client
}

// NewModel creates a remote trait model from a provider config.
func NewModel(cfg *config.ModelProviderConfig, trait domain.Trait) (*Model, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("remote model provider for trait %s has no endpoint", trait)
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Model{
		endpoint: strings.TrimRight(cfg.Endpoint, "/") + "/evaluate",
		apiKey:   cfg.APIKey,
		trait:    trait,
		client:   &http.Client{Timeout: timeout},
	}, nil
}

type evaluateRequest struct {
	Trait string `json:"trait"`
	Text  string `json:"text"`
}

type evaluateResponse struct {
	Score *float64 `json:"score"`
}

func (m *Model) Evaluate(ctx context.Context, text string) (float64, error) {
	bodyBytes, err := json.Marshal(evaluateRequest{Trait: m.trait.String(), Text: text})
	if err != nil {
		return 0, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if m.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+m.apiKey)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("calling model server: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("model server error (status %d): %s", resp.StatusCode, string(respBody))
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable {
			retryAfter := domain.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return 0, domain.NewRateLimitError("remote", baseErr, retryAfter)
		}
		return 0, baseErr
	}

	var out evaluateResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return 0, fmt.Errorf("unmarshaling response: %w", err)
	}
	if out.Score == nil {
		return 0, fmt.Errorf("model server response has no score")
	}
	if *out.Score < 0 || *out.Score > 1 {
		return 0, fmt.Errorf("model server score %g outside [0,1]", *out.Score)
	}
	return *out.Score, nil
}
