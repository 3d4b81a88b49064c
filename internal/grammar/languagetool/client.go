// Package languagetool checks grammar and spelling against a LanguageTool
// server's /v2/check API.
package languagetool

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
	"unicode/utf16"

	"iga/internal/config"
	"iga/internal/domain"
	"iga/internal/port"
)

// Client implements port.GrammarChecker.
type Client struct {
	endpoint string
	language string
	client   *http.Client
}

// NewClient creates a client from the grammar config.
func NewClient(cfg *config.GrammarConfig) *Client {
	language := cfg.Language
	if language == "" {
		language = "en-US"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		endpoint: strings.TrimRight(cfg.Endpoint, "/") + "/v2/check",
		language: language,
		client:   &http.Client{Timeout: timeout},
	}
}

type checkResponse struct {
	Matches []match `json:"matches"`
}

// match offsets and lengths count UTF-16 code units.
type match struct {
	Message      string `json:"message"`
	Offset       int    `json:"offset"`
	Length       int    `json:"length"`
	Replacements []struct {
		Value string `json:"value"`
	} `json:"replacements"`
}

func (c *Client) Check(ctx context.Context, text string) (*port.GrammarReport, error) {
	form := url.Values{}
	form.Set("text", text)
	form.Set("language", c.language)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling languagetool: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("languagetool error (status %d): %s", resp.StatusCode, string(body))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := domain.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return nil, domain.NewRateLimitError("languagetool", baseErr, retryAfter)
		}
		return nil, baseErr
	}

	var out checkResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}
	return buildReport(text, out.Matches), nil
}

// buildReport keeps matches that carry a replacement and applies the first
// replacement of each, right to left so earlier offsets stay valid.
// Overlapping matches after the first are reported but not applied.
func buildReport(text string, matches []match) *port.GrammarReport {
	units := utf16.Encode([]rune(text))
	report := &port.GrammarReport{}

	var usable []match
	for _, m := range matches {
		if len(m.Replacements) == 0 {
			continue
		}
		if m.Offset < 0 || m.Length < 0 || m.Offset+m.Length > len(units) {
			continue
		}
		usable = append(usable, m)
		report.Corrections = append(report.Corrections, port.Correction{
			Mistake:    string(utf16.Decode(units[m.Offset : m.Offset+m.Length])),
			Suggestion: m.Replacements[0].Value,
		})
	}

	sort.SliceStable(usable, func(i, j int) bool { return usable[i].Offset > usable[j].Offset })
	limit := len(units) + 1
	for _, m := range usable {
		end := m.Offset + m.Length
		if end > limit {
			continue
		}
		repl := utf16.Encode([]rune(m.Replacements[0].Value))
		next := make([]uint16, 0, len(units)-m.Length+len(repl))
		next = append(next, units[:m.Offset]...)
		next = append(next, repl...)
		next = append(next, units[end:]...)
		units = next
		limit = m.Offset
	}
	report.CorrectedText = string(utf16.Decode(units))
	return report
}
