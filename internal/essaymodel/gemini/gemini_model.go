package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"iga/internal/config"
	"iga/internal/domain"
	"iga/internal/essaymodel"
)

const defaultModel = "gemini-2.0-flash"

// Model implements port.EssayModel using Google's Gemini API.
type Model struct {
	apiKey string
	model  string
	trait  domain.Trait
	opts   []option.ClientOption
}

// NewModel creates a Gemini-backed trait model. An explicit endpoint in cfg
// overrides the public API host.
func NewModel(cfg *config.ModelProviderConfig, trait domain.Trait) (*Model, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini: api key is empty")
	}
	model := strings.TrimSpace(cfg.DefaultModel)
	if model == "" {
		model = defaultModel
	}
	opts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	return &Model{apiKey: apiKey, model: model, trait: trait, opts: opts}, nil
}

func (m *Model) Evaluate(ctx context.Context, text string) (float64, error) {
	cl, err := genai.NewClient(ctx, m.opts...)
	if err != nil {
		return 0, fmt.Errorf("gemini: creating client: %w", err)
	}
	defer func() { _ = cl.Close() }()

	gm := cl.GenerativeModel(m.model)
	gm.GenerationConfig = genai.GenerationConfig{
		Temperature:      ptrFloat32(0),
		ResponseMIMEType: "application/json",
	}
	gm.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(essaymodel.BuildTraitPrompt(m.trait))},
	}

	resp, err := gm.GenerateContent(ctx, genai.Text(text))
	if err != nil {
		return 0, fmt.Errorf("gemini: generate content: %w", err)
	}
	return scoreFromResponse(resp)
}

func scoreFromResponse(resp *genai.GenerateContentResponse) (float64, error) {
	txt := firstText(resp)
	if txt == "" {
		return 0, errors.New("gemini: empty response")
	}
	return essaymodel.ParseScore(txt)
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

func ptrFloat32(v float32) *float32 { return &v }
