package gemini

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iga/internal/config"
	"iga/internal/domain"
)

func TestNewModel(t *testing.T) {
	_, err := NewModel(&config.ModelProviderConfig{Provider: "gemini"}, domain.TraitIdea)
	assert.Error(t, err)

	m, err := NewModel(&config.ModelProviderConfig{Provider: "gemini", APIKey: " k "}, domain.TraitIdea)
	require.NoError(t, err)
	assert.Equal(t, defaultModel, m.model)
	assert.Equal(t, "k", m.apiKey)
}

func TestScoreFromResponse(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: nil},
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("```json\n{\"score\": 0.35}\n```")}}},
		},
	}
	score, err := scoreFromResponse(resp)
	require.NoError(t, err)
	assert.Equal(t, 0.35, score)
}

func TestScoreFromResponse_Empty(t *testing.T) {
	_, err := scoreFromResponse(&genai.GenerateContentResponse{})
	assert.Error(t, err)

	_, err = scoreFromResponse(nil)
	assert.Error(t, err)
}
