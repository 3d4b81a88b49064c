package essaymodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iga/internal/domain"
)

func TestBuildTraitPrompt(t *testing.T) {
	for _, trait := range domain.Traits {
		p := BuildTraitPrompt(trait)
		assert.Contains(t, p, `{"score"`)
		assert.Contains(t, p, traitCriteria[trait])
	}
}

func TestParseScore(t *testing.T) {
	tests := []struct {
		raw     string
		want    float64
		wantErr bool
	}{
		{raw: `{"score": 0.6}`, want: 0.6},
		{raw: "  {\"score\":1}\n", want: 1},
		{raw: "```json\n{\"score\": 0.25}\n```", want: 0.25},
		{raw: `{"score": -0.1}`, wantErr: true},
		{raw: `{"grade": 0.5}`, wantErr: true},
		{raw: `excellent`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseScore(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
