package rubric_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iga/internal/domain"
	"iga/internal/rubric"
)

func TestLoadConfig_DefaultsWhenMissing(t *testing.T) {
	dir := t.TempDir()
	cfg, err := rubric.LoadConfig(filepath.Join(dir, "profile.yaml"), filepath.Join(dir, "style.json"))
	require.NoError(t, err)
	assert.Equal(t, rubric.Default(), cfg)

	cfg, err = rubric.LoadConfig("", "")
	require.NoError(t, err)
	assert.Equal(t, rubric.Default(), cfg)
}

func TestLoadConfig_ReadsFiles(t *testing.T) {
	dir := t.TempDir()
	stylePath := filepath.Join(dir, "style.json")
	st := rubric.DefaultStyle()
	st.Size = rubric.Float(11)
	require.NoError(t, rubric.StoreStyle(stylePath, st))

	profilePath := filepath.Join(dir, "profile.yaml")
	profile := `rubric:
  grammar: 10
  key: ~
  length: 5
  format: 5
  model: ~
  reference: 5
weights:
  grammar: 1
  allowed_mistakes: 2
  key_max: 3
  key_min: 0
  word_min: 250
  word_max: 900
  page_min: 1
  page_max: 4
  format: 5
  reference: 5
`
	require.NoError(t, os.WriteFile(profilePath, []byte(profile), 0o644))

	cfg, err := rubric.LoadConfig(profilePath, stylePath)
	require.NoError(t, err)
	assert.Equal(t, 10.0, *cfg.Rubric.Grammar)
	assert.Nil(t, cfg.Rubric.Key)
	assert.Equal(t, 250, *cfg.Weights.WordMin)
	assert.Equal(t, 11.0, *cfg.Style.Size)
}

func TestLoadConfig_MalformedStyle(t *testing.T) {
	dir := t.TempDir()
	stylePath := filepath.Join(dir, "style.json")
	require.NoError(t, os.WriteFile(stylePath, []byte("not json"), 0o644))

	_, err := rubric.LoadConfig("", stylePath)
	assert.ErrorIs(t, err, domain.ErrParse)
}
