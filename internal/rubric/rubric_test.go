package rubric_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iga/internal/domain"
	"iga/internal/rubric"
)

func fullRubricMap() map[string]any {
	return map[string]any{
		"grammar": 5, "key": 9, "length": 5, "format": 5, "model": nil, "reference": 5,
	}
}

func fullWeightsMap() map[string]any {
	return map[string]any{
		"grammar": 1, "allowed_mistakes": 3, "key_max": 3, "key_min": 0, "word_min": 300,
		"word_max": 800, "page_min": 1, "page_max": 4, "format": 5, "reference": 5,
	}
}

func TestRubricFromMap_ExactKeys(t *testing.T) {
	r, err := rubric.RubricFromMap(fullRubricMap())
	require.NoError(t, err)

	require.NotNil(t, r.Key)
	assert.Equal(t, 9.0, *r.Key)
	assert.Nil(t, r.Model, "null cap means the category is not graded")
	assert.Nil(t, r.Cap(rubric.CategoryModel))
}

func TestRubricFromMap_MissingKey(t *testing.T) {
	m := fullRubricMap()
	delete(m, "length")

	_, err := rubric.RubricFromMap(m)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfig)

	var cfgErr *domain.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, []string{"length"}, cfgErr.Missing)
	assert.Empty(t, cfgErr.Unexpected)
}

func TestRubricFromMap_UnexpectedKey(t *testing.T) {
	m := fullRubricMap()
	m["spelling"] = 2

	_, err := rubric.RubricFromMap(m)
	var cfgErr *domain.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, []string{"spelling"}, cfgErr.Unexpected)
	assert.Contains(t, err.Error(), "unexpected keys: spelling")
}

func TestRubricFromMap_NegativeCap(t *testing.T) {
	m := fullRubricMap()
	m["grammar"] = -1

	_, err := rubric.RubricFromMap(m)
	assert.ErrorIs(t, err, domain.ErrConfig)
}

func TestWeightsFromMap_ExactKeys(t *testing.T) {
	w, err := rubric.WeightsFromMap(fullWeightsMap())
	require.NoError(t, err)
	assert.Equal(t, 300, *w.WordMin)
	assert.Equal(t, 5.0, *w.Format)
}

func TestWeightsFromMap_KeyMismatch(t *testing.T) {
	cases := map[string]func(m map[string]any){
		"missing":    func(m map[string]any) { delete(m, "page_max") },
		"unexpected": func(m map[string]any) { m["page_avg"] = 2 },
		"both": func(m map[string]any) {
			delete(m, "key_min")
			m["key_mid"] = 1
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			m := fullWeightsMap()
			mutate(m)
			_, err := rubric.WeightsFromMap(m)
			assert.ErrorIs(t, err, domain.ErrConfig)
		})
	}
}

func TestWeightsFromMap_WrongValueType(t *testing.T) {
	m := fullWeightsMap()
	m["word_min"] = "three hundred"

	_, err := rubric.WeightsFromMap(m)
	assert.ErrorIs(t, err, domain.ErrConfig)
}

func TestDecodeRubric_NotJSON(t *testing.T) {
	_, err := rubric.DecodeRubric([]byte("grammar=5"))
	assert.ErrorIs(t, err, domain.ErrParse)
}

func TestConfigValidate_CrossField(t *testing.T) {
	cfg := rubric.Default()
	require.NoError(t, cfg.Validate())

	cfg.Weights.KeyMax = rubric.Int(0)
	assert.ErrorIs(t, cfg.Validate(), domain.ErrConfig)

	cfg = rubric.Default()
	cfg.Weights.Grammar = nil
	assert.ErrorIs(t, cfg.Validate(), domain.ErrConfig)

	cfg.Rubric.Grammar = nil
	assert.NoError(t, cfg.Validate(), "grammar weight is irrelevant when grammar is not graded")
}

func TestConfigClone_IsDeep(t *testing.T) {
	cfg := rubric.Default()
	clone := cfg.Clone()

	*clone.Rubric.Grammar = 50
	clone.Style.Font[0] = "Comic Sans MS"

	assert.Equal(t, 5.0, *cfg.Rubric.Grammar)
	assert.Equal(t, "Times New Roman", cfg.Style.Font[0])
}
