package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iga/internal/config"
	"iga/internal/domain"
	"iga/internal/grading"
	"iga/internal/rubric"
	"iga/internal/service"
)

func TestGradeCmdFlags(t *testing.T) {
	f := newGradeCmd().Flags()

	out, _ := f.GetString("output")
	assert.Equal(t, "text", out)
	for _, flag := range []string{"profile", "style", "keywords", "debug", "output", "no-grammar"} {
		assert.NotNil(t, f.Lookup(flag), "missing flag: %s", flag)
	}
}

func TestKeywordsCmd_Lifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.csv")

	run := func(args ...string) string {
		t.Helper()
		cmd := newKeywordsCmd()
		var buf bytes.Buffer
		cmd.SetOut(&buf)
		cmd.SetArgs(append(args, "--file", path))
		require.NoError(t, cmd.Execute())
		return buf.String()
	}

	run("add", "Climate", "carbon")
	assert.Equal(t, "climate\ncarbon\n", run("list"))

	run("remove", "CLIMATE")
	assert.Equal(t, "carbon\n", run("list"))

	run("clear")
	assert.Empty(t, run("list"))
}

func TestKeywordsCmd_RequiresFile(t *testing.T) {
	cmd := newKeywordsCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"list"})
	assert.Error(t, cmd.Execute())
}

func TestTokenCmd_MintsValidToken(t *testing.T) {
	cmd := newTokenCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--secret", "s3cret", "--ttl", "1h", "--role", "grader", "--subject", "ops"})
	require.NoError(t, cmd.Execute())

	auth := service.NewAuthService(config.JWTConfig{Secret: "s3cret", Issuer: "iga"})
	claims, err := auth.ValidateToken(strings.TrimSpace(buf.String()))
	require.NoError(t, err)
	assert.Equal(t, domain.RoleGrader, claims.Role)
	assert.Equal(t, "ops", claims.Subject)
}

func TestTokenCmd_UnknownRole(t *testing.T) {
	cmd := newTokenCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--secret", "s", "--role", "root"})
	assert.Error(t, cmd.Execute())
}

func TestStyleCmd_Validate(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	require.NoError(t, rubric.StoreStyle(good, rubric.DefaultStyle()))
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"font": ["Arial"]}`), 0o644))

	cmd := newStyleCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"validate", good})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "ok")

	cmd = newStyleCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"validate", bad})
	assert.ErrorIs(t, cmd.Execute(), domain.ErrConfig)
}

func TestPrintResult(t *testing.T) {
	res := &grading.Result{
		Grade:    87,
		Debug:    "grammar: 3 mistakes",
		Feedback: "Watch your grammar.",
		Categories: []grading.CategoryResult{
			{Category: rubric.CategoryGrammar, PointsLost: 3},
			{Category: rubric.CategoryFormat, Skipped: true},
		},
	}

	var text bytes.Buffer
	require.NoError(t, printResult(&text, res, gradeOpts{outputFmt: "text", debug: true}))
	assert.Contains(t, text.String(), "Grade: 87")
	assert.Contains(t, text.String(), "skipped")
	assert.Contains(t, text.String(), "Watch your grammar.")

	var js bytes.Buffer
	require.NoError(t, printResult(&js, res, gradeOpts{outputFmt: "json"}))
	var decoded grading.Result
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.Equal(t, 87, decoded.Grade)
	assert.Len(t, decoded.Categories, 2)
}

const grammarKeyProfile = `rubric:
  grammar: 5
  key: 5
  length: ~
  format: ~
  model: ~
  reference: ~
weights:
  grammar: 1
  allowed_mistakes: 0
  key_max: 3
  key_min: 0
  word_min: 300
  word_max: 800
  page_min: ~
  page_max: ~
  format: 1
  reference: 1
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunGrade_NoGrammarWithoutKeywordFile(t *testing.T) {
	dir := t.TempDir()
	opts := gradeOpts{
		file:        writeFile(t, dir, "essay.txt", "Carbon emissions keep rising every year."),
		profilePath: writeFile(t, dir, "profile.yaml", grammarKeyProfile),
		noGrammar:   true,
		outputFmt:   "text",
	}

	var out bytes.Buffer
	require.NoError(t, runGrade(context.Background(), &out, opts))
	assert.Contains(t, out.String(), "Grade: 95")
}

func TestRunGrade_NoGrammarWithKeywordFile(t *testing.T) {
	dir := t.TempDir()
	opts := gradeOpts{
		file:        writeFile(t, dir, "essay.txt", "carbon methane and ozone all matter"),
		profilePath: writeFile(t, dir, "profile.yaml", grammarKeyProfile),
		keywordPath: writeFile(t, dir, "keywords.csv", "carbon,methane,ozone"),
		noGrammar:   true,
		outputFmt:   "json",
	}

	var out bytes.Buffer
	require.NoError(t, runGrade(context.Background(), &out, opts))

	var res grading.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, 100, res.Grade)
	assert.True(t, res.Categories[0].Skipped)
}
