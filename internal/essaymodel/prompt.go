package essaymodel

import (
	"encoding/json"
	"fmt"
	"strings"

	"iga/internal/domain"
)

var traitCriteria = map[domain.Trait]string{
	domain.TraitScore: "overall quality: how well the essay answers its prompt, develops its argument, " +
		"organizes paragraphs and uses language. 1 is an exemplary essay, 0 is an essay that fails on every count.",
	domain.TraitIdea: "ideas: whether the ideas are on-topic and well presented, and whether supporting details " +
		"are specific and clearly connected to them. 1 is fully on-topic with strong detail, 0 is off-topic.",
	domain.TraitOrganization: "organization: how smoothly the essay flows and whether sentences and paragraphs " +
		"are connected clearly and logically. 1 is seamless, 0 is disjointed.",
	domain.TraitStyle: "style: the author's command of language, including varied sentence structure and " +
		"vocabulary that supports the purpose. 1 is total command, 0 is repetitive or ineffective language.",
}

// BuildTraitPrompt returns the instruction sent to LLM providers for trait.
func BuildTraitPrompt(trait domain.Trait) string {
	return fmt.Sprintf(`You are grading a student essay on a single trait.

Trait: %s

Read the essay that follows and rate it on this trait only. Ignore grammar
and spelling unless they obscure meaning.

Respond with JSON only, no prose and no code fences, in exactly this shape:
{"score": <number between 0 and 1>}`, traitCriteria[trait])
}

// ParseScore extracts the score from a model's JSON reply.
func ParseScore(raw string) (float64, error) {
	raw = stripCodeFences(strings.TrimSpace(raw))
	var out struct {
		Score *float64 `json:"score"`
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return 0, fmt.Errorf("parsing model JSON output: %w (raw: %s)", err, truncate(raw, 200))
	}
	if out.Score == nil {
		return 0, fmt.Errorf("model output has no score (raw: %s)", truncate(raw, 200))
	}
	if *out.Score < 0 || *out.Score > 1 {
		return 0, fmt.Errorf("model score %g outside [0,1]", *out.Score)
	}
	return *out.Score, nil
}

func stripCodeFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
