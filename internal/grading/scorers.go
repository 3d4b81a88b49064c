package grading

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"iga/internal/domain"
	"iga/internal/feedback"
	"iga/internal/rubric"
)

// gradeGrammar also returns the text downstream scorers should see: the
// corrected text when grammar is graded, the original otherwise.
func (e *Engine) gradeGrammar(ctx context.Context, cfg *rubric.Config, text string) (CategoryResult, string, error) {
	limit := cfg.Rubric.Grammar
	if limit == nil {
		return skipped(rubric.CategoryGrammar), text, nil
	}
	if e.deps.Grammar == nil {
		return CategoryResult{}, "", missingDelegate("grammar")
	}
	report, err := e.deps.Grammar.Check(ctx, text)
	if err != nil {
		return CategoryResult{}, "", delegateErr("grammar", err)
	}

	w := cfg.Weights
	mistakes := len(report.Corrections)
	if w.AllowedMistakes != nil {
		mistakes = max(mistakes-*w.AllowedMistakes, 0)
	}
	loss := clamp(*w.Grammar*float64(mistakes), 0, *limit)

	var debug strings.Builder
	fmt.Fprintf(&debug, "Errors: %d\n", len(report.Corrections))
	for _, c := range report.Corrections {
		fmt.Fprintf(&debug, "%s -> %s\n", c.Mistake, c.Suggestion)
	}

	corrected := report.CorrectedText
	if corrected == "" {
		corrected = text
	}
	return CategoryResult{
		Category:   rubric.CategoryGrammar,
		PointsLost: loss,
		Debug:      debug.String(),
		Feedback:   feedback.Grammar(tier(loss, *limit, 3)),
	}, corrected, nil
}

func (e *Engine) gradeKeyword(cfg *rubric.Config, text string) (CategoryResult, error) {
	limit := cfg.Rubric.Key
	if limit == nil {
		return skipped(rubric.CategoryKey), nil
	}
	if e.deps.Keywords == nil {
		return CategoryResult{}, missingDelegate("keyword")
	}
	counts := e.deps.Keywords.Occurrence(text)

	found := 0
	usage := make([]string, 0, len(counts))
	for _, c := range counts {
		if c.Count > 0 {
			found++
		}
		usage = append(usage, fmt.Sprintf("%s=%d", c.Keyword, c.Count))
	}
	keyMax, keyMin := float64(*cfg.Weights.KeyMax), float64(*cfg.Weights.KeyMin)
	ratio := max((keyMax-float64(found))/(keyMax-keyMin), 0)
	loss := min(roundHalfEven(*limit*ratio), *limit)

	return CategoryResult{
		Category:   rubric.CategoryKey,
		PointsLost: loss,
		Debug:      "Keyword Usage: " + strings.Join(usage, ", ") + "\n",
		Feedback:   feedback.Keyword(tier(loss, *limit, 3)),
	}, nil
}

// gradeLength checks pages when a page count is known and a page bound is
// configured, words otherwise. Bounds are inclusive of the limit itself.
func gradeLength(cfg *rubric.Config, text string, pages, words *int) CategoryResult {
	limit := cfg.Rubric.Length
	if limit == nil {
		return skipped(rubric.CategoryLength)
	}
	w := cfg.Weights

	count := len(strings.Fields(text))
	if words != nil {
		count = *words
	}

	lo, hi, n := w.WordMin, w.WordMax, count
	if pages != nil && (w.PageMin != nil || w.PageMax != nil) {
		lo, hi, n = w.PageMin, w.PageMax, *pages
	}
	var loss float64
	switch {
	case lo != nil && n < *lo:
		loss = *limit
	case hi != nil && n > *hi:
		loss = roundHalfEven(*limit / 2)
	}

	var debug strings.Builder
	if pages != nil {
		fmt.Fprintf(&debug, "Page Count: %d\n", *pages)
	}
	fmt.Fprintf(&debug, "Word Count: %d\n", count)

	return CategoryResult{
		Category:   rubric.CategoryLength,
		PointsLost: loss,
		Debug:      debug.String(),
		Feedback:   feedback.Length(tier(loss, *limit, 2)),
	}
}

// gradeModel deducts by the overall score model and derives feedback from
// the idea, organization and style models. All four are queried in parallel.
func (e *Engine) gradeModel(ctx context.Context, cfg *rubric.Config, text string) (CategoryResult, error) {
	limit := cfg.Rubric.Model
	if limit == nil {
		return skipped(rubric.CategoryModel), nil
	}

	for _, trait := range domain.Traits {
		if e.deps.Models[trait] == nil {
			return CategoryResult{}, missingDelegate("model " + trait.String())
		}
	}

	scores := make([]float64, len(domain.Traits))
	g, gctx := errgroup.WithContext(ctx)
	for i, trait := range domain.Traits {
		m := e.deps.Models[trait]
		g.Go(func() error {
			s, err := m.Evaluate(gctx, text)
			if err != nil {
				return delegateErr("model "+trait.String(), err)
			}
			if s < 0 || s > 1 {
				e.log.Warn("grading.Engine.gradeModel: score out of range, clamping",
					"trait", trait.String(), "score", s)
			}
			scores[i] = clamp(s, 0, 1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return CategoryResult{}, err
	}

	score := scores[domain.TraitScore]
	idea := traitScore(scores[domain.TraitIdea])
	organization := traitScore(scores[domain.TraitOrganization])
	style := traitScore(scores[domain.TraitStyle])

	debug := fmt.Sprintf("Model Score: %g\nIdea Score: %d\nOrganization Score: %d\nStyle Score: %d\n",
		score, idea, organization, style)
	return CategoryResult{
		Category:   rubric.CategoryModel,
		PointsLost: roundHalfEven(*limit * (1 - score)),
		Debug:      debug,
		Feedback: feedback.Idea(traitTier(idea)) +
			feedback.Organization(traitTier(organization)) +
			feedback.Style(traitTier(style)),
	}, nil
}

// traitScore buckets a [0,1] model score into 0..2, higher is better.
func traitScore(s float64) int {
	return int(roundHalfEven(s * 2))
}

// traitTier turns a trait score into a feedback tier, where 0 is best.
func traitTier(score int) int {
	return 2 - score
}

func (e *Engine) gradeReference(ctx context.Context, cfg *rubric.Config, text string) (CategoryResult, error) {
	limit := cfg.Rubric.Reference
	if limit == nil {
		return skipped(rubric.CategoryReference), nil
	}
	if e.deps.Citations == nil {
		return CategoryResult{}, missingDelegate("citation")
	}
	missing, err := e.deps.Citations.MissingReferences(ctx, text)
	if err != nil {
		return CategoryResult{}, delegateErr("citation", err)
	}
	missing = max(missing, 0)
	loss := clamp(*cfg.Weights.Reference*float64(missing), 0, *limit)

	return CategoryResult{
		Category:   rubric.CategoryReference,
		PointsLost: loss,
		Debug:      fmt.Sprintf("Number of Missing References: %d\n", missing),
		Feedback:   feedback.Reference(tier(loss, *limit, 2)),
	}, nil
}
