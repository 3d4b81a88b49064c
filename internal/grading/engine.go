// Package grading scores an essay against a rubric configuration. Six
// sub-scorers (grammar, keyword, length, format, model, reference) each
// report the points they deduct together with a debug trace and student
// feedback; the engine sums them into a 0 to 100 grade.
package grading

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"iga/internal/document"
	"iga/internal/document/docx"
	"iga/internal/domain"
	"iga/internal/logger"
	"iga/internal/port"
	"iga/internal/rubric"
)

// Input is the material one grading run consumes. PageCount, WordCount and
// Snapshot are optional; without a Snapshot the format category is skipped.
type Input struct {
	Text      string
	PageCount *int
	WordCount *int
	Snapshot  *docx.Snapshot
}

// CategoryResult is the outcome of one sub-scorer.
type CategoryResult struct {
	Category   rubric.Category `json:"category"`
	PointsLost float64         `json:"points_lost"`
	Debug      string          `json:"debug"`
	Feedback   string          `json:"feedback"`
	Skipped    bool            `json:"skipped"`
}

// Result is a finished grade. Debug and Feedback concatenate the category
// strings in grading order.
type Result struct {
	Grade      int              `json:"grade"`
	Debug      string           `json:"debug"`
	Feedback   string           `json:"feedback"`
	Categories []CategoryResult `json:"categories"`
}

// Deps are the external collaborators. A collaborator may be nil when the
// category that needs it is never graded.
type Deps struct {
	Grammar   port.GrammarChecker
	Keywords  port.KeywordCounter
	Citations port.CitationChecker
	Models    map[domain.Trait]port.EssayModel
}

// Engine is safe for concurrent use; it holds no per-request state.
type Engine struct {
	deps Deps
	log  *logger.Logger
}

func New(deps Deps, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{deps: deps, log: log}
}

// GradeText grades raw text with no document metadata.
func (e *Engine) GradeText(ctx context.Context, cfg *rubric.Config, text string) (*Result, error) {
	return e.Grade(ctx, cfg, Input{Text: text})
}

// GradeFile detects the type of an uploaded file, extracts it and grades it.
func (e *Engine) GradeFile(ctx context.Context, cfg *rubric.Config, name string, data []byte) (*Result, error) {
	ex, err := document.Extract(name, data)
	if err != nil {
		return nil, err
	}
	return e.Grade(ctx, cfg, Input{
		Text:      ex.Text,
		PageCount: ex.PageCount,
		WordCount: ex.WordCount,
		Snapshot:  ex.Snapshot,
	})
}

// Grade runs every sub-scorer against cfg. cfg is treated as read-only.
func (e *Engine) Grade(ctx context.Context, cfg *rubric.Config, in Input) (*Result, error) {
	if cfg == nil {
		return nil, &domain.ConfigError{Kind: "config", Reason: "no grading configuration"}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Text) == "" {
		return nil, domain.ErrEmptyEssay
	}
	start := time.Now()

	grammar, text, err := e.gradeGrammar(ctx, cfg, in.Text)
	if err != nil {
		return nil, err
	}

	results := make([]CategoryResult, len(rubric.Categories))
	results[0] = grammar

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		results[1], err = e.gradeKeyword(cfg, text)
		return err
	})
	g.Go(func() (err error) {
		results[2] = gradeLength(cfg, text, in.PageCount, in.WordCount)
		return nil
	})
	g.Go(func() (err error) {
		results[3] = gradeFormat(cfg, in.Snapshot)
		return nil
	})
	g.Go(func() (err error) {
		results[4], err = e.gradeModel(gctx, cfg, text)
		return err
	})
	g.Go(func() (err error) {
		results[5], err = e.gradeReference(gctx, cfg, text)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := combine(results)
	e.log.Debug("grading.Engine.Grade: graded",
		"grade", res.Grade,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

func combine(results []CategoryResult) *Result {
	var (
		lost     float64
		debug    strings.Builder
		feedback strings.Builder
	)
	for _, r := range results {
		lost += r.PointsLost
		debug.WriteString(r.Debug)
		feedback.WriteString(r.Feedback)
	}
	grade := int(roundHalfEven(100 - lost))
	grade = max(0, min(100, grade))
	return &Result{
		Grade:      grade,
		Debug:      debug.String(),
		Feedback:   feedback.String(),
		Categories: results,
	}
}

func skipped(c rubric.Category) CategoryResult {
	return CategoryResult{Category: c, Skipped: true}
}

// tier maps a loss onto 0..steps. A zero cap yields 0.
func tier(loss, limit float64, steps int) int {
	if limit <= 0 {
		return 0
	}
	return int(roundHalfEven(loss * float64(steps) / limit))
}

func roundHalfEven(v float64) float64 {
	return math.RoundToEven(v)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func delegateErr(name string, err error) error {
	return &domain.DelegateError{Delegate: name, Err: err}
}

func missingDelegate(name string) error {
	return delegateErr(name, fmt.Errorf("no %s collaborator configured", name))
}
