package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"iga/internal/citation"
	"iga/internal/config"
	"iga/internal/essaymodel"
	"iga/internal/essaymodel/providers"
	"iga/internal/grading"
	"iga/internal/grammar/languagetool"
	"iga/internal/keyword"
	"iga/internal/logger"
	"iga/internal/rubric"
)

type gradeOpts struct {
	file        string
	profilePath string
	stylePath   string
	keywordPath string
	debug       bool
	outputFmt   string
	noGrammar   bool
}

func newGradeCmd() *cobra.Command {
	var opts gradeOpts

	cmd := &cobra.Command{
		Use:   "grade <file>",
		Short: "Grade an essay file",
		Long: `Grades a .docx, .pdf or plain-text essay. Delegate endpoints and model
providers are read from the same IGA_* environment variables as the server.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.file = args[0]
			return runGrade(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.profilePath, "profile", "", "YAML profile with rubric and weights (default: built-in)")
	cmd.Flags().StringVar(&opts.stylePath, "style", "", "Style JSON file (default: built-in)")
	cmd.Flags().StringVar(&opts.keywordPath, "keywords", "", "Keyword file")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Print per-category debug detail")
	cmd.Flags().StringVar(&opts.outputFmt, "output", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&opts.noGrammar, "no-grammar", false, "Skip the grammar service even when configured")

	return cmd
}

func runGrade(ctx context.Context, out io.Writer, opts gradeOpts) error {
	data, err := os.ReadFile(opts.file)
	if err != nil {
		return fmt.Errorf("reading essay: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, cfg.Log.Redact)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer log.Sync()

	rubricCfg, err := rubric.LoadConfig(opts.profilePath, opts.stylePath)
	if err != nil {
		return err
	}

	engine, err := buildEngine(cfg, rubricCfg, opts, log)
	if err != nil {
		return err
	}

	res, err := engine.GradeFile(ctx, rubricCfg, filepath.Base(opts.file), data)
	if err != nil {
		return err
	}
	return printResult(out, res, opts)
}

// buildEngine wires the delegates available locally. Grammar is dropped from
// rubricCfg when no grammar service will be called; without a keyword file
// the keyword category sees an empty index.
func buildEngine(cfg *config.Config, rubricCfg *rubric.Config, opts gradeOpts, log *logger.Logger) (*grading.Engine, error) {
	deps := grading.Deps{
		Keywords:  keyword.New(),
		Citations: citation.New(),
	}

	if opts.keywordPath != "" {
		ix, err := keyword.Load(opts.keywordPath)
		if err != nil {
			return nil, err
		}
		deps.Keywords = ix
	}
	if cfg.Grammar.Endpoint == "" || opts.noGrammar {
		rubricCfg.Rubric.Grammar = nil
	} else {
		deps.Grammar = languagetool.NewClient(&cfg.Grammar)
	}
	// Models are only built when the rubric grades the model category.
	if rubricCfg.Rubric.Model != nil {
		providers.Register()
		models, err := essaymodel.NewModels(&cfg.Model, log)
		if err != nil {
			return nil, err
		}
		deps.Models = models
	}
	return grading.New(deps, log), nil
}

func printResult(out io.Writer, res *grading.Result, opts gradeOpts) error {
	if opts.outputFmt == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Fprintf(out, "Grade: %d\n", res.Grade)
	if opts.debug {
		fmt.Fprintln(out, "\nDebug:")
		for _, c := range res.Categories {
			status := fmt.Sprintf("-%.2f", c.PointsLost)
			if c.Skipped {
				status = "skipped"
			}
			fmt.Fprintf(out, "  %-10s %s\n", c.Category, status)
		}
		if res.Debug != "" {
			fmt.Fprintf(out, "\n%s\n", res.Debug)
		}
	}
	if res.Feedback != "" {
		fmt.Fprintf(out, "\nFeedback:\n%s\n", res.Feedback)
	}
	return nil
}
