package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"hrpilot/internal/common"
	"hrpilot/internal/types"

	"github.com/spf13/cobra"
)

var analyzeJDCmd = &cobra.Command{
	Use:   "analyze-jd <job-description | @file>",
	Short: "Summarize a job description",
	Long: `Extract a summary, the key skills, the experience required and the salary
range from a job description. Pass the text directly or '@path' to read it from
a file.`,
	Args: cobra.ExactArgs(1),
	RunE: withRuntime(runAnalyzeJD),
}

var scoreCVCmd = &cobra.Command{
	Use:   "score-cv <job-description | @file> <@cv-file>",
	Short: "Score a CV against a job description",
	Long: `Score how well a CV fits a job description (0-100) and return a screening
verdict (pass, fail or review) with the matching skills.`,
	Args: cobra.ExactArgs(2),
	RunE: withRuntime(runScoreCV),
}

func nonEmpty(args []string) error {
	for i, a := range args {
		if strings.TrimSpace(a) == "" {
			return fmt.Errorf("argument %d is empty", i+1)
		}
	}
	return nil
}

func runAnalyzeJD(cmd *cobra.Command, args []string, r *runtime) error {
	recruitment := r.workspace.Recruitment
	return run(cmd, r, args,
		func(a []string) (string, error) { return a[0], nonEmpty(a) },
		func(ctx context.Context, jd string) (types.JDAnalysis, error) {
			recruitment.SetJD(jd)
			return recruitment.AnalyzeJD(ctx)
		},
		func(jd string, cfg common.CommandConfig) {
			r.logger.Info("Analyzing job description",
				"jd_chars", len(jd),
				"language", r.lang,
				"output_format", cfg.OutputFormat)
		})
}

type scoreInput struct {
	jd, cv, name string
}

func runScoreCV(cmd *cobra.Command, args []string, r *runtime) error {
	recruitment := r.workspace.Recruitment
	name := strings.TrimPrefix(args[1], "@")
	if name == args[1] {
		name = "cv"
	} else {
		name = filepath.Base(name)
	}

	return run(cmd, r, args,
		func(a []string) (scoreInput, error) {
			return scoreInput{jd: a[0], cv: a[1], name: name}, nonEmpty(a)
		},
		func(ctx context.Context, in scoreInput) (types.CVResult, error) {
			recruitment.SetJD(in.jd)
			recruitment.SetCV(in.name, in.cv)
			return recruitment.ScoreCV(ctx)
		},
		func(in scoreInput, cfg common.CommandConfig) {
			r.logger.Info("Scoring CV",
				"cv", in.name,
				"jd_chars", len(in.jd),
				"cv_chars", len(in.cv),
				"output_format", cfg.OutputFormat)
		})
}
