package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"hrpilot/internal/common"
	"hrpilot/internal/types"
	"hrpilot/internal/utils"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var salaryCmd = &cobra.Command{
	Use:   "salary --role <role>",
	Short: "Benchmark salaries for a role using live web search",
	Args:  cobra.NoArgs,
	RunE:  withRuntime(runSalary),
}

var sentimentCmd = &cobra.Command{
	Use:   "sentiment <feedback | @file>",
	Short: "Assess retention risk from employee feedback",
	Args:  cobra.ExactArgs(1),
	RunE:  withRuntime(runSentiment),
}

var interviewCmd = &cobra.Command{
	Use:   "interview --role <role>",
	Short: "Generate a spoken interview question",
	Long: `Ask the model for one challenging behavioral interview question for a role
and save it as audio. Raw PCM from the speech model is written as WAV.`,
	Args: cobra.NoArgs,
	RunE: withRuntime(runInterview),
}

var labFlags struct {
	Role     string
	Location string
	AudioOut string
}

func init() {
	salaryCmd.Flags().StringVar(&labFlags.Role, "role", "", "Job title to benchmark")
	salaryCmd.Flags().StringVar(&labFlags.Location, "location", "", "Market to search (default Vietnam)")
	_ = salaryCmd.MarkFlagRequired("role")

	interviewCmd.Flags().StringVar(&labFlags.Role, "role", "", "Role being interviewed for")
	interviewCmd.Flags().StringVar(&labFlags.AudioOut, "audio-out", "", "Where to save the audio (default: media directory)")
	_ = interviewCmd.MarkFlagRequired("role")
}

func runSalary(cmd *cobra.Command, _ []string, r *runtime) error {
	tools := r.workspace.Tools
	tools.SetMarket(labFlags.Role, labFlags.Location)

	r.logger.Info("Searching salary benchmark", "role", labFlags.Role, "location", labFlags.Location)
	result, err := tools.SearchMarket(cmd.Context())
	if err != nil {
		return err
	}
	return r.write(cmd, result)
}

func runSentiment(cmd *cobra.Command, args []string, r *runtime) error {
	tools := r.workspace.Tools
	return run(cmd, r, args,
		func(a []string) (string, error) { return a[0], nonEmpty(a) },
		func(ctx context.Context, text string) (types.SentimentResult, error) {
			tools.SetSentimentText(text)
			return tools.AnalyzeSentiment(ctx)
		},
		func(text string, cfg common.CommandConfig) {
			r.logger.Info("Analyzing feedback sentiment", "chars", len(text), "output_format", cfg.OutputFormat)
		})
}

func runInterview(cmd *cobra.Command, _ []string, r *runtime) error {
	tools := r.workspace.Tools
	tools.SetInterviewRole(labFlags.Role)

	r.logger.Info("Generating interview question", "role", labFlags.Role, "language", r.lang)
	audio, err := tools.GenerateInterviewQuestion(cmd.Context())
	if err != nil {
		return err
	}

	out := types.InterviewAudio{Role: labFlags.Role}
	if audio.Empty() {
		return r.write(cmd, out)
	}

	dir, stem := r.cfg.App.MediaDir, "interview-"+uuid.NewString()[:8]
	if labFlags.AudioOut != "" {
		dir = filepath.Dir(labFlags.AudioOut)
		stem = strings.TrimSuffix(filepath.Base(labFlags.AudioOut), filepath.Ext(labFlags.AudioOut))
	}
	path, err := r.files.SaveMedia(dir, stem, audio)
	if err != nil {
		return err
	}

	out.Path = path
	out.MIMEType = audio.MIMEType
	if info, err := os.Stat(path); err == nil {
		out.Size = info.Size()
	}
	r.logger.Debug("Interview audio saved", "path", path, "size", utils.FormatFileSize(out.Size))
	return r.write(cmd, out)
}
