package cli

import (
	"context"
	"fmt"

	"hrpilot/internal/common"
	"hrpilot/internal/config"
	"hrpilot/internal/errors"
	"hrpilot/internal/types"

	"github.com/spf13/cobra"
)

// Define custom private types for context keys.
type configKeyType struct{}
type loggerKeyType struct{}
type promptsKeyType struct{}

var (
	configKey  = configKeyType{}
	loggerKey  = loggerKeyType{}
	promptsKey = promptsKeyType{}
)

// globalFlags are the persistent flags shared by every command.
var globalFlags struct {
	Language string
	common.CommandConfig
}

var rootCmd = &cobra.Command{
	Use:   "hrpilot",
	Short: "An AI assistant for HR teams",
	Long: `hrpilot puts a generative model behind everyday HR work: job description
analysis, CV screening, job posts with images and video, onboarding checklists,
welcome emails, salary benchmarks, retention sentiment and spoken interview
questions. A failed model call never aborts a command; you get a safe default
instead.`,
	SilenceUsage:      true,
	PersistentPreRunE: resolveGlobalFlags,
}

// Execute runs the CLI with cfg, logger and the prompt store attached to ctx.
// prompts may be nil.
func Execute(ctx context.Context, cfg *config.Config, logger *errors.Logger, prompts *config.PromptStore) error {
	ctx = context.WithValue(ctx, configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)
	ctx = context.WithValue(ctx, promptsKey, prompts)
	rootCmd.SetContext(ctx)
	return rootCmd.Execute()
}

// getConfigFromContext is a helper function to get config from context
func getConfigFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg
	}
	panic("config not found in context") // Should not happen if properly initialized
}

// getLoggerFromContext is a helper function to get logger from context
func getLoggerFromContext(ctx context.Context) *errors.Logger {
	if logger, ok := ctx.Value(loggerKey).(*errors.Logger); ok {
		return logger
	}
	panic("logger not found in context") // Should not happen if properly initialized
}

func getPromptsFromContext(ctx context.Context) *config.PromptStore {
	store, _ := ctx.Value(promptsKey).(*config.PromptStore)
	return store
}

// resolveGlobalFlags applies config defaults to --lang and --format and
// validates both.
func resolveGlobalFlags(cmd *cobra.Command, _ []string) error {
	cfg := getConfigFromContext(cmd.Context())

	if globalFlags.OutputFormat == "" {
		globalFlags.OutputFormat = cfg.App.DefaultFormat
	}
	if err := common.ValidateOutputFormat(globalFlags.OutputFormat, cfg.App.SupportedFormats); err != nil {
		return err
	}

	if globalFlags.Language == "" {
		globalFlags.Language = cfg.App.DefaultLanguage
	}
	lang, err := types.ParseLanguage(globalFlags.Language)
	if err != nil {
		return fmt.Errorf("--lang: %w", err)
	}
	globalFlags.Language = string(lang)
	return nil
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&globalFlags.Language, "lang", "", "Output language: vi or en (default from config)")
	flags.StringVar(&globalFlags.OutputFormat, "format", "", "Output format: json, text, or markdown")
	flags.StringVarP(&globalFlags.OutputFile, "output", "o", "", "Output file path (default: stdout)")

	_ = rootCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.OutputFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("lang", cobra.FixedCompletions(
		[]string{string(types.Vietnamese), string(types.English)}, cobra.ShellCompDirectiveNoFileComp))

	rootCmd.AddCommand(analyzeJDCmd)
	rootCmd.AddCommand(scoreCVCmd)
	rootCmd.AddCommand(postCmd)
	rootCmd.AddCommand(onboardCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(salaryCmd)
	rootCmd.AddCommand(sentimentCmd)
	rootCmd.AddCommand(interviewCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(versionCmd)
}
