package cli

import (
	"context"
	"fmt"
	"time"

	"hrpilot/internal/ai"
	"hrpilot/internal/common"
	"hrpilot/internal/config"
	"hrpilot/internal/errors"
	"hrpilot/internal/observability"
	"hrpilot/internal/panel"
	"hrpilot/internal/types"

	"github.com/spf13/cobra"
)

// runtime is what an AI-backed command needs: the service, a workspace of
// panels around it and the resolved output settings.
type runtime struct {
	cfg       *config.Config
	logger    *errors.Logger
	om        *observability.ObservabilityManager
	service   *ai.Service
	workspace *panel.Workspace
	files     *common.FileProcessor
	lang      types.Language
	output    common.CommandConfig
}

// assistantFactory builds the assistant behind the panels. Tests replace it.
var assistantFactory = func(ctx context.Context, cfg *config.Config, prompts *config.PromptStore, om *observability.ObservabilityManager, logger *errors.Logger) (panel.Assistant, *ai.Service, error) {
	svc, err := ai.NewService(ctx, cfg,
		ai.WithLogger(logger),
		ai.WithPromptStore(prompts),
		ai.WithObservability(om),
		ai.WithObserver(func(tool types.ToolKind, phase ai.Phase) {
			logger.Debug("Tool phase", "tool", tool, "phase", phase)
		}),
	)
	if err != nil {
		return nil, nil, err
	}
	return svc, svc, nil
}

func newRuntime(cmd *cobra.Command) (*runtime, error) {
	ctx := cmd.Context()
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	om, err := observability.NewObservabilityManager(observability.GetObservabilityConfig(cfg, Version), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize observability: %w", err)
	}

	assistant, svc, err := assistantFactory(ctx, cfg, getPromptsFromContext(ctx), om, logger)
	if err != nil {
		shutdownObservability(om, logger)
		return nil, fmt.Errorf("failed to create AI service: %w", err)
	}

	lang := types.Language(globalFlags.Language)
	return &runtime{
		cfg:       cfg,
		logger:    logger,
		om:        om,
		service:   svc,
		workspace: panel.NewWorkspace(assistant, lang, logger),
		files:     common.NewFileProcessor(logger, cfg.App.MaxFileSize),
		lang:      lang,
		output:    globalFlags.CommandConfig,
	}, nil
}

// Close releases the service and flushes telemetry.
func (r *runtime) Close() {
	if r.service != nil {
		if err := r.service.Close(); err != nil {
			r.logger.LogError(err, "Failed to close AI service")
		}
	}
	shutdownObservability(r.om, r.logger)
}

func shutdownObservability(om *observability.ObservabilityManager, logger *errors.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := om.Shutdown(ctx); err != nil {
		logger.LogError(err, "Failed to shutdown observability")
	}
}

// write formats data to the configured output.
func (r *runtime) write(cmd *cobra.Command, data any) error {
	return common.NewOutputHandler(r.logger, cmd.OutOrStdout()).HandleOutput(data, r.output)
}

// run executes a tool command through the shared runner.
func run[Input, Output any](cmd *cobra.Command, r *runtime, args []string,
	createInput common.CreateInputFunc[Input], tool common.ToolFunc[Input, Output], logDetails common.LogDetailsFunc[Input]) error {
	return common.RunToolCommand(cmd.Context(), r.logger, cmd.OutOrStdout(), r.cfg.App.MaxFileSize,
		r.output, args, createInput, tool, logDetails)
}

// withRuntime adapts a command body that needs a runtime to cobra's RunE.
func withRuntime(body func(cmd *cobra.Command, args []string, r *runtime) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		r, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer r.Close()
		return body(cmd, args, r)
	}
}
