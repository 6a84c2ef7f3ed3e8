package common

import (
	"context"
	"fmt"
	"io"

	"hrpilot/internal/errors"
)

// CreateInputFunc builds a tool input from the resolved command arguments.
type CreateInputFunc[Input any] func(args []string) (Input, error)

// LogDetailsFunc logs the start of an operation.
type LogDetailsFunc[Input any] func(input Input, cfg CommandConfig)

// ToolFunc runs one AI tool. A failed model call is not an error here: it
// yields the tool's fallback value. Errors are input or state rejections.
type ToolFunc[Input, Output any] func(context.Context, Input) (Output, error)

// RunToolCommand resolves '@file' arguments, builds the input, runs the tool
// and writes the formatted result.
func RunToolCommand[Input, Output any](
	ctx context.Context,
	logger *errors.Logger,
	stdout io.Writer,
	maxFileSize int64,
	cmdConfig CommandConfig,
	args []string,
	createInput CreateInputFunc[Input],
	tool ToolFunc[Input, Output],
	logDetails LogDetailsFunc[Input],
) error {
	fileProcessor := NewFileProcessor(logger, maxFileSize)
	outputHandler := NewOutputHandler(logger, stdout)

	resolved := make([]string, len(args))
	for i, arg := range args {
		v, err := fileProcessor.ReadArg(arg)
		if err != nil {
			return err
		}
		resolved[i] = v
	}

	input, err := createInput(resolved)
	if err != nil {
		return fmt.Errorf("failed to create input: %w", err)
	}

	if logDetails != nil {
		logDetails(input, cmdConfig)
	}

	result, err := tool(ctx, input)
	if err != nil {
		return err
	}

	return outputHandler.HandleOutput(result, cmdConfig)
}
