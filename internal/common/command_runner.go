package common

import (
	"context"
	"fmt"
	"os"

	"resumelift/internal/engine"
	"resumelift/internal/errors"
)

// CreateInputFunc builds an operation's input from the file contents, in
// argument order.
type CreateInputFunc[Input any] func(contents []string) (Input, error)

// LogDetailsFunc logs the start of an operation.
type LogDetailsFunc[Input any] func(input Input, cfg CommandConfig)

// EngineOperationFunc is any engine operation that reports text stats.
type EngineOperationFunc[Input, Output any] func(context.Context, Input) (Output, *engine.TextStats, error)

// RunEngineCommand is the shared driver for the file-based CLI commands:
// read and validate the input files, build the operation input, run it, log
// word throughput, and write the formatted result.
func RunEngineCommand[Input, Output any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	args []string,
	createInput CreateInputFunc[Input],
	operation EngineOperationFunc[Input, Output],
	logDetails LogDetailsFunc[Input],
) error {
	fileProcessor := NewFileProcessor(logger)
	outputHandler := NewOutputHandler(logger)

	contents, err := fileProcessor.ValidateAndReadFiles(args...)
	if err != nil {
		return err
	}

	input, err := createInput(contents)
	if err != nil {
		return fmt.Errorf("failed to create input from file contents: %w", err)
	}

	logDetails(input, cmdConfig)

	result, stats, err := operation(ctx, input)
	if err != nil {
		return err
	}

	if stats != nil {
		if logger != nil {
			logger.Info("Engine text stats", "input_words", stats.InputWords, "output_words", stats.OutputWords)
		} else {
			fmt.Fprintf(os.Stderr, "Engine text stats: input=%d words, output=%d words\n", stats.InputWords, stats.OutputWords)
		}
	}

	return outputHandler.HandleOutput(result, cmdConfig)
}
