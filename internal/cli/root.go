package cli

import (
	"context"

	"resumelift/internal/config"
	"resumelift/internal/errors"

	"github.com/spf13/cobra"
)

// Private key types keep the context values collision-free.
type configKeyType struct{}
type loggerKeyType struct{}

var configKey = configKeyType{}
var loggerKey = loggerKeyType{}

var rootCmd = &cobra.Command{
	Use:   "resumelift",
	Short: "A CLI tool for rule-based resume optimization",
	Long: `Resumelift is a command-line tool that scores and optimizes resumes
using a deterministic rule engine. It can rate a resume against a job
description, generate improvement suggestions, rewrite weak phrasing, and
recommend keywords for a job posting. The same input always produces the
same output.`,
}

// Execute runs the CLI with the loaded config and logger available to every
// subcommand through the command context.
func Execute(ctx context.Context, cfg *config.Config, logger *errors.Logger) error {
	ctx = context.WithValue(ctx, configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)
	rootCmd.SetContext(ctx)
	return rootCmd.Execute()
}

// getConfigFromContext panics when the value is missing: Execute always sets
// it, so absence is a programming error.
func getConfigFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg
	}
	panic("config not found in context")
}

func getLoggerFromContext(ctx context.Context) *errors.Logger {
	if logger, ok := ctx.Value(loggerKey).(*errors.Logger); ok {
		return logger
	}
	panic("logger not found in context")
}

func init() {
	rootCmd.AddCommand(optimizeCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(keywordsCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
}
