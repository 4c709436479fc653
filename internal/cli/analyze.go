package cli

import (
	"context"
	"fmt"

	"resumelift/internal/common"
	"resumelift/internal/engine"
	"resumelift/internal/types"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [resume-file]",
	Short: "Analyze a resume in detail without rewriting it",
	Long: `Analyze a resume and report its score breakdown, strengths,
weaknesses, and recommended sections. Pass --job to also list job
description keywords the resume is missing.

The analysis includes:
- Overall score with per-criterion breakdown
- Strengths and weaknesses derived from the rules
- Missing keywords against an optional job description
- Recommended sections and readability`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if analyzeConfig.OutputFormat == "" {
			analyzeConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(analyzeConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runAnalyze,
}

var (
	analyzeConfig  common.CommandConfig
	analyzeJobFile string
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	analyzeCmd.Flags().StringVar(&analyzeConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	analyzeCmd.Flags().StringVarP(&analyzeJobFile, "job", "j", "", "Job description file for keyword comparison (optional)")

	// Add completion for format flag
	_ = analyzeCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	// Create engine service for analyze operation
	analyzeEngineConfig := cfg.GetAnalyzeConfig()
	engineService, err := engine.NewService(&analyzeEngineConfig, "analyze", logger)
	if err != nil {
		return fmt.Errorf("failed to create engine service: %w", err)
	}

	files := args
	if analyzeJobFile != "" {
		files = append(files, analyzeJobFile)
	}

	createInput := func(contents []string) (types.AnalyzeResumeInput, error) {
		input := types.AnalyzeResumeInput{
			ResumeContent: contents[0],
		}
		if len(contents) > 1 {
			input.JobDescription = contents[1]
		}
		return input, nil
	}

	logDetails := func(input types.AnalyzeResumeInput, cfg common.CommandConfig) {
		logger.Info("Starting resume analysis",
			"resume_chars", len(input.ResumeContent),
			"job_chars", len(input.JobDescription),
			"output_format", cfg.OutputFormat)
	}

	// Create a wrapper function that uses our specific engine service
	analyzeOperation := func(ctx context.Context, input types.AnalyzeResumeInput) (types.AnalyzeResumeOutput, *engine.TextStats, error) {
		return engineService.Engine.AnalyzeResume(ctx, input)
	}

	err = common.RunEngineCommand(
		cmd.Context(),
		logger,
		analyzeConfig,
		files,
		createInput,
		analyzeOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to analyze resume: %w", err)
	}
	logger.Info("Resume analysis completed successfully")
	return nil
}
