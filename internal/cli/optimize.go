package cli

import (
	"context"
	"fmt"

	"resumelift/internal/common"
	"resumelift/internal/engine"
	"resumelift/internal/types"

	"github.com/spf13/cobra"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize [resume-file]",
	Short: "Score and optimize a resume",
	Long: `Score a resume and produce an optimized version of it.
The command takes one argument: the path to your resume file in plain text
format. Pass --job to also measure keyword alignment against a job
description, and --type to pick the optimization emphasis.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if optimizeConfig.OutputFormat == "" {
			optimizeConfig.OutputFormat = cfg.App.DefaultFormat
		}
		if optimizeType != "" && !types.OptimizationType(optimizeType).Valid() {
			return fmt.Errorf("invalid optimization type '%s'. Supported types: general, ats, keywords, format", optimizeType)
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(optimizeConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runOptimize,
}

var (
	optimizeConfig  common.CommandConfig
	optimizeJobFile string
	optimizeType    string
)

func init() {
	optimizeCmd.Flags().StringVarP(&optimizeConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	optimizeCmd.Flags().StringVar(&optimizeConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	optimizeCmd.Flags().StringVarP(&optimizeJobFile, "job", "j", "", "Job description file for keyword alignment (optional)")
	optimizeCmd.Flags().StringVarP(&optimizeType, "type", "t", "", "Optimization type: general, ats, keywords, format (default: general)")

	// Add completion for format flag
	_ = optimizeCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
	_ = optimizeCmd.RegisterFlagCompletionFunc("type", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"general", "ats", "keywords", "format"}, cobra.ShellCompDirectiveNoFileComp
	})
}

func runOptimize(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	// Create engine service for optimize operation
	optimizeEngineConfig := cfg.GetOptimizeConfig()
	engineService, err := engine.NewService(&optimizeEngineConfig, "optimize", logger)
	if err != nil {
		return fmt.Errorf("failed to create engine service: %w", err)
	}

	// The job description file is optional; when given it is read alongside
	// the resume.
	files := args
	if optimizeJobFile != "" {
		files = append(files, optimizeJobFile)
	}

	createInput := func(contents []string) (types.OptimizeResumeInput, error) {
		input := types.OptimizeResumeInput{
			ResumeContent:    contents[0],
			OptimizationType: types.OptimizationType(optimizeType),
		}
		if len(contents) > 1 {
			input.JobDescription = contents[1]
		}
		return input, nil
	}

	logDetails := func(input types.OptimizeResumeInput, cfg common.CommandConfig) {
		logger.Info("Starting resume optimization",
			"resume_chars", len(input.ResumeContent),
			"job_chars", len(input.JobDescription),
			"optimization_type", string(input.OptimizationType),
			"output_format", cfg.OutputFormat)
	}

	// Create a wrapper function that uses our specific engine service
	optimizeOperation := func(ctx context.Context, input types.OptimizeResumeInput) (types.OptimizeResumeOutput, *engine.TextStats, error) {
		return engineService.Engine.OptimizeResume(ctx, input)
	}

	err = common.RunEngineCommand(
		cmd.Context(),
		logger,
		optimizeConfig,
		files,
		createInput,
		optimizeOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to optimize resume: %w", err)
	}
	logger.Info("Resume optimization completed successfully")
	return nil
}
