package cli

import (
	"context"
	"fmt"

	"resumelift/internal/common"
	"resumelift/internal/engine"
	"resumelift/internal/types"

	"github.com/spf13/cobra"
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords --title [job-title] [job-description-file]",
	Short: "Recommend keywords for a job posting",
	Long: `Recommend resume keywords for a job posting. The professional field
is inferred from the job title, and the optional job description file
contributes additional terms. Useful before tailoring a resume so you know
which skills to surface.`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if keywordsConfig.OutputFormat == "" {
			keywordsConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(keywordsConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runKeywords,
}

var (
	keywordsConfig common.CommandConfig
	keywordsTitle  string
)

func init() {
	keywordsCmd.Flags().StringVarP(&keywordsConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	keywordsCmd.Flags().StringVar(&keywordsConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	keywordsCmd.Flags().StringVar(&keywordsTitle, "title", "", "Job title to recommend keywords for (required)")
	_ = keywordsCmd.MarkFlagRequired("title")

	// Add completion for format flag
	_ = keywordsCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runKeywords(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	// Create engine service for keywords operation
	keywordsEngineConfig := cfg.GetKeywordsConfig()
	engineService, err := engine.NewService(&keywordsEngineConfig, "keywords", logger)
	if err != nil {
		return fmt.Errorf("failed to create engine service: %w", err)
	}

	createInput := func(contents []string) (types.JobKeywordsInput, error) {
		input := types.JobKeywordsInput{
			JobTitle: keywordsTitle,
		}
		if len(contents) > 0 {
			input.JobDescription = contents[0]
		}
		return input, nil
	}

	logDetails := func(input types.JobKeywordsInput, cfg common.CommandConfig) {
		logger.Info("Starting job keyword recommendation",
			"job_title", input.JobTitle,
			"job_chars", len(input.JobDescription),
			"output_format", cfg.OutputFormat)
	}

	// Create a wrapper function that uses our specific engine service
	keywordsOperation := func(ctx context.Context, input types.JobKeywordsInput) (types.JobKeywordsOutput, *engine.TextStats, error) {
		return engineService.Engine.JobKeywords(ctx, input)
	}

	err = common.RunEngineCommand(
		cmd.Context(),
		logger,
		keywordsConfig,
		args,
		createInput,
		keywordsOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to recommend keywords: %w", err)
	}
	logger.Info("Job keyword recommendation completed successfully")
	return nil
}
