package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonathan/interview-prep/internal/insights"
	"github.com/jonathan/interview-prep/internal/llm"
	"github.com/jonathan/interview-prep/internal/observability"
	"github.com/jonathan/interview-prep/internal/quiz"
	"github.com/jonathan/interview-prep/internal/types"
	"github.com/spf13/cobra"
)

var (
	previewIndustry    string
	previewSkills      []string
	previewShowAnswers bool
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Generate a quiz and print it",
	Long:  `Generate one quiz with the configured model and print it, without touching the database.`,
	RunE:  runQuizPreview,
}

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Generate industry insights and print them",
	RunE:  runInsightsPreview,
}

func init() {
	quizCmd.Flags().StringVar(&previewIndustry, "industry", "", "Industry to generate questions for")
	quizCmd.Flags().StringSliceVar(&previewSkills, "skills", nil, "Comma-separated skills")
	quizCmd.Flags().BoolVar(&previewShowAnswers, "answers", false, "Mark correct answers and show explanations")
	insightsCmd.Flags().StringVar(&previewIndustry, "industry", "", "Industry to analyze (required)")
	_ = insightsCmd.MarkFlagRequired("industry")

	rootCmd.AddCommand(quizCmd, insightsCmd)
}

// previewClient builds the LLM client from config; only the API key is required.
func previewClient(ctx context.Context) (llm.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, err
	}
	client, err := llm.NewClient(ctx, llm.DefaultConfig().WithOverride(cfg.Model), cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return client, nil
}

func runQuizPreview(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	client, err := previewClient(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	q, err := quiz.NewGenerator(client, nil).Generate(ctx, previewIndustry, previewSkills)
	if err != nil {
		var upstream *types.ErrUpstream
		if errors.As(err, &upstream) {
			return errors.New(upstream.Cause())
		}
		return err
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintQuiz(q, previewShowAnswers)
	return nil
}

func runInsightsPreview(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	client, err := previewClient(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	data, err := insights.NewGenerator(client, nil).Generate(ctx, previewIndustry)
	if err != nil {
		return err
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintInsight(previewIndustry, data)
	return nil
}
