package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"google.golang.org/genai"

	"github.com/tokenbench/tokeneval/agent"
	"github.com/tokenbench/tokeneval/api"
	"github.com/tokenbench/tokeneval/gemini"
	"github.com/tokenbench/tokeneval/grading"
	"github.com/tokenbench/tokeneval/harness"
	"github.com/tokenbench/tokeneval/internal/appconfig"
	"github.com/tokenbench/tokeneval/llmjudge"
	"github.com/tokenbench/tokeneval/queries"
	"github.com/tokenbench/tokeneval/report"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Ask the configured agent every benchmark question, then grade the answers",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := currentConfig

		store, err := queries.Load(cfg.QueriesPath, queries.StoreOptions{Tokens: cfg.Tokens})
		if err != nil {
			return err
		}

		if cfg.Agent.APIKey == "" {
			return fmt.Errorf("agent API key is not configured (set TOKENEVAL_AGENT_API_KEY)")
		}
		answerer := agent.NewHTTP(cfg.Agent.Endpoint, cfg.Agent.Model, cfg.Agent.APIKey,
			agent.WithTimeout(cfg.RequestTimeout()))

		h, err := buildHarness(ctx, cfg)
		if err != nil {
			return err
		}

		summary, err := h.Run(ctx, store, answerer, cfg.AgentName())
		if err != nil {
			return err
		}

		return renderAndSave(summary, cfg.OutputPath)
	},
}

// buildHarness assembles the harness from config: the regex pipeline by
// default, the Gemini judge when enabled.
func buildHarness(ctx context.Context, cfg appconfig.Config) (*harness.Harness, error) {
	opts := harness.Options{
		Tokens:      cfg.Tokens,
		Logger:      logger,
		Concurrency: cfg.CollectConcurrency(),
		Delay:       cfg.Delay(),
	}

	if cfg.Judge.Enabled {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			Backend:  genai.BackendVertexAI,
			Project:  cfg.Judge.Project,
			Location: cfg.Judge.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("create judge client: %w", err)
		}
		generator := gemini.NewGenerator(client, cfg.Judge.Model)
		opts.Judge = llmjudge.NewJudge(generator, llmjudge.JudgeOptions{Tokens: cfg.Tokens})
	}

	return harness.New(opts), nil
}

// renderAndSave prints the summary and grading report, then persists the
// combined artifact when an output path is configured.
func renderAndSave(summary api.EvaluationSummary, outputPath string) error {
	gradingReport := grading.GradeRun(summary.Results)

	printer := report.NewPrinter(os.Stdout)
	printer.PrintSummary(summary)
	fmt.Println()
	printer.PrintGradingReport(gradingReport)

	if outputPath == "" {
		return nil
	}
	if err := report.Combine(summary, gradingReport).Save(outputPath); err != nil {
		return err
	}
	fmt.Printf("\nComplete results saved to: %s\n", outputPath)
	return nil
}

func init() {
	rootCmd.AddCommand(runCmd)
}
