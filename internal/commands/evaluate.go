package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tokenbench/tokeneval/queries"
)

var evaluateAgentName string

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <responses.json>",
	Short: "Grade previously collected responses without calling the agent",
	Long: `Grade a JSON file of pre-collected responses, keyed by query ID:

  {"pct_tao_above_400": "TAO was above $400 on about 13% of days.", ...}`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := currentConfig

		store, err := queries.Load(cfg.QueriesPath, queries.StoreOptions{Tokens: cfg.Tokens})
		if err != nil {
			return err
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read responses: %w", err)
		}
		var responses map[string]string
		if err := json.Unmarshal(data, &responses); err != nil {
			return fmt.Errorf("parse responses: %w", err)
		}
		for id := range responses {
			if _, err := store.Lookup(id); err != nil {
				return fmt.Errorf("responses file: %w", err)
			}
		}

		h, err := buildHarness(ctx, cfg)
		if err != nil {
			return err
		}

		agentName := evaluateAgentName
		if agentName == "" {
			agentName = cfg.AgentName()
		}
		summary := h.Evaluate(ctx, store, agentName, responses)

		return renderAndSave(summary, cfg.OutputPath)
	},
}

func init() {
	evaluateCmd.Flags().StringVar(&evaluateAgentName, "agent-name", "", "display name for the graded agent")
	rootCmd.AddCommand(evaluateCmd)
}
