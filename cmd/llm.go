package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/discipleshipbydesign/blueprint/internal/llm"
	"github.com/discipleshipbydesign/blueprint/internal/pipeline"
	"github.com/discipleshipbydesign/blueprint/internal/store"
	"github.com/discipleshipbydesign/blueprint/internal/ui/render"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the model calls made by generation runs",
}

var llmRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent generation runs with their first attempt and repair grouped",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openCLIStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		// A run is at most MaxInvocations calls; fetch enough to fill limit.
		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit * pipeline.MaxInvocations})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		runs := store.GroupRuns(priced(events))
		if len(runs) > limit {
			runs = runs[:limit]
		}
		render.Runs(cmd.OutOrStdout(), runs)
		return nil
	},
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent model calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		requestID, _ := cmd.Flags().GetString("request")

		s, err := openCLIStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{
			Limit:     limit,
			Purpose:   purpose,
			RequestID: requestID,
		})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		render.Events(cmd.OutOrStdout(), events)
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the prompt and raw output of one model call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		s, err := openCLIStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}
		if e.CostUSD == 0 {
			e.CostUSD = estimate(e.Model, e.InputTokens, e.OutputTokens)
		}
		render.Event(cmd.OutOrStdout(), e)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage, repair rate and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openCLIStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		purposes, err := s.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		usage, err := s.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}

		models := make([]render.ModelCost, 0, len(usage))
		for _, mu := range usage {
			mc := render.ModelCost{ModelUsage: mu, Priced: mu.CostUSD > 0}
			if !mc.Priced {
				if c := llm.LookupCost(mu.Model); c != nil {
					mc.CostUSD = c.Cost(mu.InputTokens, mu.OutputTokens)
					mc.Priced = true
				}
			}
			models = append(models, mc)
		}
		render.Usage(cmd.OutOrStdout(), purposes, models)
		return nil
	},
}

// priced fills in an estimated cost for events recorded without one.
func priced(events []store.LLMEventRecord) []store.LLMEventRecord {
	for i := range events {
		if events[i].CostUSD == 0 {
			events[i].CostUSD = estimate(events[i].Model, events[i].InputTokens, events[i].OutputTokens)
		}
	}
	return events
}

func estimate(model string, in, out int) float64 {
	c := llm.LookupCost(model)
	if c == nil {
		return 0
	}
	return c.Cost(in, out)
}

func openCLIStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return openStore(cfg, cliLogger(cfg))
}

func init() {
	llmRunsCmd.Flags().IntP("limit", "n", 10, "Number of runs to show")
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of calls to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (blueprint, blueprint-repair)")
	llmListCmd.Flags().StringP("request", "r", "", "Show only the calls of one request id")

	llmCmd.AddCommand(llmRunsCmd)
	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
