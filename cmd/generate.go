package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/discipleshipbydesign/blueprint/internal/ctxutil"
	"github.com/discipleshipbydesign/blueprint/internal/llm"
	"github.com/discipleshipbydesign/blueprint/internal/pipeline"
	"github.com/discipleshipbydesign/blueprint/internal/ui/render"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate and store a blueprint from an intake file",
	Long: `Run the full pipeline for one intake: normalize, prompt the model, validate,
repair at most once, and store the result under --owner.

Use --intake - to read the intake from stdin.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("intake", "", "Path to intake JSON, or - for stdin (required)")
	generateCmd.Flags().String("owner", "", "Owner id to store the blueprint under (required)")
	generateCmd.Flags().Bool("json", false, "Print the stored blueprint as JSON instead of an outline")
	_ = generateCmd.MarkFlagRequired("intake")
	_ = generateCmd.MarkFlagRequired("owner")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	intakePath, _ := cmd.Flags().GetString("intake")
	owner, _ := cmd.Flags().GetString("owner")
	asJSON, _ := cmd.Flags().GetBool("json")

	body, err := readInput(cmd, intakePath)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := cliLogger(cfg)

	s, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := ctxutil.WithTraceData(cmd.Context(), &ctxutil.TraceData{RequestID: uuid.NewString()})
	inv := llm.NewInvoker(ctx, cfg.LLM, s.EventRepo(), log)
	orch := pipeline.New(inv, s.BlueprintRepo(), pipeline.WithLogger(log))

	out := cmd.OutOrStdout()
	fmt.Fprintf(cmd.ErrOrStderr(), "Generating with %s...\n", cfg.LLM.ModelID())
	res, err := orch.RunJSON(ctx, owner, body)
	if err != nil {
		var f *pipeline.Failure
		if errors.As(err, &f) {
			details := map[string][]string(nil)
			if len(f.Violations) > 0 {
				details = f.Violations.Map()
			}
			render.Failure(cmd.ErrOrStderr(), string(f.Stage), f.Message, details)
		}
		return err
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"id": res.ID, "blueprint": res.Blueprint})
	}
	render.Blueprint(out, res.Blueprint)
	fmt.Fprintf(out, "\nStored as %s (%d attempt(s))\n", res.ID, len(res.Attempts))
	return nil
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read intake: %w", err)
	}
	return data, nil
}
