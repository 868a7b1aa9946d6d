package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/discipleshipbydesign/blueprint/internal/intake"
	"github.com/discipleshipbydesign/blueprint/internal/prompt"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Print the prompt an intake would produce (no model call, no database)",
	Long: `Normalize an intake and print the composed prompt.

This is a stateless developer tool: no network, no database. Useful for
reviewing prompt wording and the derived defaults.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().String("intake", "", "Path to intake JSON, or - for stdin (required)")
	previewCmd.Flags().Bool("normalized", false, "Print the normalized intake before the prompt")
	_ = previewCmd.MarkFlagRequired("intake")
}

func runPreview(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("intake")
	showNormalized, _ := cmd.Flags().GetBool("normalized")

	body, err := readInput(cmd, path)
	if err != nil {
		return err
	}
	in, err := intake.Parse(body)
	if err != nil {
		return reportIntake(cmd, err)
	}
	n, err := intake.Normalize(in)
	if err != nil {
		return reportIntake(cmd, err)
	}

	out := cmd.OutOrStdout()
	if showNormalized {
		fmt.Fprintf(out, "Role:         %s\n", n.Role)
		fmt.Fprintf(out, "Design type:  %s\n", n.DesignType)
		fmt.Fprintf(out, "Time horizon: %s\n", n.TimeHorizon)
		fmt.Fprintf(out, "Minutes:      %d\n\n", n.DurationMinutes)
	}
	fmt.Fprintln(out, prompt.Compose(n))
	return nil
}

func reportIntake(cmd *cobra.Command, err error) error {
	var inv *intake.InvalidError
	if errors.As(err, &inv) {
		for _, v := range inv.Violations {
			path := v.Path
			if path == "" {
				path = "(body)"
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", path, v.Message)
		}
	}
	return fmt.Errorf("invalid intake: %w", err)
}
