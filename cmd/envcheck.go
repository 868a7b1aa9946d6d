package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/discipleshipbydesign/blueprint/internal/ui/theme"
)

var envCheckCmd = &cobra.Command{
	Use:   "env-check",
	Short: "Report which credentials and settings are present (never their values)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		checks := cfg.EnvCheck()
		keys := make([]string, 0, len(checks))
		for k := range checks {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		out := cmd.OutOrStdout()
		for _, k := range keys {
			mark := theme.Failed.Render("✗")
			if checks[k] {
				mark = theme.OK.Render("✓")
			}
			fmt.Fprintf(out, "%s %s\n", mark, k)
		}
		if err := cfg.LLM.Validate(); err != nil {
			fmt.Fprintf(out, "\n%s\n", theme.Hint.Render(err.Error()))
		}
		return nil
	},
}
