package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/discipleshipbydesign/blueprint/internal/store"
	"github.com/discipleshipbydesign/blueprint/internal/ui/render"
	"github.com/discipleshipbydesign/blueprint/internal/ui/theme"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a stored blueprint",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().Bool("json", false, "Print the blueprint document as JSON")
}

func runShow(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	s, err := openCLIStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	rec, err := s.BlueprintRepo().Get(cmd.Context(), args[0])
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("blueprint %s not found", args[0])
	}
	if err != nil {
		return fmt.Errorf("get blueprint: %w", err)
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rec.Blueprint)
	}
	fmt.Fprintln(out, theme.Hint.Render(fmt.Sprintf("%s · owner %s · schema %s · %s",
		rec.ID, rec.OwnerID, rec.SchemaVersion, rec.CreatedAt.Local().Format("2006-01-02 15:04"))))
	render.Blueprint(out, rec.Blueprint)
	return nil
}
