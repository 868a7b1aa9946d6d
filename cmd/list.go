package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/discipleshipbydesign/blueprint/internal/store"
	"github.com/discipleshipbydesign/blueprint/internal/ui/render"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored blueprints for an owner, newest first",
	RunE:  runList,
}

func init() {
	listCmd.Flags().String("owner", "", "Owner id (required)")
	listCmd.Flags().IntP("limit", "n", store.DefaultListLimit, "Maximum number of blueprints")
	_ = listCmd.MarkFlagRequired("owner")
}

func runList(cmd *cobra.Command, args []string) error {
	owner, _ := cmd.Flags().GetString("owner")
	limit, _ := cmd.Flags().GetInt("limit")

	s, err := openCLIStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	items, err := s.BlueprintRepo().ListByOwner(cmd.Context(), owner, limit)
	if err != nil {
		return fmt.Errorf("list blueprints: %w", err)
	}
	render.List(cmd.OutOrStdout(), items)
	return nil
}
