// List command prints the stored traits.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/traitdex/pkg/types"
)

var flagListCrate string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored traits",
	Long: `List prints every trait in the store, ordered by name. The --crate
flag restricts output to traits defined by one crate.

Example:
  traitdex list
  traitdex list --crate core
  traitdex list --json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&flagListCrate, "crate", "", "only traits from this crate")
}

func runList(cmd *cobra.Command, args []string) error {
	backend, err := attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	table, err := backend.GetTable(types.TableTraits)
	if err != nil {
		return fmt.Errorf("get traits table: %w", err)
	}

	filter := map[string]any{}
	if flagListCrate != "" {
		filter["crate"] = flagListCrate
	}

	traits, err := table.Fetch(filter)
	if err != nil {
		return fmt.Errorf("fetch traits: %w", err)
	}

	if flagJSON {
		return printJSON(traits)
	}

	for _, entity := range traits {
		fmt.Fprintln(cmd.OutOrStdout(), entity.(*types.Trait).Name)
	}
	return nil
}
