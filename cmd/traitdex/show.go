// Show command prints the implementor records of one trait.
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/traitdex/pkg/types"
)

var showCmd = &cobra.Command{
	Use:   "show <trait>",
	Short: "Show the implementors of a trait",
	Long: `Show prints the implementor records of a trait in discovery order.
Synthetic (auto-derived) implementations are marked.

Example:
  traitdex show core::ops::drop::Drop
  traitdex show core::marker::Send --json`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	traitName := args[0]

	backend, err := attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	if _, err := lookupTrait(backend, traitName); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return fmt.Errorf("unknown trait %q", traitName)
		}
		return err
	}

	table, err := backend.GetTable(types.TableImplementors)
	if err != nil {
		return fmt.Errorf("get implementors table: %w", err)
	}

	entities, err := table.Fetch(map[string]any{"trait_name": traitName})
	if err != nil {
		return fmt.Errorf("fetch implementors: %w", err)
	}

	if flagJSON {
		return printJSON(entities)
	}

	for _, entity := range entities {
		im := entity.(*types.Implementor)
		marker := ""
		if im.Synthetic {
			marker = "  [synthetic]"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", im.Text, marker)
	}
	return nil
}
