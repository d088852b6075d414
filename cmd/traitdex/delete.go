// Delete command removes a trait and its implementor records.
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/traitdex/pkg/types"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <trait>",
	Short: "Delete a trait and its implementors",
	Long: `Delete removes a trait from the store along with every implementor
record registered under it.

Example:
  traitdex delete libx::clone::CloneIn`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	traitName := args[0]

	backend, err := attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	trait, err := lookupTrait(backend, traitName)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return fmt.Errorf("unknown trait %q", traitName)
		}
		return err
	}

	table, err := backend.GetTable(types.TableTraits)
	if err != nil {
		return fmt.Errorf("get traits table: %w", err)
	}
	if err := table.Delete(trait.TraitID); err != nil {
		return fmt.Errorf("delete trait: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", traitName)
	return nil
}
