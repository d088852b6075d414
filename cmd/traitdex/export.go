// Export command emits the stored index as a generated data file.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/traitdex/internal/jsdata"
	"github.com/mesh-intelligence/traitdex/pkg/types"
)

var flagExportOut string

var exportCmd = &cobra.Command{
	Use:   "export [crate]",
	Short: "Export the stored index as an implementor data file",
	Long: `Export renders the stored index back into the generated data-file
format, ready for the documentation site. With a crate argument, only
traits defined by that crate are exported.

Example:
  traitdex export
  traitdex export core --out implementors/core.js`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&flagExportOut, "out", "", "output file (default: stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	backend, err := attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	ix, err := backend.BuildIndex()
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}

	if len(args) == 1 {
		crate := args[0]
		filtered := types.NewIndex()
		for _, trait := range ix.Traits() {
			if types.TraitCrate(trait) == crate {
				filtered[trait] = ix[trait]
			}
		}
		ix = filtered
	}

	data, err := jsdata.Emit(ix)
	if err != nil {
		return fmt.Errorf("emit index: %w", err)
	}

	if flagExportOut == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(flagExportOut, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", flagExportOut, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d traits, %d records\n",
		flagExportOut, len(ix), ix.Len())
	return nil
}
