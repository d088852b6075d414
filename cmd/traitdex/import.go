// Import command ingests generated data files into the store.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/traitdex/internal/jsdata"
)

var importCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Import generated implementor data files",
	Long: `Import parses one or more generated implementor data files and loads
them into the store. Traits named in a file replace any previously stored
records for those traits; other traits are untouched.

Example:
  traitdex import implementors/libx.js
  traitdex import implementors/*.js`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	backend, err := attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		ix, err := jsdata.Parse(data)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}

		if err := backend.LoadIndex(ix); err != nil {
			return fmt.Errorf("loading %s: %w", path, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d traits, %d records\n",
			path, len(ix), ix.Len())
	}

	return nil
}
