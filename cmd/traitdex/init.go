// Init command scaffolds the config and data directories.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize traitdex configuration and storage",
	Long: `Init creates the configuration directory with a default config.yaml
and initializes the data directory with an empty store.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Config dir and default config.yaml were created by the root
		// command's config load; attaching scaffolds the data directory.
		backend, err := attachBackend()
		if err != nil {
			return err
		}
		defer backend.Detach()

		dataDir, err := resolveDataDir()
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Initialized traitdex store in %s\n", dataDir)
		return nil
	},
}
