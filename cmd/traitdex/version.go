// Version command for the traitdex CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/traitdex/pkg/traitdex"
)

const modulePath = "github.com/mesh-intelligence/traitdex"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the traitdex version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "traitdex v%s\nmodule: %s\n", traitdex.Version, modulePath)
	},
}
