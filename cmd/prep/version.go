// Version command for the prep CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/platewise/garnish/pkg/garnish"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the prep version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("prep", garnish.Version)
	},
}
