// Modifier command family for the prep CLI.
package main

import "github.com/spf13/cobra"

var modifierCmd = &cobra.Command{
	Use:   "modifier",
	Short: "Manage modifiers inside groups",
}

func init() {
	modifierCmd.AddCommand(modifierAddCmd)
	modifierCmd.AddCommand(modifierUpdateCmd)
	modifierCmd.AddCommand(modifierDeleteCmd)
	modifierCmd.AddCommand(modifierDefaultCmd)
	modifierCmd.AddCommand(modifierReorderCmd)
}
