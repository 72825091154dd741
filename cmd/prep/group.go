// Group command family for the prep CLI.
package main

import "github.com/spf13/cobra"

var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Manage modifier groups",
}

func init() {
	groupCmd.AddCommand(groupCreateCmd)
	groupCmd.AddCommand(groupUpdateCmd)
	groupCmd.AddCommand(groupDeleteCmd)
	groupCmd.AddCommand(groupDuplicateCmd)
	groupCmd.AddCommand(groupMoveCmd)
	groupCmd.AddCommand(groupReorderCmd)
}
