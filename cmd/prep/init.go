// Init command for the prep CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initDemo bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the modifier store",
	Long:  `Create the data directory and database schema. With --demo, seed a sample sandwich menu.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "init:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		if initDemo {
			if err := backend.Seed(context.Background()); err != nil {
				fail("seed demo menu", err)
			}
		}

		dataDir, _ := resolveDataDir()
		fmt.Println("initialized store in", dataDir)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initDemo, "demo", false, "seed a sample sandwich menu")
}
