package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Itshalffull/propbind"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of propbind",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "propbind version %s\n", propbind.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
