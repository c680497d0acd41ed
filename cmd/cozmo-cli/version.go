package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ariunbolor/cozmo-tools"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of cozmo-cli",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("cozmo-cli version %s\n", strings.TrimSpace(cozmo.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
