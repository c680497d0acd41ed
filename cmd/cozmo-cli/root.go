package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ariunbolor/cozmo-tools/internal/cli"
)

var rootCmd = &cobra.Command{
	Use:   "cozmo-cli [flags]",
	Short: "Interactive command shell for Cozmo state-machine programs",
	Long: `cozmo-cli connects to a robot session and runs an interactive shell.
Lines are classified as shell commands (tm, show, exit, !...), state-machine
controls (runfsm, tracefsm), or expressions evaluated against the session.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		simMode, _ := cmd.Flags().GetBool("sim")
		viewer, _ := cmd.Flags().GetBool("viewer")
		verbosity, _ := cmd.Flags().GetCount("verbose")
		configPath, _ := cmd.Flags().GetString("config")

		err := cli.Execute(cmd.Context(), cli.Options{
			Sim:        simMode,
			Viewer:     viewer,
			Verbosity:  verbosity,
			ConfigPath: configPath,
			Args:       args,
		})
		if err != nil {
			// Connection failures are the one fatal path: report and exit
			// non-zero without cobra's usage text.
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().Bool("sim", false, "Use a simulated robot session instead of the bridge")
	rootCmd.Flags().Bool("viewer", false, "Start the viewer server immediately")
	rootCmd.Flags().CountP("verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	rootCmd.Flags().String("config", "", "Config file (default ~/.cozmo_cli.yaml)")
}
