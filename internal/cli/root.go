package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

var (
	logLevel  string
	logFile   string
	noColor   bool
	binaryDir string
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "volley",
	Short:   "Drive the oha load generator from the terminal",
	Version: version,
	Long: `Volley wraps the oha HTTP load-generation binary: it builds the
command line from a test definition, streams oha's output while the test
runs, and turns the completion summary into a structured result.`,
	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is provided, print help
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (trace|debug|info|warn|error)")
	RootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write JSON logs to this file (rotated)")
	RootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	RootCmd.PersistentFlags().StringVar(&binaryDir, "binary-dir", "", "extra directory to search for the oha binary")

	RootCmd.AddCommand(runCmd)
	RootCmd.AddCommand(doctorCmd)
}
