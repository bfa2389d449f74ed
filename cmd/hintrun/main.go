// Command hintrun exercises the hint engine outside a VM: it normalizes and
// validates private input bundles and dry-runs scripted hint sequences
// against scratch memory.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/chunkproc/cairohints/logger"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:           "hintrun",
	Short:         "Dry-run Cairo hints against scratch memory",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		logger.Set(logger.Logger().Output(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: "15:04:05"}).Level(level))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every executed hint")
	rootCmd.AddCommand(normalizeCmd, validateCmd, runCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
