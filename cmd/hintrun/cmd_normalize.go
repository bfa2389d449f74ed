package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/chunkproc/cairohints/input"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize <bundle.json>",
	Short: "Print a private input bundle with every numeral in canonical hex",
	Args:  cobra.ExactArgs(1),
	RunE:  runNormalize,
}

func runNormalize(cmd *cobra.Command, args []string) error {
	s, err := input.Load(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
