package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chunkproc/cairohints/input"
	"github.com/chunkproc/cairohints/internal/stats"
	"github.com/chunkproc/cairohints/logger"
	"github.com/chunkproc/cairohints/processor"
	"github.com/chunkproc/cairohints/vm"
)

var runFlags struct {
	input, script, schema, dump, stats string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute a scripted sequence of hints against scratch memory",
	Long: `Builds a scratch machine, lays out the script frame from fp and executes
each step through the hint processor. The run stops at the first error.

Example script:

  frame:
    - name: from_block_number_high
    - name: mmr_last_root_keccak
      size: 2
    - name: block_headers_array
      pointer: true
  steps:
    - hint: read_input
    - hint: read_block_headers`,
	Args: cobra.NoArgs,
	RunE: runScript,
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&runFlags.input, "input", "", "private input bundle (JSON)")
	f.StringVar(&runFlags.script, "script", "", "run script (YAML)")
	f.StringVar(&runFlags.schema, "schema", "", "validate the bundle against this JSON schema first")
	f.StringVar(&runFlags.dump, "dump", "", "write the final memory as CBOR to this file")
	f.StringVar(&runFlags.stats, "stats", "", "write per hint counters (gob) to this file")
	_ = runCmd.MarkFlagRequired("script")
}

func runScript(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(runFlags.script) //#nosec G304 -- path comes from the command line
	if err != nil {
		return err
	}
	script, err := ParseScript(data)
	if err != nil {
		return err
	}

	inputs := input.New(nil)
	if runFlags.input != "" {
		if inputs, err = input.Load(runFlags.input); err != nil {
			return err
		}
	}

	opts := []processor.Option{
		processor.WithLogger(*logger.Logger()),
		processor.WithOutput(cmd.OutOrStdout()),
	}
	if runFlags.schema != "" {
		url, doc, err := loadSchema(runFlags.schema)
		if err != nil {
			return err
		}
		schema, err := input.CompileSchema(url, doc)
		if err != nil {
			return err
		}
		opts = append(opts, processor.WithSchema(schema))
	}
	var counters *stats.GlobalStats
	if runFlags.stats != "" {
		counters = stats.NewGlobalStats()
		opts = append(opts, processor.WithStats(counters))
	}
	p, err := processor.New(inputs, opts...)
	if err != nil {
		return err
	}

	machine := vm.New()
	refs, err := script.Build(machine)
	if err != nil {
		return fmt.Errorf("build frame: %w", err)
	}

	for i, step := range script.Steps {
		code := step.Code
		if step.Hint != "" {
			h, ok := p.HintByName(step.Hint)
			if !ok {
				return fmt.Errorf("steps[%d]: no hint named %s", i, step.Hint)
			}
			code = h.Codes[0]
		}
		data := &vm.HintData{Code: code, Ids: refs}
		if err := p.ExecuteHint(machine, data); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	}

	if runFlags.dump != "" {
		snapshot, err := machine.Memory.MarshalBinary()
		if err != nil {
			return err
		}
		if err := os.WriteFile(runFlags.dump, snapshot, 0o600); err != nil {
			return err
		}
	}
	if counters != nil {
		if err := counters.Save(runFlags.stats); err != nil {
			return err
		}
	}
	logger.Logger().Info().Int("steps", len(script.Steps)).Int("segments", machine.Memory.NumSegments()).Msg("run complete")
	return nil
}
