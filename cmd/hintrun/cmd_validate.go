package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chunkproc/cairohints/input"
)

var schemaPath string

var validateCmd = &cobra.Command{
	Use:   "validate <bundle.json>",
	Short: "Check a private input bundle against a JSON schema",
	Long: `Validates the normalized bundle. Without --schema the bundle is checked
against the schema of the chunk processor input hints.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&schemaPath, "schema", "", "JSON schema file")
}

func loadSchema(path string) (url, doc string, err error) {
	if path == "" {
		return "chunk_processor.json", input.ChunkProcessorSchema, nil
	}
	data, err := os.ReadFile(path) //#nosec G304 -- path comes from the command line
	if err != nil {
		return "", "", err
	}
	return path, string(data), nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	s, err := input.Load(args[0])
	if err != nil {
		return err
	}
	url, doc, err := loadSchema(schemaPath)
	if err != nil {
		return err
	}
	schema, err := input.CompileSchema(url, doc)
	if err != nil {
		return err
	}
	if err := s.Validate(schema); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d fields)\n", args[0], len(s.Fields()))
	return nil
}
