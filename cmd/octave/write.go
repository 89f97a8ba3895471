package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/elevanaltd/octave/pipeline"
)

func newWriteCmd() *cobra.Command {
	var schemaPath string
	var inputPath string
	var changesJSON string
	var baseHash string

	cmd := &cobra.Command{
		Use:          "write <target-file>",
		Short:        "Validate and atomically write a document, optionally amending it by dot-path",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := args[0]

			var content []byte
			var changes map[string]any

			switch {
			case changesJSON != "":
				if err := json.Unmarshal([]byte(changesJSON), &changes); err != nil {
					return fmt.Errorf("parsing --changes JSON: %w", err)
				}
			case inputPath != "":
				data, err := readInput(inputPath)
				if err != nil {
					return err
				}
				content = data
			default:
				return fmt.Errorf("one of --in or --changes is required")
			}

			var schemaContent []byte
			if schemaPath != "" {
				data, err := os.ReadFile(schemaPath)
				if err != nil {
					return fmt.Errorf("reading schema %q: %w", schemaPath, err)
				}
				schemaContent = data
			}

			result := pipeline.Write(pipeline.WriteInput{
				Content:       content,
				Changes:       changes,
				TargetPath:    target,
				SchemaContent: schemaContent,
				BaseHash:      baseHash,
			})

			for _, r := range result.Diagnostics {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s: %s\n", r.Severity, r.Code, r.Message)
			}

			if result.Status != pipeline.StatusSuccess {
				return fmt.Errorf("write status: %s", result.Status)
			}

			fmt.Fprintln(cmd.OutOrStdout(), result.CanonicalHash)
			return nil
		},
	}

	cmd.Flags().StringVar(&schemaPath, "schema", "", "path to an external POLICY/FIELDS schema document")
	cmd.Flags().StringVar(&inputPath, "in", "", "path to the document content to write (mutually exclusive with --changes)")
	cmd.Flags().StringVar(&changesJSON, "changes", "", "JSON object of dot-path amendments to apply to the existing target file")
	cmd.Flags().StringVar(&baseHash, "base-hash", "", "expected current content hash for compare-and-swap")

	return cmd
}
