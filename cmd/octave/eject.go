package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/elevanaltd/octave/pipeline"
)

func newEjectCmd() *cobra.Command {
	var schemaPath string
	var format string
	var mode string

	cmd := &cobra.Command{
		Use:          "eject <file|->",
		Short:        "Project a document into octave, json, yaml, or markdown form",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readInput(args[0])
			if err != nil {
				return err
			}

			var schemaContent []byte
			if schemaPath != "" {
				schemaContent, err = os.ReadFile(schemaPath)
				if err != nil {
					return fmt.Errorf("reading schema %q: %w", schemaPath, err)
				}
			}

			result := pipeline.Eject(pipeline.EjectInput{
				Content:       content,
				SchemaContent: schemaContent,
				Format:        pipeline.Format(format),
				Mode:          pipeline.Mode(mode),
			})

			for _, r := range result.Diagnostics {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s: %s\n", r.Severity, r.Code, r.Message)
			}
			if result.Diagnostics.HasErrors() && result.Output == "" {
				return fmt.Errorf("eject failed")
			}

			if result.Lossy {
				fmt.Fprintf(cmd.ErrOrStderr(), "note: %s projection is lossy, fields omitted: %v\n", format, result.FieldsOmitted)
			}

			fmt.Fprint(cmd.OutOrStdout(), result.Output)
			return nil
		},
	}

	cmd.Flags().StringVar(&schemaPath, "schema", "", "path to an external POLICY/FIELDS schema document")
	cmd.Flags().StringVar(&format, "format", string(pipeline.FormatOctave), "output format: octave, json, yaml, markdown, gbnf")
	cmd.Flags().StringVar(&mode, "mode", string(pipeline.ModeCanonical), "projection mode: canonical, executive, developer, authoring, template")

	return cmd
}
