package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/elevanaltd/octave/diag"
	"github.com/elevanaltd/octave/pipeline"
)

func newValidateCmd() *cobra.Command {
	var schemaPath string
	var requireSchema bool
	var fix bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:          "validate <file|->",
		Short:        "Lex, parse, normalize, and evaluate a document against its schema",
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

			result := pipeline.Validate(pipeline.ValidateInput{
				Content:       content,
				SchemaContent: schemaContent,
				RequireSchema: requireSchema,
				Fix:           fix,
			})

			if jsonOutput {
				return writeValidateJSON(cmd.OutOrStdout(), result)
			}

			color := diag.IsColorTerminal(cmd.ErrOrStderr())
			if len(result.Diagnostics) > 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), diag.RenderAll(string(content), result.Diagnostics, color))
			}
			if result.Status != pipeline.StatusFailed {
				fmt.Fprint(cmd.OutOrStdout(), result.Canonical)
			}

			if result.Status != pipeline.StatusSuccess {
				return fmt.Errorf("validation status: %s", result.Status)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&schemaPath, "schema", "", "path to an external POLICY/FIELDS schema document")
	cmd.Flags().BoolVar(&requireSchema, "require-schema", false, "fail with E002 if no schema can be resolved")
	cmd.Flags().BoolVar(&fix, "fix", false, "apply REPAIR-tier coercions before evaluating constraints")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "emit the result as a JSON object instead of text")

	return cmd
}

type validateJSON struct {
	Status        string   `json:"status"`
	Canonical     string   `json:"canonical,omitempty"`
	CanonicalHash string   `json:"canonical_hash,omitempty"`
	Diagnostics   []string `json:"diagnostics,omitempty"`
}

func writeValidateJSON(w io.Writer, result pipeline.Result) error {
	out := validateJSON{
		Status:        string(result.Status),
		Canonical:     result.Canonical,
		CanonicalHash: result.CanonicalHash,
	}
	for _, r := range result.Diagnostics {
		out.Diagnostics = append(out.Diagnostics, fmt.Sprintf("%s: %s: %s", r.Severity, r.Code, r.Message))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	return data, nil
}
