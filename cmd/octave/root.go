package main

import (
	"github.com/spf13/cobra"

	"github.com/elevanaltd/octave/log"
	"github.com/elevanaltd/octave/profile"
)

// newRootCmd wires every subcommand under a single octave binary. logCfg
// and profCfg are registered as persistent flags by the caller, since their
// flag sets must be attached before RegisterCompletions runs.
func newRootCmd(_ *log.Config, _ *profile.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "octave",
		Short:         "Validate, write, and eject structured semantic notation documents",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	root.AddCommand(newValidateCmd())
	root.AddCommand(newWriteCmd())
	root.AddCommand(newEjectCmd())
	root.AddCommand(newVersionCmd())

	return root
}
