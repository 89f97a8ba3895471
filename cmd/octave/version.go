package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/elevanaltd/octave/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "version",
		Short:        "Print build version information",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := version.Version
			if v == "" {
				v = "dev"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "octave %s (%s, %s/%s, rev %s)\n",
				v, version.GoVersion, version.GoOS, version.GoArch, version.Revision)
			return nil
		},
	}
}
