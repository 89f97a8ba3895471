// Command octave is the CLI front end for the document pipeline: validate,
// write, and eject a structured semantic notation document against an
// optional schema.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/elevanaltd/octave/log"
	"github.com/elevanaltd/octave/profile"
)

func main() {
	logCfg := log.NewConfig()
	profCfg := profile.NewConfig()

	root := newRootCmd(logCfg, profCfg)
	logCfg.RegisterFlags(root.PersistentFlags())
	profCfg.RegisterFlags(root.PersistentFlags())

	if err := logCfg.RegisterCompletions(root); err != nil {
		fmt.Fprintf(os.Stderr, "register log completions: %v\n", err)
	}
	if err := profCfg.RegisterCompletions(root); err != nil {
		fmt.Fprintf(os.Stderr, "register profile completions: %v\n", err)
	}

	root.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		handler, err := logCfg.NewHandler(os.Stderr)
		if err != nil {
			return err
		}
		slog.SetDefault(slog.New(handler))

		prof = profCfg.NewProfiler()
		return prof.Start()
	}
	root.PersistentPostRunE = func(_ *cobra.Command, _ []string) error {
		if prof == nil {
			return nil
		}
		return prof.Stop()
	}

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// prof holds the running profiler session across PersistentPreRunE/
// PersistentPostRunE; cobra invokes them on the same process so a package
// variable is sufficient and avoids threading it through every subcommand's
// RunE via context.
var prof *profile.Profiler
