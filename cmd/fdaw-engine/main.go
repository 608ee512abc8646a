// Command fdaw-engine is a headless driver for the engine: it loads a
// project file and either validates it, dumps a summary of its contents,
// or runs it through a fixed number of silent blocks to exercise the
// Scheduler and Audio Graph without any real audio device.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "fdaw-engine",
		Short:        "Headless driver for a riff-daw project file",
		SilenceUsage: true,
	}
	root.AddCommand(newValidateCmd())
	root.AddCommand(newDumpCmd())
	root.AddCommand(newPlayNullCmd())
	return root
}
