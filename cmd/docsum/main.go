package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"doc-assistant/internal/app"
)

func main() {
	if err := newRootCmd(app.BuildCLI).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd wires subcommands to dependencies built lazily by build, so
// --help works without a reachable model server.
func newRootCmd(build func() (app.Deps, error)) *cobra.Command {
	root := &cobra.Command{
		Use:           "docsum",
		Short:         "Summarize or query PDF documents with an LLM",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(summarizeCmd(build))
	root.AddCommand(queryCmd(build))
	root.AddCommand(criteriaCmd(build))
	return root
}
