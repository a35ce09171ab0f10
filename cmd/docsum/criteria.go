package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"doc-assistant/internal/app"
)

func criteriaCmd(build func() (app.Deps, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "criteria",
		Short: "List the available evaluation criteria",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := build()
			if err != nil {
				return err
			}
			defer deps.Criteria.Close()

			entries, err := deps.Criteria.List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, e := range entries {
				heading.Fprintln(out, e.Name)
				fmt.Fprintf(out, "  %s\n", e.Explanation)
			}
			return nil
		},
	}
}
