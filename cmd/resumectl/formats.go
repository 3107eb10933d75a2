package main

import (
	"fmt"
	"text/tabwriter"

	"resume-export/internal/usecase"

	"github.com/spf13/cobra"
)

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported export formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "FORMAT\tMIME TYPE")
			for _, f := range usecase.Formats {
				fmt.Fprintf(w, "%s\t%s\n", f, usecase.MimeType(f))
			}
			return w.Flush()
		},
	}
}
