package main

import (
	"fmt"
	"os"

	"resume-export/internal/docx"

	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	var headingsOnly bool
	cmd := &cobra.Command{
		Use:   "inspect <file.docx>",
		Short: "Print the paragraphs of an exported DOCX file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			paras, err := docx.ReadParagraphs(data)
			if err != nil {
				return err
			}
			if headingsOnly {
				paras = docx.Headings(paras)
			}
			out := cmd.OutOrStdout()
			for _, p := range paras {
				style := p.Style
				if style == "" {
					style = "-"
				}
				fmt.Fprintf(out, "[%s] %s\n", style, p.Text)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&headingsOnly, "headings", false, "Only print title and heading paragraphs")
	return cmd
}
