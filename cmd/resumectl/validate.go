package main

import (
	"errors"
	"fmt"
	"os"

	"resume-export/internal/model"

	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <resume.json>...",
		Short: "Validate resume JSON files against the resume schema",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	failed := 0
	for _, path := range args {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		resume, err := model.ParseResume(raw)
		if err != nil {
			failed++
			fmt.Fprintf(out, "%s: INVALID\n", path)
			var schemaErr *model.SchemaError
			if errors.As(err, &schemaErr) {
				for _, v := range schemaErr.Violations {
					fmt.Fprintf(out, "  - %s\n", v)
				}
			} else {
				fmt.Fprintf(out, "  - %v\n", err)
			}
			continue
		}
		fmt.Fprintf(out, "%s: OK (%d sections, %d visible, %d words)\n",
			path, len(resume.Sections), len(resume.OrderedVisibleSections()), resume.WordCount())
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed validation", failed, len(args))
	}
	return nil
}
