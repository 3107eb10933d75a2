package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"resume-export/internal/logging"
	"resume-export/internal/model"
	"resume-export/internal/render"
	"resume-export/internal/usecase"
	infra "resume-export/pkg/infrastructure"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newRasterizer is swapped in tests so PDF exports do not need Chrome.
var newRasterizer = func(chromePath string, timeout time.Duration, logger *zap.Logger) usecase.Rasterizer {
	return infra.NewChromedpRenderer(chromePath, timeout, logger)
}

type exportOptions struct {
	input      string
	format     string
	outDir     string
	preview    string
	mode       string
	chromePath string
	timeout    time.Duration
}

func newExportCmd() *cobra.Command {
	var opts exportOptions
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a resume JSON file to pdf, docx or json",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.input, "in", "i", "", "Path to resume JSON file (required)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "pdf", "Export format: pdf, docx or json")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", ".", "Directory to write the export into")
	cmd.Flags().StringVar(&opts.preview, "preview", render.DefaultElementID, "Preview element id captured for pdf")
	cmd.Flags().StringVar(&opts.mode, "mode", string(usecase.PDFModeRaster), "PDF mode: raster or print")
	cmd.Flags().StringVar(&opts.chromePath, "chrome-path", os.Getenv("CHROME_PATH"), "Chrome executable")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 60*time.Second, "Render timeout")

	if err := cmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}
	return cmd
}

func runExport(cmd *cobra.Command, opts exportOptions) error {
	if !usecase.IsFormatSupported(opts.format) {
		return fmt.Errorf("unsupported export format %q", opts.format)
	}
	resume, err := loadResume(opts.input)
	if err != nil {
		return err
	}
	logger, err := commandLogger(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	exporter, err := usecase.NewExporter(newRasterizer(opts.chromePath, opts.timeout, logger), logger)
	if err != nil {
		return err
	}
	res := exporter.Export(context.Background(), resume, opts.format, usecase.ExportOptions{
		PreviewElementID: opts.preview,
		PDFMode:          usecase.PDFMode(opts.mode),
	})
	if !res.Success {
		return fmt.Errorf("export failed (%s): %s", res.Kind, res.Error)
	}

	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	outPath := filepath.Join(opts.outDir, res.Filename)
	if err := os.WriteFile(outPath, res.Blob, 0o644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Wrote %s (%d bytes, %s)\n", outPath, len(res.Blob), res.MimeType)
	if res.Pages > 0 {
		fmt.Fprintf(out, "Pages: %d\n", res.Pages)
	}
	return nil
}

func loadResume(path string) (*model.Resume, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume file: %w", err)
	}
	resume, err := model.ParseResume(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid resume %s: %w", path, err)
	}
	return resume, nil
}

func commandLogger(cmd *cobra.Command) (*zap.Logger, error) {
	level, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return nil, err
	}
	return logging.New(level, true)
}
