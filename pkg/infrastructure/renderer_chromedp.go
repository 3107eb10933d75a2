package infrastructure

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"resume-export/internal/render"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const (
	// A4 at 96 dpi
	viewportWidth  = 794
	viewportHeight = 1123
)

// ChromedpRenderer drives a headless Chrome per call to capture or print preview pages.
type ChromedpRenderer struct {
	chromePath string
	timeout    time.Duration
	logger     *zap.Logger
}

func NewChromedpRenderer(chromePath string, timeout time.Duration, logger *zap.Logger) *ChromedpRenderer {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChromedpRenderer{chromePath: chromePath, timeout: timeout, logger: logger}
}

// CaptureElement screenshots the element with the given id at scale device pixels per CSS pixel.
func (r *ChromedpRenderer) CaptureElement(ctx context.Context, html, elementID string, scale float64) ([]byte, error) {
	var png []byte
	err := r.run(ctx, html, func(ctx context.Context) error {
		var nodes []*cdp.Node
		if err := chromedp.Run(ctx,
			chromedp.EmulateViewport(viewportWidth, viewportHeight, chromedp.EmulateScale(scale)),
			chromedp.Nodes("#"+elementID, &nodes, chromedp.ByQuery, chromedp.AtLeast(0)),
		); err != nil {
			return err
		}
		if len(nodes) == 0 {
			return render.ErrElementNotFound
		}
		return chromedp.Run(ctx, chromedp.Screenshot("#"+elementID, &png, chromedp.ByQuery, chromedp.NodeVisible))
	})
	if err != nil {
		return nil, err
	}
	r.logger.Debug("captured preview element", zap.String("element", elementID), zap.Int("bytes", len(png)))
	return png, nil
}

// RenderHTMLToPDF prints the page on A4 paper with backgrounds.
func (r *ChromedpRenderer) RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error) {
	var pdfBuf []byte
	err := r.run(ctx, html, func(ctx context.Context) error {
		return chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4: 210mm x 297mm -> inches: 8.27 x 11.69
			pdfBuf, _, err = page.PrintToPDF().WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}))
	})
	if err != nil {
		return nil, err
	}
	return pdfBuf, nil
}

// run starts Chrome, loads html from a temporary file and hands the ready tab to fn.
func (r *ChromedpRenderer) run(ctx context.Context, html string, fn func(context.Context) error) error {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.chromePath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	cctx, cancelCtx := chromedp.NewContext(allocCtx)
	defer cancelCtx()

	tctx, cancelTimeout := context.WithTimeout(cctx, r.timeout)
	defer cancelTimeout()

	tmpDir, err := os.MkdirTemp("", "resume-export-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmpDir)

	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
		return err
	}

	if err := chromedp.Run(tctx,
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("chromedp: load preview: %w", err)
	}
	return fn(tctx)
}

