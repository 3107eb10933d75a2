package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"resume-export/internal/model"
	"resume-export/internal/pdfdoc"
	"resume-export/internal/render"

	"go.uber.org/zap"
)

// CaptureScale is the device pixel ratio used when rasterizing the preview.
const CaptureScale = 2.0

// Rasterizer turns a rendered preview page into pixels or a printed PDF.
type Rasterizer interface {
	// CaptureElement returns a PNG of the element with the given id.
	// It returns render.ErrElementNotFound when the page has no such element.
	CaptureElement(ctx context.Context, html, elementID string, scale float64) ([]byte, error)
	RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error)
}

type PDFMode string

const (
	// PDFModeRaster captures the preview as an image and paginates it.
	PDFModeRaster PDFMode = "raster"
	// PDFModePrint uses the browser print pipeline and keeps text selectable.
	PDFModePrint PDFMode = "print"
)

type ExportOptions struct {
	PreviewElementID string
	PDFMode          PDFMode
}

// Result is what every export returns. Failures never panic or return an
// error value; callers branch on Success.
type Result struct {
	Success  bool      `json:"success"`
	Blob     []byte    `json:"-"`
	Filename string    `json:"filename"`
	MimeType string    `json:"mime_type,omitempty"`
	Pages    int       `json:"pages,omitempty"`
	Error    string    `json:"error,omitempty"`
	Kind     ErrorKind `json:"kind,omitempty"`

	err error
}

// Err returns the typed error behind a failed result, or nil.
func (r Result) Err() error {
	return r.err
}

type Exporter struct {
	preview *render.Preview
	raster  Rasterizer
	logger  *zap.Logger
	now     func() time.Time
	creator string
}

type ExporterOption func(*Exporter)

// WithClock overrides the clock used for filenames and document metadata.
func WithClock(now func() time.Time) ExporterOption {
	return func(e *Exporter) { e.now = now }
}

func WithCreator(name string) ExporterOption {
	return func(e *Exporter) { e.creator = name }
}

func NewExporter(raster Rasterizer, logger *zap.Logger, opts ...ExporterOption) (*Exporter, error) {
	preview, err := render.NewPreview()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Exporter{
		preview: preview,
		raster:  raster,
		logger:  logger,
		now:     time.Now,
		creator: "resume-export",
	}
	for _, o := range opts {
		o(e)
	}
	return e, nil
}

// GenerateFilename names an export of r using the exporter clock.
func (e *Exporter) GenerateFilename(r *model.Resume, f Format) string {
	return GenerateFilename(r, f, e.now())
}

// Export dispatches to the exporter for format.
func (e *Exporter) Export(ctx context.Context, r *model.Resume, format string, opts ExportOptions) Result {
	switch Format(format) {
	case FormatPDF:
		if opts.PDFMode == PDFModePrint {
			return e.ExportToPrintedPDF(ctx, r)
		}
		return e.ExportToPDF(ctx, r, opts.PreviewElementID)
	case FormatDOCX:
		return e.ExportToDOCX(ctx, r)
	case FormatJSON:
		return e.ExportToJSON(ctx, r)
	}
	return e.fail(r, Format(format), &ExportError{
		Kind:    KindUnsupportedFormat,
		Message: fmt.Sprintf("unsupported export format %q", format),
	})
}

// ExportToPDF rasterizes the preview element at 2x and lays it out over A4 pages.
func (e *Exporter) ExportToPDF(ctx context.Context, r *model.Resume, previewElementID string) (res Result) {
	defer e.recoverInto(&res, r, FormatPDF)

	if err := ValidateResumeData(r); err != nil {
		return e.fail(r, FormatPDF, err)
	}
	if previewElementID == "" {
		return e.fail(r, FormatPDF, exportError("preview element id is required", nil))
	}
	if !render.ValidElementID(previewElementID) {
		return e.fail(r, FormatPDF, exportError(fmt.Sprintf("invalid preview element id %q", previewElementID), nil))
	}
	if e.raster == nil {
		return e.fail(r, FormatPDF, exportError("no rasterizer configured", nil))
	}

	html, err := e.preview.Render(r, previewElementID)
	if err != nil {
		return e.fail(r, FormatPDF, exportError("render preview", err))
	}
	capture, err := e.raster.CaptureElement(ctx, html, previewElementID, CaptureScale)
	if err != nil {
		if errors.Is(err, render.ErrElementNotFound) {
			return e.fail(r, FormatPDF, exportError(fmt.Sprintf("preview element %q not found", previewElementID), err))
		}
		return e.fail(r, FormatPDF, exportError("capture preview", err))
	}
	pdf, pages, err := pdfdoc.Paginate(capture, e.pdfOptions(r))
	if err != nil {
		return e.fail(r, FormatPDF, exportError("assemble pdf", err))
	}
	e.logger.Debug("pdf export complete",
		zap.String("resume_id", r.ID.String()),
		zap.Int("pages", pages),
		zap.Int("bytes", len(pdf)))
	return e.ok(r, FormatPDF, pdf, pages)
}

// ExportToPrintedPDF renders the preview through the browser print pipeline.
func (e *Exporter) ExportToPrintedPDF(ctx context.Context, r *model.Resume) (res Result) {
	defer e.recoverInto(&res, r, FormatPDF)

	if err := ValidateResumeData(r); err != nil {
		return e.fail(r, FormatPDF, err)
	}
	if e.raster == nil {
		return e.fail(r, FormatPDF, exportError("no rasterizer configured", nil))
	}
	html, err := e.preview.Render(r, render.DefaultElementID)
	if err != nil {
		return e.fail(r, FormatPDF, exportError("render preview", err))
	}
	pdf, err := e.raster.RenderHTMLToPDF(ctx, html)
	if err != nil {
		return e.fail(r, FormatPDF, exportError("print pdf", err))
	}
	return e.ok(r, FormatPDF, pdf, 0)
}

// ExportToDOCX builds a Word document from the visible sections.
func (e *Exporter) ExportToDOCX(_ context.Context, r *model.Resume) (res Result) {
	defer e.recoverInto(&res, r, FormatDOCX)

	if err := ValidateResumeData(r); err != nil {
		return e.fail(r, FormatDOCX, err)
	}
	doc, err := BuildDOCX(r)
	if err != nil {
		return e.fail(r, FormatDOCX, exportError("build document", err))
	}
	blob, err := doc.Pack()
	if err != nil {
		return e.fail(r, FormatDOCX, exportError("pack document", err))
	}
	return e.ok(r, FormatDOCX, blob, 0)
}

// ExportToJSON serializes the whole resume, hidden sections included.
func (e *Exporter) ExportToJSON(_ context.Context, r *model.Resume) (res Result) {
	defer e.recoverInto(&res, r, FormatJSON)

	if err := ValidateResumeData(r); err != nil {
		return e.fail(r, FormatJSON, err)
	}
	blob, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return e.fail(r, FormatJSON, exportError("encode resume", err))
	}
	return e.ok(r, FormatJSON, blob, 0)
}

func (e *Exporter) pdfOptions(r *model.Resume) pdfdoc.Options {
	opts := pdfdoc.Options{Title: r.Title, Creator: e.creator}
	if pi, ok := r.PersonalInfo(); ok {
		opts.Author = pi.FullName
	}
	return opts
}

func (e *Exporter) ok(r *model.Resume, f Format, blob []byte, pages int) Result {
	return Result{
		Success:  true,
		Blob:     blob,
		Filename: e.GenerateFilename(r, f),
		MimeType: MimeType(f),
		Pages:    pages,
	}
}

func (e *Exporter) fail(r *model.Resume, f Format, err error) Result {
	kind := KindOf(err)
	fields := []zap.Field{
		zap.String("format", string(f)),
		zap.String("kind", string(kind)),
		zap.Error(err),
	}
	if r != nil {
		fields = append(fields, zap.String("resume_id", r.ID.String()), zap.Int("sections", len(r.Sections)))
	}
	e.logger.Error("resume export failed", fields...)
	return Result{Success: false, Error: err.Error(), Filename: "", Kind: kind, err: err}
}

// recoverInto converts a panic inside a third-party library into a failed Result.
func (e *Exporter) recoverInto(res *Result, r *model.Resume, f Format) {
	if p := recover(); p != nil {
		*res = e.fail(r, f, exportError("unexpected panic", fmt.Errorf("%v", p)))
	}
}
