// Package pdfdoc lays a rasterized resume image out over A4 PDF pages.
package pdfdoc

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"math"

	"github.com/go-pdf/fpdf"
)

// A4 in millimetres.
const (
	PageWidthMM  = 210.0
	PageHeightMM = 297.0
)

const imageName = "resume-capture"

type Options struct {
	Title   string
	Author  string
	Creator string
}

// Layout describes how an image of pxW x pxH pixels is split across pages.
type Layout struct {
	ImageWidthMM  float64
	ImageHeightMM float64
	Pages         int
}

// Offset is the vertical position of the image on page i (0-based).
func (l Layout) Offset(i int) float64 {
	return -float64(i) * PageHeightMM
}

// ComputeLayout scales the image to the page width and counts how many
// full-height pages are needed to show all of it.
func ComputeLayout(pxW, pxH int) (Layout, error) {
	if pxW <= 0 || pxH <= 0 {
		return Layout{}, fmt.Errorf("invalid image size %dx%d", pxW, pxH)
	}
	h := float64(pxH) * PageWidthMM / float64(pxW)
	pages := int(math.Ceil(h/PageHeightMM - 1e-9))
	if pages < 1 {
		pages = 1
	}
	return Layout{ImageWidthMM: PageWidthMM, ImageHeightMM: h, Pages: pages}, nil
}

// Paginate embeds a PNG capture into an A4 PDF and returns the document
// bytes together with the page count.
func Paginate(png []byte, opts Options) ([]byte, int, error) {
	if len(png) == 0 {
		return nil, 0, errors.New("empty capture")
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(png))
	if err != nil {
		return nil, 0, fmt.Errorf("decode capture: %w", err)
	}
	if format != "png" {
		return nil, 0, fmt.Errorf("capture is %s, want png", format)
	}
	layout, err := ComputeLayout(cfg.Width, cfg.Height)
	if err != nil {
		return nil, 0, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	if opts.Title != "" {
		pdf.SetTitle(opts.Title, true)
	}
	if opts.Author != "" {
		pdf.SetAuthor(opts.Author, true)
	}
	if opts.Creator != "" {
		pdf.SetCreator(opts.Creator, true)
	}

	imgOpts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(imageName, imgOpts, bytes.NewReader(png))
	for i := 0; i < layout.Pages; i++ {
		pdf.AddPage()
		pdf.ImageOptions(imageName, 0, layout.Offset(i), layout.ImageWidthMM, layout.ImageHeightMM, false, imgOpts, 0, "")
	}
	if err := pdf.Error(); err != nil {
		return nil, 0, fmt.Errorf("assemble pdf: %w", err)
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, 0, fmt.Errorf("write pdf: %w", err)
	}
	return out.Bytes(), layout.Pages, nil
}
