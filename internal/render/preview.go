// Package render produces the HTML preview of a resume that is rasterized
// for PDF export, and the format-neutral outline shared with DOCX export.
package render

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"regexp"
	"strconv"
	"strings"

	"resume-export/internal/model"
)

//go:embed templates/template.html templates/style.css
var templateFS embed.FS

// DefaultElementID is the id of the preview container when callers do not pick one.
const DefaultElementID = "resume-preview"

// ErrElementNotFound is returned by rasterizers when the preview page has no
// element with the requested id.
var ErrElementNotFound = errors.New("preview element not found")

var elementIDPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// ValidElementID reports whether id can be used as the preview container id.
func ValidElementID(id string) bool {
	return elementIDPattern.MatchString(id)
}

type Preview struct {
	tpl *template.Template
	css string
}

func NewPreview() (*Preview, error) {
	tpl, err := template.New("template.html").
		Funcs(template.FuncMap{"join": strings.Join}).
		ParseFS(templateFS, "templates/template.html")
	if err != nil {
		return nil, fmt.Errorf("parse preview template: %w", err)
	}
	css, err := templateFS.ReadFile("templates/style.css")
	if err != nil {
		return nil, fmt.Errorf("read preview stylesheet: %w", err)
	}
	return &Preview{tpl: tpl, css: string(css)}, nil
}

// cssVars are styling values already checked by safeFontFamily and safeColor,
// so they can be emitted into the stylesheet unescaped.
type cssVars struct {
	FontFamily   template.CSS
	FontSize     template.CSS
	LineHeight   template.CSS
	PrimaryColor template.CSS
	TextColor    template.CSS
	AccentColor  template.CSS
	MarginTop    template.CSS
	MarginRight  template.CSS
	MarginBottom template.CSS
	MarginLeft   template.CSS
}

type previewData struct {
	Title     string
	ElementID string
	CSS       cssVars
	Sections  []Block
}

// Render returns a standalone HTML page whose resume container has the given id.
func (p *Preview) Render(r *model.Resume, elementID string) (string, error) {
	if r == nil {
		return "", fmt.Errorf("render preview: nil resume")
	}
	if !ValidElementID(elementID) {
		return "", fmt.Errorf("render preview: invalid element id %q", elementID)
	}
	blocks, err := Outline(r)
	if err != nil {
		return "", fmt.Errorf("render preview: %w", err)
	}
	data := previewData{
		Title:     r.Title,
		ElementID: elementID,
		CSS:       styleVars(r.Styling),
		Sections:  blocks,
	}

	var buf bytes.Buffer
	if err := p.tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute preview template: %w", err)
	}
	html := buf.String()

	// inline the stylesheet at the top of head so the page is self-contained
	cssBlock := "<style>" + p.css + "</style>"
	if strings.Contains(html, "<head>") {
		html = strings.Replace(html, "<head>", "<head>"+cssBlock, 1)
	} else {
		html = cssBlock + html
	}
	return html, nil
}

var (
	fontFamilyPattern = regexp.MustCompile(`^(?:"[A-Za-z0-9 _-]+"|'[A-Za-z0-9 _-]+'|[A-Za-z0-9 _-]+)(?:\s*,\s*(?:"[A-Za-z0-9 _-]+"|'[A-Za-z0-9 _-]+'|[A-Za-z0-9 _-]+))*$`)
	hexColorPattern   = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3,4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	funcColorPattern  = regexp.MustCompile(`^(?:rgb|rgba|hsl|hsla)\(\s*[0-9.]+%?(?:\s*[,/ ]\s*[0-9.]+%?){2,3}\s*\)$`)
	namedColorPattern = regexp.MustCompile(`^[a-zA-Z]{3,20}$`)
)

// styleVars normalizes s and replaces anything that is not a plain font
// list, colour or number with its default.
func styleVars(s model.Styling) cssVars {
	st := s.Normalized()
	d := model.DefaultStyling()
	return cssVars{
		FontFamily:   template.CSS(safeFontFamily(st.FontFamily, d.FontFamily)),
		FontSize:     template.CSS(formatUnit(st.FontSize, "pt")),
		LineHeight:   template.CSS(formatUnit(st.LineHeight, "")),
		PrimaryColor: template.CSS(safeColor(st.PrimaryColor, d.PrimaryColor)),
		TextColor:    template.CSS(safeColor(st.TextColor, d.TextColor)),
		AccentColor:  template.CSS(safeColor(st.AccentColor, d.AccentColor)),
		MarginTop:    template.CSS(formatUnit(st.Margins.Top, "mm")),
		MarginRight:  template.CSS(formatUnit(st.Margins.Right, "mm")),
		MarginBottom: template.CSS(formatUnit(st.Margins.Bottom, "mm")),
		MarginLeft:   template.CSS(formatUnit(st.Margins.Left, "mm")),
	}
}

func safeFontFamily(v, fallback string) string {
	v = strings.TrimSpace(v)
	if len(v) > 200 || !fontFamilyPattern.MatchString(v) {
		return fallback
	}
	return v
}

func safeColor(v, fallback string) string {
	v = strings.TrimSpace(v)
	if hexColorPattern.MatchString(v) || funcColorPattern.MatchString(v) || namedColorPattern.MatchString(v) {
		return v
	}
	return fallback
}

func formatUnit(v float64, unit string) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + unit
}
