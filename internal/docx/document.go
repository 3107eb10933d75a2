// Package docx lays out resume paragraphs and writes them as a Word
// document through godocx.
package docx

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/gomutex/godocx"
	gdocx "github.com/gomutex/godocx/docx"
	"github.com/gomutex/godocx/wml/ctypes"
)

// Paragraph styles understood by the godocx default template.
const (
	StyleNormal   = ""
	StyleTitle    = "Title"
	StyleHeading1 = "Heading1"
	StyleHeading2 = "Heading2"
)

// Run is a span of text sharing the same formatting.
type Run struct {
	Text   string
	Bold   bool
	Italic bool
}

type Paragraph struct {
	Style string
	// Level is the heading level for Title and heading styles.
	Level uint
	Runs  []Run
}

// Text returns the concatenated run text.
func (p Paragraph) Text() string {
	var sb strings.Builder
	for _, r := range p.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// Margins are page margins in millimetres.
type Margins struct {
	Top, Right, Bottom, Left float64
}

// Document accumulates paragraphs until Pack is called.
type Document struct {
	Margins Margins

	paragraphs []Paragraph
}

func New() *Document {
	return &Document{Margins: Margins{Top: 25.4, Right: 25.4, Bottom: 25.4, Left: 25.4}}
}

// SetMargins sets page margins in millimetres.
func (d *Document) SetMargins(top, right, bottom, left float64) {
	d.Margins = Margins{Top: top, Right: right, Bottom: bottom, Left: left}
}

func (d *Document) Add(p Paragraph) {
	d.paragraphs = append(d.paragraphs, p)
}

// Heading adds a heading paragraph. Level 0 is the document title.
func (d *Document) Heading(level uint, text string) {
	style := fmt.Sprintf("Heading%d", level)
	if level == 0 {
		style = StyleTitle
	}
	d.Add(Paragraph{Style: style, Level: level, Runs: []Run{{Text: text}}})
}

func (d *Document) Text(runs ...Run) {
	d.Add(Paragraph{Style: StyleNormal, Runs: runs})
}

// Bullet adds a list line prefixed with "• ".
func (d *Document) Bullet(text string) {
	d.Add(Paragraph{Style: StyleNormal, Runs: []Run{{Text: "• " + text}}})
}

func (d *Document) Paragraphs() []Paragraph {
	return append([]Paragraph(nil), d.paragraphs...)
}

// Pack writes the document into a .docx archive.
func (d *Document) Pack() ([]byte, error) {
	root, err := godocx.NewDocument()
	if err != nil {
		return nil, fmt.Errorf("docx: new document: %w", err)
	}

	for _, p := range d.paragraphs {
		if isHeading(p.Style) {
			if _, err := root.AddHeading(p.Text(), p.Level); err != nil {
				return nil, fmt.Errorf("docx: add heading %q: %w", p.Text(), err)
			}
			continue
		}
		writeParagraph(root.AddEmptyParagraph(), p)
	}

	setPageMargins(root, d.Margins)

	var buf bytes.Buffer
	if err := root.Write(&buf); err != nil {
		return nil, fmt.Errorf("docx: write archive: %w", err)
	}
	return buf.Bytes(), nil
}

func writeParagraph(gp *gdocx.Paragraph, p Paragraph) {
	if p.Style != "" {
		gp.Style(p.Style)
	}
	for _, r := range p.Runs {
		run := gp.AddText(r.Text)
		if r.Bold {
			run.Bold(true)
		}
		if r.Italic {
			run.Italic(true)
		}
	}
}

func setPageMargins(root *gdocx.RootDoc, m Margins) {
	body := root.Document.Body
	if body.SectPr == nil {
		body.SectPr = &ctypes.SectionProp{}
	}
	if body.SectPr.PageMargin == nil {
		body.SectPr.PageMargin = &ctypes.PageMargin{}
	}
	pm := body.SectPr.PageMargin
	pm.Top = twips(m.Top)
	pm.Right = twips(m.Right)
	pm.Bottom = twips(m.Bottom)
	pm.Left = twips(m.Left)
}

func isHeading(style string) bool {
	return style == StyleTitle || strings.HasPrefix(style, "Heading")
}

func twips(mm float64) *int {
	v := mmToTwips(mm)
	return &v
}

func mmToTwips(mm float64) int {
	return int(math.Round(mm * 1440 / 25.4))
}
