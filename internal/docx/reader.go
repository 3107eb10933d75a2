package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ParagraphText is the style and plain text of one body paragraph.
type ParagraphText struct {
	Style string
	Text  string
}

// ReadParagraphs extracts paragraph text from a packed .docx.
func ReadParagraphs(data []byte) ([]ParagraphText, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("docx: open archive: %w", err)
	}
	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return nil, errors.New("docx: word/document.xml not found")
	}
	rc, err := doc.Open()
	if err != nil {
		return nil, fmt.Errorf("docx: open document part: %w", err)
	}
	defer rc.Close()

	var (
		out    []ParagraphText
		cur    *ParagraphText
		text   strings.Builder
		inText bool
	)
	dec := xml.NewDecoder(rc)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("docx: parse document part: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				cur = &ParagraphText{}
				text.Reset()
			case "pStyle":
				if cur != nil {
					for _, a := range t.Attr {
						if a.Name.Local == "val" {
							cur.Style = a.Value
						}
					}
				}
			case "t":
				inText = true
			}
		case xml.CharData:
			if inText && cur != nil {
				text.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if cur != nil {
					cur.Text = text.String()
					out = append(out, *cur)
					cur = nil
				}
			}
		}
	}
	return out, nil
}

// Headings returns paragraphs whose style is Title or a heading.
func Headings(paras []ParagraphText) []ParagraphText {
	var out []ParagraphText
	for _, p := range paras {
		if isHeading(p.Style) {
			out = append(out, p)
		}
	}
	return out
}
