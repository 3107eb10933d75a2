package docx

import (
	"archive/zip"
	"bytes"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPack_IsWordArchive(t *testing.T) {
	d := New()
	d.Heading(0, "Report")
	data, err := d.Pack()
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("PK")))

	body := readPart(t, data, "word/document.xml")
	assert.Contains(t, body, "Report")
	assert.NotEmpty(t, readPart(t, data, "[Content_Types].xml"))
}

func TestPack_RoundTripsParagraphs(t *testing.T) {
	d := New()
	d.Heading(0, "Jane <Smith> & Co")
	d.Heading(2, "Experience")
	d.Text(Run{Text: "Engineer", Bold: true}, Run{Text: " | Acme", Italic: true})
	d.Bullet("Shipped things")

	data, err := d.Pack()
	require.NoError(t, err)

	paras, err := ReadParagraphs(data)
	require.NoError(t, err)

	var texts []string
	for _, p := range paras {
		if p.Text != "" {
			texts = append(texts, p.Text)
		}
	}
	assert.Equal(t, []string{"Jane <Smith> & Co", "Experience", "Engineer | Acme", "• Shipped things"}, texts)

	headings := Headings(paras)
	require.Len(t, headings, 2)
	assert.Equal(t, ParagraphText{Style: StyleTitle, Text: "Jane <Smith> & Co"}, headings[0])
	assert.Equal(t, ParagraphText{Style: StyleHeading2, Text: "Experience"}, headings[1])
}

func TestPack_PageMarginsInTwips(t *testing.T) {
	d := New()
	d.SetMargins(25.4, 12.7, 25.4, 12.7)
	data, err := d.Pack()
	require.NoError(t, err)

	body := readPart(t, data, "word/document.xml")
	assert.Contains(t, body, "pgMar")
	assert.Contains(t, body, `w:top="1440"`)
	assert.Contains(t, body, `w:right="720"`)
	assert.Contains(t, body, `w:left="720"`)
}

func TestPack_RunFormatting(t *testing.T) {
	d := New()
	d.Text(Run{Text: "x", Bold: true, Italic: true})
	data, err := d.Pack()
	require.NoError(t, err)

	body := readPart(t, data, "word/document.xml")
	assert.Contains(t, body, "<w:b")
	assert.Contains(t, body, "<w:i")
}

func TestPack_ParagraphPropertiesInSchemaOrder(t *testing.T) {
	d := New()
	d.Heading(0, "Title")
	d.Heading(2, "Section")
	data, err := d.Pack()
	require.NoError(t, err)

	pPr := regexp.MustCompile(`(?s)<w:pPr>.*?</w:pPr>`)
	for _, part := range []string{"word/styles.xml", "word/document.xml"} {
		for _, block := range pPr.FindAllString(readPart(t, data, part), -1) {
			spacing, jc := strings.Index(block, "<w:spacing"), strings.Index(block, "<w:jc")
			if spacing >= 0 && jc >= 0 {
				assert.Less(t, spacing, jc, "%s: %s", part, block)
			}
		}
	}
}

func TestHeading_Styles(t *testing.T) {
	d := New()
	d.Heading(0, "Title")
	d.Heading(1, "One")
	d.Heading(2, "Two")
	got := d.Paragraphs()
	require.Len(t, got, 3)
	assert.Equal(t, StyleTitle, got[0].Style)
	assert.Equal(t, StyleHeading1, got[1].Style)
	assert.Equal(t, StyleHeading2, got[2].Style)
	assert.Equal(t, uint(2), got[2].Level)
}

func TestMMToTwips(t *testing.T) {
	assert.Equal(t, 1440, mmToTwips(25.4))
	assert.Equal(t, 567, mmToTwips(10))
	assert.Equal(t, 850, mmToTwips(15))
	assert.Equal(t, 0, mmToTwips(0))
}

func TestReadParagraphs_NotADocx(t *testing.T) {
	_, err := ReadParagraphs([]byte("plain text"))
	assert.Error(t, err)
}

func readPart(t *testing.T, data []byte, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(b)
	}
	t.Fatalf("part %s not found", name)
	return ""
}
