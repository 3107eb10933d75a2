package usecase

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"regexp"
	"strings"
	"testing"
	"time"

	"resume-export/internal/docx"
	"resume-export/internal/model"
	"resume-export/internal/model/modeltest"
	"resume-export/internal/render"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2024, 5, 17, 12, 0, 0, 0, time.UTC)

type fakeRasterizer struct {
	width, height int
	captureErr    error
	printed       []byte
	panicWith     string

	calls    int
	lastHTML string
	lastID   string
	scale    float64
}

func (f *fakeRasterizer) CaptureElement(_ context.Context, html, elementID string, scale float64) ([]byte, error) {
	f.calls++
	f.lastHTML, f.lastID, f.scale = html, elementID, scale
	if f.panicWith != "" {
		panic(f.panicWith)
	}
	if f.captureErr != nil {
		return nil, f.captureErr
	}
	if !strings.Contains(html, `id="`+elementID+`"`) {
		return nil, render.ErrElementNotFound
	}
	img := image.NewRGBA(image.Rect(0, 0, f.width, f.height))
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (f *fakeRasterizer) RenderHTMLToPDF(_ context.Context, html string) ([]byte, error) {
	f.calls++
	f.lastHTML = html
	if f.printed == nil {
		return nil, errors.New("print unavailable")
	}
	return f.printed, nil
}

func newTestExporter(t *testing.T, raster Rasterizer) *Exporter {
	t.Helper()
	e, err := NewExporter(raster, zap.NewNop(), WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	return e
}

var filenamePattern = regexp.MustCompile(`^[a-z0-9_]+_\d{4}-\d{2}-\d{2}\.(pdf|docx|json)$`)

func TestExportToDOCX_FirstHeadingIsFullName(t *testing.T) {
	e := newTestExporter(t, nil)

	res := e.ExportToDOCX(context.Background(), modeltest.Minimal())
	require.True(t, res.Success, res.Error)
	assert.Equal(t, MimeType(FormatDOCX), res.MimeType)
	assert.Equal(t, "john_doe_resume_2024-05-17.docx", res.Filename)

	paras, err := docx.ReadParagraphs(res.Blob)
	require.NoError(t, err)
	headings := docx.Headings(paras)
	require.NotEmpty(t, headings)
	assert.Equal(t, "John Doe", headings[0].Text)

	var emailAt, nameAt = -1, -1
	for i, p := range paras {
		if p.Text == "John Doe" && nameAt < 0 {
			nameAt = i
		}
		if strings.Contains(p.Text, "john@example.com") {
			emailAt = i
		}
	}
	require.GreaterOrEqual(t, nameAt, 0)
	assert.Greater(t, emailAt, nameAt)
}

func TestExportToDOCX_SkipsHiddenSectionsAndFollowsOrder(t *testing.T) {
	e := newTestExporter(t, nil)

	res := e.ExportToDOCX(context.Background(), modeltest.Full())
	require.True(t, res.Success, res.Error)

	paras, err := docx.ReadParagraphs(res.Blob)
	require.NoError(t, err)
	var all []string
	for _, p := range paras {
		all = append(all, p.Text)
	}
	joined := strings.Join(all, "\n")
	assert.NotContains(t, joined, "SECRET-HIDDEN-AWARD")

	headings := docx.Headings(paras)
	require.GreaterOrEqual(t, len(headings), 3)
	assert.Equal(t, "Jane Smith", headings[0].Text)
	assert.Equal(t, "Education", headings[1].Text)
	assert.Equal(t, "Experience", headings[2].Text)
}

func TestExportToDOCX_PageMarginsFromStyling(t *testing.T) {
	tests := []struct {
		name    string
		margins *model.Margins
		want    []string
	}{
		{name: "custom", margins: &model.Margins{Top: 10, Right: 15, Bottom: 10, Left: 15},
			want: []string{`w:top="567"`, `w:right="850"`, `w:bottom="567"`, `w:left="850"`}},
		{name: "explicit zero", margins: &model.Margins{},
			want: []string{`w:top="0"`, `w:right="0"`, `w:bottom="0"`, `w:left="0"`}},
		{name: "unset uses defaults", margins: nil,
			want: []string{`w:top="1134"`, `w:right="1134"`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := modeltest.Minimal()
			r.Styling.Margins = tt.margins

			res := newTestExporter(t, nil).ExportToDOCX(context.Background(), r)
			require.True(t, res.Success, res.Error)

			body := documentPart(t, res.Blob)
			pgMar := regexp.MustCompile(`<w:pgMar[^>]*>`).FindString(body)
			require.NotEmpty(t, pgMar, "section has no page margins")
			for _, w := range tt.want {
				assert.Contains(t, pgMar, w)
			}
		})
	}
}

func documentPart(t *testing.T, blob []byte) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(blob), int64(len(blob)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(b)
	}
	t.Fatal("word/document.xml not found")
	return ""
}

func TestExportToJSON_RoundTrip(t *testing.T) {
	e := newTestExporter(t, nil)
	in := modeltest.Full()

	res := e.ExportToJSON(context.Background(), in)
	require.True(t, res.Success, res.Error)
	assert.Equal(t, "application/json", res.MimeType)
	assert.True(t, filenamePattern.MatchString(res.Filename), res.Filename)
	assert.Contains(t, string(res.Blob), "\n  \"title\"")

	var out model.Resume
	require.NoError(t, json.Unmarshal(res.Blob, &out))
	if diff := cmp.Diff(*in, out); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	// hidden sections are part of the data export
	assert.Contains(t, string(res.Blob), "SECRET-HIDDEN-AWARD")
}

func TestExportToJSON_KeepsEmptyListsAndStrings(t *testing.T) {
	raw := []byte(`{"title":"Edge","sections":[
		{"id":"pi","type":"personal_info","title":"Personal","visible":true,"order":0,
		 "content":{"full_name":"A B","email":"a@b.co","phone":"","summary":""}},
		{"id":"edu","type":"education","title":"Education","visible":true,"order":1,
		 "content":[{"institution":"U","degree":"B","achievements":[]}]},
		{"id":"proj","type":"projects","title":"Projects","visible":true,"order":2,
		 "content":[{"name":"P","technologies":[],"highlights":[]}]}
	]}`)
	in, err := model.ParseResume(raw)
	require.NoError(t, err)

	res := newTestExporter(t, nil).ExportToJSON(context.Background(), in)
	require.True(t, res.Success, res.Error)

	var out model.Resume
	require.NoError(t, json.Unmarshal(res.Blob, &out))
	if diff := cmp.Diff(*in, out); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	edu := out.Sections[1].Content.(model.EducationList)
	assert.NotNil(t, edu[0].Achievements)
	assert.Empty(t, edu[0].Achievements)

	blob := string(res.Blob)
	assert.Contains(t, blob, `"achievements": []`)
	assert.Contains(t, blob, `"technologies": []`)
	assert.Contains(t, blob, `"phone": ""`)
	assert.Contains(t, blob, `"summary": ""`)
}

func TestExportToPDF_Success(t *testing.T) {
	raster := &fakeRasterizer{width: 100, height: 300}
	e := newTestExporter(t, raster)

	res := e.ExportToPDF(context.Background(), modeltest.Full(), "resume-preview")
	require.True(t, res.Success, res.Error)
	assert.True(t, bytes.HasPrefix(res.Blob, []byte("%PDF")))
	assert.Equal(t, 3, res.Pages)
	assert.Equal(t, "application/pdf", res.MimeType)
	assert.Equal(t, "jane_smith___backend_engineer__2024-05-17.pdf", res.Filename)
	assert.Equal(t, CaptureScale, raster.scale)
	assert.Equal(t, "resume-preview", raster.lastID)
	assert.NotContains(t, raster.lastHTML, "SECRET-HIDDEN-AWARD")
}

func TestExportToPDF_Failures(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		raster  *fakeRasterizer
		kind    ErrorKind
		message string
	}{
		{name: "empty element id", id: "", raster: &fakeRasterizer{width: 10, height: 10}, kind: KindExportFailed, message: "preview element id is required"},
		{name: "invalid element id", id: "#bad id", raster: &fakeRasterizer{width: 10, height: 10}, kind: KindExportFailed, message: "invalid preview element id"},
		{name: "element not in page", id: "missing", raster: &fakeRasterizer{captureErr: render.ErrElementNotFound}, kind: KindExportFailed, message: `preview element "missing" not found`},
		{name: "capture error", id: "resume-preview", raster: &fakeRasterizer{captureErr: errors.New("chrome crashed")}, kind: KindExportFailed, message: "chrome crashed"},
		{name: "capture panics", id: "resume-preview", raster: &fakeRasterizer{panicWith: "boom"}, kind: KindExportFailed, message: "unexpected panic"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestExporter(t, tt.raster)
			var res Result
			require.NotPanics(t, func() {
				res = e.ExportToPDF(context.Background(), modeltest.Minimal(), tt.id)
			})
			assert.False(t, res.Success)
			assert.Empty(t, res.Filename)
			assert.Nil(t, res.Blob)
			assert.Equal(t, tt.kind, res.Kind)
			assert.Contains(t, res.Error, tt.message)
			assert.Error(t, res.Err())
		})
	}
}

func TestExportToPDF_NoRasterizer(t *testing.T) {
	e := newTestExporter(t, nil)
	res := e.ExportToPDF(context.Background(), modeltest.Minimal(), "resume-preview")
	assert.False(t, res.Success)
	assert.Equal(t, KindExportFailed, res.Kind)
}

func TestExportToPrintedPDF(t *testing.T) {
	raster := &fakeRasterizer{printed: []byte("%PDF-1.7 printed")}
	e := newTestExporter(t, raster)

	res := e.Export(context.Background(), modeltest.Minimal(), "pdf", ExportOptions{PDFMode: PDFModePrint})
	require.True(t, res.Success, res.Error)
	assert.Equal(t, []byte("%PDF-1.7 printed"), res.Blob)
	assert.Contains(t, raster.lastHTML, `id="`+render.DefaultElementID+`"`)
}

func TestExport_ValidationFailures(t *testing.T) {
	e := newTestExporter(t, &fakeRasterizer{width: 10, height: 10})
	empty := &model.Resume{Title: "Empty"}

	for _, format := range Formats {
		t.Run(string(format), func(t *testing.T) {
			res := e.Export(context.Background(), nil, string(format), ExportOptions{PreviewElementID: "resume-preview"})
			assert.False(t, res.Success)
			assert.Equal(t, KindValidationFailed, res.Kind)
			assert.Empty(t, res.Filename)

			res = e.Export(context.Background(), empty, string(format), ExportOptions{PreviewElementID: "resume-preview"})
			assert.False(t, res.Success)
			assert.Equal(t, KindValidationFailed, res.Kind)
			assert.Contains(t, res.Error, "no sections")
		})
	}
}

func TestExport_UnsupportedFormat(t *testing.T) {
	e := newTestExporter(t, nil)
	res := e.Export(context.Background(), modeltest.Minimal(), "txt", ExportOptions{})
	assert.False(t, res.Success)
	assert.Equal(t, KindUnsupportedFormat, res.Kind)
	assert.Contains(t, res.Error, `"txt"`)
}

func TestExport_FilenamesMatchPattern(t *testing.T) {
	e := newTestExporter(t, &fakeRasterizer{width: 20, height: 20})
	for _, format := range Formats {
		res := e.Export(context.Background(), modeltest.Full(), string(format), ExportOptions{PreviewElementID: "resume-preview"})
		require.True(t, res.Success, res.Error)
		assert.Regexp(t, filenamePattern, res.Filename)
		assert.True(t, strings.HasSuffix(res.Filename, "."+string(format)))
	}
}

func TestGenerateFilename(t *testing.T) {
	at := time.Date(2024, 1, 2, 23, 30, 0, 0, time.FixedZone("UTC-5", -5*3600))
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{name: "punctuation", title: "Jane Smith - Backend Engineer!", want: "jane_smith___backend_engineer__2024-01-03.pdf"},
		{name: "empty title", title: "", want: "resume_2024-01-03.pdf"},
		{name: "long title", title: strings.Repeat("A", 80), want: strings.Repeat("a", 50) + "_2024-01-03.pdf"},
		{name: "non ascii", title: "Café Ünïcode", want: "caf___n_code_2024-01-03.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateFilename(&model.Resume{Title: tt.title}, FormatPDF, at)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, "resume_2024-01-03.json", GenerateFilename(nil, FormatJSON, at))
}

func TestIsFormatSupported(t *testing.T) {
	for _, f := range []string{"pdf", "docx", "json"} {
		assert.True(t, IsFormatSupported(f), f)
	}
	for _, f := range []string{"", "PDF", "txt", "doc", " pdf"} {
		assert.False(t, IsFormatSupported(f), f)
	}
}

func TestMimeType(t *testing.T) {
	assert.Equal(t, "application/pdf", MimeType(FormatPDF))
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", MimeType(FormatDOCX))
	assert.Equal(t, "application/json", MimeType(FormatJSON))
	assert.Equal(t, "application/octet-stream", MimeType("xml"))
}

func TestEstimateExportTime(t *testing.T) {
	r := modeltest.Minimal()
	assert.Equal(t, 2200*time.Millisecond, EstimateExportTime(r, FormatPDF))
	assert.Equal(t, 1200*time.Millisecond, EstimateExportTime(r, FormatDOCX))
	assert.Equal(t, 300*time.Millisecond, EstimateExportTime(r, FormatJSON))
	assert.Zero(t, EstimateExportTime(r, "txt"))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidationFailed, KindOf(validationError("x")))
	assert.Equal(t, KindExportFailed, KindOf(errors.New("plain")))

	cause := errors.New("root")
	err := exportError("wrap", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "EXPORT_FAILED: wrap: root", err.Error())
}
