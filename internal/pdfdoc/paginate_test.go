package pdfdoc

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeLayout(t *testing.T) {
	tests := []struct {
		name  string
		w, h  int
		pages int
	}{
		{name: "shorter than a page", w: 1000, h: 800, pages: 1},
		{name: "exactly one page", w: 210, h: 297, pages: 1},
		{name: "just over one page", w: 210, h: 298, pages: 2},
		{name: "three pages", w: 1240, h: 1754 * 3, pages: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := ComputeLayout(tt.w, tt.h)
			require.NoError(t, err)
			assert.Equal(t, tt.pages, l.Pages)
			assert.Equal(t, PageWidthMM, l.ImageWidthMM)
		})
	}
}

func TestComputeLayout_InvalidSize(t *testing.T) {
	_, err := ComputeLayout(0, 100)
	assert.Error(t, err)
}

func TestLayout_Offset(t *testing.T) {
	l := Layout{Pages: 3}
	assert.Equal(t, 0.0, l.Offset(0))
	assert.Equal(t, -PageHeightMM, l.Offset(1))
	assert.Equal(t, -2*PageHeightMM, l.Offset(2))
}

func TestPaginate_MultiPage(t *testing.T) {
	// 100px wide, 300px tall -> 630mm tall at A4 width -> 3 pages
	data, pages, err := Paginate(encodePNG(t, 100, 300), Options{Title: "Jane Smith"})
	require.NoError(t, err)
	assert.Equal(t, 3, pages)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestPaginate_SinglePage(t *testing.T) {
	data, pages, err := Paginate(encodePNG(t, 200, 100), Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, pages)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestPaginate_RejectsNonPNG(t *testing.T) {
	_, _, err := Paginate([]byte("not an image"), Options{})
	assert.Error(t, err)

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4)), nil))
	_, _, err = Paginate(buf.Bytes(), Options{})
	assert.Error(t, err)

	_, _, err = Paginate(nil, Options{})
	assert.Error(t, err)
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
