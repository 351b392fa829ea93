package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngOfSize(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x += 10 {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func TestValidateImage(t *testing.T) {
	p := NewImageProcessor()

	assert.NoError(t, p.ValidateImage(pngOfSize(t, 20, 20)))
	assert.ErrorIs(t, p.ValidateImage([]byte("plain text")), ErrUnsupportedFormat)

	gifBuf := new(bytes.Buffer)
	require.NoError(t, gif.Encode(gifBuf, image.NewPaletted(image.Rect(0, 0, 4, 4), []color.Color{color.Black}), nil))
	assert.ErrorIs(t, p.ValidateImage(gifBuf.Bytes()), ErrUnsupportedFormat)

	small := &ImageProcessor{MaxSize: 10, MaxSide: 100}
	assert.ErrorIs(t, small.ValidateImage(pngOfSize(t, 20, 20)), ErrFileTooLarge)
}

func TestResize(t *testing.T) {
	p := &ImageProcessor{MaxSize: DefaultMaxImageBytes, MaxSide: 100}

	out, err := p.Resize(pngOfSize(t, 400, 200))
	require.NoError(t, err)
	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 50, cfg.Height)

	out, err = p.Resize(pngOfSize(t, 40, 30))
	require.NoError(t, err)
	cfg, _, err = image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Width, "small images are not upscaled")
}

func TestValidatePDF(t *testing.T) {
	assert.NoError(t, ValidatePDF([]byte("%PDF-1.7\n...")))
	assert.ErrorIs(t, ValidatePDF([]byte("<html>")), ErrUnsupportedFormat)
	assert.ErrorIs(t, ValidatePDF(append([]byte("%PDF-"), make([]byte, MaxDocumentBytes)...)), ErrFileTooLarge)
}

func TestObjectURL(t *testing.T) {
	assert.Equal(t, "http://cdn.local/portfolio/blog/1/a.jpg", ObjectURL("http://cdn.local/", "portfolio", "/blog/1/a.jpg"))
}
