package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
)

const (
	DefaultMaxImageBytes = 5 * 1024 * 1024
	DefaultMaxImageSide  = 1200

	MaxDocumentBytes = 10 * 1024 * 1024
)

var (
	ErrFileTooLarge      = errors.New("file too large")
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

type ImageProcessor struct {
	MaxSize int64 // bytes
	MaxSide int   // longest edge in pixels after resize
}

func NewImageProcessor() *ImageProcessor {
	return &ImageProcessor{MaxSize: DefaultMaxImageBytes, MaxSide: DefaultMaxImageSide}
}

// ValidateImage accepts JPEG and PNG up to MaxSize.
func (p *ImageProcessor) ValidateImage(data []byte) error {
	if int64(len(data)) > p.MaxSize {
		return fmt.Errorf("%w: image exceeds %dMB", ErrFileTooLarge, p.MaxSize/(1024*1024))
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: not an image", ErrUnsupportedFormat)
	}
	switch format {
	case "jpeg", "png":
		return nil
	default:
		return fmt.Errorf("%w: image format %s not allowed (only jpeg/png)", ErrUnsupportedFormat, format)
	}
}

// Resize fits the image into MaxSide x MaxSide and re-encodes it as JPEG q85.
// Smaller images keep their dimensions.
func (p *ImageProcessor) Resize(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cannot decode image: %w", err)
	}

	b := img.Bounds()
	if b.Dx() > p.MaxSide || b.Dy() > p.MaxSide {
		img = imaging.Fit(img, p.MaxSide, p.MaxSide, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("cannot encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// ValidatePDF accepts PDF documents up to MaxDocumentBytes.
func ValidatePDF(data []byte) error {
	if len(data) > MaxDocumentBytes {
		return fmt.Errorf("%w: document exceeds %dMB", ErrFileTooLarge, MaxDocumentBytes/(1024*1024))
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return fmt.Errorf("%w: only PDF documents are accepted", ErrUnsupportedFormat)
	}
	return nil
}
