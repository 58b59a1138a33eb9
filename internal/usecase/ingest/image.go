package ingest

import (
	"bytes"
	"fmt"
	"image/jpeg"

	"github.com/disintegration/imaging"

	"github.com/campusfind/refound/internal/domain"
)

const (
	embedImageSize = 224
	jpegQuality    = 80
)

// normalizeImage decodes an uploaded photo, resizes it to the embedding
// model's input size, and re-encodes it as JPEG. The normalized image is
// both what gets embedded and what gets stored for display.
func normalizeImage(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w: %v", domain.ErrInvalidInput, err)
	}

	resized := imaging.Resize(img, embedImageSize, embedImageSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}
