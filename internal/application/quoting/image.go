package quoting

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	xdraw "golang.org/x/image/draw"

	"github.com/lalajet/backend/internal/domain/shared"
)

const (
	// maxImageDimension bounds the longest side of a stored image.
	maxImageDimension = 800
	// jpegQuality matches the editor's original export quality.
	jpegQuality = 82
)

// normalizeImage decodes an uploaded image, scales it down so its
// longest side is at most maxImageDimension and re-encodes it as JPEG.
// Images already within bounds are still re-encoded; storage holds one
// uniform format regardless of what was uploaded.
func normalizeImage(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, shared.NewDomainError("INVALID_IMAGE", fmt.Sprintf("Cannot decode image: %v", err))
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, shared.NewDomainError("INVALID_IMAGE", "Image has no pixels")
	}

	dw, dh := w, h
	if w > maxImageDimension || h > maxImageDimension {
		if w >= h {
			dw = maxImageDimension
			dh = h * maxImageDimension / w
		} else {
			dh = maxImageDimension
			dw = w * maxImageDimension / h
		}
		if dw < 1 {
			dw = 1
		}
		if dh < 1 {
			dh = 1
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}
