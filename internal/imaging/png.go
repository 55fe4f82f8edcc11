// Package imaging normalizes uploaded pictures to a single encoding.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"

	// Decoders accepted on upload.
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ContentType is the media type of every normalized image.
const ContentType = "image/png"

// ErrUnsupported is returned when the input is not a decodable image,
// including truncated or corrupt files in a known format.
var ErrUnsupported = errors.New("unsupported image format")

// ToPNG decodes r and re-encodes it as PNG. It returns the encoded bytes and
// the detected source format.
func ToPNG(r io.Reader) ([]byte, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, "", ErrUnsupported
		}
		return nil, "", fmt.Errorf("%w: %v", ErrUnsupported, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, "", fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), format, nil
}
